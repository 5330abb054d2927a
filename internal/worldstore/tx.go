package worldstore

import (
	"database/sql"
	"fmt"

	"github.com/paulmach/orb"
)

// DefaultBatchSize is the number of feature writes buffered before an
// automatic flush, mirroring the teacher writer's tile-batching constant.
const DefaultBatchSize = 500

// Tx is a single stage's writable transaction against the store. A stage
// either commits (persisting every write atomically) or rolls back (leaving
// prior state intact); there is no partial-commit path, which is how
// stage-resumability is implemented.
type Tx struct {
	store     *Store
	sqlTx     *sql.Tx
	batch     map[string][]pendingRow
	batchSize int
}

type pendingRow struct {
	id     string
	geom   orb.Geometry
	fields map[string]any
}

// Begin starts a new transaction. Only one Tx may be active per Store at a
// time, matching the single-writer model in the concurrency notes.
func (s *Store) Begin() (*Tx, error) {
	s.mu.Lock()
	sqlTx, err := s.db.Begin()
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("worldstore: begin transaction: %w", err)
	}
	return &Tx{store: s, sqlTx: sqlTx, batch: map[string][]pendingRow{}, batchSize: DefaultBatchSize}, nil
}

// WriteFeature stages a row write for layer. id is the record's Id,
// rendered as text since the store has no unsigned-integer field type.
func (tx *Tx) WriteFeature(layer, id string, geom orb.Geometry, fields map[string]any) error {
	tx.batch[layer] = append(tx.batch[layer], pendingRow{id: id, geom: geom, fields: fields})
	if len(tx.batch[layer]) >= tx.batchSize {
		return tx.flushLayer(layer)
	}
	return nil
}

func (tx *Tx) flushLayer(layer string) error {
	rows := tx.batch[layer]
	if len(rows) == 0 {
		return nil
	}

	for _, r := range rows {
		cols := []string{"fid"}
		vals := []any{r.id}
		placeholders := []string{"?"}

		if r.geom != nil {
			cols = append(cols, "geometry")
			vals = append(vals, EncodeGeometry(r.geom))
			placeholders = append(placeholders, "?")
		}
		for k, v := range r.fields {
			cols = append(cols, k)
			vals = append(vals, v)
			placeholders = append(placeholders, "?")
		}

		query := fmt.Sprintf(`INSERT OR REPLACE INTO "%s" (%s) VALUES (%s)`, layer, quoteList(cols), joinPlaceholders(placeholders))
		if _, err := tx.sqlTx.Exec(query, vals...); err != nil {
			return fmt.Errorf("worldstore: insert into %s: %w", layer, err)
		}
	}

	tx.batch[layer] = rows[:0]
	return nil
}

func joinPlaceholders(p []string) string {
	out := p[0]
	for _, v := range p[1:] {
		out += ", " + v
	}
	return out
}

// Commit flushes any buffered rows in every touched layer and commits the
// underlying SQL transaction.
func (tx *Tx) Commit() error {
	defer tx.store.mu.Unlock()
	for layer := range tx.batch {
		if err := tx.flushLayer(layer); err != nil {
			tx.sqlTx.Rollback() //nolint:errcheck
			return err
		}
	}
	if err := tx.sqlTx.Commit(); err != nil {
		return fmt.Errorf("worldstore: commit: %w", err)
	}
	return nil
}

// Rollback discards every staged write, leaving the container exactly as
// it was before the stage began.
func (tx *Tx) Rollback() error {
	defer tx.store.mu.Unlock()
	return tx.sqlTx.Rollback()
}
