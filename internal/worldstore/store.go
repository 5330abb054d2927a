package worldstore

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	_ "modernc.org/sqlite" // driver registration
)

// Store is a single open handle to the geospatial container. One Store is
// opened per pipeline invocation and shared (but never concurrently
// transacted) across stages.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Create opens (creating if needed) the container at path and applies the
// same write-performance pragmas the teacher's tile writer used.
func Create(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("worldstore: open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("worldstore: pragma %q: %w", p, err)
		}
	}

	return &Store{db: db, path: path}, nil
}

// Open is an alias for Create: sqlite creates the file lazily either way,
// and resumability means "edit" and "create" differ only in whether prior
// layers are expected to already exist.
func Open(path string) (*Store, error) { return Create(path) }

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// HasLayer reports whether a table for the given layer name exists.
func (s *Store) HasLayer(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("worldstore: check layer %s: %w", name, err)
	}
	return count > 0, nil
}

// CreateLayer creates (or, with overwrite, recreates) a table for schema.
// Every row gets an implicit "fid" text primary key (the Id type is a
// string because SQLite/the store has no unsigned 64-bit column).
func (s *Store) CreateLayer(schema LayerSchema, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if overwrite {
		if _, err := s.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, schema.Name)); err != nil {
			return fmt.Errorf("worldstore: drop layer %s: %w", schema.Name, err)
		}
	}

	cols := []string{`"fid" TEXT PRIMARY KEY`}
	if schema.Geometry != GeometryNone {
		cols = append(cols, `"geometry" TEXT`)
	}
	for _, f := range schema.Fields {
		cols = append(cols, fmt.Sprintf(`"%s" %s`, f.Name, sqlType(f.Type)))
	}

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (%s)`, schema.Name, joinCols(cols))
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("worldstore: create layer %s: %w", schema.Name, err)
	}
	return nil
}

func sqlType(t FieldType) string {
	switch t {
	case FieldInteger, FieldBoolean:
		return "INTEGER"
	case FieldReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func joinCols(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}

// Row is a single record read back from a layer: its id, optional geometry,
// and the typed field values keyed by field name.
type Row struct {
	ID     string
	Geom   orb.Geometry
	Fields map[string]any
}

// ReadLayer streams every row of a layer in insertion order (SQLite's
// implicit rowid order), matching the Voronoi builder's emission order that
// the ordering guarantees in the spec rely on.
func (s *Store) ReadLayer(schema LayerSchema) ([]Row, error) {
	colNames := make([]string, 0, len(schema.Fields)+1)
	colNames = append(colNames, "fid")
	hasGeom := schema.Geometry != GeometryNone
	if hasGeom {
		colNames = append(colNames, "geometry")
	}
	for _, f := range schema.Fields {
		colNames = append(colNames, f.Name)
	}

	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY rowid`, quoteList(colNames), schema.Name)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("worldstore: read layer %s: %w", schema.Name, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		scanTargets := make([]any, len(colNames))
		raw := make([]sql.NullString, len(colNames))
		for i := range raw {
			scanTargets[i] = &raw[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("worldstore: scan row in %s: %w", schema.Name, err)
		}

		row := Row{Fields: map[string]any{}}
		idx := 0
		row.ID = raw[idx].String
		idx++
		if hasGeom {
			if raw[idx].Valid && raw[idx].String != "" {
				g, err := wkt.Unmarshal(raw[idx].String)
				if err == nil {
					row.Geom = g
				}
			}
			idx++
		}
		for _, f := range schema.Fields {
			row.Fields[f.Name] = decodeField(f.Type, raw[idx])
			idx++
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func decodeField(t FieldType, v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	switch t {
	case FieldInteger:
		var n int64
		fmt.Sscanf(v.String, "%d", &n)
		return n
	case FieldBoolean:
		return v.String == "1"
	case FieldReal:
		f, _ := ParseFloat(v.String)
		return f
	default:
		return v.String
	}
}

func quoteList(names []string) string {
	out := `"` + names[0] + `"`
	for _, n := range names[1:] {
		out += `, "` + n + `"`
	}
	return out
}

// EncodeGeometry renders a geometry to the WKT text stored in the
// "geometry" column.
func EncodeGeometry(g orb.Geometry) string {
	if g == nil {
		return ""
	}
	return wkt.MarshalString(g)
}
