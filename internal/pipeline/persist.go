package pipeline

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/culture"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/hydrology"
	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/rivers"
	"github.com/worldatlas/worldgen/internal/settlement"
	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/worldshape"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

// propertiesSchema holds the run-wide parameters every later invocation
// needs to reconstruct the same World identity (extent, shape, seed); a
// tile's own data lives in the tiles layer.
func propertiesSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerProperties,
		Geometry: worldstore.GeometryNone,
		Fields: []worldstore.FieldSchema{
			{Name: "west", Type: worldstore.FieldReal},
			{Name: "south", Type: worldstore.FieldReal},
			{Name: "width", Type: worldstore.FieldReal},
			{Name: "height", Type: worldstore.FieldReal},
			{Name: "shape", Type: worldstore.FieldString},
			{Name: "seed", Type: worldstore.FieldInteger},
			{Name: "tile_count", Type: worldstore.FieldInteger},
			{Name: "run_id", Type: worldstore.FieldString},
		},
	}
}

func tilesSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerTiles,
		Geometry: worldstore.GeometryPolygon,
		Fields: []worldstore.FieldSchema{
			{Name: "site_x", Type: worldstore.FieldReal},
			{Name: "site_y", Type: worldstore.FieldReal},
			{Name: "elevation", Type: worldstore.FieldReal},
			{Name: "elevation_scaled", Type: worldstore.FieldInteger},
			{Name: "temperature", Type: worldstore.FieldReal},
			{Name: "precipitation", Type: worldstore.FieldReal},
			{Name: "water_flow", Type: worldstore.FieldReal},
			{Name: "water_accumulation", Type: worldstore.FieldReal},
			{Name: "flow_to", Type: worldstore.FieldString},
			{Name: "grouping", Type: worldstore.FieldString},
			{Name: "grouping_id", Type: worldstore.FieldInteger},
			{Name: "lake_id", Type: worldstore.FieldString},
			{Name: "shore_distance", Type: worldstore.FieldInteger},
			{Name: "closest_water", Type: worldstore.FieldString},
			{Name: "water_count", Type: worldstore.FieldInteger},
			{Name: "biome", Type: worldstore.FieldString},
			{Name: "habitability", Type: worldstore.FieldReal},
			{Name: "population", Type: worldstore.FieldInteger},
			{Name: "culture_id", Type: worldstore.FieldString},
			{Name: "nation_id", Type: worldstore.FieldString},
			{Name: "subnation_id", Type: worldstore.FieldString},
			{Name: "town_id", Type: worldstore.FieldString},
		},
	}
}

func coastlinesSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerCoastlines,
		Geometry: worldstore.GeometryMultiPolygon,
		Fields:   []worldstore.FieldSchema{{Name: "kind", Type: worldstore.FieldString}},
	}
}

func oceansSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerOceans,
		Geometry: worldstore.GeometryMultiPolygon,
		Fields:   []worldstore.FieldSchema{},
	}
}

func riversSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerRivers,
		Geometry: worldstore.GeometryLineString,
		Fields: []worldstore.FieldSchema{
			{Name: "from_tile", Type: worldstore.FieldString},
			{Name: "to_tile", Type: worldstore.FieldString},
			{Name: "from_flow", Type: worldstore.FieldReal},
			{Name: "to_flow", Type: worldstore.FieldReal},
			{Name: "from_lake", Type: worldstore.FieldBoolean},
			{Name: "from_type", Type: worldstore.FieldString},
			{Name: "to_type", Type: worldstore.FieldString},
		},
	}
}

func lakesSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerLakes,
		Geometry: worldstore.GeometryMultiPolygon,
		Fields: []worldstore.FieldSchema{
			{Name: "surface_elevation", Type: worldstore.FieldReal},
			{Name: "type", Type: worldstore.FieldString},
			{Name: "flow", Type: worldstore.FieldReal},
			{Name: "size", Type: worldstore.FieldInteger},
			{Name: "temperature", Type: worldstore.FieldReal},
			{Name: "evaporation", Type: worldstore.FieldReal},
			{Name: "outlet_tile", Type: worldstore.FieldString},
		},
	}
}

func biomesSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerBiomes,
		Geometry: worldstore.GeometryMultiPolygon,
		Fields:   []worldstore.FieldSchema{{Name: "name", Type: worldstore.FieldString}},
	}
}

func culturesSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerCultures,
		Geometry: worldstore.GeometryNone,
		Fields: []worldstore.FieldSchema{
			{Name: "name", Type: worldstore.FieldString},
			{Name: "seed_tile", Type: worldstore.FieldString},
			{Name: "expansionism", Type: worldstore.FieldReal},
			{Name: "type", Type: worldstore.FieldString},
		},
	}
}

func townsSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerTowns,
		Geometry: worldstore.GeometryPoint,
		Fields: []worldstore.FieldSchema{
			{Name: "tile_id", Type: worldstore.FieldString},
			{Name: "is_capital", Type: worldstore.FieldBoolean},
			{Name: "is_port", Type: worldstore.FieldBoolean},
			{Name: "population", Type: worldstore.FieldInteger},
		},
	}
}

func nationsSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerNations,
		Geometry: worldstore.GeometryNone,
		Fields: []worldstore.FieldSchema{
			{Name: "name", Type: worldstore.FieldString},
			{Name: "capital_town_id", Type: worldstore.FieldString},
			{Name: "capital_tile_id", Type: worldstore.FieldString},
			{Name: "expansionism", Type: worldstore.FieldReal},
			{Name: "type", Type: worldstore.FieldString},
		},
	}
}

func subnationsSchema() worldstore.LayerSchema {
	return worldstore.LayerSchema{
		Name:     worldstore.LayerSubnations,
		Geometry: worldstore.GeometryNone,
		Fields: []worldstore.FieldSchema{
			{Name: "name", Type: worldstore.FieldString},
			{Name: "parent_nation", Type: worldstore.FieldString},
			{Name: "seat_town_id", Type: worldstore.FieldString},
			{Name: "seat_tile_id", Type: worldstore.FieldString},
		},
	}
}

// Save persists the run's properties, full tile snapshot, and every
// entity collection populated so far. It first drops and recreates every
// layer, then writes all rows in one transaction. Each call therefore
// rewrites every layer from the in-memory World; collections the pipeline
// hasn't reached yet are written empty.
func (w *World) Save(store *worldstore.Store) error {
	schemas := []worldstore.LayerSchema{
		propertiesSchema(), tilesSchema(), coastlinesSchema(), oceansSchema(),
		riversSchema(), lakesSchema(), biomesSchema(), culturesSchema(),
		townsSchema(), nationsSchema(), subnationsSchema(),
	}
	for _, schema := range schemas {
		if err := store.CreateLayer(schema, true); err != nil {
			return fmt.Errorf("pipeline: create %s layer: %w", schema.Name, err)
		}
	}

	tx, err := store.Begin()
	if err != nil {
		return fmt.Errorf("pipeline: save: %w", err)
	}

	err = tx.WriteFeature(worldstore.LayerProperties, "1", nil, map[string]any{
		"west": w.Extent.West, "south": w.Extent.South,
		"width": w.Extent.Width, "height": w.Extent.Height,
		"shape": string(w.Shape.Kind()), "seed": w.Seed, "tile_count": len(w.Tiles),
		"run_id": w.RunID,
	})
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("pipeline: save properties: %w", err)
	}

	for _, t := range w.Tiles {
		if err := tx.WriteFeature(worldstore.LayerTiles, strconv.FormatUint(uint64(t.ID), 10), t.Polygon, tileFields(t)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save tile %d: %w", t.ID, err)
		}
	}

	if w.Coastline.Ocean != nil || w.Coastline.Land != nil {
		if err := tx.WriteFeature(worldstore.LayerCoastlines, "ocean", w.Coastline.Ocean, map[string]any{"kind": "ocean"}); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save coastline ocean: %w", err)
		}
		if err := tx.WriteFeature(worldstore.LayerCoastlines, "land", w.Coastline.Land, map[string]any{"kind": "land"}); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save coastline land: %w", err)
		}
		if err := tx.WriteFeature(worldstore.LayerOceans, "1", w.Coastline.Ocean, map[string]any{}); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save oceans: %w", err)
		}
	}

	for i, r := range w.Rivers {
		fields := map[string]any{
			"from_tile": idKey(r.From), "to_tile": idKey(r.To),
			"from_flow": r.FromFlow, "to_flow": r.ToFlow,
			"from_lake": worldstore.EncodeBool(r.FromLake),
			"from_type": string(r.FromType), "to_type": string(r.ToType),
		}
		if err := tx.WriteFeature(worldstore.LayerRivers, strconv.Itoa(i+1), r.Geometry, fields); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save river segment %d: %w", i, err)
		}
	}

	for _, l := range w.Lakes {
		fields := map[string]any{
			"surface_elevation": l.SurfaceElevation, "type": string(l.Type),
			"flow": l.Flow, "size": l.Size, "temperature": l.Temperature,
			"evaporation": l.Evaporation, "outlet_tile": idKey(l.OutletTile),
		}
		if err := tx.WriteFeature(worldstore.LayerLakes, strconv.Itoa(l.ID), l.Polygon, fields); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save lake %d: %w", l.ID, err)
		}
	}

	for name, poly := range w.Themes["biomes"] {
		if err := tx.WriteFeature(worldstore.LayerBiomes, name, poly, map[string]any{"name": name}); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save biome %s: %w", name, err)
		}
	}

	for _, c := range w.Cultures {
		fields := map[string]any{
			"name": c.Name, "seed_tile": idKey(c.SeedTile),
			"expansionism": c.Expansionism, "type": string(c.Type),
		}
		if err := tx.WriteFeature(worldstore.LayerCultures, idKey(c.ID), nil, fields); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save culture %d: %w", c.ID, err)
		}
	}

	for _, t := range w.Towns {
		pt := orb.Point{t.Site.X, t.Site.Y}
		fields := map[string]any{
			"tile_id": idKey(t.TileID), "is_capital": worldstore.EncodeBool(t.IsCapital),
			"is_port": worldstore.EncodeBool(t.IsPort), "population": t.Population,
		}
		if err := tx.WriteFeature(worldstore.LayerTowns, idKey(t.ID), pt, fields); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save town %d: %w", t.ID, err)
		}
	}

	for _, n := range w.Nations {
		fields := map[string]any{
			"name": n.Name, "capital_town_id": idKey(n.CapitalTownID),
			"capital_tile_id": idKey(n.CapitalTileID),
			"expansionism":    n.Expansionism, "type": string(n.Type),
		}
		if err := tx.WriteFeature(worldstore.LayerNations, idKey(n.ID), nil, fields); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save nation %d: %w", n.ID, err)
		}
	}

	for _, s := range w.Subnations {
		seatTownID := ""
		if s.SeatTownID != nil {
			seatTownID = idKey(*s.SeatTownID)
		}
		fields := map[string]any{
			"name": s.Name, "parent_nation": idKey(s.ParentNation),
			"seat_town_id": seatTownID, "seat_tile_id": idKey(s.SeatTileID),
		}
		if err := tx.WriteFeature(worldstore.LayerSubnations, idKey(s.ID), nil, fields); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("pipeline: save subnation %d: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

func tileFields(t *tilegraph.Tile) map[string]any {
	return map[string]any{
		"site_x":             t.Site.X,
		"site_y":             t.Site.Y,
		"elevation":          t.Elevation,
		"elevation_scaled":   t.ElevationScaled,
		"temperature":        t.Temperature,
		"precipitation":      t.Precipitation,
		"water_flow":         t.WaterFlow,
		"water_accumulation": t.WaterAccumulation,
		"flow_to":            encodeFlowTo(t.FlowTo),
		"grouping":           string(t.Grouping),
		"grouping_id":        t.GroupingID,
		"lake_id":            encodeOptInt(t.LakeID),
		"shore_distance":     t.ShoreDistance,
		"closest_water":      encodeNeighbor(t.ClosestWater),
		"water_count":        t.WaterCount,
		"biome":              t.Biome,
		"habitability":       t.Habitability,
		"population":         t.Population,
		"culture_id":         encodeOptID(t.CultureID),
		"nation_id":          encodeOptID(t.NationID),
		"subnation_id":       encodeOptID(t.SubnationID),
		"town_id":            encodeOptID(t.TownID),
	}
}

func encodeFlowTo(ns []tilegraph.Neighbor) string {
	parts := make([]string, 0, len(ns))
	for _, n := range ns {
		parts = append(parts, encodeNeighbor(&n))
	}
	return strings.Join(parts, ";")
}

func encodeNeighbor(n *tilegraph.Neighbor) string {
	if n == nil {
		return ""
	}
	return strconv.FormatUint(uint64(n.Tile), 10)
}

func encodeOptInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func encodeOptID(v *tilegraph.Id) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

// Load reconstructs a World from a previously Save'd world file: tile
// polygons and scalar fields come back from the tiles layer, and the
// neighbor graph is rebuilt by CalculateNeighbors, a pure function of the
// polygons and shape that needs no adjacency data of its own persisted.
func Load(store *worldstore.Store, cfg config.Pipeline) (*World, error) {
	propRows, err := store.ReadLayer(propertiesSchema())
	if err != nil {
		return nil, fmt.Errorf("pipeline: load properties: %w", err)
	}
	if len(propRows) == 0 {
		return nil, fmt.Errorf("pipeline: load: no properties row (did you run create?)")
	}
	p := propRows[0].Fields
	extent := geomcore.NewExtentFromBounds(
		asFloat(p["west"]), asFloat(p["south"]),
		asFloat(p["west"])+asFloat(p["width"]), asFloat(p["south"])+asFloat(p["height"]),
	)
	shape := worldshape.New(worldshape.Kind(asString(p["shape"])))
	seed := int64(asInt(p["seed"]))
	runID := asString(p["run_id"])
	if runID == "" {
		runID = uuid.NewString()
	}

	tileRows, err := store.ReadLayer(tilesSchema())
	if err != nil {
		return nil, fmt.Errorf("pipeline: load tiles: %w", err)
	}

	tiles := make([]*tilegraph.Tile, 0, len(tileRows))
	byClosestWater := make(map[tilegraph.Id]string, len(tileRows))
	byFlowTo := make(map[tilegraph.Id]string, len(tileRows))
	for _, row := range tileRows {
		id, _ := strconv.ParseUint(row.ID, 10, 64)
		t := &tilegraph.Tile{ID: tilegraph.Id(id)}
		if poly, ok := row.Geom.(orb.Polygon); ok {
			t.Polygon = poly
		}
		f := row.Fields
		t.Site = geomcore.Coordinate{X: asFloat(f["site_x"]), Y: asFloat(f["site_y"])}
		t.Elevation = asFloat(f["elevation"])
		t.ElevationScaled = asInt(f["elevation_scaled"])
		t.Temperature = asFloat(f["temperature"])
		t.Precipitation = asFloat(f["precipitation"])
		t.WaterFlow = asFloat(f["water_flow"])
		t.WaterAccumulation = asFloat(f["water_accumulation"])
		t.Grouping = tilegraph.GroupingKind(asString(f["grouping"]))
		t.GroupingID = asInt(f["grouping_id"])
		t.LakeID = decodeOptInt(asString(f["lake_id"]))
		t.ShoreDistance = asInt(f["shore_distance"])
		t.WaterCount = asInt(f["water_count"])
		t.Biome = asString(f["biome"])
		t.Habitability = asFloat(f["habitability"])
		t.Population = asInt(f["population"])
		t.CultureID = decodeOptID(asString(f["culture_id"]))
		t.NationID = decodeOptID(asString(f["nation_id"]))
		t.SubnationID = decodeOptID(asString(f["subnation_id"]))
		t.TownID = decodeOptID(asString(f["town_id"]))
		byClosestWater[t.ID] = asString(f["closest_water"])
		byFlowTo[t.ID] = asString(f["flow_to"])
		tiles = append(tiles, t)
	}

	if err := tilegraph.CalculateNeighbors(shape, extent, tiles); err != nil {
		return nil, fmt.Errorf("pipeline: rebuild neighbor graph: %w", err)
	}

	for _, t := range tiles {
		if raw := byClosestWater[t.ID]; raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				n := tilegraph.TileNeighbor(tilegraph.Id(id))
				t.ClosestWater = &n
			}
		}
		if raw := byFlowTo[t.ID]; raw != "" {
			for _, part := range strings.Split(raw, ";") {
				id, err := strconv.ParseUint(part, 10, 64)
				if err != nil {
					continue
				}
				t.FlowTo = append(t.FlowTo, tilegraph.TileNeighbor(tilegraph.Id(id)))
			}
		}
	}

	w := &World{
		Cfg:    cfg,
		Extent: extent,
		Shape:  shape,
		RNG:    rand.New(rand.NewSource(seed)),
		Tiles:  tiles,
		Themes: map[string]map[string]orb.MultiPolygon{},
		Seed:   seed,
		RunID:  runID,
	}

	if err := loadCoastline(store, w); err != nil {
		return nil, err
	}
	if err := loadLakes(store, w); err != nil {
		return nil, err
	}
	if err := loadRivers(store, w); err != nil {
		return nil, err
	}
	if err := loadBiomes(store, w); err != nil {
		return nil, err
	}
	if err := loadCultures(store, w); err != nil {
		return nil, err
	}
	if err := loadTowns(store, w); err != nil {
		return nil, err
	}
	if err := loadNations(store, w); err != nil {
		return nil, err
	}
	if err := loadSubnations(store, w); err != nil {
		return nil, err
	}
	return w, nil
}

func loadCoastline(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerCoastlines)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(coastlinesSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load coastlines: %w", err)
	}
	for _, row := range rows {
		mp, _ := row.Geom.(orb.MultiPolygon)
		switch asString(row.Fields["kind"]) {
		case "ocean":
			w.Coastline.Ocean = mp
		case "land":
			w.Coastline.Land = mp
		}
	}
	return nil
}

func loadLakes(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerLakes)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(lakesSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load lakes: %w", err)
	}
	for _, row := range rows {
		id, _ := strconv.Atoi(row.ID)
		mp, _ := row.Geom.(orb.MultiPolygon)
		f := row.Fields
		outlet, _ := strconv.ParseUint(asString(f["outlet_tile"]), 10, 64)
		w.Lakes = append(w.Lakes, &hydrology.Lake{
			ID:               id,
			SurfaceElevation: asFloat(f["surface_elevation"]),
			Type:             hydrology.LakeType(asString(f["type"])),
			Flow:             asFloat(f["flow"]),
			Size:             asInt(f["size"]),
			Temperature:      asFloat(f["temperature"]),
			Evaporation:      asFloat(f["evaporation"]),
			Polygon:          mp,
			OutletTile:       tilegraph.Id(outlet),
			HasOutlet:        outlet != 0,
		})
	}
	return nil
}

func loadRivers(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerRivers)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(riversSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load rivers: %w", err)
	}
	for _, row := range rows {
		f := row.Fields
		from, _ := strconv.ParseUint(asString(f["from_tile"]), 10, 64)
		to, _ := strconv.ParseUint(asString(f["to_tile"]), 10, 64)
		ls, _ := row.Geom.(orb.LineString)
		seg := &rivers.Segment{
			From:     tilegraph.Id(from),
			To:       tilegraph.Id(to),
			FromFlow: asFloat(f["from_flow"]),
			ToFlow:   asFloat(f["to_flow"]),
			FromLake: asBool(f["from_lake"]),
			FromType: rivers.EndType(asString(f["from_type"])),
			ToType:   rivers.EndType(asString(f["to_type"])),
			Geometry: ls,
		}
		w.Rivers = append(w.Rivers, seg)
	}
	return nil
}

func loadBiomes(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerBiomes)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(biomesSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load biomes: %w", err)
	}
	dissolved := make(map[string]orb.MultiPolygon, len(rows))
	for _, row := range rows {
		mp, _ := row.Geom.(orb.MultiPolygon)
		dissolved[asString(row.Fields["name"])] = mp
	}
	if len(dissolved) > 0 {
		w.Themes["biomes"] = dissolved
	}
	return nil
}

func loadCultures(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerCultures)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(culturesSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load cultures: %w", err)
	}
	for _, row := range rows {
		id, _ := strconv.ParseUint(row.ID, 10, 64)
		f := row.Fields
		seed, _ := strconv.ParseUint(asString(f["seed_tile"]), 10, 64)
		w.Cultures = append(w.Cultures, &culture.Culture{
			ID:           tilegraph.Id(id),
			Name:         asString(f["name"]),
			SeedTile:     tilegraph.Id(seed),
			Expansionism: asFloat(f["expansionism"]),
			Type:         polity.Type(asString(f["type"])),
		})
	}
	return nil
}

func loadTowns(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerTowns)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(townsSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load towns: %w", err)
	}
	for _, row := range rows {
		id, _ := strconv.ParseUint(row.ID, 10, 64)
		f := row.Fields
		tileID, _ := strconv.ParseUint(asString(f["tile_id"]), 10, 64)
		var site geomcore.Coordinate
		if pt, ok := row.Geom.(orb.Point); ok {
			site = geomcore.Coordinate{X: pt[0], Y: pt[1]}
		}
		w.Towns = append(w.Towns, &settlement.Town{
			ID:         tilegraph.Id(id),
			TileID:     tilegraph.Id(tileID),
			Site:       site,
			IsCapital:  asBool(f["is_capital"]),
			IsPort:     asBool(f["is_port"]),
			Population: asInt(f["population"]),
		})
	}
	return nil
}

func loadNations(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerNations)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(nationsSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load nations: %w", err)
	}
	for _, row := range rows {
		id, _ := strconv.ParseUint(row.ID, 10, 64)
		f := row.Fields
		capitalTown, _ := strconv.ParseUint(asString(f["capital_town_id"]), 10, 64)
		capitalTile, _ := strconv.ParseUint(asString(f["capital_tile_id"]), 10, 64)
		w.Nations = append(w.Nations, &settlement.Nation{
			ID:            tilegraph.Id(id),
			Name:          asString(f["name"]),
			CapitalTownID: tilegraph.Id(capitalTown),
			CapitalTileID: tilegraph.Id(capitalTile),
			Expansionism:  asFloat(f["expansionism"]),
			Type:          polity.Type(asString(f["type"])),
		})
	}
	return nil
}

func loadSubnations(store *worldstore.Store, w *World) error {
	has, err := store.HasLayer(worldstore.LayerSubnations)
	if err != nil || !has {
		return err
	}
	rows, err := store.ReadLayer(subnationsSchema())
	if err != nil {
		return fmt.Errorf("pipeline: load subnations: %w", err)
	}
	for _, row := range rows {
		id, _ := strconv.ParseUint(row.ID, 10, 64)
		f := row.Fields
		parent, _ := strconv.ParseUint(asString(f["parent_nation"]), 10, 64)
		seatTile, _ := strconv.ParseUint(asString(f["seat_tile_id"]), 10, 64)
		sub := &settlement.Subnation{
			ID:           tilegraph.Id(id),
			Name:         asString(f["name"]),
			ParentNation: tilegraph.Id(parent),
			SeatTileID:   tilegraph.Id(seatTile),
		}
		if raw := asString(f["seat_town_id"]); raw != "" {
			seatTown, err := strconv.ParseUint(raw, 10, 64)
			if err == nil {
				seatID := tilegraph.Id(seatTown)
				sub.SeatTownID = &seatID
			}
		}
		w.Subnations = append(w.Subnations, sub)
	}
	return nil
}

func decodeOptInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func decodeOptID(s string) *tilegraph.Id {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil
	}
	id := tilegraph.Id(n)
	return &id
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case nil:
		return 0
	default:
		f, _ := worldstore.ParseFloat(fmt.Sprint(v))
		return f
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case nil:
		return 0
	default:
		i, _ := strconv.Atoi(fmt.Sprint(v))
		return i
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
