// Package pipeline is the dependency-ordered stage runner tying every
// stage package together against a single in-memory World and persisting
// results into worldstore, one transaction per stage group, matching the
// concurrency model's single-writer, commit-or-rollback rule.
package pipeline

import (
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/biome"
	"github.com/worldatlas/worldgen/internal/climate"
	"github.com/worldatlas/worldgen/internal/coastline"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/culture"
	"github.com/worldatlas/worldgen/internal/curve"
	"github.com/worldatlas/worldgen/internal/dissolve"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/grouping"
	"github.com/worldatlas/worldgen/internal/hydrology"
	"github.com/worldatlas/worldgen/internal/points"
	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/population"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/rivers"
	"github.com/worldatlas/worldgen/internal/settlement"
	"github.com/worldatlas/worldgen/internal/shoredist"
	"github.com/worldatlas/worldgen/internal/terrain"
	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/voronoi"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

// World holds every piece of state a generation run accumulates, threaded
// through the stage functions below in dependency order.
type World struct {
	Cfg    config.Pipeline
	Extent geomcore.Extent
	Shape  worldshape.Shape
	RNG    *rand.Rand
	Seed   int64

	// RunID identifies this generation run across repeated create/resume
	// invocations against the same world file, independent of the tile Id
	// space. Generated once in NewWorld and carried through Save/Load.
	RunID string

	Tiles      []*tilegraph.Tile
	Lakes      []*hydrology.Lake
	Rivers     []*rivers.Segment
	Cultures   []*culture.Culture
	Towns      []*settlement.Town
	Nations    []*settlement.Nation
	Subnations []*settlement.Subnation

	BiomeMatrix biome.Matrix
	Coastline   coastline.Result
	Themes      map[string]map[string]orb.MultiPolygon
}

// NewWorld runs stages 1-5 (points, Delaunay, Voronoi, tile graph, terrain)
// to produce the tile set every later stage operates on.
func NewWorld(cfg config.Pipeline, shapeKind worldshape.Kind, extent geomcore.Extent, tileCount int, seed int64, scaler terrain.Scaler) (*World, error) {
	rng := rand.New(rand.NewSource(seed))
	shape := worldshape.New(shapeKind)

	sites := points.Generate(rng, extent, tileCount)
	cells, err := voronoi.Build(shape, extent, sites)
	if err != nil {
		return nil, fmt.Errorf("pipeline: build voronoi: %w", err)
	}

	tiles := tilegraph.BuildTiles(cells)
	if err := tilegraph.CalculateNeighbors(shape, extent, tiles); err != nil {
		return nil, fmt.Errorf("pipeline: calculate neighbors: %w", err)
	}

	assignElevation(rng, tiles, scaler)

	return &World{
		Cfg:    cfg,
		Extent: extent,
		Shape:  shape,
		RNG:    rng,
		Seed:   seed,
		RunID:  uuid.NewString(),
		Tiles:  tiles,
		Themes: map[string]map[string]orb.MultiPolygon{},
	}, nil
}

// assignElevation synthesizes a Perlin-seeded terrain recipe over a field
// spanning the extent and samples it per tile, the procedural fallback
// path when no external raster elevation source is supplied.
func assignElevation(rng *rand.Rand, tiles []*tilegraph.Tile, scaler terrain.Scaler) {
	const fieldRes = 256
	continent := orb.Polygon{{
		{fieldRes * 0.1, fieldRes * 0.15},
		{fieldRes * 0.9, fieldRes * 0.15},
		{fieldRes * 0.9, fieldRes * 0.85},
		{fieldRes * 0.1, fieldRes * 0.85},
		{fieldRes * 0.1, fieldRes * 0.15},
	}}
	field := terrain.Apply(fieldRes, fieldRes, rng,
		terrain.PerlinBase(2, 2, 3, 1.0),
		terrain.Mask(continent, terrain.Range(0.6, 0.08, 6)),
		terrain.Pit(0.4, 0.12, 0.5, 0.6),
		terrain.Smooth(1.5),
		terrain.Multiply(1.2),
	)
	for _, t := range tiles {
		fx := int((t.Site.X) / maxf(1, boundsSpan(tiles)) * float64(field.Width))
		fy := int((t.Site.Y) / maxf(1, boundsSpan(tiles)) * float64(field.Height))
		raw := field.At(clampInt(fx, 0, field.Width-1), clampInt(fy, 0, field.Height-1))
		t.Elevation = raw
		t.ElevationScaled = scaler.Scale(raw)
	}
}

func boundsSpan(tiles []*tilegraph.Tile) float64 {
	if len(tiles) == 0 {
		return 1
	}
	maxX, maxY := tiles[0].Site.X, tiles[0].Site.Y
	for _, t := range tiles {
		if t.Site.X > maxX {
			maxX = t.Site.X
		}
		if t.Site.Y > maxY {
			maxY = t.Site.Y
		}
	}
	if maxX > maxY {
		return maxX
	}
	return maxY
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sizeVariance draws the nation expansionism jitter from the same
// Perlin noise dependency the terrain recipe uses, per SPEC_FULL's domain
// stack wiring, rather than a second independent RNG draw.
func sizeVariance(rng *rand.Rand) func() float64 {
	p := perlin.NewPerlin(2, 2, 2, rng.Int63())
	x := 0.0
	return func() float64 {
		x += 0.37
		return 1 + 0.5*p.Noise1D(x)
	}
}

// StageCoastline runs §4.6's ocean/land classification and outline build.
func (w *World) StageCoastline(obs progressobs.Observer) {
	obs.Announce("coastline")
	coastline.MarkOceans(w.Tiles)
	w.Coastline = coastline.Build(w.Tiles, curve.ChaikinSmoother{}, w.Cfg.BezierScale)
}

// StageClimate runs §4.6's temperature/wind/precipitation assignment.
func (w *World) StageClimate(obs progressobs.Observer) {
	obs.Announce("climate")
	climate.AssignTemperatures(w.Cfg.Climate, w.Tiles)
	climate.AssignPrecipitation(w.Cfg.Climate, w.Tiles)
}

// StageHydrology runs §4.7-4.8's water flow accumulation and lake fill.
func (w *World) StageHydrology(obs progressobs.Observer) {
	obs.Announce("hydrology")
	seeds := hydrology.GenerateWaterFlow(w.Tiles)
	w.Lakes = hydrology.GenerateLakes(w.Tiles, seeds, w.Cfg.Lake, w.Cfg.LakeBufferScale)
}

// StageRivers runs §4.9's segment enumeration, topology classification,
// and geometry construction.
func (w *World) StageRivers(obs progressobs.Observer) {
	obs.Announce("rivers")
	segments := rivers.Enumerate(w.Tiles, w.Lakes)
	rivers.Classify(segments)

	lakeOf := make(map[tilegraph.Id]int, len(w.Tiles))
	for _, t := range w.Tiles {
		if t.LakeID != nil {
			lakeOf[t.ID] = *t.LakeID
		}
	}
	sameLake := func(a, b tilegraph.Id) bool {
		la, ok1 := lakeOf[a]
		lb, ok2 := lakeOf[b]
		return ok1 && ok2 && la == lb
	}

	sites := make(map[tilegraph.Id]orb.Point, len(w.Tiles))
	for _, t := range w.Tiles {
		sites[t.ID] = orb.Point{t.Site.X, t.Site.Y}
	}
	siteOf := func(id tilegraph.Id) (orb.Point, bool) { p, ok := sites[id]; return p, ok }

	rivers.BuildGeometry(segments, siteOf, sameLake, curve.ChaikinSmoother{}, w.Cfg.BezierScale)
	w.Rivers = segments
}

// StageShoreDistance runs §4.10's two-wave BFS.
func (w *World) StageShoreDistance(obs progressobs.Observer) {
	obs.Announce("shore-distance")
	shoredist.Compute(w.Shape, w.Tiles)
}

// StageGrouping runs §4.11's flood-fill classification.
func (w *World) StageGrouping(obs progressobs.Observer) {
	obs.Announce("grouping")
	grouping.Compute(w.Tiles)
}

// StageBiome runs §4.12's matrix lookup and wetland/glacier special cases.
func (w *World) StageBiome(obs progressobs.Observer) {
	obs.Announce("biome")
	if w.BiomeMatrix == (biome.Matrix{}) {
		w.BiomeMatrix = biome.DefaultMatrix()
	}
	lakesByID := lakeLookup(w.Lakes)
	biome.Assign(w.Cfg.Biome, w.BiomeMatrix, w.Tiles, lakesByID)
	w.Themes["biomes"] = biome.Dissolve(w.Tiles)
}

// StagePopulation runs §4.13's habitability and population scoring.
func (w *World) StagePopulation(obs progressobs.Observer) {
	obs.Announce("population")
	meanFlow, meanArea := population.MeanWaterFlowAndArea(w.Tiles)
	biomeHabitability := func(b string) float64 {
		switch b {
		case biome.Ocean, biome.Glacier:
			return 0
		case biome.Wetland:
			return 0.8
		default:
			return 0.5
		}
	}
	population.Assign(w.Cfg.Population, biomeHabitability, lakeLookup(w.Lakes), w.Tiles, meanFlow, meanArea)
}

// CultureTemplate is one entry of the §6 culture-set file contract: a
// named template with its polity type, preference expression and
// expansionism. StageCultures hands templates to seeds in turn (seed i gets
// template i mod len); a template carries no seed weight.
type CultureTemplate struct {
	Name         string
	Type         polity.Type
	Preference   culture.Expression
	Expansionism float64
}

// StageCultures runs §4.14's seed placement and priority-queue expansion.
func (w *World) StageCultures(obs progressobs.Observer, templates []CultureTemplate, count int, minSpacing float64) {
	obs.Announce("cultures")
	seeds := culture.SelectSeeds(w.Tiles, count, minSpacing, w.Shape, w.RNG)

	cultures := make([]culture.Culture, len(seeds))
	for i, t := range seeds {
		tmpl := templates[i%maxInt(1, len(templates))]
		cultures[i] = culture.Culture{
			ID:           tilegraph.Id(i + 1),
			Name:         tmpl.Name,
			SeedTile:     t.ID,
			Expansionism: tmpl.Expansionism,
			Type:         tmpl.Type,
		}
	}
	maxExpansionCost := float64(len(w.Tiles)) / 2 * w.Cfg.ExpansionFactor
	culture.Expand(w.Tiles, cultures, polity.DefaultCostFactors(), maxExpansionCost)

	w.Cultures = make([]*culture.Culture, len(cultures))
	for i := range cultures {
		w.Cultures[i] = &cultures[i]
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// StageTowns runs §4.15's capital/town placement.
func (w *World) StageTowns(obs progressobs.Observer, capitalCount, townCount int) {
	obs.Announce("towns")
	candidates := settlement.CandidatesForRNG(w.Tiles, w.RNG)
	capitals := settlement.PlaceCapitals(candidates, capitalCount, w.Extent.Width, w.Extent.Height, w.Shape)
	towns := settlement.PlaceTowns(candidates, capitals, townCount, w.Extent.Width, w.Extent.Height, w.Shape, w.RNG)
	w.Towns = settlement.BuildTowns(w.Shape, w.Tiles, capitals, towns, lakeLookup(w.Lakes), w.Cfg.Settlement, 10)
}

// StageNations runs §4.16's nation seeding, expansion, and border pass.
func (w *World) StageNations(obs progressobs.Observer) {
	obs.Announce("nations")
	var capitals []*settlement.Town
	capitalTiles := map[tilegraph.Id]bool{}
	for _, t := range w.Towns {
		if t.IsCapital {
			capitals = append(capitals, t)
			capitalTiles[t.TileID] = true
		}
	}
	jitter := sizeVariance(w.RNG)
	cultureByID := make(map[tilegraph.Id]polity.Type, len(w.Cultures))
	for _, c := range w.Cultures {
		cultureByID[c.ID] = c.Type
	}
	cultureType := func(id tilegraph.Id) (polity.Type, bool) {
		t, ok := cultureByID[id]
		return t, ok
	}

	nations := settlement.SeedNations(capitals, w.Tiles, cultureType, jitter, w.RNG)
	maxExpansionCost := float64(len(w.Tiles)) / 2 * w.Cfg.ExpansionFactor
	settlement.ExpandNations(w.Tiles, nations, polity.DefaultCostFactors(), maxExpansionCost)

	w.Nations = make([]*settlement.Nation, len(nations))
	for i := range nations {
		w.Nations[i] = &nations[i]
	}
	settlement.NormalizeBorders(w.Tiles, capitalTiles)
}

// StageSubnations runs §4.17's seat selection and flood-fill.
func (w *World) StageSubnations(obs progressobs.Observer, percentage float64) {
	obs.Announce("subnations")
	nations := make([]settlement.Nation, len(w.Nations))
	for i, n := range w.Nations {
		nations[i] = *n
	}
	w.Subnations = settlement.BuildSubnations(w.Tiles, nations, w.Towns, percentage)
}

// StageDissolve runs §4.18: building and smoothing the remaining themed
// outlines (culture/nation/subnation), reusing the coastline stage's
// boundary-smoothing cache so a border shared with the coastline is
// smoothed once and reused on both sides.
func (w *World) StageDissolve(obs progressobs.Observer) {
	obs.Announce("dissolve")
	w.Themes["coastlines"] = map[string]orb.MultiPolygon{
		"ocean": w.Coastline.Ocean,
		"land":  w.Coastline.Land,
	}
	w.Themes["cultures"] = w.dissolveByKey(func(t *tilegraph.Tile) (string, bool) {
		if t.CultureID == nil {
			return "", false
		}
		return idKey(*t.CultureID), true
	})
	w.Themes["nations"] = w.dissolveByKey(func(t *tilegraph.Tile) (string, bool) {
		if t.NationID == nil {
			return "", false
		}
		return idKey(*t.NationID), true
	})
	w.Themes["subnations"] = w.dissolveByKey(func(t *tilegraph.Tile) (string, bool) {
		if t.SubnationID == nil {
			return "", false
		}
		return idKey(*t.SubnationID), true
	})
}

func idKey(id tilegraph.Id) string { return fmt.Sprintf("%d", id) }

// dissolveByKey groups every tile's polygon by keyOf and dissolves+smooths
// each group, reusing the coastline stage's boundary cache so a border
// shared with the coastline outline is smoothed identically on both sides.
func (w *World) dissolveByKey(keyOf func(t *tilegraph.Tile) (string, bool)) map[string]orb.MultiPolygon {
	members := map[string][]orb.Polygon{}
	for _, t := range w.Tiles {
		key, ok := keyOf(t)
		if !ok {
			continue
		}
		members[key] = append(members[key], t.Polygon)
	}
	dissolved := dissolve.Dissolve(members)
	if w.Coastline.Cache == nil {
		w.Coastline.Cache = dissolve.NewCache()
	}
	out := make(map[string]orb.MultiPolygon, len(dissolved))
	for key, mp := range dissolved {
		out[key] = dissolve.Smooth(w.Coastline.Cache, curve.ChaikinSmoother{}, w.Cfg.BezierScale, mp)
	}
	return out
}

func lakeLookup(lakes []*hydrology.Lake) map[int]*hydrology.Lake {
	m := make(map[int]*hydrology.Lake, len(lakes))
	for _, l := range lakes {
		m[l.ID] = l
	}
	return m
}
