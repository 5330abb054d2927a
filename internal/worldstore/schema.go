// Package worldstore is the persistent container: a single SQLite database
// holding named layers, each with a geometry kind and a typed field schema.
// It is the sole communication medium between pipeline stages, and the unit
// of stage-resumability: a stage either commits all of its writes in one
// transaction or rolls back, leaving prior state untouched.
package worldstore

// GeometryKind describes what geometry (if any) a layer's rows carry.
type GeometryKind string

const (
	GeometryNone          GeometryKind = "none"
	GeometryPoint         GeometryKind = "point"
	GeometryLineString    GeometryKind = "linestring"
	GeometryPolygon       GeometryKind = "polygon"
	GeometryMultiPolygon  GeometryKind = "multipolygon"
)

// FieldType is one of the small set of column types the store supports.
// Tagged enums and lists are modeled as FieldString using the simple
// tagged-textual serialization in serde.go.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
	FieldReal    FieldType = "real"
	FieldBoolean FieldType = "boolean" // stored as integer 0/1
)

// FieldSchema names and types one column of a layer.
type FieldSchema struct {
	Name string
	Type FieldType
}

// LayerSchema is a named layer's geometry kind and field schema.
type LayerSchema struct {
	Name     string
	Geometry GeometryKind
	Fields   []FieldSchema
}

// Stable layer names used across the pipeline. Every stage reads and writes
// by these names rather than constructing them, so a rename here is the one
// place layer names are centralized.
const (
	LayerProperties = "properties"
	LayerPoints     = "points"
	LayerTriangles  = "triangles"
	LayerTiles      = "tiles"
	LayerCoastlines = "coastlines"
	LayerOceans     = "oceans"
	LayerRivers     = "rivers"
	LayerLakes      = "lakes"
	LayerBiomes     = "biomes"
	LayerCultures   = "cultures"
	LayerTowns      = "towns"
	LayerNations    = "nations"
	LayerSubnations = "subnations"
)
