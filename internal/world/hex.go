// Package world provides the hex grid the factions settle on.
// Uses axial coordinates (q, r); every hex also carries a numeric tile ID.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// TileID numbers hexes from 1. Zero means "no tile".
type TileID uint32

// NoTile is returned by site searches that found nothing.
const NoTile TileID = 0

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Open land, best for settlements
	TerrainForest                  // Settleable
	TerrainMountain                // Settleable at a penalty
	TerrainCoast                   // Land next to ocean
	TerrainDesert                  // Harsh but settleable
	TerrainSwamp                   // Harsh but settleable
	TerrainTundra                  // Harsh but settleable
	TerrainIce                     // Never settled
	TerrainOcean                   // Never settled
)

// Hex represents a single tile on the world map.
type Hex struct {
	Tile    TileID   `json:"tile"`
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	Elevation   float64 `json:"elevation"`   // 0.0 (sea level) to 1.0 (peak)
	Rainfall    float64 `json:"rainfall"`    // 0.0 (arid) to 1.0 (tropical)
	Temperature float64 `json:"temperature"` // 0.0 (frozen) to 1.0 (hot)

	// Settlement on this hex, if any.
	SettlementID *uint64 `json:"settlement_id,omitempty"`
}

// Settleable reports whether a settlement may ever stand on this terrain.
func (t Terrain) Settleable() bool {
	return t != TerrainOcean && t != TerrainIce
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	return max(abs(a.Q-b.Q), abs(a.R-b.R), abs(a.S()-b.S()))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainPlains:
		return "Plains"
	case TerrainForest:
		return "Forest"
	case TerrainMountain:
		return "Mountain"
	case TerrainCoast:
		return "Coast"
	case TerrainDesert:
		return "Desert"
	case TerrainSwamp:
		return "Swamp"
	case TerrainTundra:
		return "Tundra"
	case TerrainIce:
		return "Ice"
	case TerrainOcean:
		return "Ocean"
	default:
		return "Unknown"
	}
}
