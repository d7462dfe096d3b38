package world

import (
	"fmt"
	"sort"
)

// Map holds the hex grid and the tile numbering over it.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Radius int               `json:"radius"`

	tiles []*Hex // tiles[id-1]
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// Set places a hex at the given coordinate. Call Index once all hexes are set.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// Index assigns tile IDs in (q, r) order so numbering is stable for a seed.
func (m *Map) Index() {
	m.tiles = make([]*Hex, 0, len(m.Hexes))
	for _, h := range m.Hexes {
		m.tiles = append(m.tiles, h)
	}
	sort.Slice(m.tiles, func(i, j int) bool {
		a, b := m.tiles[i].Coord, m.tiles[j].Coord
		if a.Q != b.Q {
			return a.Q < b.Q
		}
		return a.R < b.R
	})
	for i, h := range m.tiles {
		h.Tile = TileID(i + 1)
	}
}

// Tile returns the hex with the given ID, or nil.
func (m *Map) Tile(id TileID) *Hex {
	if id == NoTile || int(id) > len(m.tiles) {
		return nil
	}
	return m.tiles[id-1]
}

// TileCount returns the number of tiles in the world.
func (m *Map) TileCount() int {
	return len(m.Hexes)
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return max(abs(coord.Q), abs(coord.R), abs(coord.S())) <= m.Radius
}

// Settled returns the coordinates of every hex holding a settlement.
func (m *Map) Settled() []HexCoord {
	var out []HexCoord
	for _, h := range m.tiles {
		if h.SettlementID != nil {
			out = append(out, h.Coord)
		}
	}
	return out
}

// Occupy binds a settlement to a tile.
func (m *Map) Occupy(id TileID, settlementID uint64) error {
	hex := m.Tile(id)
	if hex == nil {
		return fmt.Errorf("tile %d out of range", id)
	}
	if hex.SettlementID != nil {
		return fmt.Errorf("tile %d already holds settlement %d", id, *hex.SettlementID)
	}
	sid := settlementID
	hex.SettlementID = &sid
	return nil
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, tiles=%d)", m.Radius, m.TileCount())
}
