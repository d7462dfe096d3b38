package social

import "github.com/talgya/faction-discovery/internal/world"

// SettlementID is a unique identifier for a settlement.
type SettlementID = uint64

// Settlement is a faction's home base on one world tile.
type Settlement struct {
	ID        SettlementID   `json:"id"`
	Name      string         `json:"name"`
	FactionID FactionID      `json:"faction_id"`
	Tile      world.TileID   `json:"tile"`
	Position  world.HexCoord `json:"position"`
}
