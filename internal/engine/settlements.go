// Settlement planning: how many bases a new faction gets and where.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/faction-discovery/internal/social"
	"github.com/talgya/faction-discovery/internal/world"
)

// DensityRange is the settlements-per-100k-tiles range a plan draws from.
type DensityRange struct {
	Min float64
	Max float64
}

// SettlementsPer100KTiles is the world-wide settlement density.
var SettlementsPer100KTiles = DensityRange{Min: 75, Max: 85}

// PlanSettlements returns how many settlements a newly created faction should
// receive. The density share shrinks as more visible factions exist, so late
// factions get fewer bases. Never below minSettlements.
func PlanSettlements(rng Rand, tileCount, visibleFactions int, density DensityRange, factor float64, minSettlements int) int {
	visibleFactions = max(1, visibleFactions)
	raw := float64(tileCount) / 100000 * rng.FloatRange(density.Min, density.Max) / float64(visibleFactions) * factor
	return max(minSettlements, rng.RoundRandom(raw))
}

// createSettlements places the planned settlements for f. Attempts that find
// no free tile are skipped; the faction may end with fewer than planned.
func (s *Simulation) createSettlements(f *social.Faction) (created, planned int) {
	planned = PlanSettlements(
		s.Rand,
		s.WorldMap.TileCount(),
		len(s.Factions.AllVisible()),
		SettlementsPer100KTiles,
		s.Settings.NewFactionSettlementFactor,
		s.Settings.MinSettlements,
	)

	for k := 0; k < planned; k++ {
		tile := s.Sites.RandomSettlementTile()
		if tile == world.NoTile {
			continue
		}
		if _, err := s.foundSettlement(f, tile); err != nil {
			slog.Warn("settlement site rejected", "faction", f.Name, "tile", tile, "error", err)
			continue
		}
		created++
	}

	slog.Info("settlements created", "faction", f.Name, "def", f.DefName(), "created", created, "planned", planned)
	s.EmitEvent("settlement", fmt.Sprintf("%s founded %d of %d planned settlements", f.Name, created, planned))
	return created, planned
}

// foundSettlement creates one settlement for f on tile.
func (s *Simulation) foundSettlement(f *social.Faction, tile world.TileID) (*social.Settlement, error) {
	hex := s.WorldMap.Tile(tile)
	if hex == nil {
		return nil, fmt.Errorf("tile %d does not exist", tile)
	}
	id := s.nextSettlementID
	if err := s.WorldMap.Occupy(tile, id); err != nil {
		return nil, err
	}
	s.nextSettlementID++

	st := &social.Settlement{
		ID:        id,
		Name:      s.Names.SettlementName(),
		FactionID: f.ID,
		Tile:      tile,
		Position:  hex.Coord,
	}
	s.Settlements = append(s.Settlements, st)
	return st, nil
}
