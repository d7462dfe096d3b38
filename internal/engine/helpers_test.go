package engine

import (
	"testing"

	"github.com/talgya/faction-discovery/internal/entropy"
	"github.com/talgya/faction-discovery/internal/scenario"
	"github.com/talgya/faction-discovery/internal/settings"
	"github.com/talgya/faction-discovery/internal/social"
	"github.com/talgya/faction-discovery/internal/world"
)

func plainsMap(radius int) *world.Map {
	m := world.NewMap(radius)
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			c := world.HexCoord{Q: q, R: r}
			if m.InBounds(c) {
				m.Set(&world.Hex{Coord: c, Terrain: world.TerrainPlains})
			}
		}
	}
	m.Index()
	return m
}

func newTestSim(t *testing.T, seed int64, set settings.Settings, archetypes ...*social.Archetype) *Simulation {
	t.Helper()
	all := append([]*social.Archetype{{Name: "player", IsPlayer: true}}, archetypes...)
	catalog, err := social.NewCatalog(all...)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	rng := entropy.New(seed)
	names := world.NewNameGenerator(rng)
	dir := social.NewDirectory(catalog, names)
	sim := NewSimulation(plainsMap(12), dir, set, rng)
	sim.Names = names
	return sim
}

func mustAdd(t *testing.T, sim *Simulation, a *social.Archetype, kind social.RelationKind) *social.Faction {
	t.Helper()
	f := sim.Factions.NewFaction(a)
	if err := sim.Factions.Add(f, kind); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return f
}

func withScenario(t *testing.T, sim *Simulation, parts ...scenario.Part) {
	t.Helper()
	s, err := scenario.New("test", parts...)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}
	sim.Scenario = s
}

// fixedRand returns the same goodwill for every draw.
type fixedRand struct{ goodwill int }

func (f fixedRand) Float() float64                      { return 0 }
func (f fixedRand) Intn(n int) int                      { return 0 }
func (f fixedRand) RangeInclusive(min, max int) int     { return f.goodwill }
func (f fixedRand) FloatRange(min, max float64) float64 { return min }
func (f fixedRand) RoundRandom(v float64) int           { return int(v) }
func (f fixedRand) WeightedIndex(w []float64) int       { return 0 }

// scriptedSites hands out tiles in order, then NoTile.
type scriptedSites struct {
	tiles []world.TileID
	calls int
}

func (s *scriptedSites) RandomSettlementTile() world.TileID {
	s.calls++
	if len(s.tiles) == 0 {
		return world.NoTile
	}
	t := s.tiles[0]
	s.tiles = s.tiles[1:]
	return t
}

func randomArchetype(name string) *social.Archetype {
	return &social.Archetype{
		Name:                name,
		CanMakeRandomly:     true,
		MaxCountAtGameStart: 5,
		StartingGoodwill:    social.IntRange{Min: -20, Max: 60},
		Humanlike:           true,
		MinCombatPoints:     35,
	}
}
