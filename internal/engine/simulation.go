// Package engine balances the faction population: it decides which
// archetypes to instantiate, how they regard the player, and where their
// settlements go.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/faction-discovery/internal/scenario"
	"github.com/talgya/faction-discovery/internal/settings"
	"github.com/talgya/faction-discovery/internal/social"
	"github.com/talgya/faction-discovery/internal/world"
)

// Lifecycle points that create factions.
const (
	OriginWorldLoad = "world_load"
	OriginGameStart = "game_start"
)

// Rand is the randomness the generators draw from.
type Rand interface {
	Float() float64
	Intn(n int) int
	RangeInclusive(min, max int) int
	FloatRange(min, max float64) float64
	RoundRandom(f float64) int
	WeightedIndex(weights []float64) int
}

// SiteFinder finds a free tile for a new settlement. world.NoTile means none.
type SiteFinder interface {
	RandomSettlementTile() world.TileID
}

// SettlementNamer names new settlements.
type SettlementNamer interface {
	SettlementName() string
}

// Simulation holds the faction world and the collaborators the balancing
// passes need. Passes run one at a time under mu.
type Simulation struct {
	mu sync.Mutex

	WorldMap    *world.Map
	Factions    *social.Directory
	Settlements []*social.Settlement
	Settings    settings.Settings

	Scenario *scenario.Scenario
	GameInit scenario.GameInit

	Sites   SiteFinder
	Names   SettlementNamer
	Rand    Rand
	Letters *LetterStack

	Events []Event // Recent events, trimmed to the last 1000

	// Set once known factions have been reconciled for this game.
	Reconciled bool

	nextSettlementID social.SettlementID
}

// Event is a notable occurrence during a balancing pass.
type Event struct {
	Time        time.Time `json:"time"`
	Description string    `json:"description"`
	Category    string    `json:"category"` // "faction", "settlement", "reconcile"
}

// NewSimulation wires a simulation over an existing map and directory.
// Settlements restored from a save are indexed onto the map.
func NewSimulation(m *world.Map, dir *social.Directory, set settings.Settings, rng Rand) *Simulation {
	s := &Simulation{
		WorldMap:         m,
		Factions:         dir,
		Settings:         set,
		Sites:            world.NewSiteFinder(m, rng),
		Names:            world.NewNameGenerator(rng),
		Rand:             rng,
		Letters:          NewLetterStack(),
		nextSettlementID: 1,
	}
	return s
}

// RestoreSettlements re-binds saved settlements to their tiles.
func (s *Simulation) RestoreSettlements(setts []*social.Settlement) error {
	for _, st := range setts {
		if s.Factions.Get(st.FactionID) == nil {
			return fmt.Errorf("settlement %d: unknown faction %d", st.ID, st.FactionID)
		}
		if err := s.WorldMap.Occupy(st.Tile, st.ID); err != nil {
			return fmt.Errorf("settlement %d: %w", st.ID, err)
		}
		if st.ID >= s.nextSettlementID {
			s.nextSettlementID = st.ID + 1
		}
		s.Settlements = append(s.Settlements, st)
	}
	return nil
}

// QueueLongEvent runs fn as one uninterruptible unit of work. Events never
// overlap each other or readers using View. There is no rollback: whatever
// fn created before failing stays.
func (s *Simulation) QueueLongEvent(label string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	start := time.Now()
	slog.Info("long event started", "id", id, "label", label)

	err := fn()
	if err != nil {
		slog.Error("long event failed", "id", id, "label", label, "elapsed", time.Since(start), "error", err)
		return fmt.Errorf("%s: %w", label, err)
	}
	slog.Info("long event finished", "id", id, "label", label, "elapsed", time.Since(start))
	return nil
}

// View runs fn with the simulation locked for reading.
func (s *Simulation) View(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// CheckFactions is the world-load and settings-change entry point: it tops
// up every archetype inside a long event.
func (s *Simulation) CheckFactions() error {
	if s == nil || s.Factions == nil {
		return nil
	}
	return s.QueueLongEvent("CheckFactions", func() error {
		s.EnsureAllFactionsPresent()
		return nil
	})
}

// ApplySettings replaces the settings and rebalances.
func (s *Simulation) ApplySettings(set settings.Settings) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}
	s.View(func() { s.Settings = set })
	slog.Info("settings changed", "settings", set.Values())
	return s.CheckFactions()
}

// SettlementsOf returns the settlements owned by a faction.
func (s *Simulation) SettlementsOf(id social.FactionID) []*social.Settlement {
	var out []*social.Settlement
	for _, st := range s.Settlements {
		if st.FactionID == id {
			out = append(out, st)
		}
	}
	return out
}

// EmitEvent records an event, keeping the last 1000.
func (s *Simulation) EmitEvent(category, description string) {
	s.Events = append(s.Events, Event{
		Time:        time.Now().UTC(),
		Description: description,
		Category:    category,
	})
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}
