// Archetype selection: picks which faction archetype to instantiate next,
// biased toward archetypes the world has few of.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/faction-discovery/internal/entropy"
	"github.com/talgya/faction-discovery/internal/social"
)

// ErrNoCandidates is returned when no archetype passes the selection filter.
var ErrNoCandidates = errors.New("no faction archetype qualifies")

// minFactionChance keeps common archetypes possible.
const minFactionChance = 0.1

// Qualifier restricts which archetypes a selection may return.
type Qualifier func(a *social.Archetype) bool

// Candidates returns the archetypes that may be created: randomly makeable,
// accepted by q, and at game start still under their start cap.
func (s *Simulation) Candidates(q Qualifier, isGameStart bool) []*social.Archetype {
	var out []*social.Archetype
	for _, a := range s.Factions.Archetypes() {
		if !a.CanMakeRandomly || !q(a) {
			continue
		}
		if isGameStart && s.Factions.Count(a) >= a.MaxCountAtGameStart {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SelectArchetype picks one candidate archetype. On an empty world the pick
// is uniform; otherwise it is weighted by FactionChance.
func (s *Simulation) SelectArchetype(q Qualifier, isGameStart bool) (*social.Archetype, error) {
	candidates := s.Candidates(q, isGameStart)
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	if len(s.Factions.All()) == 0 {
		return candidates[s.Rand.Intn(len(candidates))], nil
	}

	weights := s.ArchetypeWeights(candidates)
	idx := s.Rand.WeightedIndex(weights)
	if idx < 0 {
		// Weights are floored above zero, so this is a broken Rand.
		return nil, fmt.Errorf("weighted pick over %d candidates failed", len(candidates))
	}
	return candidates[idx], nil
}

// ArchetypeWeights returns the selection weight of each candidate.
func (s *Simulation) ArchetypeWeights(candidates []*social.Archetype) []float64 {
	visible := len(s.Factions.AllVisible())
	weights := make([]float64, len(candidates))
	for i, a := range candidates {
		weights[i] = FactionChance(s.Factions.VisibleCount(a), visible)
	}
	return weights
}

// FactionChance weighs an archetype by how rare it is among visible
// factions: 1 when absent, falling to the floor once it makes up half of them.
func FactionChance(existing, visibleTotal int) float64 {
	half := visibleTotal / 2
	chance := entropy.InverseLerp(float64(half), 0, float64(existing))
	return max(minFactionChance, chance)
}

// CreateFaction selects an archetype, creates a faction of it with the given
// relation, and settles it if visible.
func (s *Simulation) CreateFaction(kind social.RelationKind, q Qualifier, isGameStart bool, origin string) (*social.Faction, error) {
	a, err := s.SelectArchetype(q, isGameStart)
	if err != nil {
		return nil, fmt.Errorf("create %s faction: %w", kind, err)
	}

	f, err := s.addFaction(a, kind, origin)
	if err != nil {
		return nil, err
	}
	slog.Info("faction created", "faction", f.Name, "def", a.Name, "relation", kind, "origin", origin)
	return f, nil
}

// addFaction instantiates a, registers it, and places its settlements.
func (s *Simulation) addFaction(a *social.Archetype, kind social.RelationKind, origin string) (*social.Faction, error) {
	f := s.Factions.NewFaction(a)
	f.Origin = origin
	if err := s.Factions.Add(f, kind); err != nil {
		return nil, fmt.Errorf("register faction: %w", err)
	}
	s.EmitEvent("faction", fmt.Sprintf("%s (%s) appeared, %s to the player", f.Name, a.DisplayLabel(), kind))

	if !a.Hidden {
		s.createSettlements(f)
	}
	return f, nil
}
