// Population balancing: keeps every archetype's instance count inside the
// configured band.
package engine

import (
	"log/slog"

	"github.com/talgya/faction-discovery/internal/entropy"
	"github.com/talgya/faction-discovery/internal/social"
)

// EnsureAllFactionsPresent tops up every non-player archetype that is below
// both MinOfAnyFaction and MaxOfAnyFaction. It only ever adds factions and
// returns how many it created. Callers normally go through CheckFactions.
func (s *Simulation) EnsureAllFactionsPresent() int {
	created := 0
	for _, a := range s.Factions.Archetypes() {
		if a.IsPlayer {
			continue
		}

		count := s.Factions.Count(a)
		if count >= s.Settings.MinOfAnyFaction || count >= s.Settings.MaxOfAnyFaction {
			continue
		}

		amount := s.targetCount(a)
		for j := count; j < amount; j++ {
			kind := ResolveRelation(a, j == 0, s.Rand)
			f, err := s.addFaction(a, kind, OriginWorldLoad)
			if err != nil {
				slog.Error("failed to add faction", "def", a.Name, "error", err)
				break
			}
			created++
			slog.Info("created faction", "faction", f.Name, "def", a.DisplayLabel(), "relation", kind)
		}
	}
	if created > 0 {
		slog.Info("faction population balanced", "created", created, "total", len(s.Factions.All()))
	}
	return created
}

// targetCount is how many instances of archetype a the balancer aims for. Archetypes
// that are never made randomly only get their required instances, capped
// at MaxOfAnyFaction and never raised to MinOfAnyFaction: a catalog entry
// like empire with no required count is never created here, even though
// the band's minimum would otherwise ask for one.
func (s *Simulation) targetCount(a *social.Archetype) int {
	if !a.CanMakeRandomly {
		return min(a.RequiredCountAtGameStart, s.Settings.MaxOfAnyFaction)
	}
	amount := a.RequiredCountAtGameStart + s.Rand.RangeInclusive(0, 1)
	return entropy.Clamp(amount, s.Settings.MinOfAnyFaction, s.Settings.MaxOfAnyFaction)
}
