// Known-faction reconciliation: once per game, tops the friendly and hostile
// faction counts up to the scenario's target.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/faction-discovery/internal/social"
)

// HostileGoodwillCeiling is the goodwill minimum an archetype must fall
// below to be picked as a known hostile faction.
const HostileGoodwillCeiling = -40

var (
	// ErrAlreadyReconciled is returned on a second reconciliation in one game.
	ErrAlreadyReconciled = errors.New("known factions already reconciled")
	// ErrNoKnownFactions is returned when the scenario sets no target.
	ErrNoKnownFactions = errors.New("scenario has no known factions part")
)

// ReconcileTarget is the desired number of known factions at game start.
type ReconcileTarget struct {
	Friendly int `json:"friendly"`
	Hostile  int `json:"hostile"`
	Cap      int `json:"cap"` // Recorded with the scenario; creation ignores it
}

// Total returns the number of known factions promised to the player.
func (t ReconcileTarget) Total() int {
	return t.Friendly + t.Hostile
}

// ReconcileResult reports what a reconciliation pass did.
type ReconcileResult struct {
	Target            ReconcileTarget `json:"target"`
	FriendlyCreated   int             `json:"friendly_created"`
	HostileCreated    int             `json:"hostile_created"`
	FriendlyRemaining int             `json:"friendly_remaining"`
	HostileRemaining  int             `json:"hostile_remaining"`
	Letter            Letter          `json:"letter"`
}

// Complete reports whether every deficit was closed.
func (r ReconcileResult) Complete() bool {
	return r.FriendlyRemaining == 0 && r.HostileRemaining == 0
}

// StartGame reconciles the scenario's known factions inside a long event.
func (s *Simulation) StartGame() (ReconcileResult, error) {
	var res ReconcileResult
	err := s.QueueLongEvent("ReconcileKnownFactions", func() error {
		if s.Scenario == nil {
			return ErrNoKnownFactions
		}
		kf, ok := s.Scenario.KnownFactions()
		if !ok {
			return ErrNoKnownFactions
		}
		var err error
		res, err = s.ReconcileKnownFactions(ReconcileTarget{
			Friendly: kf.Friendly,
			Hostile:  kf.Hostile,
			Cap:      kf.Cap,
		})
		return err
	})
	return res, err
}

// ReconcileKnownFactions creates neutral and hostile factions until the
// visible counts meet target, then posts one letter announcing the total.
// A deficit that no archetype can fill is left open and reported.
func (s *Simulation) ReconcileKnownFactions(target ReconcileTarget) (ReconcileResult, error) {
	if s.Reconciled {
		return ReconcileResult{}, ErrAlreadyReconciled
	}

	res := ReconcileResult{Target: target}

	existingFriendly, existingHostile := 0, 0
	for _, f := range s.Factions.AllVisible() {
		if f.HostileToPlayer() {
			existingHostile++
		} else {
			existingFriendly++
		}
	}

	friendly := target.Friendly - existingFriendly
	for friendly > 0 {
		_, err := s.CreateFaction(social.RelationNeutral, friendlyQualifier, true, OriginGameStart)
		if errors.Is(err, ErrNoCandidates) {
			slog.Warn("no archetype can fill friendly deficit", "remaining", friendly)
			break
		}
		if err != nil {
			return res, err
		}
		res.FriendlyCreated++
		friendly--
	}
	res.FriendlyRemaining = max(0, friendly)

	hostile := target.Hostile - existingHostile
	for hostile > 0 {
		_, err := s.CreateFaction(social.RelationHostile, s.hostileQualifier(), true, OriginGameStart)
		if errors.Is(err, ErrNoCandidates) {
			slog.Warn("no archetype can fill hostile deficit", "remaining", hostile)
			break
		}
		if err != nil {
			return res, err
		}
		res.HostileCreated++
		hostile--
	}
	res.HostileRemaining = max(0, hostile)

	res.Letter = s.postDiscoveryLetter(target.Total())
	s.Reconciled = true
	s.EmitEvent("reconcile", fmt.Sprintf("known factions reconciled: %d friendly and %d hostile created",
		res.FriendlyCreated, res.HostileCreated))

	slog.Info("known factions reconciled",
		"friendly_created", res.FriendlyCreated,
		"hostile_created", res.HostileCreated,
		"friendly_remaining", res.FriendlyRemaining,
		"hostile_remaining", res.HostileRemaining,
	)
	return res, nil
}

func friendlyQualifier(a *social.Archetype) bool {
	return a.StartingGoodwill.Max >= 0
}

// hostileQualifier admits archetypes with a deeply negative goodwill floor.
// Until some faction is cheap and humanlike, only such archetypes qualify,
// so early raids stay survivable.
func (s *Simulation) hostileQualifier() Qualifier {
	needCheap := true
	for _, f := range s.Factions.All() {
		if f.Archetype.IsCheapAndHumanlike() {
			needCheap = false
			break
		}
	}
	return func(a *social.Archetype) bool {
		return a.StartingGoodwill.Min < HostileGoodwillCeiling && (!needCheap || a.IsCheapAndHumanlike())
	}
}
