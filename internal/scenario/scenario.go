// Package scenario holds the per-game scenario record: a set of parts keyed
// by kind, persisted with the save.
package scenario

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCannotCoexist is returned when a part of an already-present kind is added
// and the two cannot be merged.
var ErrCannotCoexist = errors.New("scenario part cannot coexist")

// Rand is the randomness parts draw from when randomized.
type Rand interface {
	Gaussian(center, width float64) float64
	FloatRange(min, max float64) float64
}

// Part is one piece of scenario configuration.
type Part interface {
	Kind() string
	Summary() string
}

// Merger is implemented by parts that absorb a second part of their kind.
type Merger interface {
	TryMerge(other Part) bool
}

// Exclusive is implemented by parts that limit what may sit beside them.
type Exclusive interface {
	CanCoexistWith(other Part) bool
}

// Randomizer is implemented by parts that can reroll their own values.
type Randomizer interface {
	Randomize(rng Rand)
}

// Scenario is an ordered registry of parts keyed by kind.
type Scenario struct {
	Name string

	order []string
	parts map[string][]Part
}

// New creates a scenario from parts, merging same-kind parts as it goes.
func New(name string, parts ...Part) (*Scenario, error) {
	s := &Scenario{Name: name, parts: make(map[string][]Part)}
	for _, p := range parts {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers p. If a part of the same kind exists, it is offered p to
// merge; failing that, an exclusive part rejects p with ErrCannotCoexist.
func (s *Scenario) Add(p Part) error {
	kind := p.Kind()
	for _, existing := range s.parts[kind] {
		if m, ok := existing.(Merger); ok && m.TryMerge(p) {
			return nil
		}
		if ex, ok := existing.(Exclusive); ok && !ex.CanCoexistWith(p) {
			return fmt.Errorf("%w: %s", ErrCannotCoexist, kind)
		}
	}
	if _, seen := s.parts[kind]; !seen {
		s.order = append(s.order, kind)
	}
	s.parts[kind] = append(s.parts[kind], p)
	return nil
}

// Parts returns every part in registration order.
func (s *Scenario) Parts() []Part {
	var out []Part
	for _, kind := range s.order {
		out = append(out, s.parts[kind]...)
	}
	return out
}

// Part returns the first part of kind, or nil.
func (s *Scenario) Part(kind string) Part {
	if ps := s.parts[kind]; len(ps) > 0 {
		return ps[0]
	}
	return nil
}

// KnownFactions returns the known-factions part, if the scenario has one.
func (s *Scenario) KnownFactions() (*KnownFactions, bool) {
	kf, ok := s.Part(KindKnownFactions).(*KnownFactions)
	return kf, ok
}

// PlayerArrival returns how the player's colonists arrive. Scenarios without
// an arrival part start standing.
func (s *Scenario) PlayerArrival() ArrivalMethod {
	if am, ok := s.Part(KindArriveMethod).(*ArriveMethod); ok {
		return am.Method
	}
	return ArriveStanding
}

// StartsDeployed reports whether the player begins already on the map,
// either by quick start or by drop pod.
func (s *Scenario) StartsDeployed(init GameInit) bool {
	return init.QuickStarted || s.PlayerArrival() == ArriveDropPods
}

// Randomize rerolls every part that supports it.
func (s *Scenario) Randomize(rng Rand) {
	for _, p := range s.Parts() {
		if r, ok := p.(Randomizer); ok {
			r.Randomize(rng)
		}
	}
}

// Summary joins every part's summary.
func (s *Scenario) Summary() string {
	lines := make([]string, 0, len(s.order))
	for _, p := range s.Parts() {
		lines = append(lines, p.Summary())
	}
	return strings.Join(lines, "\n")
}

// GameInit describes how the current game was started.
type GameInit struct {
	QuickStarted bool `json:"quick_started"`
}
