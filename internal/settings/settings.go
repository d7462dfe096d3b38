// Package settings holds the balancing settings: named, typed, validated
// values with defaults, overridable from the environment.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Handle names, as stored in the save.
const (
	KeySettlementFactor = "newFactionSettlementFactor"
	KeyMinSettlements   = "minSettlements"
	KeyMinOfAnyFaction  = "minOfAnyFaction"
	KeyMaxOfAnyFaction  = "maxOfAnyFaction"
)

// Ceilings on the settlement settings. Each new faction's settlements are
// placed inside one long event, so these bound how long it can hold the world.
const (
	MaxSettlementFactor = 100
	MaxMinSettlements   = 1000
)

// ErrUnknownKey is returned by Set for a name with no handle.
var ErrUnknownKey = errors.New("unknown setting")

// Settings configures the population balancer and settlement planner.
type Settings struct {
	// Scales the settlement count of factions created after world generation.
	NewFactionSettlementFactor float64 `env:"FACTION_DISCOVERY_SETTLEMENT_FACTOR" envDefault:"0.7"`
	// Floor on settlements a new visible faction receives.
	MinSettlements int `env:"FACTION_DISCOVERY_MIN_SETTLEMENTS" envDefault:"3"`
	// Per-archetype instance band the balancer tops up to.
	MinOfAnyFaction int `env:"FACTION_DISCOVERY_MIN_OF_ANY_FACTION" envDefault:"1"`
	MaxOfAnyFaction int `env:"FACTION_DISCOVERY_MAX_OF_ANY_FACTION" envDefault:"1"`
}

// Default returns the shipped defaults.
func Default() Settings {
	return Settings{
		NewFactionSettlementFactor: 0.7,
		MinSettlements:             3,
		MinOfAnyFaction:            1,
		MaxOfAnyFaction:            1,
	}
}

type handle struct {
	key      string
	get      func(*Settings) string
	set      func(*Settings, string) error
	fallback func(*Settings)
}

var handles = []handle{
	{
		key: KeySettlementFactor,
		get: func(s *Settings) string { return strconv.FormatFloat(s.NewFactionSettlementFactor, 'g', -1, 64) },
		set: func(s *Settings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			if err := inRange(f, 0, MaxSettlementFactor); err != nil {
				return err
			}
			s.NewFactionSettlementFactor = f
			return nil
		},
		fallback: func(s *Settings) { s.NewFactionSettlementFactor = Default().NewFactionSettlementFactor },
	},
	{
		key:      KeyMinSettlements,
		get:      func(s *Settings) string { return strconv.Itoa(s.MinSettlements) },
		set:      intSetter(0, MaxMinSettlements, func(s *Settings, n int) { s.MinSettlements = n }),
		fallback: func(s *Settings) { s.MinSettlements = Default().MinSettlements },
	},
	{
		key:      KeyMinOfAnyFaction,
		get:      func(s *Settings) string { return strconv.Itoa(s.MinOfAnyFaction) },
		set:      intSetter(0, 5, func(s *Settings, n int) { s.MinOfAnyFaction = n }),
		fallback: func(s *Settings) { s.MinOfAnyFaction = Default().MinOfAnyFaction },
	},
	{
		key:      KeyMaxOfAnyFaction,
		get:      func(s *Settings) string { return strconv.Itoa(s.MaxOfAnyFaction) },
		set:      intSetter(1, 10, func(s *Settings, n int) { s.MaxOfAnyFaction = n }),
		fallback: func(s *Settings) { s.MaxOfAnyFaction = Default().MaxOfAnyFaction },
	},
}

// intSetter parses an int bounded to [lo, hi].
func intSetter(lo, hi int, assign func(*Settings, int)) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n < lo || n > hi {
			return fmt.Errorf("%d is outside [%d, %d]", n, lo, hi)
		}
		assign(s, n)
		return nil
	}
}

// inRange rejects NaN as well as values outside [lo, hi].
func inRange(v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return fmt.Errorf("%g is outside [%g, %g]", v, lo, hi)
	}
	return nil
}

// LoadFromEnv reads settings from the environment. Values that fail
// validation are replaced by their defaults and logged.
func LoadFromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Default(), fmt.Errorf("parse env: %w", err)
	}
	s.Sanitize()
	return s, nil
}

// Validate reports every out-of-range field.
func (s Settings) Validate() error {
	var errs []error
	for _, h := range handles {
		trial := s
		if err := h.set(&trial, h.get(&s)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.key, err))
		}
	}
	return errors.Join(errs...)
}

// Sanitize resets invalid fields to their defaults and returns their keys.
func (s *Settings) Sanitize() []string {
	var reset []string
	for _, h := range handles {
		trial := *s
		if err := h.set(&trial, h.get(s)); err != nil {
			slog.Warn("invalid setting, using default", "key", h.key, "value", h.get(s), "error", err)
			h.fallback(s)
			reset = append(reset, h.key)
		}
	}
	return reset
}

// Get returns the string form of a setting.
func (s *Settings) Get(key string) (string, error) {
	for _, h := range handles {
		if h.key == key {
			return h.get(s), nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
}

// Set validates and stores a setting. On error the value is unchanged.
func (s *Settings) Set(key, value string) error {
	for _, h := range handles {
		if h.key != key {
			continue
		}
		if err := h.set(s, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownKey, key)
}

// Values returns every setting keyed by handle name.
func (s Settings) Values() map[string]string {
	out := make(map[string]string, len(handles))
	for _, h := range handles {
		out[h.key] = h.get(&s)
	}
	return out
}

// FromValues builds settings from stored values. Missing keys keep their
// default; unparseable or invalid values fall back to the default.
func FromValues(values map[string]string) Settings {
	s := Default()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.Set(k, values[k]); err != nil {
			slog.Warn("ignoring stored setting", "key", k, "error", err)
		}
	}
	return s
}
