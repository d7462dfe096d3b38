// Package social provides faction archetypes, faction instances, their
// settlements, and the directory that tracks them.
package social

import "fmt"

// CheapCombatPoints is the highest combat-group cost that still counts as cheap.
const CheapCombatPoints = 35

// IntRange is an inclusive signed integer interval.
type IntRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// String formats the range as "min~max".
func (r IntRange) String() string {
	return fmt.Sprintf("%d~%d", r.Min, r.Max)
}

// Archetype is a static faction template: what kind of faction it is and
// how many of it the generator may create.
type Archetype struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`

	IsPlayer bool `yaml:"is_player" json:"is_player"`
	Hidden   bool `yaml:"hidden" json:"hidden"`

	// Generation rules.
	CanMakeRandomly          bool `yaml:"can_make_randomly" json:"can_make_randomly"`
	RequiredCountAtGameStart int  `yaml:"required_count_at_game_start" json:"required_count_at_game_start"`
	MaxCountAtGameStart      int  `yaml:"max_count_at_game_start" json:"max_count_at_game_start"`

	// Disposition toward the player.
	StartingGoodwill  IntRange `yaml:"starting_goodwill" json:"starting_goodwill"`
	MustStartOneEnemy bool     `yaml:"must_start_one_enemy" json:"must_start_one_enemy"`
	PermanentEnemy    bool     `yaml:"permanent_enemy" json:"permanent_enemy"`

	Humanlike       bool    `yaml:"humanlike" json:"humanlike"`
	MinCombatPoints float64 `yaml:"min_combat_points" json:"min_combat_points"`
}

// CanEverBeNonHostile reports whether instances may start anything but hostile.
func (a *Archetype) CanEverBeNonHostile() bool {
	return !a.PermanentEnemy
}

// IsCheapAndHumanlike reports whether the archetype fields humans and can
// raid with a small threat budget.
func (a *Archetype) IsCheapAndHumanlike() bool {
	return a.Humanlike && a.MinCombatPoints <= CheapCombatPoints
}

// DisplayLabel returns Label, falling back to Name.
func (a *Archetype) DisplayLabel() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Name
}

// Validate checks the archetype for values the generator cannot work with.
func (a *Archetype) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("archetype has no name")
	}
	if a.StartingGoodwill.Min > a.StartingGoodwill.Max {
		return fmt.Errorf("archetype %q: goodwill range %s is inverted", a.Name, a.StartingGoodwill)
	}
	if a.RequiredCountAtGameStart < 0 || a.MaxCountAtGameStart < 0 {
		return fmt.Errorf("archetype %q: negative counts", a.Name)
	}
	return nil
}
