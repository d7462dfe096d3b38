package scenario

import (
	"fmt"

	"github.com/talgya/faction-discovery/internal/entropy"
)

// KindKnownFactions is the kind key of KnownFactions.
const KindKnownFactions = "known_factions"

// Editor bounds for the faction cap.
const (
	MinFactionCap = 2
	MaxFactionCap = 50
)

// KnownFactions is how many friendly and hostile factions the player knows
// of when the game starts, and the cap on visible factions.
type KnownFactions struct {
	Friendly int `json:"factions_friendly"`
	Hostile  int `json:"factions_hostile"`
	Cap      int `json:"faction_cap"`
}

// NewKnownFactions returns the part with its defaults.
func NewKnownFactions() *KnownFactions {
	return &KnownFactions{Friendly: 1, Hostile: 1, Cap: 12}
}

// Kind implements Part.
func (k *KnownFactions) Kind() string { return KindKnownFactions }

// Summary implements Part.
func (k *KnownFactions) Summary() string {
	return fmt.Sprintf("Start knowing %d friendly and %d hostile factions.", k.Friendly, k.Hostile)
}

// Total returns the number of known factions the player is promised.
func (k *KnownFactions) Total() int {
	return k.Friendly + k.Hostile
}

// Validate checks the editor bounds.
func (k *KnownFactions) Validate() error {
	if k.Friendly < 0 {
		return fmt.Errorf("known factions: friendly %d is negative", k.Friendly)
	}
	if k.Hostile < 1 {
		return fmt.Errorf("known factions: hostile %d is below 1", k.Hostile)
	}
	if k.Cap < MinFactionCap || k.Cap > MaxFactionCap {
		return fmt.Errorf("known factions: cap %d is outside [%d, %d]", k.Cap, MinFactionCap, MaxFactionCap)
	}
	return nil
}

// Randomize rolls a total around a small mean, splits it with 20–100%
// hostile, and rolls a cap.
func (k *KnownFactions) Randomize(rng Rand) {
	total := max(2, entropy.RoundHalfEven(rng.Gaussian(1, 4.5)))
	k.Hostile = max(1, entropy.RoundHalfEven(float64(total)*rng.FloatRange(0.2, 1)))
	k.Friendly = max(0, total-k.Hostile)
	k.Cap = entropy.Clamp(entropy.RoundHalfEven(rng.Gaussian(11, 9)), MinFactionCap, MaxFactionCap)
}

// CanCoexistWith implements Exclusive: only one known-factions part per scenario.
func (k *KnownFactions) CanCoexistWith(other Part) bool {
	_, same := other.(*KnownFactions)
	return !same
}

// TryMerge implements Merger by averaging the counts. The cap is kept.
func (k *KnownFactions) TryMerge(other Part) bool {
	o, ok := other.(*KnownFactions)
	if !ok {
		return false
	}
	k.Friendly = max(0, entropy.RoundHalfEven(float64(k.Friendly+o.Friendly)/2))
	k.Hostile = max(1, entropy.RoundHalfEven(float64(k.Hostile+o.Hostile)/2))
	return true
}
