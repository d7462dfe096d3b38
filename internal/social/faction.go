package social

import "encoding/json"

// FactionID is a unique identifier for a faction.
type FactionID uint64

// RelationKind is a faction's stance toward the player.
type RelationKind uint8

const (
	RelationHostile RelationKind = iota
	RelationNeutral
	RelationAlly // Never assigned by the generator; kept for restored saves.
)

// String returns the lowercase name of the relation.
func (k RelationKind) String() string {
	switch k {
	case RelationHostile:
		return "hostile"
	case RelationNeutral:
		return "neutral"
	case RelationAlly:
		return "ally"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the relation by name.
func (k RelationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Faction is one in-world faction derived from an archetype.
type Faction struct {
	ID        FactionID    `json:"id"`
	Name      string       `json:"name"`
	Archetype *Archetype   `json:"-"`
	Relation  RelationKind `json:"relation"`

	// Lifecycle point that created the faction ("world_load", "game_start", ...).
	Origin string `json:"origin,omitempty"`
}

// DefName returns the archetype name, or "" for a detached faction.
func (f *Faction) DefName() string {
	if f.Archetype == nil {
		return ""
	}
	return f.Archetype.Name
}

// IsPlayer reports whether this is the player's own faction.
func (f *Faction) IsPlayer() bool {
	return f.Archetype != nil && f.Archetype.IsPlayer
}

// Hidden reports whether the faction is invisible to the player.
func (f *Faction) Hidden() bool {
	return f.Archetype != nil && f.Archetype.Hidden
}

// Visible reports whether the faction is a non-hidden, non-player faction.
func (f *Faction) Visible() bool {
	return !f.Hidden() && !f.IsPlayer()
}

// HostileToPlayer reports whether the faction starts hostile to the player.
func (f *Faction) HostileToPlayer() bool {
	return f.Relation == RelationHostile
}
