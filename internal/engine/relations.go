package engine

import "github.com/talgya/faction-discovery/internal/social"

// ResolveRelation decides how a new faction of archetype a starts toward the
// player. Permanent enemies are always hostile, as is the first of an
// archetype that must start with one enemy. Everyone else rolls goodwill.
func ResolveRelation(a *social.Archetype, firstOfKind bool, rng Rand) social.RelationKind {
	if !a.CanEverBeNonHostile() {
		return social.RelationHostile
	}
	if firstOfKind && a.MustStartOneEnemy {
		return social.RelationHostile
	}
	return RelationForGoodwill(rng.RangeInclusive(a.StartingGoodwill.Min, a.StartingGoodwill.Max))
}

// RelationForGoodwill maps a goodwill draw to a relation.
func RelationForGoodwill(goodwill int) social.RelationKind {
	if goodwill > 0 {
		return social.RelationNeutral
	}
	return social.RelationHostile
}
