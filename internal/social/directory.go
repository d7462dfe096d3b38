package social

import "fmt"

// Namer hands out faction names.
type Namer interface {
	FactionName() string
}

// Directory is the registry of every faction in the world, player included.
type Directory struct {
	catalog  *Catalog
	namer    Namer
	player   *Faction
	factions []*Faction // Non-player, in registration order
	byID     map[FactionID]*Faction
	nextID   FactionID
}

// NewDirectory creates a directory over catalog. If the catalog has a player
// archetype the player faction is created with ID 1.
func NewDirectory(catalog *Catalog, namer Namer) *Directory {
	d := &Directory{
		catalog: catalog,
		namer:   namer,
		byID:    make(map[FactionID]*Faction),
		nextID:  1,
	}
	if pa := catalog.Player(); pa != nil {
		d.player = &Faction{ID: d.nextID, Name: pa.DisplayLabel(), Archetype: pa, Relation: RelationAlly}
		d.byID[d.player.ID] = d.player
		d.nextID++
	}
	return d
}

// Catalog returns the archetype catalog.
func (d *Directory) Catalog() *Catalog {
	return d.catalog
}

// Archetypes returns the catalog's archetypes in order.
func (d *Directory) Archetypes() []*Archetype {
	return d.catalog.Archetypes
}

// OfPlayer returns the player's faction, or nil.
func (d *Directory) OfPlayer() *Faction {
	return d.player
}

// Get returns a faction by ID, or nil.
func (d *Directory) Get(id FactionID) *Faction {
	return d.byID[id]
}

// All returns every non-player faction.
func (d *Directory) All() []*Faction {
	return d.factions
}

// AllVisible returns every non-hidden, non-player faction.
func (d *Directory) AllVisible() []*Faction {
	var out []*Faction
	for _, f := range d.factions {
		if f.Visible() {
			out = append(out, f)
		}
	}
	return out
}

// Count returns how many non-player factions share archetype a.
func (d *Directory) Count(a *Archetype) int {
	n := 0
	for _, f := range d.factions {
		if f.Archetype == a {
			n++
		}
	}
	return n
}

// VisibleCount returns how many visible factions share archetype a.
func (d *Directory) VisibleCount(a *Archetype) int {
	if a.Hidden || a.IsPlayer {
		return 0
	}
	return d.Count(a)
}

// NewFaction creates an unregistered faction of archetype a with a fresh ID and name.
func (d *Directory) NewFaction(a *Archetype) *Faction {
	f := &Faction{
		ID:        d.nextID,
		Name:      d.namer.FactionName(),
		Archetype: a,
		Relation:  RelationNeutral,
	}
	d.nextID++
	return f
}

// Add registers f with the given relation to the player.
func (d *Directory) Add(f *Faction, kind RelationKind) error {
	if f == nil || f.Archetype == nil {
		return fmt.Errorf("add faction: missing archetype")
	}
	if f.IsPlayer() {
		return fmt.Errorf("add faction %d: player faction is created by the directory", f.ID)
	}
	if _, exists := d.byID[f.ID]; exists {
		return fmt.Errorf("add faction %d: already registered", f.ID)
	}
	f.Relation = kind
	d.factions = append(d.factions, f)
	d.byID[f.ID] = f
	return nil
}

// Restore re-registers a faction loaded from a save, keeping its relation.
func (d *Directory) Restore(f *Faction) error {
	if err := d.Add(f, f.Relation); err != nil {
		return err
	}
	if f.ID >= d.nextID {
		d.nextID = f.ID + 1
	}
	return nil
}
