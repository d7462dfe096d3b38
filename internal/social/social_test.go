package social

import (
	"errors"
	"strings"
	"testing"
)

type seqNamer struct{ n int }

func (s *seqNamer) FactionName() string {
	s.n++
	return "faction-" + string(rune('a'+s.n))
}

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if c.Player() == nil {
		t.Fatalf("expected a player archetype")
	}
	pirate := c.Get("pirate")
	if pirate == nil {
		t.Fatalf("expected pirate archetype")
	}
	if pirate.CanEverBeNonHostile() {
		t.Fatalf("pirates should never start non-hostile")
	}
	if !pirate.IsCheapAndHumanlike() {
		t.Fatalf("pirates should be cheap and humanlike")
	}
	if c.Get("mechanoid").IsCheapAndHumanlike() {
		t.Fatalf("mechanoids are not humanlike")
	}
}

func TestParseCatalogRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"inverted goodwill": "archetypes:\n  - name: a\n    starting_goodwill: {min: 5, max: -5}\n",
		"duplicate":         "archetypes:\n  - name: a\n  - name: a\n",
		"no name":           "archetypes:\n  - label: nameless\n",
		"two players":       "archetypes:\n  - name: a\n    is_player: true\n  - name: b\n    is_player: true\n",
		"bad yaml":          "archetypes: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCatalogLookup(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}

	a, err := c.Lookup("Tribe Civil")
	if err != nil || a.Name != "tribe_civil" {
		t.Fatalf("Lookup(Tribe Civil) = %v, %v", a, err)
	}

	_, err = c.Lookup("pirat")
	if !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("expected ErrUnknownArchetype, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "pirate"`) {
		t.Fatalf("expected suggestion, got %q", err)
	}

	_, err = c.Lookup("zzzzzzzzzzzz")
	if !errors.Is(err, ErrUnknownArchetype) || strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected plain miss, got %v", err)
	}
}

func TestDirectoryCounts(t *testing.T) {
	player := &Archetype{Name: "player", IsPlayer: true}
	open := &Archetype{Name: "open", CanMakeRandomly: true}
	hidden := &Archetype{Name: "hidden", Hidden: true}
	c, err := NewCatalog(player, open, hidden)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	d := NewDirectory(c, &seqNamer{})

	if d.OfPlayer() == nil || d.OfPlayer().ID != 1 {
		t.Fatalf("expected player faction with ID 1")
	}
	if len(d.All()) != 0 {
		t.Fatalf("player must not be listed in All")
	}

	for _, a := range []*Archetype{open, open, hidden} {
		if err := d.Add(d.NewFaction(a), RelationHostile); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if got := d.Count(open); got != 2 {
		t.Fatalf("Count(open) = %d, want 2", got)
	}
	if got := d.VisibleCount(hidden); got != 0 {
		t.Fatalf("VisibleCount(hidden) = %d, want 0", got)
	}
	if got := len(d.AllVisible()); got != 2 {
		t.Fatalf("AllVisible = %d, want 2", got)
	}

	f := d.All()[0]
	if err := d.Add(f, RelationNeutral); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := d.Add(&Faction{ID: 99, Archetype: player}, RelationNeutral); err == nil {
		t.Fatalf("expected error adding a player faction")
	}
}

func TestDirectoryRestoreAdvancesIDs(t *testing.T) {
	open := &Archetype{Name: "open"}
	c, _ := NewCatalog(open)
	d := NewDirectory(c, &seqNamer{})

	if err := d.Restore(&Faction{ID: 40, Archetype: open, Relation: RelationNeutral}); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if f := d.NewFaction(open); f.ID != 41 {
		t.Fatalf("next ID = %d, want 41", f.ID)
	}
	if d.Get(40).Relation != RelationNeutral {
		t.Fatalf("restore must keep the saved relation")
	}
}
