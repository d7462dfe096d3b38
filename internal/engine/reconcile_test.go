package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/talgya/faction-discovery/internal/scenario"
	"github.com/talgya/faction-discovery/internal/settings"
	"github.com/talgya/faction-discovery/internal/social"
)

// reconcileCatalog returns friendly traders, a cheap pirate gang and an
// expensive raider host.
func reconcileCatalog() (trader, pirate, raider *social.Archetype) {
	trader = &social.Archetype{
		Name:                "trader",
		CanMakeRandomly:     true,
		MaxCountAtGameStart: 10,
		StartingGoodwill:    social.IntRange{Min: 0, Max: 40},
		Humanlike:           true,
		MinCombatPoints:     100,
	}
	pirate = &social.Archetype{
		Name:                "pirate",
		CanMakeRandomly:     true,
		MaxCountAtGameStart: 10,
		StartingGoodwill:    social.IntRange{Min: -100, Max: -80},
		PermanentEnemy:      true,
		Humanlike:           true,
		MinCombatPoints:     35,
	}
	raider = &social.Archetype{
		Name:                "raider",
		CanMakeRandomly:     true,
		MaxCountAtGameStart: 10,
		StartingGoodwill:    social.IntRange{Min: -90, Max: -50},
		PermanentEnemy:      true,
		Humanlike:           true,
		MinCombatPoints:     200,
	}
	return trader, pirate, raider
}

func countVisible(sim *Simulation) (friendly, hostile int) {
	for _, f := range sim.Factions.AllVisible() {
		if f.HostileToPlayer() {
			hostile++
		} else {
			friendly++
		}
	}
	return friendly, hostile
}

func TestReconcileClosesDeficits(t *testing.T) {
	trader, pirate, raider := reconcileCatalog()
	sim := newTestSim(t, 31, settings.Default(), trader, pirate, raider)
	withScenario(t, sim)
	mustAdd(t, sim, trader, social.RelationNeutral)

	res, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 3, Hostile: 2, Cap: 12})
	if err != nil {
		t.Fatalf("ReconcileKnownFactions: %v", err)
	}
	if res.FriendlyCreated != 2 || res.HostileCreated != 2 {
		t.Fatalf("created %d friendly and %d hostile, want 2 and 2", res.FriendlyCreated, res.HostileCreated)
	}
	if !res.Complete() {
		t.Fatalf("expected no remaining deficit, got %+v", res)
	}

	friendly, hostile := countVisible(sim)
	if friendly != 3 || hostile != 2 {
		t.Fatalf("visible factions %d friendly / %d hostile, want 3 / 2", friendly, hostile)
	}

	letters := sim.Letters.All()
	if len(letters) != 1 {
		t.Fatalf("posted %d letters, want exactly 1", len(letters))
	}
	if !strings.Contains(letters[0].Text, "5 factions") {
		t.Fatalf("letter should report a total of 5, got %q", letters[0].Text)
	}
	if letters[0].ID != res.Letter.ID {
		t.Fatalf("result letter does not match the posted letter")
	}
	for _, f := range sim.Factions.All()[1:] {
		if f.Origin != OriginGameStart {
			t.Fatalf("faction %s origin %q, want %q", f.Name, f.Origin, OriginGameStart)
		}
	}
}

func TestReconcileFirstHostileIsCheap(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		trader, pirate, raider := reconcileCatalog()
		sim := newTestSim(t, seed, settings.Default(), trader, pirate, raider)

		res, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 0, Hostile: 1})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if res.HostileCreated != 1 {
			t.Fatalf("seed %d: created %d hostile, want 1", seed, res.HostileCreated)
		}
		f := sim.Factions.All()[0]
		if f.Archetype != pirate {
			t.Fatalf("seed %d: first hostile is %s, want the cheap pirate", seed, f.DefName())
		}
		if f.Relation != social.RelationHostile {
			t.Fatalf("seed %d: forced relation not applied", seed)
		}
	}
}

func TestReconcileAllowsExpensiveHostilesOnceCheapExists(t *testing.T) {
	trader, pirate, raider := reconcileCatalog()
	sim := newTestSim(t, 5, settings.Default(), trader, pirate, raider)
	mustAdd(t, sim, pirate, social.RelationHostile)

	q := sim.hostileQualifier()
	if !q(raider) || !q(pirate) {
		t.Fatalf("with a cheap faction present both hostile archetypes should qualify")
	}
	if q(trader) {
		t.Fatalf("trader goodwill floor is not below %d", HostileGoodwillCeiling)
	}
}

func TestReconcileLeavesUnfillableDeficitOpen(t *testing.T) {
	trader, _, _ := reconcileCatalog()
	sim := newTestSim(t, 2, settings.Default(), trader)

	res, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 1, Hostile: 3})
	if err != nil {
		t.Fatalf("ReconcileKnownFactions: %v", err)
	}
	if res.FriendlyCreated != 1 {
		t.Fatalf("friendly created = %d, want 1", res.FriendlyCreated)
	}
	if res.HostileCreated != 0 || res.HostileRemaining != 3 {
		t.Fatalf("hostile created=%d remaining=%d, want 0 and 3", res.HostileCreated, res.HostileRemaining)
	}
	if res.Complete() {
		t.Fatalf("result should report an open deficit")
	}
	if len(sim.Letters.All()) != 1 {
		t.Fatalf("letter must still be posted")
	}
	if !sim.Reconciled {
		t.Fatalf("partial reconciliation still counts as done")
	}
}

func TestReconcileRespectsStartCap(t *testing.T) {
	trader, pirate, raider := reconcileCatalog()
	trader.MaxCountAtGameStart = 2
	sim := newTestSim(t, 12, settings.Default(), trader, pirate, raider)

	res, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 4, Hostile: 1})
	if err != nil {
		t.Fatalf("ReconcileKnownFactions: %v", err)
	}
	if res.FriendlyCreated != 2 || res.FriendlyRemaining != 2 {
		t.Fatalf("friendly created=%d remaining=%d, want 2 and 2", res.FriendlyCreated, res.FriendlyRemaining)
	}
	if got := sim.Factions.Count(trader); got != 2 {
		t.Fatalf("trader instances = %d, want its start cap of 2", got)
	}
}

func TestReconcileIgnoresFactionCap(t *testing.T) {
	trader, pirate, raider := reconcileCatalog()
	sim := newTestSim(t, 12, settings.Default(), trader, pirate, raider)

	res, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 3, Hostile: 2, Cap: 2})
	if err != nil {
		t.Fatalf("ReconcileKnownFactions: %v", err)
	}
	if res.FriendlyCreated != 3 || res.HostileCreated != 2 || !res.Complete() {
		t.Fatalf("cap cut the deficit loops short: %+v", res)
	}
	friendly, hostile := countVisible(sim)
	if friendly != 3 || hostile != 2 {
		t.Fatalf("visible factions %d friendly / %d hostile, want 3 / 2", friendly, hostile)
	}
	if !strings.Contains(res.Letter.Text, "5 factions") {
		t.Fatalf("letter text = %q", res.Letter.Text)
	}
}

func TestReconcileSurplusCreatesNothing(t *testing.T) {
	trader, pirate, raider := reconcileCatalog()
	sim := newTestSim(t, 12, settings.Default(), trader, pirate, raider)
	for i := 0; i < 3; i++ {
		mustAdd(t, sim, trader, social.RelationNeutral)
	}
	mustAdd(t, sim, pirate, social.RelationHostile)

	res, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 1, Hostile: 1})
	if err != nil {
		t.Fatalf("ReconcileKnownFactions: %v", err)
	}
	if res.FriendlyCreated+res.HostileCreated != 0 {
		t.Fatalf("surplus world gained factions: %+v", res)
	}
	if len(sim.Factions.All()) != 4 {
		t.Fatalf("reconciliation must never remove factions")
	}
}

func TestReconcileRunsOnce(t *testing.T) {
	trader, pirate, raider := reconcileCatalog()
	sim := newTestSim(t, 12, settings.Default(), trader, pirate, raider)

	if _, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 1, Hostile: 1}); err != nil {
		t.Fatalf("first reconciliation: %v", err)
	}
	before := len(sim.Factions.All())
	_, err := sim.ReconcileKnownFactions(ReconcileTarget{Friendly: 5, Hostile: 5})
	if !errors.Is(err, ErrAlreadyReconciled) {
		t.Fatalf("expected ErrAlreadyReconciled, got %v", err)
	}
	if len(sim.Factions.All()) != before || len(sim.Letters.All()) != 1 {
		t.Fatalf("second reconciliation changed the world")
	}
}

func TestStartGameLetterVariants(t *testing.T) {
	tests := []struct {
		name      string
		parts     []scenario.Part
		init      scenario.GameInit
		wantLabel string
	}{
		{"standing start", nil, scenario.GameInit{}, "Known factions"},
		{"drop pods", []scenario.Part{&scenario.ArriveMethod{Method: scenario.ArriveDropPods}}, scenario.GameInit{}, "Factions spotted"},
		{"quick start", nil, scenario.GameInit{QuickStarted: true}, "Factions spotted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trader, pirate, raider := reconcileCatalog()
			sim := newTestSim(t, 3, settings.Default(), trader, pirate, raider)
			parts := append([]scenario.Part{&scenario.KnownFactions{Friendly: 2, Hostile: 1, Cap: 12}}, tt.parts...)
			withScenario(t, sim, parts...)
			sim.GameInit = tt.init

			res, err := sim.StartGame()
			if err != nil {
				t.Fatalf("StartGame: %v", err)
			}
			if res.Letter.Label != tt.wantLabel {
				t.Fatalf("letter label = %q, want %q", res.Letter.Label, tt.wantLabel)
			}
			if !strings.Contains(res.Letter.Text, "3 factions") {
				t.Fatalf("letter text = %q", res.Letter.Text)
			}
			if res.Letter.Kind != LetterPositive {
				t.Fatalf("letter kind = %q, want %q", res.Letter.Kind, LetterPositive)
			}
		})
	}
}

func TestStartGameWithoutKnownFactions(t *testing.T) {
	trader, _, _ := reconcileCatalog()
	sim := newTestSim(t, 3, settings.Default(), trader)
	withScenario(t, sim)

	_, err := sim.StartGame()
	if !errors.Is(err, ErrNoKnownFactions) {
		t.Fatalf("expected ErrNoKnownFactions, got %v", err)
	}
	if sim.Reconciled {
		t.Fatalf("failed start must not mark reconciliation done")
	}
}
