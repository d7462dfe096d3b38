package world

import (
	"math/rand"
	"testing"
)

type testRand struct{ r *rand.Rand }

func (t testRand) Intn(n int) int { return t.r.Intn(n) }
func (t testRand) Float() float64 { return t.r.Float64() }

func newTestRand(seed int64) testRand {
	return testRand{r: rand.New(rand.NewSource(seed))}
}

func TestGenerateIndexesEveryTile(t *testing.T) {
	m := Generate(SmallTestConfig())

	// Radius 5 hex grid: 3*5*6 + 1 hexes.
	if got, want := m.TileCount(), 91; got != want {
		t.Fatalf("tile count = %d, want %d", got, want)
	}
	seen := make(map[TileID]bool)
	for id := TileID(1); int(id) <= m.TileCount(); id++ {
		hex := m.Tile(id)
		if hex == nil {
			t.Fatalf("tile %d missing", id)
		}
		if hex.Tile != id {
			t.Fatalf("tile %d reports id %d", id, hex.Tile)
		}
		seen[id] = true
	}
	if m.Tile(NoTile) != nil {
		t.Fatalf("expected nil for NoTile")
	}
	if m.Tile(TileID(m.TileCount()+1)) != nil {
		t.Fatalf("expected nil past the last tile")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(SmallTestConfig())
	b := Generate(SmallTestConfig())
	for id := TileID(1); int(id) <= a.TileCount(); id++ {
		if a.Tile(id).Terrain != b.Tile(id).Terrain || a.Tile(id).Coord != b.Tile(id).Coord {
			t.Fatalf("tile %d differs between identical seeds", id)
		}
	}
}

func plainsMap(radius int) *Map {
	m := NewMap(radius)
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			c := HexCoord{Q: q, R: r}
			if m.InBounds(c) {
				m.Set(&Hex{Coord: c, Terrain: TerrainPlains})
			}
		}
	}
	m.Index()
	return m
}

func TestSiteFinderKeepsSpacing(t *testing.T) {
	m := plainsMap(8)
	f := NewSiteFinder(m, newTestRand(1))

	var placed []HexCoord
	for i := 0; i < 10; i++ {
		tile := f.RandomSettlementTile()
		if tile == NoTile {
			continue
		}
		if err := m.Occupy(tile, uint64(i+1)); err != nil {
			t.Fatalf("occupy: %v", err)
		}
		placed = append(placed, m.Tile(tile).Coord)
	}
	if len(placed) == 0 {
		t.Fatalf("expected at least one site on an open plain")
	}
	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			if d := Distance(placed[i], placed[j]); d < f.MinSpacing {
				t.Fatalf("sites %v and %v are %d apart, want >= %d", placed[i], placed[j], d, f.MinSpacing)
			}
		}
	}
}

func TestSiteFinderNoLand(t *testing.T) {
	m := plainsMap(3)
	for _, h := range m.Hexes {
		h.Terrain = TerrainOcean
	}
	f := NewSiteFinder(m, newTestRand(2))
	if got := f.RandomSettlementTile(); got != NoTile {
		t.Fatalf("expected NoTile on an ocean world, got %d", got)
	}
}

func TestOccupyTwice(t *testing.T) {
	m := plainsMap(1)
	if err := m.Occupy(1, 10); err != nil {
		t.Fatalf("first occupy: %v", err)
	}
	if err := m.Occupy(1, 11); err == nil {
		t.Fatalf("expected error occupying a settled tile")
	}
	if err := m.Occupy(999, 12); err == nil {
		t.Fatalf("expected error for unknown tile")
	}
}

func TestNameGeneratorUnique(t *testing.T) {
	g := NewNameGenerator(newTestRand(5))
	g.Reserve("Ironhaven")
	seen := map[string]bool{"Ironhaven": true}
	for i := 0; i < 1500; i++ {
		name := g.SettlementName()
		if seen[name] {
			t.Fatalf("duplicate name %q after %d draws", name, i)
		}
		seen[name] = true
	}
}
