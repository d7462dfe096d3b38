// Settlement sites: finds free, habitable tiles for new faction bases.
package world

import "fmt"

// Rand is the randomness the site finder and name generator draw from.
type Rand interface {
	Intn(n int) int
	Float() float64
}

const (
	defaultMinSpacing  = 3
	defaultMaxAttempts = 500

	// Highest score settlementScore can produce.
	maxSiteScore = 4.0 + 6*0.3 + 0.5
)

// SiteFinder picks settlement tiles at random, biased toward good land and
// kept apart from existing settlements.
type SiteFinder struct {
	Map         *Map
	Rand        Rand
	MinSpacing  int // Minimum hex distance to any other settlement
	MaxAttempts int // Random draws before giving up
}

// NewSiteFinder creates a finder with default spacing and attempt limits.
func NewSiteFinder(m *Map, rng Rand) *SiteFinder {
	return &SiteFinder{
		Map:         m,
		Rand:        rng,
		MinSpacing:  defaultMinSpacing,
		MaxAttempts: defaultMaxAttempts,
	}
}

// RandomSettlementTile returns a free tile for a new settlement, or NoTile
// when none was found within MaxAttempts draws.
func (f *SiteFinder) RandomSettlementTile() TileID {
	n := f.Map.TileCount()
	if n == 0 {
		return NoTile
	}
	settled := f.Map.Settled()

	for attempt := 0; attempt < f.MaxAttempts; attempt++ {
		hex := f.Map.Tile(TileID(f.Rand.Intn(n) + 1))
		if hex == nil || hex.SettlementID != nil || !hex.Terrain.Settleable() {
			continue
		}
		if tooClose(hex.Coord, settled, f.MinSpacing) {
			continue
		}
		if f.Rand.Float()*maxSiteScore > settlementScore(f.Map, hex) {
			continue
		}
		return hex.Tile
	}
	return NoTile
}

// settlementScore evaluates how desirable a hex is for a settlement.
// Prefers coast and plains; harsh terrain is possible but rare.
func settlementScore(m *Map, hex *Hex) float64 {
	score := 0.0

	switch hex.Terrain {
	case TerrainPlains:
		score += 3.0
	case TerrainCoast:
		score += 4.0
	case TerrainForest:
		score += 1.5
	case TerrainDesert, TerrainSwamp, TerrainTundra:
		score += 0.5
	case TerrainMountain:
		score += 0.3
	default:
		return 0
	}

	// Terrain diversity nearby.
	terrainTypes := make(map[Terrain]bool)
	nearWater := false
	for _, nc := range hex.Coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil {
			continue
		}
		if nh.Terrain != TerrainOcean {
			terrainTypes[nh.Terrain] = true
		}
		if nh.Terrain == TerrainCoast || nh.Terrain == TerrainOcean {
			nearWater = true
		}
	}
	score += float64(len(terrainTypes)) * 0.3
	if nearWater {
		score += 0.5
	}

	return score
}

func tooClose(coord HexCoord, existing []HexCoord, minDist int) bool {
	for _, c := range existing {
		if Distance(coord, c) < minDist {
			return true
		}
	}
	return false
}

// NameGenerator produces unique procedural names for settlements and factions.
type NameGenerator struct {
	rng  Rand
	used map[string]bool
}

// NewNameGenerator creates a generator. Names already in use can be
// reserved with Reserve so restored worlds stay unique.
func NewNameGenerator(rng Rand) *NameGenerator {
	return &NameGenerator{rng: rng, used: make(map[string]bool)}
}

// Reserve marks a name as taken.
func (g *NameGenerator) Reserve(name string) {
	g.used[name] = true
}

var (
	settlementPrefixes = []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	settlementSuffixes = []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}
	factionAdjectives = []string{
		"Ashen", "Crimson", "Silent", "Iron", "Hollow", "Free", "Grey",
		"Sunken", "Burning", "Broken", "Northern", "Lost", "Gilded",
	}
	factionNouns = []string{
		"Compact", "Covenant", "Band", "Union", "Company", "Brotherhood",
		"Circle", "League", "Remnant", "Tribe", "Syndicate", "Host",
	}
)

// SettlementName returns an unused settlement name.
func (g *NameGenerator) SettlementName() string {
	return g.unique(func() string {
		return pick(g.rng, settlementPrefixes) + pick(g.rng, settlementSuffixes)
	})
}

// FactionName returns an unused faction name.
func (g *NameGenerator) FactionName() string {
	return g.unique(func() string {
		return "The " + pick(g.rng, factionAdjectives) + " " + pick(g.rng, factionNouns)
	})
}

func (g *NameGenerator) unique(gen func() string) string {
	var name string
	for i := 0; i < 50; i++ {
		name = gen()
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
	// Name space is crowded; number the last draw.
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s %d", name, n)
		if !g.used[candidate] {
			g.used[candidate] = true
			return candidate
		}
	}
}

func pick(rng Rand, words []string) string {
	return words[rng.Intn(len(words))]
}
