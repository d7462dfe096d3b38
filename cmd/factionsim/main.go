// Command factionsim generates a world, populates it with factions and
// serves the result over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/talgya/faction-discovery/internal/api"
	"github.com/talgya/faction-discovery/internal/engine"
	"github.com/talgya/faction-discovery/internal/entropy"
	"github.com/talgya/faction-discovery/internal/persistence"
	"github.com/talgya/faction-discovery/internal/scenario"
	"github.com/talgya/faction-discovery/internal/settings"
	"github.com/talgya/faction-discovery/internal/social"
	"github.com/talgya/faction-discovery/internal/world"
)

// hostConfig is the process configuration, read from the environment.
type hostConfig struct {
	DBPath      string `env:"FACTIONSIM_DB" envDefault:"data/factions.db"`
	Seed        int64  `env:"FACTIONSIM_SEED"` // 0 picks a random seed for a new world
	Port        int    `env:"FACTIONSIM_PORT" envDefault:"8080"`
	CatalogPath string `env:"FACTIONSIM_CATALOG"` // Empty uses the built-in catalog
	AdminKey    string `env:"FACTIONSIM_ADMIN_KEY"`
	LogLevel    string `env:"FACTIONSIM_LOG_LEVEL" envDefault:"info"`

	// Scenario for a new game.
	ScenarioName  string `env:"FACTIONSIM_SCENARIO" envDefault:"Crashlanded"`
	KnownFriendly int    `env:"FACTIONSIM_KNOWN_FRIENDLY" envDefault:"1"`
	KnownHostile  int    `env:"FACTIONSIM_KNOWN_HOSTILE" envDefault:"1"`
	FactionCap    int    `env:"FACTIONSIM_FACTION_CAP" envDefault:"12"`
	Randomize     bool   `env:"FACTIONSIM_RANDOMIZE"`
	Arrival       string `env:"FACTIONSIM_ARRIVAL" envDefault:"standing"`
	QuickStart    bool   `env:"FACTIONSIM_QUICKSTART"`
}

func main() {
	var cfg hostConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// "factionsim token" prints an admin bearer token and exits.
	if len(os.Args) > 1 && os.Args[1] == "token" {
		tok, err := api.IssueAdminToken(cfg.AdminKey, 24*time.Hour, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("faction discovery starting")

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Catalog ───────────────────────────────────────────────────────
	var catalog *social.Catalog
	if cfg.CatalogPath != "" {
		catalog, err = social.LoadCatalog(cfg.CatalogPath)
	} else {
		catalog, err = social.DefaultCatalog()
	}
	if err != nil {
		slog.Error("failed to load archetype catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "archetypes", len(catalog.Archetypes))

	// ── Seed and settings ─────────────────────────────────────────────
	saved := db.HasWorldState()
	seed := cfg.Seed
	var set settings.Settings
	if saved {
		if seed, err = db.LoadSeed(); err != nil {
			slog.Error("failed to load seed", "error", err)
			os.Exit(1)
		}
		if set, err = db.LoadSettings(); err != nil {
			slog.Error("failed to load settings", "error", err)
			os.Exit(1)
		}
	} else {
		if seed == 0 {
			seed = entropy.CryptoSeed()
		}
		if set, err = settings.LoadFromEnv(); err != nil {
			slog.Warn("settings from environment rejected, using defaults", "error", err)
		}
	}

	// ── World map (always regenerated, deterministic from seed) ───────
	gen := world.DefaultGenConfig()
	gen.Seed = seed
	worldMap := world.Generate(gen)
	for t, c := range world.TerrainCounts(worldMap) {
		slog.Debug("terrain", "type", world.TerrainName(t), "count", c)
	}

	// A restored game keeps the world but not the old random stream.
	rngSeed := seed
	if saved {
		rngSeed = 0
	}
	rng := entropy.New(rngSeed)
	names := world.NewNameGenerator(rng)
	sim := engine.NewSimulation(worldMap, social.NewDirectory(catalog, names), set, rng)
	sim.Names = names

	if saved {
		slog.Info("found saved world state, loading...")
		if err := db.LoadWorldState(sim); err != nil {
			slog.Error("failed to load world state", "error", err)
			os.Exit(1)
		}
		for _, f := range sim.Factions.All() {
			names.Reserve(f.Name)
		}
		for _, st := range sim.Settlements {
			names.Reserve(st.Name)
		}
	}

	// World load tops up every archetype.
	if err := sim.CheckFactions(); err != nil {
		slog.Error("faction check failed", "error", err)
	}

	if !sim.Reconciled {
		if err := startGame(sim, cfg, rng); err != nil {
			slog.Error("game start failed", "error", err)
		}
	}

	if err := db.SaveWorldState(sim, seed); err != nil {
		slog.Error("save failed", "error", err)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("FACTIONSIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}
	server := &api.Server{
		Sim:      sim,
		DB:       db,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	fmt.Printf("\n%d factions hold %d settlements on %d tiles (seed %d).\n",
		len(sim.Factions.All()), len(sim.Settlements), worldMap.TileCount(), seed)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	slog.Info("final save...")
	if err := db.SaveWorldState(sim, seed); err != nil {
		slog.Error("final save failed", "error", err)
	}
}

// startGame builds the scenario for a new game, unless one was restored,
// and reconciles its known factions.
func startGame(sim *engine.Simulation, cfg hostConfig, rng *entropy.Source) error {
	if sim.Scenario == nil {
		kf := &scenario.KnownFactions{Friendly: cfg.KnownFriendly, Hostile: cfg.KnownHostile, Cap: cfg.FactionCap}
		if err := kf.Validate(); err != nil {
			slog.Warn("known factions out of range, using defaults", "error", err)
			kf = scenario.NewKnownFactions()
		}
		method, err := scenario.ParseArrivalMethod(cfg.Arrival)
		if err != nil {
			return err
		}
		sc, err := scenario.New(cfg.ScenarioName, kf, &scenario.ArriveMethod{Method: method})
		if err != nil {
			return err
		}
		if cfg.Randomize {
			sc.Randomize(rng)
		}
		sim.Scenario = sc
		sim.GameInit = scenario.GameInit{QuickStarted: cfg.QuickStart}
		slog.Info("scenario ready", "name", sc.Name, "summary", sc.Summary())
	}

	res, err := sim.StartGame()
	if err != nil {
		return err
	}
	if !res.Complete() {
		slog.Warn("some known factions could not be created",
			"friendly_remaining", res.FriendlyRemaining,
			"hostile_remaining", res.HostileRemaining,
		)
	}
	return nil
}
