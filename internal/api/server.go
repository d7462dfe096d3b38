// Package api provides the HTTP API for observing the faction world.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/faction-discovery/internal/engine"
	"github.com/talgya/faction-discovery/internal/persistence"
	"github.com/talgya/faction-discovery/internal/settings"
	"github.com/talgya/faction-discovery/internal/social"
)

// Server serves the faction world over HTTP.
type Server struct {
	Sim      *engine.Simulation
	DB       *persistence.DB // Optional; settings changes are saved when set
	Port     int
	AdminKey string // Signs admin bearer tokens for POST endpoints. Empty = POST disabled.

	started time.Time
}

// Handler builds the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	settingsLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/factions", s.handleFactions)
	mux.HandleFunc("/api/v1/faction/", s.handleFactionDetail)
	mux.HandleFunc("/api/v1/settlements", s.handleSettlements)
	mux.HandleFunc("/api/v1/letters", s.handleLetters)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/archetype/", s.handleArchetype)
	mux.HandleFunc("/api/v1/scenario", s.handleScenario)

	// GET reads settings; POST changes them and rebalances.
	mux.HandleFunc("/api/v1/settings", s.adminOnly(RateLimitMiddleware(settingsLimiter, s.handleSettings)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra origins.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request carries an admin token
// signed with AdminKey.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	if err := ValidateAdminToken(token, s.AdminKey, time.Now()); err != nil {
		slog.Warn("admin token rejected", "error", err)
		return false
	}
	return true
}

// adminOnly requires bearer token auth on POST requests. GET passes through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no FACTIONSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Sim.View(func() {
		hostile, friendly, hidden := 0, 0, 0
		for _, f := range s.Sim.Factions.All() {
			switch {
			case f.Hidden():
				hidden++
			case f.HostileToPlayer():
				hostile++
			default:
				friendly++
			}
		}
		status = map[string]any{
			"name":             "Faction Discovery",
			"tiles":            s.Sim.WorldMap.TileCount(),
			"factions":         len(s.Sim.Factions.All()),
			"friendly":         friendly,
			"hostile":          hostile,
			"hidden":           hidden,
			"settlements":      len(s.Sim.Settlements),
			"letters":          len(s.Sim.Letters.All()),
			"known_reconciled": s.Sim.Reconciled,
			"started":          humanize.Time(s.started),
		}
	})
	writeJSON(w, status)
}

type factionSummary struct {
	ID          social.FactionID    `json:"id"`
	Name        string              `json:"name"`
	DefName     string              `json:"def_name"`
	Label       string              `json:"label"`
	Relation    social.RelationKind `json:"relation"`
	Hidden      bool                `json:"hidden"`
	Origin      string              `json:"origin,omitempty"`
	Settlements int                 `json:"settlements"`
}

func (s *Server) summarize(f *social.Faction) factionSummary {
	return factionSummary{
		ID:          f.ID,
		Name:        f.Name,
		DefName:     f.DefName(),
		Label:       f.Archetype.DisplayLabel(),
		Relation:    f.Relation,
		Hidden:      f.Hidden(),
		Origin:      f.Origin,
		Settlements: len(s.Sim.SettlementsOf(f.ID)),
	}
}

// handleFactions lists the non-player factions. ?visible=1 drops hidden ones.
func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	visibleOnly := r.URL.Query().Get("visible") == "1"
	result := []factionSummary{}
	s.Sim.View(func() {
		for _, f := range s.Sim.Factions.All() {
			if visibleOnly && !f.Visible() {
				continue
			}
			result = append(result, s.summarize(f))
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleFactionDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/faction/")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid faction id", http.StatusBadRequest)
		return
	}

	var detail map[string]any
	s.Sim.View(func() {
		f := s.Sim.Factions.Get(social.FactionID(id))
		if f == nil {
			return
		}
		detail = map[string]any{
			"faction":     s.summarize(f),
			"archetype":   f.Archetype,
			"settlements": s.Sim.SettlementsOf(f.ID),
		}
	})
	if detail == nil {
		http.Error(w, "faction not found", http.StatusNotFound)
		return
	}
	writeJSON(w, detail)
}

func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	type settlementEntry struct {
		*social.Settlement
		Faction string `json:"faction"`
	}
	result := []settlementEntry{}
	s.Sim.View(func() {
		for _, st := range s.Sim.Settlements {
			name := ""
			if f := s.Sim.Factions.Get(st.FactionID); f != nil {
				name = f.Name
			}
			result = append(result, settlementEntry{Settlement: st, Faction: name})
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleLetters(w http.ResponseWriter, r *http.Request) {
	type letterEntry struct {
		engine.Letter
		Ago string `json:"ago"`
	}
	result := []letterEntry{}
	s.Sim.View(func() {
		for _, l := range s.Sim.Letters.All() {
			result = append(result, letterEntry{Letter: l, Ago: humanize.Time(l.Received)})
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	category := r.URL.Query().Get("category")

	var events []engine.Event
	s.Sim.View(func() {
		for _, e := range s.Sim.Events {
			if category == "" || e.Category == category {
				events = append(events, e)
			}
		}
	})

	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	writeJSON(w, events[start:])
}

// handleArchetype looks up a catalog entry by name, suggesting near misses.
func (s *Server) handleArchetype(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/archetype/")
	a, err := s.Sim.Factions.Catalog().Lookup(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var instances int
	s.Sim.View(func() { instances = s.Sim.Factions.Count(a) })
	writeJSON(w, map[string]any{
		"archetype": a,
		"instances": instances,
	})
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	s.Sim.View(func() {
		if s.Sim.Scenario == nil {
			return
		}
		body = map[string]any{
			"record":  s.Sim.Scenario.Record(s.Sim.GameInit),
			"summary": s.Sim.Scenario.Summary(),
		}
	})
	if body == nil {
		http.Error(w, "no scenario", http.StatusNotFound)
		return
	}
	writeJSON(w, body)
}

// handleSettings returns the settings on GET. POST takes a JSON object of
// handle name to value, applies it as a whole and rebalances.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		var values map[string]string
		s.Sim.View(func() { values = s.Sim.Settings.Values() })
		writeJSON(w, values)
		return
	}

	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var next settings.Settings
	var before int
	s.Sim.View(func() {
		next = s.Sim.Settings
		before = len(s.Sim.Factions.All())
	})
	for k, v := range req {
		if err := next.Set(k, v); err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, settings.ErrUnknownKey) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
	}

	if err := s.Sim.ApplySettings(next); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if s.DB != nil {
		if err := s.DB.SaveSettings(next); err != nil {
			slog.Error("settings save failed", "error", err)
		}
	}

	var created int
	s.Sim.View(func() { created = len(s.Sim.Factions.All()) - before })
	slog.Info("admin settings change", "values", req, "factions_created", created)
	writeJSON(w, map[string]any{
		"settings":         next.Values(),
		"factions_created": created,
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
