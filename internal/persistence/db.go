// Package persistence provides SQLite-based storage for the faction world.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/faction-discovery/internal/engine"
	"github.com/talgya/faction-discovery/internal/scenario"
	"github.com/talgya/faction-discovery/internal/settings"
	"github.com/talgya/faction-discovery/internal/social"
	"github.com/talgya/faction-discovery/internal/world"
)

// Metadata keys.
const (
	MetaSeed       = "seed"
	MetaScenario   = "scenario"
	MetaReconciled = "known_factions_reconciled"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS factions (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		def_name TEXT NOT NULL,
		relation INTEGER NOT NULL,
		origin TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS settlements (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		faction_id INTEGER NOT NULL,
		tile INTEGER NOT NULL,
		pos_q INTEGER NOT NULL,
		pos_r INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS letters (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		label TEXT NOT NULL,
		text TEXT NOT NULL,
		kind TEXT NOT NULL,
		received INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		time INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_settlements_faction ON settlements(faction_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type factionRow struct {
	ID       uint64 `db:"id"`
	Name     string `db:"name"`
	DefName  string `db:"def_name"`
	Relation uint8  `db:"relation"`
	Origin   string `db:"origin"`
}

type settlementRow struct {
	ID        uint64 `db:"id"`
	Name      string `db:"name"`
	FactionID uint64 `db:"faction_id"`
	Tile      uint32 `db:"tile"`
	Q         int    `db:"pos_q"`
	R         int    `db:"pos_r"`
}

type letterRow struct {
	ID       string `db:"id"`
	Label    string `db:"label"`
	Text     string `db:"text"`
	Kind     string `db:"kind"`
	Received int64  `db:"received"`
}

type eventRow struct {
	Time        int64  `db:"time"`
	Description string `db:"description"`
	Category    string `db:"category"`
}

// SaveFactions writes every non-player faction (full replace). The player
// faction is rebuilt from the catalog on load.
func (db *DB) SaveFactions(factions []*social.Faction) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM factions"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO factions (id, name, def_name, relation, origin) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range factions {
		if _, err := stmt.Exec(uint64(f.ID), f.Name, f.DefName(), uint8(f.Relation), f.Origin); err != nil {
			return fmt.Errorf("insert faction %d: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// SaveSettlements writes all settlements (full replace).
func (db *DB) SaveSettlements(settlements []*social.Settlement) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM settlements"); err != nil {
		return err
	}

	for _, s := range settlements {
		_, err := tx.Exec(`INSERT INTO settlements (id, name, faction_id, tile, pos_q, pos_r)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, uint64(s.FactionID), uint32(s.Tile), s.Position.Q, s.Position.R,
		)
		if err != nil {
			return fmt.Errorf("insert settlement %d: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// SaveLetters writes the letter stack (full replace), keeping its order.
func (db *DB) SaveLetters(letters []engine.Letter) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM letters"); err != nil {
		return err
	}

	for _, l := range letters {
		_, err := tx.Exec(`INSERT INTO letters (id, label, text, kind, received) VALUES (?, ?, ?, ?, ?)`,
			l.ID.String(), l.Label, l.Text, string(l.Kind), l.Received.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("insert letter %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEvents writes the recent event log (full replace).
func (db *DB) SaveEvents(events []engine.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (time, description, category) VALUES (?, ?, ?)",
			e.Time.UnixMilli(), e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveSettings stores every setting under its handle name.
func (db *DB) SaveSettings(set settings.Settings) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range set.Values() {
		if _, err := tx.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save setting %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// LoadSettings reads stored settings. Missing or invalid values fall back
// to their defaults.
func (db *DB) LoadSettings() (settings.Settings, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := db.conn.Select(&rows, "SELECT key, value FROM settings"); err != nil {
		return settings.Default(), fmt.Errorf("load settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Key] = r.Value
	}
	return settings.FromValues(values), nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key returns sql.ErrNoRows.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState reports whether a world was saved before.
func (db *DB) HasWorldState() bool {
	_, err := db.GetMeta(MetaSeed)
	return err == nil
}

// LoadSeed returns the saved world seed.
func (db *DB) LoadSeed() (int64, error) {
	v, err := db.GetMeta(MetaSeed)
	if err != nil {
		return 0, fmt.Errorf("load seed: %w", err)
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("load seed: %w", err)
	}
	return seed, nil
}

// SaveWorldState performs a full save of the faction world.
func (db *DB) SaveWorldState(sim *engine.Simulation, seed int64) error {
	var err error
	sim.View(func() {
		slog.Info("saving world state", "factions", len(sim.Factions.All()), "settlements", len(sim.Settlements))

		if err = db.SaveFactions(sim.Factions.All()); err != nil {
			err = fmt.Errorf("save factions: %w", err)
			return
		}
		if err = db.SaveSettlements(sim.Settlements); err != nil {
			err = fmt.Errorf("save settlements: %w", err)
			return
		}
		if err = db.SaveLetters(sim.Letters.All()); err != nil {
			err = fmt.Errorf("save letters: %w", err)
			return
		}
		if err = db.SaveEvents(sim.Events); err != nil {
			err = fmt.Errorf("save events: %w", err)
			return
		}
		if err = db.SaveSettings(sim.Settings); err != nil {
			err = fmt.Errorf("save settings: %w", err)
			return
		}
		if sim.Scenario != nil {
			var rec string
			if rec, err = scenario.MarshalRecord(sim.Scenario.Record(sim.GameInit)); err != nil {
				return
			}
			if err = db.SaveMeta(MetaScenario, rec); err != nil {
				err = fmt.Errorf("save meta: %w", err)
				return
			}
		}
		if err = db.SaveMeta(MetaReconciled, strconv.FormatBool(sim.Reconciled)); err != nil {
			err = fmt.Errorf("save meta: %w", err)
			return
		}
		if err = db.SaveMeta(MetaSeed, strconv.FormatInt(seed, 10)); err != nil {
			err = fmt.Errorf("save meta: %w", err)
		}
	})
	if err != nil {
		return err
	}
	slog.Info("world state saved")
	return nil
}

// LoadWorldState restores a saved world into sim, whose map must be
// generated from the saved seed. Factions whose archetype is no longer in
// the catalog are dropped with their settlements.
func (db *DB) LoadWorldState(sim *engine.Simulation) error {
	var factions []factionRow
	if err := db.conn.Select(&factions, "SELECT id, name, def_name, relation, origin FROM factions ORDER BY id"); err != nil {
		return fmt.Errorf("load factions: %w", err)
	}
	catalog := sim.Factions.Catalog()
	for _, r := range factions {
		a := catalog.Get(r.DefName)
		if a == nil {
			slog.Warn("dropping faction with unknown archetype", "id", r.ID, "name", r.Name, "def", r.DefName)
			continue
		}
		f := &social.Faction{
			ID:        social.FactionID(r.ID),
			Name:      r.Name,
			Archetype: a,
			Relation:  social.RelationKind(r.Relation),
			Origin:    r.Origin,
		}
		if err := sim.Factions.Restore(f); err != nil {
			return fmt.Errorf("restore faction: %w", err)
		}
	}

	var settlements []settlementRow
	if err := db.conn.Select(&settlements, "SELECT id, name, faction_id, tile, pos_q, pos_r FROM settlements ORDER BY id"); err != nil {
		return fmt.Errorf("load settlements: %w", err)
	}
	restored := make([]*social.Settlement, 0, len(settlements))
	for _, r := range settlements {
		if sim.Factions.Get(social.FactionID(r.FactionID)) == nil {
			slog.Warn("dropping settlement of missing faction", "id", r.ID, "faction", r.FactionID)
			continue
		}
		restored = append(restored, &social.Settlement{
			ID:        r.ID,
			Name:      r.Name,
			FactionID: social.FactionID(r.FactionID),
			Tile:      world.TileID(r.Tile),
			Position:  world.HexCoord{Q: r.Q, R: r.R},
		})
	}
	if err := sim.RestoreSettlements(restored); err != nil {
		return fmt.Errorf("restore settlements: %w", err)
	}

	var letters []letterRow
	if err := db.conn.Select(&letters, "SELECT id, label, text, kind, received FROM letters ORDER BY seq"); err != nil {
		return fmt.Errorf("load letters: %w", err)
	}
	for _, r := range letters {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return fmt.Errorf("letter %q: %w", r.ID, err)
		}
		sim.Letters.Restore(engine.Letter{
			ID:       id,
			Label:    r.Label,
			Text:     r.Text,
			Kind:     engine.LetterKind(r.Kind),
			Received: time.UnixMilli(r.Received).UTC(),
		})
	}

	events, err := db.RecentEvents(1000)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	sim.Events = events

	rec, err := db.GetMeta(MetaScenario)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("load scenario: %w", err)
	default:
		r, err := scenario.UnmarshalRecord(rec)
		if err != nil {
			return err
		}
		sim.Scenario, sim.GameInit, err = r.Restore()
		if err != nil {
			return fmt.Errorf("restore scenario: %w", err)
		}
	}

	if v, err := db.GetMeta(MetaReconciled); err == nil {
		sim.Reconciled, _ = strconv.ParseBool(v)
	}

	slog.Info("world state loaded",
		"factions", len(sim.Factions.All()),
		"settlements", len(sim.Settlements),
		"letters", len(sim.Letters.All()),
		"reconciled", sim.Reconciled,
	)
	return nil
}

// RecentEvents returns the most recent N events, oldest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		"SELECT time, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	events := make([]engine.Event, len(rows))
	for i, r := range rows {
		events[len(rows)-1-i] = engine.Event{
			Time:        time.UnixMilli(r.Time).UTC(),
			Description: r.Description,
			Category:    r.Category,
		}
	}
	return events, nil
}
