// Package storage provides SQLite-based persistence for the local player
// profile: display name, preferences and recently used rooms.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Setting keys used by the client.
const (
	KeyName     = "name"
	KeyRelayURL = "relay_url"
	KeyCodec    = "codec"
	KeyDayMode  = "day_mode"
)

// Store manages the SQLite database connection for the profile.
type Store struct {
	db *sql.DB
}

// RoomEntry is a room this player hosted or joined.
type RoomEntry struct {
	RoomID   string
	RelayURL string
	Hosted   bool
	LastUsed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS recent_rooms (
			room_id TEXT NOT NULL,
			relay_url TEXT NOT NULL DEFAULT '',
			hosted INTEGER NOT NULL DEFAULT 0,
			last_used DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (room_id, relay_url)
		);
		CREATE INDEX IF NOT EXISTS idx_recent_rooms_last_used ON recent_rooms(last_used DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	if key == "" {
		return errors.New("storage: empty setting key")
	}
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// Setting returns the value stored under key. The second result is false
// when the key was never set.
func (s *Store) Setting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SaveName remembers the display name. Blank names are rejected.
func (s *Store) SaveName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("storage: empty name")
	}
	return s.SetSetting(KeyName, name)
}

// Name returns the remembered display name, or "" when none was saved.
func (s *Store) Name() (string, error) {
	name, _, err := s.Setting(KeyName)
	return name, err
}

// RememberRoom records a room as most recently used.
func (s *Store) RememberRoom(roomID, relayURL string, hosted bool) error {
	if roomID == "" {
		return errors.New("storage: empty room id")
	}
	_, err := s.db.Exec(
		`INSERT INTO recent_rooms (room_id, relay_url, hosted, last_used)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(room_id, relay_url) DO UPDATE SET hosted = excluded.hosted, last_used = excluded.last_used`,
		roomID, relayURL, hosted, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot remember room %s: %w", roomID, err)
	}
	return nil
}

const timeLayout = "2006-01-02 15:04:05.000"

// RecentRooms returns up to limit rooms, most recent first.
func (s *Store) RecentRooms(limit int) ([]RoomEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT room_id, relay_url, hosted, last_used
		 FROM recent_rooms
		 ORDER BY last_used DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rooms: %w", err)
	}
	defer rows.Close()

	var entries []RoomEntry
	for rows.Next() {
		var e RoomEntry
		var lastUsed any
		if err := rows.Scan(&e.RoomID, &e.RelayURL, &e.Hosted, &lastUsed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := lastUsed.(type) {
		case time.Time:
			e.LastUsed = v
		case string:
			if parsed, err := time.Parse(timeLayout, v); err == nil {
				e.LastUsed = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// DefaultPath returns the profile database location under dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "profile.db")
}
