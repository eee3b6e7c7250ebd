package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Siddiha/Amp/internal/player"
)

const defaultMaxRows = 1000

// Play is one listening-history row.
type Play struct {
	ID       int64     `json:"id"`
	Track    string    `json:"track"`
	Artists  string    `json:"artists"`
	Album    string    `json:"album,omitempty"`
	URI      string    `json:"uri"`
	PlayedAt time.Time `json:"played_at"`
}

// Store persists played tracks in SQLite with bounded retention. It
// implements player.Recorder.
type Store struct {
	db      *sql.DB
	maxRows int
}

// ------------------------------------------------------------------------------------------------------
// NewStore opens (or creates) the history database at path.
func NewStore(path string, maxRows int) (*Store, error) {
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS plays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		track TEXT NOT NULL,
		artists TEXT NOT NULL,
		album TEXT,
		uri TEXT NOT NULL,
		played_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays(played_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, maxRows: maxRows}, nil
}

// ------------------------------------------------------------------------------------------------------
// Record appends a played track and prunes rows past the retention bound.
func (s *Store) Record(track player.Track) error {
	_, err := s.db.Exec(
		`INSERT INTO plays (track, artists, album, uri, played_at) VALUES (?, ?, ?, ?, ?)`,
		track.Name, track.Artists, track.Album, track.URI, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM plays WHERE id NOT IN (SELECT id FROM plays ORDER BY id DESC LIMIT ?)`,
		s.maxRows,
	)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// ------------------------------------------------------------------------------------------------------
// Recent returns the n most recent plays, newest first.
func (s *Store) Recent(n int) ([]Play, error) {
	if n <= 0 {
		n = 10
	}

	rows, err := s.db.Query(
		`SELECT id, track, artists, album, uri, played_at FROM plays ORDER BY id DESC LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var album sql.NullString
		if err := rows.Scan(&p.ID, &p.Track, &p.Artists, &album, &p.URI, &p.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		p.Album = album.String
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// ------------------------------------------------------------------------------------------------------
// Count returns the number of stored plays.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM plays`).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
