// Package history provides SQLite-backed storage for generated cover letters
// (<data dir>/lettersmith.db).
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one generated cover letter.
type Entry struct {
	ID        string
	CreatedAt time.Time
	// JobSource is the posting URL, or "pasted description" for pasted text.
	JobSource string
	// Model is the model name that produced the letter.
	Model  string
	Letter string
}

// Store persists cover letters to an SQLite database.
type Store struct {
	conn *sql.DB
	path string
}

// DBPath returns the database location inside the data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "lettersmith.db")
}

// Open opens (creating if needed) the history database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS letters (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			job_source TEXT NOT NULL,
			model TEXT NOT NULL,
			letter TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_letters_created_at ON letters(created_at);
	`)
	if err != nil {
		return fmt.Errorf("create letters table: %w", err)
	}
	return nil
}

// Add stores a letter and returns the saved entry with its generated ID.
func (s *Store) Add(jobSource, model, text string) (*Entry, error) {
	entry := &Entry{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		JobSource: jobSource,
		Model:     model,
		Letter:    text,
	}

	_, err := s.conn.Exec(`
		INSERT INTO letters (id, created_at, job_source, model, letter)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, formatTime(entry.CreatedAt), entry.JobSource, entry.Model, entry.Letter)
	if err != nil {
		return nil, fmt.Errorf("insert letter: %w", err)
	}
	return entry, nil
}

// Get returns one entry by ID.
func (s *Store) Get(id string) (*Entry, error) {
	row := s.conn.QueryRow(`
		SELECT id, created_at, job_source, model, letter
		FROM letters WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("letter %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get letter: %w", err)
	}
	return entry, nil
}

// List returns the most recent entries, newest first. limit <= 0 lists all.
func (s *Store) List(limit int) ([]*Entry, error) {
	query := `
		SELECT id, created_at, job_source, model, letter
		FROM letters ORDER BY created_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan letter: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes one entry by ID.
func (s *Store) Delete(id string) error {
	result, err := s.conn.Exec("DELETE FROM letters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete letter: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("letter %s not found", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var createdAt string
	if err := row.Scan(&entry.ID, &createdAt, &entry.JobSource, &entry.Model, &entry.Letter); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	entry.CreatedAt = t
	return &entry, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
