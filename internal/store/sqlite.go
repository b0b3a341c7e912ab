package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quotify/quotifyd/internal/models"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

var (
	// ErrAlreadySaved is returned when a quote with the same text and
	// author is already in the saved list
	ErrAlreadySaved = errors.New("quote already saved")

	// ErrNotFound is returned when no saved quote matches the given id
	ErrNotFound = errors.New("saved quote not found")
)

// Store handles SQLite persistence for saved quotes, journal notes, and
// user settings. All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new store backed by the given database path, creating
// tables as needed.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.Infof("Database initialized at %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_quotes (
		id TEXT PRIMARY KEY,
		quote_key TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL,
		author TEXT,
		category TEXT,
		saved_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saved_quotes_saved_at ON saved_quotes(saved_at);

	CREATE TABLE IF NOT EXISTS journal_entries (
		quote_key TEXT PRIMARY KEY,
		note TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveQuote stores a quote, rejecting duplicates by text and author
func (s *Store) SaveQuote(quote models.Quote) (models.SavedQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := models.SavedQuote{
		ID:      uuid.NewString(),
		Quote:   quote,
		SavedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(`
		INSERT INTO saved_quotes (id, quote_key, text, author, category, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		saved.ID, quote.Key(), quote.Text, quote.Author, quote.Category, saved.SavedAt)
	if err != nil {
		var exists int
		row := s.db.QueryRow(`SELECT COUNT(*) FROM saved_quotes WHERE quote_key = ?`, quote.Key())
		if scanErr := row.Scan(&exists); scanErr == nil && exists > 0 {
			return models.SavedQuote{}, ErrAlreadySaved
		}
		return models.SavedQuote{}, fmt.Errorf("failed to save quote: %w", err)
	}

	return saved, nil
}

// ListSaved returns every saved quote, oldest first
func (s *Store) ListSaved() ([]models.SavedQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, text, author, category, saved_at
		FROM saved_quotes ORDER BY saved_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved quotes: %w", err)
	}
	defer rows.Close()

	var saved []models.SavedQuote
	for rows.Next() {
		var item models.SavedQuote
		if err := rows.Scan(&item.ID, &item.Quote.Text, &item.Quote.Author, &item.Quote.Category, &item.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved quote: %w", err)
		}
		saved = append(saved, item)
	}

	return saved, rows.Err()
}

// DeleteSaved removes one saved quote and any journal note attached to it
func (s *Store) DeleteSaved(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quoteKey string
	row := s.db.QueryRow(`SELECT quote_key FROM saved_quotes WHERE id = ?`, id)
	if err := row.Scan(&quoteKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up saved quote: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM saved_quotes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete saved quote: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM journal_entries WHERE quote_key = ?`, quoteKey); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	return nil
}

// ClearAll removes every saved quote and every journal note
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM saved_quotes`); err != nil {
		return fmt.Errorf("failed to clear saved quotes: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM journal_entries`); err != nil {
		return fmt.Errorf("failed to clear journal entries: %w", err)
	}

	return nil
}

// AttachNote saves or replaces the journal note for a quote key.
// An empty note removes the entry.
func (s *Store) AttachNote(quoteKey, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == "" {
		_, err := s.db.Exec(`DELETE FROM journal_entries WHERE quote_key = ?`, quoteKey)
		if err != nil {
			return fmt.Errorf("failed to remove journal entry: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO journal_entries (quote_key, note, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(quote_key) DO UPDATE SET
			note = excluded.note,
			updated_at = excluded.updated_at`,
		quoteKey, note, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}

	return nil
}

// Note returns the journal entry for a quote key, or nil when none exists
func (s *Store) Note(quoteKey string) (*models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry models.JournalEntry
	row := s.db.QueryRow(`SELECT note, updated_at FROM journal_entries WHERE quote_key = ?`, quoteKey)
	if err := row.Scan(&entry.Note, &entry.Date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load journal entry: %w", err)
	}

	return &entry, nil
}

// Notes returns every journal entry keyed by quote key
func (s *Store) Notes() (map[string]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT quote_key, note, updated_at FROM journal_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]models.JournalEntry)
	for rows.Next() {
		var key string
		var entry models.JournalEntry
		if err := rows.Scan(&key, &entry.Note, &entry.Date); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries[key] = entry
	}

	return entries, rows.Err()
}

// Setting returns the stored value for a settings key, empty when unset
func (s *Store) Setting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	row := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load setting: %w", err)
	}

	return value, nil
}

// SetSetting stores a settings value
func (s *Store) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
