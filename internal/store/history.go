// Package store persists chat sessions and their analyses in a local
// SQLite database under the marie data directory.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Session is one chat session against a project's datasets.
type Session struct {
	ID        string
	Project   string
	Provider  string
	Model     string
	StartedAt time.Time
}

// Analysis is one completed question/answer round trip, including the
// generated program and its raw sandbox output.
type Analysis struct {
	ID         string
	SessionID  string
	Question   string
	Mode       string
	Program    string
	RawOutput  string
	Answer     string
	Error      string
	DurationMS int64
	CreatedAt  time.Time
}

// Store manages the history database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewStore creates or opens the history store under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		started_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		question TEXT NOT NULL,
		mode TEXT NOT NULL,
		program TEXT,
		raw_output TEXT,
		answer TEXT,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_session ON analyses(session_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateSession records the start of a chat session.
func (s *Store) CreateSession(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, project, provider, model, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, sess.ID, sess.Project, sess.Provider, sess.Model, sess.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// RecordAnalysis stores one completed (or failed) analysis.
func (s *Store) RecordAnalysis(a Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO analyses (id, session_id, question, mode, program, raw_output,
			answer, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.SessionID, a.Question, a.Mode, a.Program, a.RawOutput,
		a.Answer, a.Error, a.DurationMS, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}
	return nil
}

// SessionAnalyses returns the analyses of one session, oldest first.
func (s *Store) SessionAnalyses(sessionID string) ([]Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, session_id, question, mode, program, raw_output,
			answer, error, duration_ms, created_at
		FROM analyses WHERE session_id = ? ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()
	return scanAnalyses(rows)
}

// RecentAnalyses returns the latest analyses across sessions, newest first.
func (s *Store) RecentAnalyses(limit int) ([]Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, session_id, question, mode, program, raw_output,
			answer, error, duration_ms, created_at
		FROM analyses ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()
	return scanAnalyses(rows)
}

func scanAnalyses(rows *sql.Rows) ([]Analysis, error) {
	var out []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Question, &a.Mode, &a.Program,
			&a.RawOutput, &a.Answer, &a.Error, &a.DurationMS, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
