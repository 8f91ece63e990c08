package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"courtside-backend/internal/models"
)

// Store persists formatted results keyed by a normalized query signature,
// and doubles as the query-history log. All failures here are non-fatal
// to the request path; callers log and move on.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path. ":memory:" works
// for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	table := `
	CREATE TABLE IF NOT EXISTS query_cache (
		signature TEXT PRIMARY KEY,
		id TEXT,
		user_query TEXT,
		sql_text TEXT,
		chart_type TEXT,
		result TEXT,
		created_at DATETIME
	);
	`
	if _, err := db.Exec(table); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Signature normalizes the question (lower-case, collapsed whitespace)
// and hashes it, so trivially re-phrased spacing hits the same entry.
func Signature(userQuery string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(userQuery)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached result for a signature, or nil when absent.
func (s *Store) Lookup(signature string) (*models.FormattingResult, string, error) {
	var resultJSON, sqlText string
	err := s.db.QueryRow(
		`SELECT result, sql_text FROM query_cache WHERE signature = ?`, signature,
	).Scan(&resultJSON, &sqlText)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var result models.FormattingResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, "", err
	}
	return &result, sqlText, nil
}

// Save stores a freshly computed result under its signature, replacing any
// previous entry for the same question.
func (s *Store) Save(signature, userQuery, sqlText string, result *models.FormattingResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO query_cache (signature, id, user_query, sql_text, chart_type, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		signature, uuid.NewString(), userQuery, sqlText, string(result.ChartTypeTag()), string(resultJSON), now,
	)
	return err
}

// History returns the most recent entries, newest first.
func (s *Store) History(limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, user_query, sql_text, chart_type, created_at
		 FROM query_cache ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.Query, &e.SQL, &e.ChartType, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
