package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/semlink/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// Column weights for bm25 ranking: slug, title, tags, content.
const rankExpr = "bm25(docs_fts, 0.0, 3.0, 2.0, 1.0)"

// Store is a unified SQLite-based storage that provides access to
// the key-value store and the lexical index through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.semlink/data/semlink.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".semlink", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "semlink.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// KeyValueStore returns a KeyValueStore interface backed by this store.
func (s *Store) KeyValueStore() driven.KeyValueStore {
	return &kvStore{store: s}
}

// LexicalIndex returns a LexicalIndex interface backed by this store.
func (s *Store) LexicalIndex() driven.LexicalIndex {
	return &lexicalIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Key-Value Store ====================

// kvStore implements driven.KeyValueStore.
type kvStore struct {
	store *Store
}

var _ driven.KeyValueStore = (*kvStore)(nil)

// Get returns the value for key, or domain.ErrNotFound.
func (s *kvStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.store.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying key %s: %w", key, err)
	}
	return value, nil
}

// Set stores or replaces the value under key.
func (s *kvStore) Set(ctx context.Context, key, value string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("saving key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *kvStore) Delete(ctx context.Context, key string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}

// ==================== Lexical Index ====================

// lexicalIndex implements driven.LexicalIndex on an FTS5 table.
type lexicalIndex struct {
	store *Store
}

var _ driven.LexicalIndex = (*lexicalIndex)(nil)

// Index replaces the table contents with entries in one transaction.
func (x *lexicalIndex) Index(ctx context.Context, entries domain.ContentIndex) error {
	tx, err := x.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM docs_fts"); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO docs_fts (slug, title, tags, content) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for slug, entry := range entries {
		if _, err := stmt.ExecContext(ctx, slug, entry.Title, strings.Join(entry.Tags, " "), entry.Content); err != nil {
			return fmt.Errorf("indexing %s: %w", slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Search matches every query token as a prefix and ranks by bm25.
func (x *lexicalIndex) Search(ctx context.Context, query string, limit int) ([]driven.SearchHit, error) {
	match := matchExpression(query)
	if match == "" || limit <= 0 {
		return nil, nil
	}

	rows, err := x.store.db.QueryContext(ctx, `
		SELECT slug, `+rankExpr+` AS rank FROM docs_fts
		WHERE docs_fts MATCH ?
		ORDER BY rank, slug
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var hits []driven.SearchHit
	for rows.Next() {
		var hit driven.SearchHit
		var rank float64
		if err := rows.Scan(&hit.Slug, &rank); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		// bm25 is lower for better matches.
		hit.Score = -rank
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Close is a no-op; the owning Store closes the connection.
func (x *lexicalIndex) Close() error {
	return nil
}

// matchExpression builds an FTS5 query of quoted prefix terms, implicitly ANDed.
func matchExpression(query string) string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		terms = append(terms, `"`+t+`"*`)
	}
	return strings.Join(terms, " ")
}
