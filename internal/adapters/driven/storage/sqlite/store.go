// Package sqlite provides SQLite-backed implementations of the driven
// storage ports: articles, suggestions, and historical metrics.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/akash-d122/helpdesk-triage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// article, suggestion, and metrics store interfaces through wrapper
// types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the given path. Parent
// directories are created as needed.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path", domain.ErrMissingConfig)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Articles returns an ArticleStore backed by this store.
func (s *Store) Articles() *ArticleStore {
	return &ArticleStore{store: s}
}

// Suggestions returns a SuggestionStore backed by this store.
func (s *Store) Suggestions() driven.SuggestionStore {
	return &suggestionStore{store: s}
}

// Metrics returns a MetricsStore backed by this store.
func (s *Store) Metrics() driven.MetricsStore {
	return &metricsStore{store: s}
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
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
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

// ==================== Article Store ====================

// ArticleStore implements driven.ArticleStore over SQLite and adds
// the write operations the seeding command needs.
type ArticleStore struct {
	store *Store
}

var _ driven.ArticleStore = (*ArticleStore)(nil)

// Save stores or replaces an article.
func (a *ArticleStore) Save(ctx context.Context, article domain.Article) error {
	tags, err := json.Marshal(article.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	_, err = a.store.db.ExecContext(ctx, `
		INSERT INTO articles (id, title, summary, body, category, tags, view_count, helpfulness_ratio, published, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			body = excluded.body,
			category = excluded.category,
			tags = excluded.tags,
			view_count = excluded.view_count,
			helpfulness_ratio = excluded.helpfulness_ratio,
			published = excluded.published,
			updated_at = excluded.updated_at
	`, article.ID, article.Title, article.Summary, article.Body, article.Category,
		string(tags), article.ViewCount, article.HelpfulnessRatio, boolToInt(article.Published), article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving article: %w", err)
	}
	return nil
}

// ListPublished returns all published articles ordered by ID.
func (a *ArticleStore) ListPublished(ctx context.Context) ([]domain.Article, error) {
	rows, err := a.store.db.QueryContext(ctx, `
		SELECT id, title, summary, body, category, tags, view_count, helpfulness_ratio, published, updated_at
		FROM articles WHERE published = 1 ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var article domain.Article
		var tags string
		var published int
		if err := rows.Scan(&article.ID, &article.Title, &article.Summary, &article.Body,
			&article.Category, &tags, &article.ViewCount, &article.HelpfulnessRatio,
			&published, &article.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &article.Tags); err != nil {
			return nil, fmt.Errorf("unmarshalling tags: %w", err)
		}
		article.Published = published == 1
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// ==================== Suggestion Store ====================

// suggestionStore implements driven.SuggestionStore. The nested
// analysis results are stored as one JSON payload; the columns that
// queries filter on are flattened.
type suggestionStore struct {
	store *Store
}

var _ driven.SuggestionStore = (*suggestionStore)(nil)

// Save stores a new suggestion.
func (s *suggestionStore) Save(ctx context.Context, suggestion *domain.Suggestion) error {
	payload, err := json.Marshal(suggestion)
	if err != nil {
		return fmt.Errorf("marshalling suggestion: %w", err)
	}
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO suggestions (id, ticket_id, trace_id, status, payload, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, suggestion.ID, suggestion.TicketID, suggestion.TraceID, string(suggestion.Status),
		string(payload), suggestion.CreatedAt, suggestion.CompletedAt)
	if err != nil {
		return fmt.Errorf("saving suggestion: %w", err)
	}
	return nil
}

// Get retrieves a suggestion by ID.
func (s *suggestionStore) Get(ctx context.Context, id string) (*domain.Suggestion, error) {
	var payload string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT payload FROM suggestions WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading suggestion: %w", err)
	}
	var suggestion domain.Suggestion
	if err := json.Unmarshal([]byte(payload), &suggestion); err != nil {
		return nil, fmt.Errorf("unmarshalling suggestion: %w", err)
	}
	return &suggestion, nil
}

// UpdateStatus transitions a suggestion's lifecycle state and rewrites
// the payload so it stays authoritative.
func (s *suggestionStore) UpdateStatus(ctx context.Context, id string, status domain.SuggestionStatus, review *domain.Review) error {
	suggestion, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	suggestion.Status = status
	if review != nil {
		suggestion.Review = review
	}
	payload, err := json.Marshal(suggestion)
	if err != nil {
		return fmt.Errorf("marshalling suggestion: %w", err)
	}
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE suggestions SET status = ?, payload = ? WHERE id = ?",
		string(status), string(payload), id)
	if err != nil {
		return fmt.Errorf("updating suggestion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating suggestion: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Metrics Store ====================

// metricsStore implements driven.MetricsStore as a single JSON row.
type metricsStore struct {
	store *Store
}

var _ driven.MetricsStore = (*metricsStore)(nil)

// LoadStats returns the persisted stats, or defaults when none exist.
func (m *metricsStore) LoadStats(ctx context.Context) (domain.HistoricalStats, error) {
	var payload string
	err := m.store.db.QueryRowContext(ctx,
		"SELECT payload FROM metrics WHERE id = 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultStats(), nil
	}
	if err != nil {
		return domain.HistoricalStats{}, fmt.Errorf("loading metrics: %w", err)
	}
	var stats domain.HistoricalStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		return domain.HistoricalStats{}, fmt.Errorf("unmarshalling metrics: %w", err)
	}
	return stats, nil
}

// SaveStats replaces the persisted stats.
func (m *metricsStore) SaveStats(ctx context.Context, stats domain.HistoricalStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshalling metrics: %w", err)
	}
	_, err = m.store.db.ExecContext(ctx, `
		INSERT INTO metrics (id, payload) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload
	`, string(payload))
	if err != nil {
		return fmt.Errorf("saving metrics: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
