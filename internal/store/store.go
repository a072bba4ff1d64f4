// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store maintains the SQLite message index built from the
// template catalog and the per-locale catalogs. The index gives full-text
// lookup over extracted messages and per-locale translation statistics
// without reparsing every catalog.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/localize-engine/internal/catalog"
	"github.com/pdiddy/localize-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "messages.db"
)

// Store manages the message index database.
type Store struct {
	db         *sql.DB
	localeDir  string
	maxResults int
}

// NewStore opens or creates the index database at
// <localeDir>/index/messages.db, creating the schema if needed.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.LocaleDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, localeDir: cfg.LocaleDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			msgid TEXT NOT NULL,
			plural TEXT NOT NULL DEFAULT '',
			occurrences TEXT,
			UNIQUE(msgid, plural)
		)`,
		`CREATE TABLE IF NOT EXISTS locales (
			locale TEXT PRIMARY KEY,
			translated INTEGER NOT NULL,
			fuzzy INTEGER NOT NULL,
			untranslated INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			source TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='messages_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE messages_fts USING fts5(msgid, plural, content=messages, content_rowid=rowid)`,
			`CREATE TRIGGER messages_ai AFTER INSERT ON messages BEGIN
				INSERT INTO messages_fts(rowid, msgid, plural) VALUES (new.rowid, new.msgid, new.plural);
			END`,
			`CREATE TRIGGER messages_ad AFTER DELETE ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, msgid, plural) VALUES('delete', old.rowid, old.msgid, old.plural);
			END`,
			`CREATE TRIGGER messages_au AFTER UPDATE ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, msgid, plural) VALUES('delete', old.rowid, old.msgid, old.plural);
				INSERT INTO messages_fts(rowid, msgid, plural) VALUES (new.rowid, new.msgid, new.plural);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IndexSummary holds counts from an index run.
type IndexSummary struct {
	Indexed int
	Skipped int
	Failed  int
}

// Total returns the number of sources processed.
func (s IndexSummary) Total() int {
	return s.Indexed + s.Skipped + s.Failed
}

// Index ingests the template at templatePath and every catalog under the
// locale directory. Sources whose file mod-time is unchanged since the
// last run are skipped. Per-source outcomes go to w; source failures are
// counted, not fatal.
func (s *Store) Index(ctx context.Context, w io.Writer, templatePath string) (IndexSummary, error) {
	var summary IndexSummary

	if err := s.indexSource(ctx, w, "template", templatePath, &summary, s.ingestTemplate); err != nil {
		return summary, err
	}

	locales, err := catalog.Locales(s.localeDir)
	if err != nil {
		return summary, err
	}
	for _, locale := range locales {
		path := catalog.Path(s.localeDir, locale)
		ingest := func(ctx context.Context, path string) error {
			return s.ingestLocale(ctx, locale, path)
		}
		if err := s.indexSource(ctx, w, locale, path, &summary, ingest); err != nil {
			return summary, err
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Skipped, summary.Failed)
	return summary, nil
}

// indexSource runs one source through the mod-time check and ingest fn.
func (s *Store) indexSource(ctx context.Context, w io.Writer, name, path string, summary *IndexSummary, ingest func(context.Context, string) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", name, err)
		summary.Failed++
		return nil
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM indexing_status WHERE source = ?`, name,
	).Scan(&storedModTime)
	if err == nil && storedModTime == modTime {
		fmt.Fprintf(w, "skipped %s\n", name)
		summary.Skipped++
		return nil
	}

	if err := ingest(ctx, path); err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", name, err)
		summary.Failed++
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO indexing_status (source, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		name, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	fmt.Fprintf(w, "indexed %s\n", name)
	summary.Indexed++
	return nil
}

// ingestTemplate replaces the messages table with the template's entries.
func (s *Store) ingestTemplate(ctx context.Context, path string) error {
	tmpl, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (msgid, plural, occurrences) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range tmpl.Entries {
		if e.Obsolete {
			continue
		}
		occJSON, _ := json.Marshal(e.Occurrences)
		if _, err := stmt.ExecContext(ctx, e.ID, e.Plural, string(occJSON)); err != nil {
			return fmt.Errorf("inserting message %q: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// ingestLocale recomputes and upserts one locale's statistics row.
func (s *Store) ingestLocale(ctx context.Context, locale, path string) error {
	f, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	stats := types.LocaleStats{Locale: locale}
	for _, e := range f.Entries {
		if e.Obsolete {
			continue
		}
		switch e.State() {
		case types.StateTranslated:
			stats.Translated++
		case types.StateFuzzy:
			stats.Fuzzy++
		case types.StateUntranslated:
			stats.Untranslated++
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO locales (locale, translated, fuzzy, untranslated) VALUES (?, ?, ?, ?)
		 ON CONFLICT(locale) DO UPDATE SET
			translated=excluded.translated, fuzzy=excluded.fuzzy, untranslated=excluded.untranslated`,
		locale, stats.Translated, stats.Fuzzy, stats.Untranslated,
	)
	if err != nil {
		return fmt.Errorf("upserting locale %s: %w", locale, err)
	}
	return nil
}

// MessageHit is one message returned by a query.
type MessageHit struct {
	ID          string             `json:"id" yaml:"id"`
	Plural      string             `json:"plural,omitempty" yaml:"plural,omitempty"`
	Occurrences []types.Occurrence `json:"occurrences" yaml:"occurrences"`
}

// Query runs a full-text search over indexed messages. A limit of 0 uses
// the store default.
func (s *Store) Query(ctx context.Context, query string, limit int) ([]MessageHit, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT m.msgid, m.plural, m.occurrences
		 FROM messages_fts f JOIN messages m ON m.rowid = f.rowid
		 WHERE messages_fts MATCH ?
		 ORDER BY f.rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// Messages returns every indexed message in insertion order.
func (s *Store) Messages(ctx context.Context) ([]MessageHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT msgid, plural, occurrences FROM messages ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

func scanHits(rows *sql.Rows) ([]MessageHit, error) {
	var hits []MessageHit
	for rows.Next() {
		var (
			hit     MessageHit
			occJSON sql.NullString
		)
		if err := rows.Scan(&hit.ID, &hit.Plural, &occJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if occJSON.Valid && occJSON.String != "" {
			if err := json.Unmarshal([]byte(occJSON.String), &hit.Occurrences); err != nil {
				return nil, fmt.Errorf("decoding occurrences: %w", err)
			}
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// LocaleStats returns the indexed per-locale statistics, sorted by locale.
func (s *Store) LocaleStats(ctx context.Context) ([]types.LocaleStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT locale, translated, fuzzy, untranslated FROM locales ORDER BY locale`)
	if err != nil {
		return nil, fmt.Errorf("querying locales: %w", err)
	}
	defer rows.Close()

	var stats []types.LocaleStats
	for rows.Next() {
		var s types.LocaleStats
		if err := rows.Scan(&s.Locale, &s.Translated, &s.Fuzzy, &s.Untranslated); err != nil {
			return nil, fmt.Errorf("scanning locale row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Export is the YAML export of the whole index.
type Export struct {
	GeneratedAt time.Time           `yaml:"generated_at"`
	Messages    []MessageHit        `yaml:"messages"`
	Locales     []types.LocaleStats `yaml:"locales"`
}

// ExportYAML writes the full index to <localeDir>/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	messages, err := s.Messages(ctx)
	if err != nil {
		return "", err
	}
	locales, err := s.LocaleStats(ctx)
	if err != nil {
		return "", err
	}

	export := Export{GeneratedAt: time.Now(), Messages: messages, Locales: locales}
	data, err := yaml.Marshal(&export)
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(s.localeDir, indexDir, "export.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
