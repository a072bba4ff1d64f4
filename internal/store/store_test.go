// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/localize-engine/internal/catalog"
	"github.com/pdiddy/localize-engine/pkg/types"
)

// setupProject creates a locale dir with a template and one translated
// catalog, returning the locale dir and template path.
func setupProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	tmpl := catalog.FromMessages([]types.Message{
		{ID: "Sign In", Occurrences: []types.Occurrence{{File: "app/routes.py", Line: 12}}},
		{ID: "Sign Out", Occurrences: []types.Occurrence{{File: "app/routes.py", Line: 30}}},
		{ID: "%d follower", Plural: "%d followers", Occurrences: []types.Occurrence{{File: "app/models.py", Line: 8}}},
	}, time.Now(), "test")
	tmplPath := catalog.TemplatePath(dir)
	if err := tmpl.Save(tmplPath); err != nil {
		t.Fatal(err)
	}

	if _, err := catalog.Init(tmplPath, dir, "es"); err != nil {
		t.Fatal(err)
	}
	path := catalog.Path(dir, "es")
	cat, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cat.Get("Sign In").Str = "Iniciar sesión"
	if err := cat.Save(path); err != nil {
		t.Fatal(err)
	}

	return dir, tmplPath
}

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := NewStore(types.IndexConfig{
		ProjectConfig: types.ProjectConfig{LocaleDir: dir},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIndexAndQuery(t *testing.T) {
	dir, tmplPath := setupProject(t)
	s := newTestStore(t, dir)

	var buf bytes.Buffer
	summary, err := s.Index(context.Background(), &buf, tmplPath)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	// Template + es catalog.
	if summary.Indexed != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}

	hits, err := s.Query(context.Background(), "follower", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d: %+v", len(hits), hits)
	}
	if hits[0].ID != "%d follower" || hits[0].Plural != "%d followers" {
		t.Errorf("hit = %+v", hits[0])
	}
	if len(hits[0].Occurrences) != 1 || hits[0].Occurrences[0].File != "app/models.py" {
		t.Errorf("occurrences = %+v", hits[0].Occurrences)
	}
}

func TestIndexSkipsUnchanged(t *testing.T) {
	dir, tmplPath := setupProject(t)
	s := newTestStore(t, dir)

	var first bytes.Buffer
	if _, err := s.Index(context.Background(), &first, tmplPath); err != nil {
		t.Fatalf("first Index: %v", err)
	}

	var second bytes.Buffer
	summary, err := s.Index(context.Background(), &second, tmplPath)
	if err != nil {
		t.Fatalf("second Index: %v", err)
	}
	if summary.Skipped != 2 || summary.Indexed != 0 {
		t.Errorf("second run summary = %+v", summary)
	}
	if !strings.Contains(second.String(), "skipped template") {
		t.Errorf("output = %q", second.String())
	}

	// Touching the template forces reindexing of it only.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(tmplPath, future, future); err != nil {
		t.Fatal(err)
	}
	var third bytes.Buffer
	summary, err = s.Index(context.Background(), &third, tmplPath)
	if err != nil {
		t.Fatalf("third Index: %v", err)
	}
	if summary.Indexed != 1 || summary.Skipped != 1 {
		t.Errorf("third run summary = %+v", summary)
	}
}

func TestIndexMissingTemplate(t *testing.T) {
	dir, _ := setupProject(t)
	s := newTestStore(t, dir)

	var buf bytes.Buffer
	summary, err := s.Index(context.Background(), &buf, filepath.Join(dir, "missing.pot"))
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(buf.String(), "failed  template") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLocaleStats(t *testing.T) {
	dir, tmplPath := setupProject(t)
	s := newTestStore(t, dir)

	var buf bytes.Buffer
	if _, err := s.Index(context.Background(), &buf, tmplPath); err != nil {
		t.Fatalf("Index: %v", err)
	}

	stats, err := s.LocaleStats(context.Background())
	if err != nil {
		t.Fatalf("LocaleStats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("len(stats) = %d", len(stats))
	}
	if s := stats[0]; s.Locale != "es" || s.Translated != 1 || s.Untranslated != 2 {
		t.Errorf("stats = %+v", s)
	}
}

func TestReindexReplacesMessages(t *testing.T) {
	dir, tmplPath := setupProject(t)
	s := newTestStore(t, dir)

	var buf bytes.Buffer
	if _, err := s.Index(context.Background(), &buf, tmplPath); err != nil {
		t.Fatal(err)
	}

	// Rewrite the template with a different message set.
	tmpl := catalog.FromMessages([]types.Message{
		{ID: "Profile", Occurrences: []types.Occurrence{{File: "app/routes.py", Line: 50}}},
	}, time.Now(), "test")
	if err := tmpl.Save(tmplPath); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(tmplPath, future, future); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Index(context.Background(), &buf, tmplPath); err != nil {
		t.Fatal(err)
	}

	msgs, err := s.Messages(context.Background())
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "Profile" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestExportYAML(t *testing.T) {
	dir, tmplPath := setupProject(t)
	s := newTestStore(t, dir)

	var buf bytes.Buffer
	if _, err := s.Index(context.Background(), &buf, tmplPath); err != nil {
		t.Fatal(err)
	}

	path, err := s.ExportYAML(context.Background())
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("Sign In")) || !bytes.Contains(data, []byte("locales:")) {
		t.Errorf("export content = %s", data)
	}
}
