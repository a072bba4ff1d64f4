// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pdiddy/localize-engine/pkg/types"
)

const (
	// messagesDir is the per-locale subdirectory holding the catalog,
	// following the gettext locale tree convention.
	messagesDir = "LC_MESSAGES"
	// catalogFile is the per-locale catalog filename.
	catalogFile = "messages.po"
	// TemplateFile is the default template catalog filename.
	TemplateFile = "messages.pot"
)

const poDateFmt = "2006-01-02 15:04-0700"

// Path returns the catalog path for a locale:
// <localeDir>/<locale>/LC_MESSAGES/messages.po.
func Path(localeDir, locale string) string {
	return filepath.Join(localeDir, locale, messagesDir, catalogFile)
}

// TemplatePath returns the default template path under localeDir.
func TemplatePath(localeDir string) string {
	return filepath.Join(localeDir, TemplateFile)
}

// Locales lists the locales that have a catalog under localeDir, sorted.
func Locales(localeDir string) ([]string, error) {
	entries, err := os.ReadDir(localeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading locale directory %s: %w", localeDir, err)
	}

	var locales []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(Path(localeDir, entry.Name())); err == nil {
			locales = append(locales, entry.Name())
		}
	}
	sort.Strings(locales)
	return locales, nil
}

// NewTemplate builds an empty template catalog with a standard header.
func NewTemplate(now time.Time, version string) *File {
	f := &File{
		HeaderComments: []string{
			"Translation template.",
			"Extracted by localize-engine " + version + ".",
		},
	}
	f.Headers = []Header{
		{Key: "Project-Id-Version", Value: "PROJECT VERSION"},
		{Key: "POT-Creation-Date", Value: now.Format(poDateFmt)},
		{Key: "PO-Revision-Date", Value: "YEAR-MO-DA HO:MI+ZONE"},
		{Key: "Last-Translator", Value: "FULL NAME <EMAIL@ADDRESS>"},
		{Key: "Language-Team", Value: "LANGUAGE <LL@li.org>"},
		{Key: "MIME-Version", Value: "1.0"},
		{Key: "Content-Type", Value: "text/plain; charset=utf-8"},
		{Key: "Content-Transfer-Encoding", Value: "8bit"},
		{Key: "Generated-By", Value: "localize-engine " + version},
	}
	return f
}

// FromMessages builds a template catalog from extracted messages,
// preserving extraction order.
func FromMessages(msgs []types.Message, now time.Time, version string) *File {
	f := NewTemplate(now, version)
	for _, m := range msgs {
		entry := &Entry{
			ID:          m.ID,
			Plural:      m.Plural,
			Occurrences: m.Occurrences,
		}
		if m.Plural != "" {
			entry.PluralStr = []string{"", ""}
		}
		f.Entries = append(f.Entries, entry)
	}
	return f
}

// Stats summarizes the translation state of every catalog under localeDir.
func Stats(localeDir string) ([]types.LocaleStats, error) {
	locales, err := Locales(localeDir)
	if err != nil {
		return nil, err
	}

	stats := make([]types.LocaleStats, 0, len(locales))
	for _, locale := range locales {
		f, err := LoadFile(Path(localeDir, locale))
		if err != nil {
			return nil, err
		}
		s := types.LocaleStats{Locale: locale}
		for _, e := range f.Entries {
			if e.Obsolete {
				continue
			}
			switch e.State() {
			case types.StateTranslated:
				s.Translated++
			case types.StateFuzzy:
				s.Fuzzy++
			case types.StateUntranslated:
				s.Untranslated++
			}
		}
		stats = append(stats, s)
	}
	return stats, nil
}
