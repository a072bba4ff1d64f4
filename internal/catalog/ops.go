// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/language"
)

// Init creates a new per-language catalog under localeDir from the
// template at templatePath. The locale must be a well-formed language tag
// and must not already have a catalog.
func Init(templatePath, localeDir, locale string) (string, error) {
	if _, err := language.Parse(locale); err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	path := Path(localeDir, locale)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("catalog for %s already exists at %s", locale, path)
	}

	tmpl, err := LoadFile(templatePath)
	if err != nil {
		return "", err
	}

	now := time.Now()
	tmpl.HeaderComments = []string{fmt.Sprintf("%s translations.", locale)}
	tmpl.SetHeader("Language", locale)
	tmpl.SetHeader("PO-Revision-Date", now.Format(poDateFmt))
	tmpl.SetHeader("Plural-Forms", "nplurals=2; plural=(n != 1);")

	if err := tmpl.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// UpdateSummary holds counts from merging a template into catalogs.
type UpdateSummary struct {
	Locales int
	Added   int
	Removed int
	Kept    int
}

// Update merges the template at templatePath into every catalog under
// localeDir. New messages are added untranslated, messages gone from the
// template are dropped, and existing translations (with their flags and
// translator comments) are preserved. Progress is written to w.
func Update(templatePath, localeDir string, w io.Writer) (UpdateSummary, error) {
	tmpl, err := LoadFile(templatePath)
	if err != nil {
		return UpdateSummary{}, err
	}

	locales, err := Locales(localeDir)
	if err != nil {
		return UpdateSummary{}, err
	}
	if len(locales) == 0 {
		return UpdateSummary{}, fmt.Errorf("no catalogs under %s: run init first", localeDir)
	}

	var summary UpdateSummary
	for _, locale := range locales {
		path := Path(localeDir, locale)
		cat, err := LoadFile(path)
		if err != nil {
			return summary, err
		}

		added, removed, kept := merge(tmpl, cat)
		if err := cat.Save(path); err != nil {
			return summary, err
		}

		summary.Locales++
		summary.Added += added
		summary.Removed += removed
		summary.Kept += kept
		fmt.Fprintf(w, "updated %s (%d new, %d removed, %d kept)\n", path, added, removed, kept)
	}
	return summary, nil
}

// merge rewrites cat's entries to mirror the template's messages and
// order, carrying over translations. Returns added/removed/kept counts.
func merge(tmpl, cat *File) (added, removed, kept int) {
	existing := make(map[string]*Entry, len(cat.Entries))
	for _, e := range cat.Entries {
		if !e.Obsolete {
			existing[e.ID] = e
		}
	}

	merged := make([]*Entry, 0, len(tmpl.Entries))
	for _, te := range tmpl.Entries {
		entry := &Entry{
			ID:          te.ID,
			Plural:      te.Plural,
			Occurrences: te.Occurrences,
		}
		if te.Plural != "" {
			entry.PluralStr = []string{"", ""}
		}

		if old, ok := existing[te.ID]; ok {
			entry.Str = old.Str
			if te.Plural != "" && len(old.PluralStr) > 0 {
				entry.PluralStr = old.PluralStr
			}
			entry.Flags = old.Flags
			entry.TranslatorComments = old.TranslatorComments
			delete(existing, te.ID)
			kept++
		} else {
			added++
		}
		merged = append(merged, entry)
	}
	removed = len(existing)

	cat.Entries = merged
	cat.SetHeader("POT-Creation-Date", tmpl.Header("POT-Creation-Date"))
	return added, removed, kept
}
