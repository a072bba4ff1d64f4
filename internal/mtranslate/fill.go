// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mtranslate

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/localize-engine/internal/catalog"
)

// FillSummary counts the outcome of one catalog fill.
type FillSummary struct {
	Locale     string
	Translated int
	Skipped    int
	Failed     int
}

// FillCatalog translates every untranslated entry of the locale's
// catalog and saves the result. Entries that already carry a translation
// are skipped, as are obsolete entries. Plural entries get both forms
// translated. New translations are flagged fuzzy. Batches that fail are
// reported to w and counted, but do not abort the rest of the fill.
func FillCatalog(ctx context.Context, backend Backend, localeDir, locale, sourceLocale string, batchSize int, w io.Writer) (FillSummary, error) {
	summary := FillSummary{Locale: locale}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	path := catalog.Path(localeDir, locale)
	file, err := catalog.LoadFile(path)
	if err != nil {
		return summary, fmt.Errorf("loading catalog for %s: %w", locale, err)
	}

	var pending []*catalog.Entry
	for _, e := range file.Entries {
		if e.Obsolete {
			continue
		}
		if e.Translated() {
			summary.Skipped++
			continue
		}
		pending = append(pending, e)
	}

	if len(pending) == 0 {
		fmt.Fprintf(w, "nothing to translate for %s\n", locale)
		return summary, nil
	}

	for start := 0; start < len(pending); start += batchSize {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		// One text per singular form plus one per plural form, mapped
		// back positionally after the call.
		var texts []string
		for _, e := range batch {
			texts = append(texts, e.ID)
			if e.Plural != "" {
				texts = append(texts, e.Plural)
			}
		}

		results, err := backend.Translate(ctx, texts, sourceLocale, locale)
		if err != nil {
			summary.Failed += len(batch)
			fmt.Fprintf(w, "failed     batch of %d via %s: %v\n", len(batch), backend.Name(), err)
			continue
		}

		i := 0
		for _, e := range batch {
			if e.Plural != "" {
				e.PluralStr = []string{results[i], results[i+1]}
				i += 2
			} else {
				e.Str = results[i]
				i++
			}
			e.SetFuzzy(true)
			summary.Translated++
			fmt.Fprintf(w, "translated %s\n", e.ID)
		}
	}

	if summary.Translated > 0 {
		if err := file.Save(path); err != nil {
			return summary, fmt.Errorf("saving catalog for %s: %w", locale, err)
		}
	}
	return summary, nil
}
