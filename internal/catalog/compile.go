// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/pdiddy/localize-engine/pkg/types"
)

// CompileResult holds the outcome of compiling one locale.
type CompileResult struct {
	Locale   string `json:"locale" yaml:"locale"`
	Path     string `json:"path" yaml:"path"`
	Compiled int    `json:"compiled" yaml:"compiled"`
	Skipped  int    `json:"skipped" yaml:"skipped"`
}

// CompileSummary holds the outcome of a compile run across locales.
type CompileSummary struct {
	Results []CompileResult
	Failed  int
}

// Compile writes the message file for one locale:
// <localeDir>/<locale>/LC_MESSAGES/active.<locale>.toml. Untranslated
// entries are skipped, fuzzy entries too unless cfg.IncludeFuzzy. The
// output is verified by loading it into an i18n bundle. A catalog with
// nothing to compile is an error.
func Compile(localeDir, locale string, cfg types.CatalogConfig) (CompileResult, error) {
	cat, err := LoadFile(Path(localeDir, locale))
	if err != nil {
		return CompileResult{}, err
	}

	messages := map[string]any{}
	result := CompileResult{Locale: locale}
	for _, e := range cat.Entries {
		if e.Obsolete || !e.Translated() || (e.Fuzzy() && !cfg.IncludeFuzzy) {
			result.Skipped++
			continue
		}
		if e.Plural != "" {
			forms := map[string]string{"other": e.PluralStr[0]}
			if len(e.PluralStr) > 1 && e.PluralStr[1] != "" {
				forms = map[string]string{"one": e.PluralStr[0], "other": e.PluralStr[1]}
			}
			messages[e.ID] = forms
		} else {
			messages[e.ID] = e.Str
		}
		result.Compiled++
	}

	if result.Compiled == 0 {
		return result, fmt.Errorf("catalog for %s has no translated messages to compile", locale)
	}

	result.Path = filepath.Join(localeDir, locale, messagesDir, "active."+locale+".toml")
	f, err := os.Create(result.Path)
	if err != nil {
		return result, fmt.Errorf("creating message file: %w", err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(messages); err != nil {
		f.Close()
		return result, fmt.Errorf("encoding message file: %w", err)
	}
	if err := f.Close(); err != nil {
		return result, fmt.Errorf("writing message file: %w", err)
	}

	if err := verify(result.Path, cfg.SourceLocale); err != nil {
		return result, fmt.Errorf("compiled message file failed to load: %w", err)
	}
	return result, nil
}

// verify loads the compiled message file into an i18n bundle, proving the
// application-side loader accepts it.
func verify(path, sourceLocale string) error {
	if sourceLocale == "" {
		sourceLocale = "en"
	}
	tag, err := language.Parse(sourceLocale)
	if err != nil {
		return fmt.Errorf("invalid source locale %q: %w", sourceLocale, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if _, err := bundle.LoadMessageFile(path); err != nil {
		return err
	}
	return nil
}

// CompileAll compiles every locale under localeDir, reporting per-locale
// outcomes to w. Locale failures are counted, not fatal.
func CompileAll(localeDir string, cfg types.CatalogConfig, w io.Writer) (CompileSummary, error) {
	locales, err := Locales(localeDir)
	if err != nil {
		return CompileSummary{}, err
	}
	if len(locales) == 0 {
		return CompileSummary{}, fmt.Errorf("no catalogs under %s: run init first", localeDir)
	}
	sort.Strings(locales)

	var summary CompileSummary
	for _, locale := range locales {
		res, err := Compile(localeDir, locale, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", locale, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "compiled %s (%d messages, %d skipped) -> %s\n", locale, res.Compiled, res.Skipped, res.Path)
		summary.Results = append(summary.Results, res)
	}
	return summary, nil
}
