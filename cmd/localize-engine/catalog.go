// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/localize-engine/internal/catalog"
	"github.com/pdiddy/localize-engine/pkg/types"
)

// --- init ---

var initCmd = &cobra.Command{
	Use:   "init <locale>",
	Short: "Create a new language catalog from the template",
	Long: `Init creates <locale-dir>/<locale>/LC_MESSAGES/messages.po from the
template catalog with every entry untranslated. The locale must be a
well-formed language tag and must not already have a catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := projectConfig(cmd)

	path, err := catalog.Init(catalog.TemplatePath(cfg.LocaleDir), cfg.LocaleDir, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	return nil
}

// --- update ---

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Merge the template into every language catalog",
	Long: `Update merges the current template into each language catalog: new
messages are added untranslated, messages gone from the template are
removed, and existing translations, flags, and comments are preserved.`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := projectConfig(cmd)

	summary, err := catalog.Update(catalog.TemplatePath(cfg.LocaleDir), cfg.LocaleDir, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("%d catalog(s): %d added, %d removed, %d kept\n",
		summary.Locales, summary.Added, summary.Removed, summary.Kept)
	return nil
}

// --- compile ---

var compileCmd = &cobra.Command{
	Use:   "compile [locale]",
	Short: "Compile catalogs into loadable message files",
	Long: `Compile turns translated catalog entries into active.<locale>.toml
files that an application loads at startup. Untranslated and obsolete
entries are skipped; fuzzy entries are skipped unless --include-fuzzy.
Without an argument every language catalog is compiled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg := catalogConfig(cmd)

	if len(args) == 1 {
		result, err := catalog.Compile(cfg.LocaleDir, args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Printf("compiled %s: %d message(s), %d skipped\n", result.Path, result.Compiled, result.Skipped)
		return nil
	}

	summary, err := catalog.CompileAll(cfg.LocaleDir, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d catalog(s) failed to compile", summary.Failed)
	}
	return nil
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation progress per language",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := projectConfig(cmd)

	stats, err := catalog.Stats(cfg.LocaleDir)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No catalogs found.")
		return nil
	}

	printLocaleStats(stats)
	return nil
}

func printLocaleStats(stats []types.LocaleStats) {
	fmt.Printf("%-8s  %10s  %10s  %12s  %8s\n", "Locale", "Translated", "Fuzzy", "Untranslated", "Done")
	for _, s := range stats {
		done := 0.0
		if total := s.Total(); total > 0 {
			done = float64(s.Translated) / float64(total) * 100
		}
		fmt.Printf("%-8s  %10d  %10d  %12d  %7.1f%%\n",
			s.Locale, s.Translated, s.Fuzzy, s.Untranslated, done)
	}
}

// catalogConfig resolves flags shared by the catalog maintenance commands.
func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	sourceLocale, _ := cmd.Flags().GetString("source-locale")
	includeFuzzy, _ := cmd.Flags().GetBool("include-fuzzy")
	return types.CatalogConfig{
		ProjectConfig: projectConfig(cmd),
		SourceLocale:  sourceLocale,
		IncludeFuzzy:  includeFuzzy,
	}
}

func init() {
	compileCmd.Flags().String("source-locale", "en", "language the message ids are written in")
	compileCmd.Flags().Bool("include-fuzzy", false, "compile fuzzy entries as well")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(statsCmd)
}
