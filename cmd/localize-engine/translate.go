// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/localize-engine/internal/catalog"
	"github.com/pdiddy/localize-engine/internal/mtranslate"
	"github.com/pdiddy/localize-engine/pkg/types"
)

var translateCmd = &cobra.Command{
	Use:   "translate [locale...]",
	Short: "Fill untranslated entries through a machine-translation API",
	Long: `Translate sends the untranslated entries of each locale's catalog to
the Microsoft Translator API and writes the results back flagged fuzzy,
ready for human review. Without arguments every language catalog is
filled.

The API key is read from --api-key or the "translator-api-key" secret.`,
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg := translateConfig(cmd)
	sourceLocale, _ := cmd.Flags().GetString("source-locale")
	project := projectConfig(cmd)

	locales := args
	if len(locales) == 0 {
		all, err := catalog.Locales(project.LocaleDir)
		if err != nil {
			return err
		}
		locales = all
	}
	if len(locales) == 0 {
		return fmt.Errorf("no catalogs under %s: run init first", project.LocaleDir)
	}

	backend, err := mtranslate.NewMicrosoft(cfg)
	if err != nil {
		return err
	}

	failed := 0
	for _, locale := range locales {
		summary, err := mtranslate.FillCatalog(context.Background(), backend,
			project.LocaleDir, locale, sourceLocale, cfg.BatchSize, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d translated, %d skipped, %d failed\n",
			locale, summary.Translated, summary.Skipped, summary.Failed)
		failed += summary.Failed
	}

	if failed > 0 {
		return fmt.Errorf("%d message(s) failed translation", failed)
	}
	return nil
}

func translateConfig(cmd *cobra.Command) types.TranslateConfig {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	apiKey, _ := cmd.Flags().GetString("api-key")
	region, _ := cmd.Flags().GetString("region")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	return types.TranslateConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "localize-engine/" + version,
		},
		Endpoint:   endpoint,
		APIKey:     secretDefault("translator-api-key", apiKey),
		Region:     secretDefault("translator-region", region),
		BatchSize:  batchSize,
		MaxRetries: maxRetries,
	}
}

func init() {
	translateCmd.Flags().String("endpoint", "", "translation API base URL (default: Microsoft public endpoint)")
	translateCmd.Flags().String("api-key", "", "translation API key (default: translator-api-key secret)")
	translateCmd.Flags().String("region", "", "API resource region (default: translator-region secret)")
	translateCmd.Flags().String("source-locale", "en", "language the message ids are written in")
	translateCmd.Flags().Int("batch-size", 25, "strings sent per API request")
	translateCmd.Flags().Int("max-retries", 3, "retry attempts on rate limiting")
	translateCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")

	rootCmd.AddCommand(translateCmd)
}
