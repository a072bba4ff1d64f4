// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/localize-engine/internal/catalog"
	"github.com/pdiddy/localize-engine/internal/extract"
	"github.com/pdiddy/localize-engine/internal/mapping"
	"github.com/pdiddy/localize-engine/internal/scan"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract marked strings into the template catalog",
	Long: `Extract scans the source tree per the mapping file, collects every
string wrapped in a translation marker, and writes the template catalog
(messages.pot). Occurrences of the same string are merged into one entry
with all of its source references.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	cfg := projectConfig(cmd)
	if output == "" {
		output = catalog.TemplatePath(cfg.LocaleDir)
	}

	m, err := mapping.Load(cfg.MappingPath)
	if err != nil {
		return err
	}
	if problems := m.Validate(mapping.DefaultRegistry()); mapping.HasErrors(problems) {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, p)
		}
		return fmt.Errorf("%s: mapping has errors", cfg.MappingPath)
	}

	plan, err := scan.BuildPlan(cfg.Root, m.ScanRules(), cfg.LocaleDir)
	if err != nil {
		return err
	}

	msgs, result, err := extract.Run(plan, os.Stdout)
	if err != nil {
		return err
	}

	tmpl := catalog.FromMessages(msgs, time.Now(), version)
	if err := tmpl.Save(output); err != nil {
		return err
	}

	fmt.Printf("%s: %d message(s) from %d file(s)\n", output, len(msgs), result.Scanned)
	if result.Failed > 0 {
		return fmt.Errorf("%d file(s) failed extraction", result.Failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("output", "", "template catalog path (default <locale-dir>/messages.pot)")

	rootCmd.AddCommand(extractCmd)
}
