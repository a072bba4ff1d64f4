// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/localize-engine/internal/extract"
	"github.com/pdiddy/localize-engine/internal/mapping"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the extraction mapping file",
	Long: `Check parses the mapping file and reports problems: malformed
sections, unparseable glob patterns, empty option keys, unknown extension
identifiers, and kinds no extractor handles. Errors fail the command;
warnings do not unless --strict is set.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := projectConfig(cmd)

	m, err := mapping.Load(cfg.MappingPath)
	if err != nil {
		return err
	}

	problems := m.Validate(mapping.DefaultRegistry())

	// A rule whose kind has no extractor still parses; report it so
	// typos like "pyton" surface before a scan silently skips files.
	for _, r := range m.Rules {
		if r.Kind == extract.IgnoreKind {
			continue
		}
		if _, ok := extract.For(r.Kind); !ok {
			problems = append(problems, mapping.Problem{
				Severity: mapping.SeverityWarning,
				Line:     r.Line,
				Message:  fmt.Sprintf("no extractor for kind %q (known kinds: %v)", r.Kind, extract.Kinds()),
			})
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(problems); err != nil {
			return err
		}
	} else {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, p)
		}
	}

	if mapping.HasErrors(problems) {
		return fmt.Errorf("%s: mapping has errors", cfg.MappingPath)
	}
	if strict && len(problems) > 0 {
		return fmt.Errorf("%s: mapping has warnings (strict mode)", cfg.MappingPath)
	}

	if !jsonOutput {
		fmt.Printf("%s: %d rule(s) ok\n", cfg.MappingPath, len(m.Rules))
	}
	return nil
}

func init() {
	checkCmd.Flags().Bool("strict", false, "treat warnings as errors")
	checkCmd.Flags().Bool("json", false, "output problems as JSON")

	rootCmd.AddCommand(checkCmd)
}
