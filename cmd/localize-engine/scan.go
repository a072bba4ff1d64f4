// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/localize-engine/internal/mapping"
	"github.com/pdiddy/localize-engine/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show which source files each mapping rule matches",
	Long: `Scan walks the project tree and assigns every source file to the
first mapping rule whose glob matches it. Use it to debug rule order
and patterns before running extract. --unmatched lists the files no
rule claims.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	showUnmatched, _ := cmd.Flags().GetBool("unmatched")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := projectConfig(cmd)

	m, err := mapping.Load(cfg.MappingPath)
	if err != nil {
		return err
	}

	plan, err := scan.BuildPlan(cfg.Root, m.ScanRules(), cfg.LocaleDir)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	if showUnmatched {
		for _, f := range plan.Unmatched {
			fmt.Println(f)
		}
		fmt.Fprintf(os.Stderr, "%d unmatched file(s)\n", len(plan.Unmatched))
		return nil
	}

	for _, pr := range plan.Rules {
		fmt.Printf("[%s: %s]\n", pr.Rule.Kind, pr.Rule.Pattern)
		for _, f := range pr.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Fprintf(os.Stderr, "%d file(s) matched, %d unmatched\n", plan.Matched(), len(plan.Unmatched))
	return nil
}

func init() {
	scanCmd.Flags().Bool("unmatched", false, "list files no rule matches instead of the plan")
	scanCmd.Flags().Bool("json", false, "output the plan as JSON")

	rootCmd.AddCommand(scanCmd)
}
