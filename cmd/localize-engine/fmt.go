// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/localize-engine/internal/mapping"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Print the mapping file in canonical form",
	Long: `Fmt parses the mapping file and prints it in canonical form:
normalized section headers, "key = value" options, comments attached to
the rule below them, and one blank line between rules. With --write the
file is rewritten in place instead; with --check nothing is written and
the command fails if the file is not already canonical.`,
	RunE: runFmt,
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	checkOnly, _ := cmd.Flags().GetBool("check")
	cfg := projectConfig(cmd)

	m, err := mapping.Load(cfg.MappingPath)
	if err != nil {
		return err
	}

	var formatted bytes.Buffer
	if err := m.Write(&formatted); err != nil {
		return err
	}

	original, err := os.ReadFile(cfg.MappingPath)
	if err != nil {
		return err
	}
	canonical := bytes.Equal(original, formatted.Bytes())

	switch {
	case checkOnly:
		if !canonical {
			return fmt.Errorf("%s: not in canonical form", cfg.MappingPath)
		}
		fmt.Printf("%s: already canonical\n", cfg.MappingPath)
	case write:
		if canonical {
			fmt.Printf("%s: already canonical\n", cfg.MappingPath)
			return nil
		}
		if err := m.Save(cfg.MappingPath); err != nil {
			return err
		}
		fmt.Printf("%s: rewritten\n", cfg.MappingPath)
	default:
		if _, err := os.Stdout.Write(formatted.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	fmtCmd.Flags().Bool("write", false, "rewrite the file in place instead of printing")
	fmtCmd.Flags().Bool("check", false, "fail if the file is not canonical, without writing")

	rootCmd.AddCommand(fmtCmd)
}
