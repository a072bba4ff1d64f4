// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/localize-engine/internal/catalog"
	"github.com/pdiddy/localize-engine/internal/store"
	"github.com/pdiddy/localize-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the searchable message index (build, query, export)",
	Long: `Index maintains a local SQLite database built from the template and
language catalogs. Use subcommands to rebuild it, query messages with
full-text search, or export it.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest the template and language catalogs into the index",
	Long: `Build reads the template catalog and every language catalog into a
SQLite database with FTS5 indexing. Catalogs whose files are unchanged
since the last build are skipped.`,
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg := indexConfig(cmd)

	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Index(context.Background(), os.Stdout, catalog.TemplatePath(cfg.LocaleDir))
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d source(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [terms]",
	Short: "Search indexed messages with full-text search",
	Long: `Query searches message ids and plural forms with FTS5 full-text
search and prints each hit with its source occurrences. Without terms it
lists every indexed message.`,
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := indexConfig(cmd)
	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var hits []store.MessageHit
	if len(args) == 0 {
		hits, err = s.Messages(context.Background())
	} else {
		hits, err = s.Query(context.Background(), strings.Join(args, " "), limit)
	}
	if err != nil {
		return err
	}

	return formatQueryOutput(hits, jsonOutput)
}

func formatQueryOutput(hits []store.MessageHit, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %s\n", "Rank", "Message", "Occurrences")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, h := range hits {
		id := h.ID
		if len(id) > 50 {
			id = id[:47] + "..."
		}
		refs := make([]string, len(h.Occurrences))
		for j, o := range h.Occurrences {
			refs[j] = fmt.Sprintf("%s:%d", o.File, o.Line)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %s\n", i+1, id, strings.Join(refs, " "))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the message index to YAML",
	Long: `Export writes every indexed message and per-locale statistics to
<locale-dir>/index/export.yaml.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	cfg := indexConfig(cmd)
	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := s.ExportYAML(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.IndexConfig{
		ProjectConfig: projectConfig(cmd),
		MaxResults:    maxResults,
	}
}

func init() {
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
