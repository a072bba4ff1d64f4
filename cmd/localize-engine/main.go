// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the localize-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/localize-engine/internal/secrets"
	"github.com/pdiddy/localize-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the localize-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "localize-engine",
	Short: "Message extraction and catalog tooling for localized applications",
	Long: `localize-engine manages the gettext workflow of a localized application:
a babel.cfg-style mapping file decides which sources are scanned and how,
extract collects marked strings into a template catalog, and init, update,
and compile maintain the per-language catalogs built from it.

Each workflow stage is a subcommand: check and fmt work on the mapping
file, scan and extract walk the source tree, init, update, compile, and
stats maintain catalogs, translate fills gaps through a machine-translation
API, and index maintains a searchable message database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./localize-engine.yaml or ~/.config/localize-engine/config.yaml)")
	rootCmd.PersistentFlags().String("mapping", "babel.cfg", "extraction mapping file")
	rootCmd.PersistentFlags().String("root", ".", "project root that glob patterns resolve against")
	rootCmd.PersistentFlags().String("locale-dir", "translations", "base directory for catalogs")
}

// projectConfig resolves the shared path flags into a ProjectConfig.
func projectConfig(cmd *cobra.Command) types.ProjectConfig {
	mappingPath, _ := cmd.Flags().GetString("mapping")
	root, _ := cmd.Flags().GetString("root")
	localeDir, _ := cmd.Flags().GetString("locale-dir")
	return types.ProjectConfig{
		MappingPath: mappingPath,
		Root:        root,
		LocaleDir:   localeDir,
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("localize-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "localize-engine"))
		}
	}

	viper.SetEnvPrefix("LOCALIZE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
