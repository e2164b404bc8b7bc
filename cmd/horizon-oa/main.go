// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the horizon-oa CLI: a pipeline that
// links nationally funded research projects to their Horizon project IDs
// and reconciles how much of their output is open access.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/horizon-oa/internal/secrets"
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

// rootCmd is the base command for the horizon-oa CLI.
var rootCmd = &cobra.Command{
	Use:   "horizon-oa",
	Short: "Link national research projects to Horizon IDs and audit open access",
	Long: `horizon-oa pulls projects and publications from the national research
registry (ETIS), matches the projects against the EU funder's project
listings to recover their Horizon IDs, and reconciles per-publication
open-access status across the registry, the Open Access Button, and
manual checks.

Each pipeline stage is a subcommand: fetch, lookup, resolve, openaccess,
analyze, and sample. Stages communicate through timestamped JSON
artifacts on disk, so every stage can be re-run independently.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments use .secrets/ files.
		godotenv.Load()

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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./horizon-oa.yaml or ~/.config/horizon-oa/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("horizon-oa")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "horizon-oa"))
		}
	}

	viper.SetEnvPrefix("HORIZON_OA")
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
