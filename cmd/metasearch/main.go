// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the metasearch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/metasearch/internal/secrets"
	"github.com/pdiddy/metasearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the metasearch CLI.
var rootCmd = &cobra.Command{
	Use:   "metasearch",
	Short: "Federated search across scholarly, legal, and web providers",
	Long: `metasearch answers one query by consulting several independent external
information providers concurrently: the OpenAlex scholarly index, the
Crossref citation registry, the Semantic Scholar citation graph, a
legal-document SRU service, and the DuckDuckGo answer engine. Results are
normalized into one record shape, deduplicated, and merged best-effort even
when some providers fail or lack credentials.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./metasearch.yaml or ~/.config/metasearch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("metasearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "metasearch"))
		}
	}

	viper.SetEnvPrefix("METASEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the runtime configuration from the config file,
// environment, and the secrets directory. Flags and config never leak past
// this point; adapters receive plain values.
func engineConfig() types.EngineConfig {
	var cfg types.EngineConfig
	cfg.Federation.Timeout = viper.GetDuration("federation.timeout")
	cfg.Federation.UserAgent = viper.GetString("federation.user_agent")
	cfg.Federation.ContactEmail = viper.GetString("federation.contact_email")
	cfg.Federation.SemanticScholarAPIKey = viper.GetString("federation.semantic_scholar_api_key")
	cfg.Server.Addr = viper.GetString("server.addr")
	cfg.Server.Env = viper.GetString("server.env")
	cfg.Server.ShutdownTimeout = viper.GetDuration("server.shutdown_timeout")
	cfg.History.Path = viper.GetString("history.path")

	if cfg.Federation.SemanticScholarAPIKey == "" {
		cfg.Federation.SemanticScholarAPIKey = loadedSecrets[secrets.KeySemanticScholar]
	}
	if cfg.Federation.ContactEmail == "" {
		cfg.Federation.ContactEmail = loadedSecrets[secrets.KeyContactEmail]
	}

	cfg.Defaults()
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
