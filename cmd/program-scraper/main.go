// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the program-scraper CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the program-scraper CLI.
var rootCmd = &cobra.Command{
	Use:   "program-scraper",
	Short: "Scrape a conference program listing into CSV and JSON",
	Long: `program-scraper downloads the paginated program listing of a conference
(IROS 2025 on papercept by default), extracts each paper's id, title, authors,
keywords and abstract, and saves the records as CSV and JSON.

Use scrape for a full run; index and query load a JSON export into a local
SQLite database and search it.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./program-scraper.yaml or ~/.config/program-scraper/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("program-scraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "program-scraper"))
		}
	}

	viper.SetEnvPrefix("PROGRAM_SCRAPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
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
