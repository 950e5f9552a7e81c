package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"visitorlog/internal/config"
	"visitorlog/internal/storage"
)

var (
	cfgFile  string
	provider storage.Provider
)

var rootCmd = &cobra.Command{
	Use:   "visitorlog",
	Short: "Visitor log management system",
	Long:  `A web application and command-line tool for recording and reporting visitor entries.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()

		var err error
		var cfg *config.Config
		if cfgFile != "" {
			cfg, err = config.LoadConfig(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		config.Cfg = cfg

		provider = storage.NewProvider(&cfg.Storage)
		if provider == nil {
			slog.Error("Failed to initialize storage provider")
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if provider != nil {
			provider.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./instance/config.yaml)")
}
