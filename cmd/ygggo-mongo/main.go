package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	ggm "github.com/yggai/ygggo_mongo"
)

var (
	// Flags
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ygggo-mongo",
		Short: "Check aliased MongoDB connections",
		Long: `ygggo-mongo builds a connection from YGGGO_MONGO_* environment variables
(or a config file), registers it under its alias with the selected driver
version and checks that it connects.

  ygggo-mongo ping       Register, connect, ping and disconnect
  ygggo-mongo uri        Print the connection string (password masked)
  ygggo-mongo versions   List supported driver versions`,
		Version:       ggm.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newPingCmd(),
		newURICmd(),
		newVersionsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadSettings() (ggm.Settings, *ggm.Configuration, error) {
	settings, err := ggm.LoadSettings(configPath)
	if err != nil {
		return ggm.Settings{}, nil, err
	}
	cfg, err := settings.Configuration()
	if err != nil {
		return ggm.Settings{}, nil, err
	}
	return settings, cfg, nil
}
