package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/blackjack"
	"github.com/aretw0/blackjack/internal/cli"
	"github.com/aretw0/blackjack/internal/config"
	"github.com/aretw0/blackjack/pkg/session"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blackjack",
	Short: "Blackjack runs card tables with a branching, persistent history",
	Long: `Blackjack keeps the lifecycle of card tables (seating, play, settlement, reset)
and every snapshot they pass through. Tables live in a file, memory or redis store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", "", "Directory holding table files (file store only)")
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to a YAML or JSON settings file")
	rootCmd.PersistentFlags().String("store", "", "Store backend: file, memory or redis (overrides config)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every operation to stderr")
}

// app is what every command needs: settings, a logger and an opened store.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	backend *cli.Backend
}

func setup(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		cfg.Store.Backend = backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger := cli.NewLogger(debug, cfg.LogLevel)
	slog.SetDefault(logger)

	dir, _ := cmd.Flags().GetString("dir")
	b, err := cli.OpenBackend(cmd.Context(), cfg, dir)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, backend: b}, nil
}

func (a *app) manager(extra ...blackjack.Option) *session.Manager {
	return cli.NewManager(a.backend, a.cfg, a.logger, extra...)
}

func (a *app) close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("store close failed", "err", err)
	}
}
