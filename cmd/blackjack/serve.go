package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/blackjack"
	"github.com/aretw0/blackjack/internal/cli"
	httpAdapter "github.com/aretw0/blackjack/pkg/adapters/http"
	"github.com/aretw0/blackjack/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes tables over a JSON API, streams changes over websockets and serves Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		addr := a.cfg.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		metrics := observability.NewMetrics(nil)
		streams := httpAdapter.NewStreamManager(a.logger)
		mgr := a.manager(blackjack.WithLifecycleHooks(metrics.Hooks().Merge(streams.Hooks())))
		handler := httpAdapter.NewHandler(mgr,
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithMetricsHandler(metrics.Handler()),
			httpAdapter.WithDeleteHook(metrics.Forget),
		)

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			a.logger.Info("Starting Blackjack Server", "address", addr, "store", a.cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sigCtx.Done():
			a.logger.Info("Start shutdown", "signal", sigCtx.Signal())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Warn("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			a.logger.Info("Blackjack Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides config)")
}
