package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/playgraph/internal/adapters/http"
)

var servePort string

const shutdownGrace = 5 * time.Second

// serveCmd starts the live graph server for one playbook.
var serveCmd = &cobra.Command{
	Use:   "serve <playbook>",
	Short: "Serve a playbook's graph over HTTP",
	Long: `Starts an HTTP server that renders the playbook on every request, so
edits show up on refresh. Serves an interactive Mermaid page on /, the raw
renderings on /graph.{mmd,dot,json}, and Prometheus metrics on /metrics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		grapher := newGrapher(logger)
		server := httpAdapter.NewServer(grapher, args[0], logger)

		srv := &http.Server{
			Addr:    ":" + servePort,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server started", "addr", srv.Addr, "playbook", args[0])
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownGrace, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to stop server: %w", err)
				}
			}
		}
		return nil
	},
}

func init() {
	addRenderFlags(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
