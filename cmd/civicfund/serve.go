package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, store, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			server := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           httpapi.NewServer(eng, store),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errChan := make(chan error, 1)
			go func() {
				slog.Info("Serving HTTP API", "addr", cfg.Server.Addr)
				errChan <- server.ListenAndServe()
			}()

			select {
			case err := <-errChan:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			slog.Info("Server stopped")
			return nil
		},
	}
}
