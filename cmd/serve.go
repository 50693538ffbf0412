package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthistory/depthviz/internal/dataset"
	"github.com/arthistory/depthviz/internal/depth"
	"github.com/arthistory/depthviz/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var (
		port        string
		datasetPath string
		staticDir   string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the depth visualization API server",
		Long: `Starts the depthviz HTTP API on the specified port.

The API serves the painting catalog, the depth plot geometry, viewer
sessions with ray picking, point clouds built from each painting's depth
map, and a proxy to the depth-estimation service.`,
		Example: `  # Start server on default port 8888
  depthviz serve --dataset paintings.csv

  # Reload the dataset when the file changes
  depthviz serve --dataset paintings.parquet --watch

  # Serve a front-end from ./static on port 3000
  depthviz serve --dataset paintings.csv --static static --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(datasetPath)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg.Dataset)
			if err != nil {
				return err
			}

			handler, err := handlers.New(cfg, catalog, depth.NewRemote(cfg.DepthServiceURL))
			if err != nil {
				return err
			}
			handler.StaticDir = staticDir

			if watch {
				go func() {
					if err := dataset.Watch(cmd.Context(), cfg.Dataset, handler.SetCatalog); err != nil {
						slog.Error("Dataset watcher stopped", "err", err)
					}
				}()
			}

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("depthviz API available", "addr", addr, "url", "http://localhost"+addr, "depth_service", cfg.DepthServiceURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset file (.csv, .jsonl or .parquet); defaults to DEPTHVIZ_DATASET")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory of front-end files to serve at /")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the dataset when the file changes")

	return cmd
}
