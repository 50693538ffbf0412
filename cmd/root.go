package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arthistory/depthviz/internal/config"
	"github.com/arthistory/depthviz/internal/dataset"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "depthviz",
		Short: "Depth visualizations for an art history image collection",
		Long: `depthviz lays out paintings on a year/depth plot, turns a painting and
its estimated depth map into a 3D point cloud, and talks to the
depth-estimation service.

It serves the viewers over HTTP and exposes the same pipeline on the
command line.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPlotCmd())
	cmd.AddCommand(newPointCloudCmd())
	cmd.AddCommand(newEstimateCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSummaryCmd())

	return cmd
}

// loadConfig reads the environment and applies the --dataset flag on top
func loadConfig(datasetPath string) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if datasetPath != "" {
		cfg.Dataset = datasetPath
	}
	return cfg, nil
}

func loadCatalog(path string) (*dataset.Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("no dataset given: pass --dataset or set DEPTHVIZ_DATASET")
	}
	catalog, err := dataset.NewLoader(path).LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "path", path, "paintings", catalog.Len())
	return catalog, nil
}
