package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthistory/depthviz/internal/layout"
	"github.com/arthistory/depthviz/internal/styles"
)

func newPlotCmd() *cobra.Command {
	var (
		datasetPath string
		format      string
		outputPath  string
		startYear   int
		endYear     int
		stylePolicy string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Compute the depth plot geometry",
		Long: `Lays out one block per painting, year along x and depth range along y,
colored by the painting's primary style, and writes the blocks, axes and
labels as JSON or YAML.`,
		Example: `  depthviz plot --dataset paintings.csv
  depthviz plot --dataset paintings.csv --format yaml --out plot.yaml --style-policy skip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPlotFormat(format); err != nil {
				return err
			}
			cfg, err := loadConfig(datasetPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("start-year") {
				cfg.Layout.StartYear = startYear
			}
			if cmd.Flags().Changed("end-year") {
				cfg.Layout.EndYear = endYear
			}
			if cmd.Flags().Changed("style-policy") {
				if cfg.Layout.StylePolicy, err = styles.ParsePolicy(stylePolicy); err != nil {
					return err
				}
			}
			if err := cfg.Layout.Validate(); err != nil {
				return err
			}

			catalog, err := loadCatalog(cfg.Dataset)
			if err != nil {
				return err
			}
			plot := layout.Build(catalog.All(), cfg.Layout)
			slog.Info("Depth plot built", "blocks", len(plot.Blocks), "out_of_range", plot.Skipped.OutOfRange, "unknown_style", plot.Skipped.UnknownStyle)

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writePlot(out, plot, format)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset file; defaults to DEPTHVIZ_DATASET")
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json or yaml)")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&startYear, "start-year", 1300, "First year on the x axis")
	cmd.Flags().IntVar(&endYear, "end-year", 2019, "Last year on the x axis")
	cmd.Flags().StringVar(&stylePolicy, "style-policy", "default", "Unknown styles: default (gray) or skip")

	return cmd
}

func checkPlotFormat(format string) error {
	switch format {
	case "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown format %q (expected json or yaml)", format)
}

func writePlot(w io.Writer, plot *layout.Plot, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(plot); err != nil {
			return fmt.Errorf("failed to encode plot to JSON: %w", err)
		}
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		if err := encoder.Encode(plot); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	default:
		return checkPlotFormat(format)
	}
	return nil
}
