package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arthistory/depthviz/internal/summary"
)

func newSummaryCmd() *cobra.Command {
	var (
		datasetPath string
		outputPath  string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize depth statistics of a dataset",
		Long: `Counts paintings per style and reports the mean, minimum and maximum
depth range per century.`,
		Example: `  depthviz summary --dataset paintings.csv
  depthviz summary --dataset paintings.csv --out summary.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(datasetPath)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg.Dataset)
			if err != nil {
				return err
			}

			report := summary.Aggregate(catalog.All(), cfg.Layout.StartYear, cfg.Layout.EndYear)
			report.Dataset = cfg.Dataset
			report.Print(cmd.OutOrStdout())

			if outputPath != "" {
				if err := report.SaveYAML(outputPath); err != nil {
					return err
				}
				slog.Info("Summary saved", "path", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset file; defaults to DEPTHVIZ_DATASET")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "Also write the summary as YAML")

	return cmd
}
