package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arthistory/depthviz/internal/dataset"
)

func newExportCmd() *cobra.Command {
	var (
		datasetPath string
		outputPath  string
		onlyDated   bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a dataset to Parquet or JSONL",
		Long: `Reads a dataset in any supported format and writes it as Parquet or JSONL,
chosen by the output file extension.`,
		Example: `  depthviz export --dataset paintings.csv --out paintings.parquet
  depthviz export --dataset paintings.parquet --out dated.jsonl --only-dated`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(datasetPath)
			if err != nil {
				return err
			}
			if cfg.Dataset == "" {
				return fmt.Errorf("no dataset given: pass --dataset or set DEPTHVIZ_DATASET")
			}

			var filter func(*dataset.Painting) bool
			if onlyDated {
				filter = (*dataset.Painting).HasYear
			}
			paintings, err := dataset.NewLoader(cfg.Dataset).LoadWithFilter(filter, -1)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}

			if err := dataset.Save(outputPath, paintings); err != nil {
				return err
			}
			slog.Info("Dataset exported", "from", cfg.Dataset, "to", outputPath, "paintings", len(paintings))
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset file; defaults to DEPTHVIZ_DATASET")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "paintings.parquet", "Output file (.parquet or .jsonl)")
	cmd.Flags().BoolVar(&onlyDated, "only-dated", false, "Drop paintings without a year")

	return cmd
}
