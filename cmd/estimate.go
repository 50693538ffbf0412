package cmd

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthistory/depthviz/internal/depth"
	"github.com/arthistory/depthviz/internal/images"
)

func newEstimateCmd() *cobra.Command {
	var (
		imagePath  string
		paintingID string
		outputPath string
		serviceURL string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a depth map with the depth service",
		Long: `Sends an image to the depth-estimation service and writes the returned
grayscale depth map as a PNG. The service URL comes from --service,
DEPTH_SERVICE_URL, or defaults to http://localhost:3366.`,
		Example: `  depthviz estimate --image painting.jpg --out depth.png
  depthviz estimate --id rQE3Vym-EKB_9Q --out depth.png --service http://gpu-box:3366`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			if serviceURL == "" {
				serviceURL = cfg.DepthServiceURL
			}

			var img image.Image
			switch {
			case imagePath != "":
				if img, err = decodeFile(imagePath); err != nil {
					return err
				}
			case paintingID != "":
				fetcher := images.NewFetcher(cfg.StoragePath)
				if img, err = fetcher.Fetch(cmd.Context(), images.InputURL(cfg.StoragePath, paintingID)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("give --image or --id")
			}

			depthMap, err := depth.NewRemote(serviceURL).Estimate(cmd.Context(), img)
			if err != nil {
				return fmt.Errorf("depth estimation failed: %w", err)
			}

			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			if err := png.Encode(f, depthMap); err != nil {
				return fmt.Errorf("failed to encode depth map: %w", err)
			}

			slog.Info("Depth map written", "path", outputPath, "bounds", depthMap.Bounds())
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Image file to estimate")
	cmd.Flags().StringVar(&paintingID, "id", "", "Painting ID whose input image to estimate")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "depth.png", "Output PNG file")
	cmd.Flags().StringVar(&serviceURL, "service", "", "Depth service URL")

	return cmd
}
