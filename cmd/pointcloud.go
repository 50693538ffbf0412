package cmd

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arthistory/depthviz/internal/images"
	"github.com/arthistory/depthviz/internal/pointcloud"
)

func newPointCloudCmd() *cobra.Command {
	var (
		colorPath   string
		depthPath   string
		paintingID  string
		datasetPath string
		outputPath  string
		outputDir   string
		samples     int
		rotate      bool
		limit       int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "pointcloud",
		Short: "Build a point cloud from a painting and its depth map",
		Long: `Samples a painting and its depth map on a square grid and writes the
colored points as a PLY file. The images come from local files, from the
image storage for one painting, or from the storage for every painting in
a dataset.`,
		Example: `  # Local images
  depthviz pointcloud --color input.png --depth output.png --out cloud.ply

  # One painting from storage
  depthviz pointcloud --id rQE3Vym-EKB_9Q --out cloud.ply --rotate

  # The first 50 paintings of a dataset, 8 at a time
  depthviz pointcloud --dataset paintings.csv --out-dir clouds --limit 50 --concurrency 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			cal := pointcloud.DefaultCalibration()
			cal.Samples = samples
			fetcher := images.NewFetcher(cfg.StoragePath)

			switch {
			case colorPath != "" || depthPath != "":
				if colorPath == "" || depthPath == "" {
					return fmt.Errorf("--color and --depth must be given together")
				}
				colorImg, err := decodeFile(colorPath)
				if err != nil {
					return err
				}
				depthImg, err := decodeFile(depthPath)
				if err != nil {
					return err
				}
				return writeCloud(outputPath, colorImg, depthImg, cal, rotate)

			case paintingID != "":
				pair, err := fetcher.FetchPair(cmd.Context(), nil, paintingID)
				if err != nil {
					return err
				}
				return writeCloud(outputPath, pair.Input, pair.Output, cal, rotate)

			case datasetPath != "":
				catalog, err := loadCatalog(datasetPath)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(outputDir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				ids := make([]string, 0, catalog.Len())
				for _, p := range catalog.All() {
					if p.ImageID != "" {
						ids = append(ids, p.ImageID)
					}
					if limit > 0 && len(ids) >= limit {
						break
					}
				}
				return writeClouds(cmd.Context(), fetcher, ids, outputDir, cal, rotate, concurrency)

			default:
				return fmt.Errorf("give --color and --depth, --id, or --dataset")
			}
		},
	}

	cmd.Flags().StringVar(&colorPath, "color", "", "Color image file")
	cmd.Flags().StringVar(&depthPath, "depth", "", "Depth map file")
	cmd.Flags().StringVar(&paintingID, "id", "", "Painting ID to fetch from image storage")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset whose paintings to convert")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "cloud.ply", "Output PLY file")
	cmd.Flags().StringVar(&outputDir, "out-dir", "clouds", "Output directory for --dataset")
	cmd.Flags().IntVar(&samples, "samples", 200, "Grid samples per axis")
	cmd.Flags().BoolVar(&rotate, "rotate", false, "Apply the viewer's rotation around y")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum paintings for --dataset (0 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel downloads for --dataset")

	return cmd
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

func writeCloud(path string, colorImg, depthImg image.Image, cal pointcloud.Calibration, rotate bool) error {
	depthImg = pointcloud.Register(depthImg, colorImg.Bounds())
	points := pointcloud.Project(colorImg, depthImg, cal)
	if rotate {
		pointcloud.RotateY(points, pointcloud.DefaultRotateY)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := pointcloud.WritePLY(f, points); err != nil {
		return err
	}
	slog.Info("Point cloud written", "path", path, "points", len(points))
	return nil
}

// writeClouds converts paintings in parallel. A painting whose images
// cannot be fetched is logged and skipped.
func writeClouds(ctx context.Context, fetcher *images.Fetcher, ids []string, dir string, cal pointcloud.Calibration, rotate bool, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	var written, failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			slog.Info("Processing painting", "id", id, "progress", fmt.Sprintf("%d/%d", i+1, len(ids)))
			pair, err := fetcher.FetchPair(gctx, nil, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("Failed to fetch images", "id", id, "error", err)
				failed.Add(1)
				return nil
			}
			if err := writeCloud(filepath.Join(dir, id+".ply"), pair.Input, pair.Output, cal, rotate); err != nil {
				return err
			}
			written.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Point clouds written", "dir", dir, "written", written.Load(), "failed", failed.Load())
	return nil
}
