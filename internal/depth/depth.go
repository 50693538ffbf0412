// Package depth talks to the monocular depth-estimation service.
package depth

import (
	"context"
	"image"
)

// Estimator turns a color image into a grayscale depth map
type Estimator interface {
	Estimate(ctx context.Context, img image.Image) (image.Image, error)
}
