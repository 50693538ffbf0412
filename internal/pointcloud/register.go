package pointcloud

import (
	"image"

	"golang.org/x/image/draw"
)

// Register resamples img onto bounds so that it can be projected against an
// image of that size. Images already matching the size are returned as is.
func Register(img image.Image, bounds image.Rectangle) image.Image {
	if img == nil || img.Bounds().Size() == bounds.Size() {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if bounds.Empty() || img.Bounds().Empty() {
		return dst
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
