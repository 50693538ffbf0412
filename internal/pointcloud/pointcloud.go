// Package pointcloud turns a painting and its depth map into colored 3D
// points: x and y from the pixel grid, z from the depth map's red channel.
package pointcloud

import (
	"image"
	"image/color"
	"math"

	"cogentcore.org/core/math32"
)

// Calibration maps grid coordinates into scene space
type Calibration struct {
	// Samples is the grid size along each axis; the output has Samples² points
	Samples int `json:"samples" yaml:"samples"`

	// Width and Height are the logical extent the grid spans. When zero the
	// color image's pixel size is used.
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`

	XScale     float32 `json:"x_scale" yaml:"x_scale"`
	YScale     float32 `json:"y_scale" yaml:"y_scale"`
	ZScale     float32 `json:"z_scale" yaml:"z_scale"`
	XTranslate float32 `json:"x_translate" yaml:"x_translate"`
	YTranslate float32 `json:"y_translate" yaml:"y_translate"`
	ZTranslate float32 `json:"z_translate" yaml:"z_translate"`
}

// DefaultCalibration returns the point cloud viewer's calibration
func DefaultCalibration() Calibration {
	return Calibration{
		Samples:    200,
		Width:      340,
		Height:     340,
		XScale:     0.2,
		YScale:     0.2,
		ZScale:     0.33,
		XTranslate: -50,
		YTranslate: -50,
		ZTranslate: -50,
	}
}

// DefaultRotateY is the presentation rotation the viewer applies around y
const DefaultRotateY = -0.6

// Point is one colored sample. Color channels are in [0,1].
type Point struct {
	Position math32.Vector3 `json:"position"`
	R        float32        `json:"r"`
	G        float32        `json:"g"`
	B        float32        `json:"b"`
}

// Project samples colorImg and depthImg on a Samples×Samples grid.
//
// Both images are expected to be registered to the same coordinate space
// (see Register). Each image is sampled through its own bounds with
// clamping, so mismatched sizes never read outside either image.
// An empty image or a non-positive sample count yields no points.
func Project(colorImg, depthImg image.Image, cal Calibration) []Point {
	if colorImg == nil || depthImg == nil || cal.Samples <= 0 {
		return []Point{}
	}
	cb, db := colorImg.Bounds(), depthImg.Bounds()
	if cb.Empty() || db.Empty() {
		return []Point{}
	}

	w, h := cal.Width, cal.Height
	if w <= 0 {
		w = float32(cb.Dx())
	}
	if h <= 0 {
		h = float32(cb.Dy())
	}

	n := cal.Samples
	stepX := w / float32(n)
	stepY := h / float32(n)

	points := make([]Point, 0, n*n)
	for a := 0; a < n; a++ {
		i := float32(a) * stepX
		for b := 0; b < n; b++ {
			j := float32(b) * stepY

			depth := rgbAt(depthImg, db, i/w, j/h)
			c := rgbAt(colorImg, cb, i/w, j/h)

			points = append(points, Point{
				Position: math32.Vec3(
					i*cal.XScale+cal.XTranslate,
					(h-j)*cal.YScale+cal.YTranslate,
					float32(depth.R)*cal.ZScale+cal.ZTranslate,
				),
				R: float32(c.R) / 255,
				G: float32(c.G) / 255,
				B: float32(c.B) / 255,
			})
		}
	}
	return points
}

// rgbAt reads the pixel at fractional position (u,v) in [0,1) of bounds
func rgbAt(img image.Image, bounds image.Rectangle, u, v float32) color.NRGBA {
	x := bounds.Min.X + clamp(int(math.Floor(float64(u*float32(bounds.Dx())))), bounds.Dx())
	y := bounds.Min.Y + clamp(int(math.Floor(float64(v*float32(bounds.Dy())))), bounds.Dy())
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}

// RotateY rotates points around the y axis by angle radians in place
func RotateY(points []Point, angle float32) {
	sin, cos := math32.Sin(angle), math32.Cos(angle)
	for i := range points {
		p := &points[i].Position
		x, z := p.X, p.Z
		p.X = x*cos + z*sin
		p.Z = -x*sin + z*cos
	}
}

// Bounds returns the bounding box of points; empty input gives an empty box
func Bounds(points []Point) math32.Box3 {
	box := math32.B3Empty()
	for i := range points {
		box.ExpandByPoint(points[i].Position)
	}
	return box
}
