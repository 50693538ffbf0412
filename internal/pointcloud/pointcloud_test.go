package pointcloud

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

func grayImage(w, h int, values []uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: values[y*w+x]})
		}
	}
	return img
}

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pixelCalibration(samples int) Calibration {
	cal := DefaultCalibration()
	cal.Samples = samples
	cal.Width = 0
	cal.Height = 0
	return cal
}

func TestProjectTwoByTwo(t *testing.T) {
	// Row-major depth values: (0,0)=0 (1,0)=128 (0,1)=255 (1,1)=64
	depth := grayImage(2, 2, []uint8{0, 128, 255, 64})
	colors := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	colors.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	colors.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	colors.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	colors.Set(1, 1, color.NRGBA{255, 255, 255, 255})

	cal := pixelCalibration(2)
	points := Project(colors, depth, cal)

	if len(points) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(points))
	}

	// Column-major iteration: x outer, y inner
	wantDepth := []float32{0, 255, 128, 64}
	for k, p := range points {
		want := wantDepth[k]*cal.ZScale + cal.ZTranslate
		if math.Abs(float64(p.Position.Z-want)) > 1e-4 {
			t.Errorf("Point %d: expected z %v, got %v", k, want, p.Position.Z)
		}
	}

	// z must order the same way as the depth values
	for a := range points {
		for b := range points {
			if wantDepth[a] < wantDepth[b] && !(points[a].Position.Z < points[b].Position.Z) {
				t.Errorf("z not monotonic: depth %v -> %v, depth %v -> %v",
					wantDepth[a], points[a].Position.Z, wantDepth[b], points[b].Position.Z)
			}
		}
	}

	if points[0].R != 1 || points[0].G != 0 || points[0].B != 0 {
		t.Errorf("Expected red at (0,0), got %+v", points[0])
	}
	if points[1].B != 1 || points[1].R != 0 {
		t.Errorf("Expected blue at (0,1), got %+v", points[1])
	}
	if points[3].R != 1 || points[3].G != 1 || points[3].B != 1 {
		t.Errorf("Expected white at (1,1), got %+v", points[3])
	}

	// y axis is flipped: row 0 sits above row 1
	if !(points[0].Position.Y > points[1].Position.Y) {
		t.Errorf("Expected row 0 above row 1, got %v and %v", points[0].Position.Y, points[1].Position.Y)
	}
	// x follows column index
	if !(points[2].Position.X > points[0].Position.X) {
		t.Errorf("Expected column 1 right of column 0")
	}
}

func TestProjectCountIndependentOfResolution(t *testing.T) {
	cal := DefaultCalibration()
	cal.Samples = 25

	for _, size := range []int{1, 7, 64, 300} {
		colors := solidImage(size, size, color.NRGBA{10, 20, 30, 255})
		depth := solidImage(size, size, color.NRGBA{100, 100, 100, 255})

		points := Project(colors, depth, cal)
		if len(points) != 25*25 {
			t.Errorf("Size %d: expected %d points, got %d", size, 25*25, len(points))
		}
	}
}

func TestProjectCountScalesWithSamples(t *testing.T) {
	colors := solidImage(50, 40, color.White)
	depth := solidImage(50, 40, color.Black)

	for _, n := range []int{1, 3, 10, 200} {
		cal := DefaultCalibration()
		cal.Samples = n
		if got := len(Project(colors, depth, cal)); got != n*n {
			t.Errorf("Samples %d: expected %d points, got %d", n, n*n, got)
		}
	}
}

func TestProjectEmpty(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	full := solidImage(4, 4, color.White)

	tests := []struct {
		name          string
		colors, depth image.Image
		samples       int
	}{
		{name: "empty color", colors: empty, depth: full, samples: 4},
		{name: "empty depth", colors: full, depth: empty, samples: 4},
		{name: "nil depth", colors: full, depth: nil, samples: 4},
		{name: "zero samples", colors: full, depth: full, samples: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := Project(tt.colors, tt.depth, pixelCalibration(tt.samples))
			if points == nil || len(points) != 0 {
				t.Errorf("Expected empty non-nil result, got %v", points)
			}
		})
	}
}

func TestProjectMismatchedSizesStayInBounds(t *testing.T) {
	colors := solidImage(10, 10, color.White)
	depth := solidImage(3, 5, color.NRGBA{200, 0, 0, 255})

	points := Project(colors, depth, pixelCalibration(10))
	if len(points) != 100 {
		t.Fatalf("Expected 100 points, got %d", len(points))
	}
	want := float32(200)*0.33 - 50
	for _, p := range points {
		if math.Abs(float64(p.Position.Z-want)) > 1e-3 {
			t.Fatalf("Expected clamped depth sample z=%v, got %v", want, p.Position.Z)
		}
	}
}

func TestProjectDefaultCalibrationExtent(t *testing.T) {
	colors := solidImage(680, 680, color.White)
	depth := solidImage(680, 680, color.Black)

	points := Project(colors, depth, DefaultCalibration())
	box := Bounds(points)

	// x spans [0, 340) scaled by 0.2 and shifted by -50
	if box.Min.X != -50 {
		t.Errorf("Expected min x -50, got %v", box.Min.X)
	}
	if box.Max.X >= 340*0.2-50 {
		t.Errorf("Expected max x below %v, got %v", 340*0.2-50, box.Max.X)
	}
	if box.Max.Y != 340*0.2-50 {
		t.Errorf("Expected max y %v, got %v", 340*0.2-50, box.Max.Y)
	}
}

func TestRotateY(t *testing.T) {
	points := []Point{{}}
	points[0].Position.X = 1

	RotateY(points, math.Pi/2)

	if math.Abs(float64(points[0].Position.X)) > 1e-5 {
		t.Errorf("Expected x ~0, got %v", points[0].Position.X)
	}
	if math.Abs(float64(points[0].Position.Z+1)) > 1e-5 {
		t.Errorf("Expected z ~-1, got %v", points[0].Position.Z)
	}
}

func TestRegister(t *testing.T) {
	depth := solidImage(4, 4, color.NRGBA{77, 77, 77, 255})
	target := image.Rect(0, 0, 16, 8)

	registered := Register(depth, target)
	if registered.Bounds().Size() != target.Size() {
		t.Fatalf("Expected size %v, got %v", target.Size(), registered.Bounds().Size())
	}
	r, _, _, _ := registered.At(8, 4).RGBA()
	if r>>8 != 77 {
		t.Errorf("Expected resampled value 77, got %d", r>>8)
	}

	same := Register(depth, depth.Bounds())
	if same != image.Image(depth) {
		t.Error("Expected same-size image to be returned unchanged")
	}
}

func TestWritePLY(t *testing.T) {
	points := []Point{{R: 1, G: 0.5, B: 0}}
	points[0].Position.X = 1.5

	var buf bytes.Buffer
	if err := WritePLY(&buf, points); err != nil {
		t.Fatalf("WritePLY failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "element vertex 1\n") {
		t.Errorf("Expected vertex count in header, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "1.5 0 0 255 128 0\n") {
		t.Errorf("Unexpected vertex line, got:\n%s", out)
	}
}
