package scene

import (
	"math"
	"testing"

	"cogentcore.org/core/math32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestResize(t *testing.T) {
	c := New(800, 400, false)
	if c.Camera.Aspect != 2 {
		t.Errorf("Expected aspect 2, got %v", c.Camera.Aspect)
	}

	c.Resize(0, 0)
	if c.Camera.Aspect != 1 {
		t.Errorf("Expected aspect 1 for empty viewport, got %v", c.Camera.Aspect)
	}
}

func TestFocalLength(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          float32
	}{
		{name: "widescreen", width: 1920, height: 1080, want: 18.635},
		{name: "square", width: 500, height: 500, want: 32.52},
		{name: "portrait keeps full gauge", width: 500, height: 1000, want: 32.52},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.width, tt.height, false)
			if math.Abs(float64(c.Camera.FOV-tt.want)) > 0.01 {
				t.Errorf("Expected fov %v, got %v", tt.want, c.Camera.FOV)
			}
		})
	}

	// without a focal length the fov is left alone
	c := New(1920, 1080, false)
	c.Camera.FocalLength = 0
	c.Camera.FOV = 27
	c.Resize(800, 600)
	if c.Camera.FOV != 27 {
		t.Errorf("Expected fixed fov 27, got %v", c.Camera.FOV)
	}
}

func TestNDC(t *testing.T) {
	c := New(200, 100, false)

	tests := []struct {
		name         string
		px, py       float32
		wantX, wantY float32
	}{
		{name: "top left", px: 0, py: 0, wantX: -1, wantY: 1},
		{name: "center", px: 100, py: 50, wantX: 0, wantY: 0},
		{name: "bottom right", px: 200, py: 100, wantX: 1, wantY: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, err := c.NDC(tt.px, tt.py)
			if err != nil {
				t.Fatalf("NDC failed: %v", err)
			}
			if !near(x, tt.wantX) || !near(y, tt.wantY) {
				t.Errorf("Expected (%v,%v), got (%v,%v)", tt.wantX, tt.wantY, x, y)
			}
		})
	}

	c.Resize(0, 0)
	if _, _, err := c.NDC(1, 1); err == nil {
		t.Error("Expected error for empty viewport")
	}
}

func TestCameraRay(t *testing.T) {
	cam := Camera{
		FOV:      90,
		Aspect:   1,
		Position: math32.Vec3(0, 0, 10),
		Target:   math32.Vec3(0, 0, 0),
		Up:       math32.Vec3(0, 1, 0),
	}

	center := cam.Ray(0, 0)
	if !near(center.Dir.X, 0) || !near(center.Dir.Y, 0) || !near(center.Dir.Z, -1) {
		t.Errorf("Expected center ray along -z, got %+v", center.Dir)
	}
	if center.Origin != cam.Position {
		t.Errorf("Expected ray to start at camera, got %+v", center.Origin)
	}

	// 90 degree fov: the top edge is at 45 degrees
	top := cam.Ray(0, 1)
	if !near(top.Dir.Y, float32(math.Sqrt2/2)) || !near(top.Dir.Z, -float32(math.Sqrt2/2)) {
		t.Errorf("Expected top ray at 45 degrees, got %+v", top.Dir)
	}

	right := cam.Ray(1, 0)
	if !(right.Dir.X > 0) {
		t.Errorf("Expected right ray to point +x, got %+v", right.Dir)
	}
}
