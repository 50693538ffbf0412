// Package scene holds the camera, light and viewport of a viewer. It is
// passed explicitly to whatever needs it instead of living in globals.
package scene

import (
	"fmt"
	"image/color"

	"cogentcore.org/core/math32"
)

// Camera is a perspective camera looking at Target. When FocalLength is
// set, FOV follows it and the aspect ratio, in millimeters of FilmGauge.
type Camera struct {
	FOV         float32        `json:"fov"` // vertical, degrees
	FocalLength float32        `json:"focal_length,omitempty"`
	FilmGauge   float32        `json:"film_gauge,omitempty"`
	Near        float32        `json:"near"`
	Far         float32        `json:"far"`
	Aspect      float32        `json:"aspect"`
	Position    math32.Vector3 `json:"position"`
	Target      math32.Vector3 `json:"target"`
	Up          math32.Vector3 `json:"up"`
}

// Light is a point light
type Light struct {
	Color     string         `json:"color"`
	Intensity float32        `json:"intensity"`
	Distance  float32        `json:"distance"`
	Position  math32.Vector3 `json:"position"`
}

// Context is everything a viewer needs to render and pick
type Context struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Background color.RGBA `json:"-"`
	Camera     Camera     `json:"camera"`
	Light      Light      `json:"light"`
	Rotate     bool       `json:"rotate"`
}

// New returns a viewer context of the given size with the default camera
// and light
func New(width, height int, rotate bool) *Context {
	c := &Context{
		Background: color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
		Camera: Camera{
			FOV:         27,
			FocalLength: 60,
			FilmGauge:   35,
			Near:        5,
			Far:         3500,
			Position:    math32.Vec3(0, 0.3, 3),
			Target:      math32.Vec3(0, 0.3, -1),
			Up:          math32.Vec3(0, 1, 0),
		},
		Light: Light{
			Color:     "#ffffff",
			Intensity: 1,
			Distance:  200,
			Position:  math32.Vec3(4, 5, 3),
		},
		Rotate: rotate,
	}
	c.Resize(width, height)
	return c
}

// Resize updates the viewport and the camera aspect ratio
func (c *Context) Resize(width, height int) {
	c.Width = width
	c.Height = height
	if width > 0 && height > 0 {
		c.Camera.Aspect = float32(width) / float32(height)
	} else {
		c.Camera.Aspect = 1
	}
	if c.Camera.FocalLength > 0 {
		c.Camera.SetFocalLength(c.Camera.FocalLength)
	}
}

// SetFocalLength sets the vertical FOV from a focal length on the film
// gauge. The gauge spans the larger of the two viewport dimensions.
func (cam *Camera) SetFocalLength(focalLength float32) {
	gauge := cam.FilmGauge
	if gauge <= 0 {
		gauge = 35
	}
	filmHeight := gauge / math32.Max(cam.Aspect, 1)
	cam.FocalLength = focalLength
	cam.FOV = math32.RadToDeg(2 * math32.Atan(0.5*filmHeight/focalLength))
}

// NDC converts viewport pixel coordinates into normalized device coordinates
func (c *Context) NDC(px, py float32) (float32, float32, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return 0, 0, fmt.Errorf("viewport has no size (%dx%d)", c.Width, c.Height)
	}
	return px/float32(c.Width)*2 - 1, -(py/float32(c.Height))*2 + 1, nil
}

// Ray returns the picking ray through normalized device coordinates
// (x,y), each in [-1,1]
func (cam Camera) Ray(x, y float32) math32.Ray {
	forward := cam.Target.Sub(cam.Position).Normal()
	right := forward.Cross(cam.Up).Normal()
	up := right.Cross(forward)

	tanHalf := math32.Tan(math32.DegToRad(cam.FOV) / 2)
	aspect := cam.Aspect
	if aspect <= 0 {
		aspect = 1
	}

	dir := forward.
		Add(right.MulScalar(x * tanHalf * aspect)).
		Add(up.MulScalar(y * tanHalf)).
		Normal()

	return math32.Ray{Origin: cam.Position, Dir: dir}
}
