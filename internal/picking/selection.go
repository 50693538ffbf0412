package picking

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// DefaultHighlight is applied to the selected element
var DefaultHighlight = Appearance{
	Color:   color.RGBA{R: 0xff, G: 0x14, B: 0x93, A: 0xff},
	Opacity: 1.0,
}

// Selection holds at most one selected element of a scene, along with the
// appearance it had before it was highlighted.
//
// States are Unselected and Selected(id). Moving from one selection to
// another always restores the old element before highlighting the new one.
type Selection struct {
	scene     *Scene
	picker    Picker
	highlight Appearance

	current string
	stored  Appearance
	active  bool
}

// NewSelection creates an unselected selection over scene
func NewSelection(scene *Scene, picker Picker, highlight Appearance) *Selection {
	if picker == nil {
		picker = BoxPicker{}
	}
	return &Selection{
		scene:     scene,
		picker:    picker,
		highlight: highlight,
	}
}

// Selected returns the selected element ID
func (s *Selection) Selected() (string, bool) {
	return s.current, s.active
}

// Clear restores the selected element's stored appearance and deselects it
func (s *Selection) Clear() {
	if !s.active {
		return
	}
	if e, ok := s.scene.Element(s.current); ok {
		e.Appearance = s.stored
	}
	s.current = ""
	s.stored = Appearance{}
	s.active = false
}

// Select highlights the element with id, restoring any previous selection
// first. It returns false, leaving the selection cleared, when id is not
// in the scene.
func (s *Selection) Select(id string) bool {
	s.Clear()

	e, ok := s.scene.Element(id)
	if !ok || e.Occluder {
		return false
	}
	s.stored = e.Appearance
	s.current = id
	s.active = true
	e.Appearance = s.highlight
	return true
}

// Update clears the selection, then selects the nearest element hit by
// ray. A ray that hits nothing, or whose nearest hit is an occluder,
// leaves the selection cleared.
func (s *Selection) Update(ray math32.Ray) (Hit, bool) {
	s.Clear()

	hit, ok := s.picker.Pick(ray, s.scene.Pickables())
	if !ok || !s.Select(hit.ID) {
		return Hit{}, false
	}
	return hit, true
}
