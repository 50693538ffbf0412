// Package picking finds which element a pointer ray hits and tracks the
// single selected element, independent of any rendering engine.
package picking

import (
	"image/color"
	"sort"

	"cogentcore.org/core/math32"
)

// Pickable is anything with an ID and a world-space bounding box
type Pickable interface {
	PickID() string
	PickBounds() math32.Box3
}

// Hit is a ray intersection with a pickable
type Hit struct {
	ID       string         `json:"id"`
	Point    math32.Vector3 `json:"point"`
	Distance float32        `json:"distance"`
}

// Picker returns the nearest pickable hit by ray, if any
type Picker interface {
	Pick(ray math32.Ray, pickables []Pickable) (Hit, bool)
}

// BoxPicker intersects the ray with each pickable's bounding box
type BoxPicker struct{}

// Intersections returns every hit sorted from nearest to furthest
func (BoxPicker) Intersections(ray math32.Ray, pickables []Pickable) []Hit {
	var hits []Hit
	for _, p := range pickables {
		pt, ok := ray.IntersectBox(p.PickBounds())
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			ID:       p.PickID(),
			Point:    pt,
			Distance: pt.Sub(ray.Origin).Length(),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// Pick returns the nearest hit
func (bp BoxPicker) Pick(ray math32.Ray, pickables []Pickable) (Hit, bool) {
	hits := bp.Intersections(ray, pickables)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// Appearance is the mutable visual state of an element
type Appearance struct {
	Color   color.RGBA `json:"-"`
	Opacity float32    `json:"opacity"`
}

// Element is a pickable element with an appearance. An occluder stops
// rays like any element but can never be selected.
type Element struct {
	ID         string
	Bounds     math32.Box3
	Appearance Appearance
	Occluder   bool
}

func (e *Element) PickID() string          { return e.ID }
func (e *Element) PickBounds() math32.Box3 { return e.Bounds }

// Scene is the set of pickable elements. It is not safe for concurrent use.
type Scene struct {
	elements  []*Element
	pickables []Pickable
	byID      map[string]*Element
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{byID: make(map[string]*Element)}
}

// Add registers an element. Adding an existing ID replaces its entry.
func (s *Scene) Add(e Element) {
	if old, ok := s.byID[e.ID]; ok {
		*old = e
		return
	}
	el := &e
	s.elements = append(s.elements, el)
	s.pickables = append(s.pickables, el)
	s.byID[e.ID] = el
}

// Element returns the element with the given ID
func (s *Scene) Element(id string) (*Element, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Pickables returns all elements as pickables
func (s *Scene) Pickables() []Pickable {
	return s.pickables
}

// Len returns the number of elements
func (s *Scene) Len() int {
	return len(s.elements)
}
