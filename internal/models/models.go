package models

import (
	"strconv"
	"sync"
	"time"

	"github.com/arthistory/depthviz/internal/dataset"
	"github.com/arthistory/depthviz/internal/history"
	"github.com/arthistory/depthviz/internal/images"
	"github.com/arthistory/depthviz/internal/latch"
	"github.com/arthistory/depthviz/internal/layout"
	"github.com/arthistory/depthviz/internal/picking"
	"github.com/arthistory/depthviz/internal/scene"
	"github.com/arthistory/depthviz/internal/styles"
)

// ViewerSession is the live state of one depth plot viewer
type ViewerSession struct {
	ID        string
	CreatedAt time.Time

	// Loads joins the input/output image downloads of the latest selection
	Loads latch.Generation

	mu        sync.Mutex
	plot      *layout.Plot
	viewport  *scene.Context
	elements  *picking.Scene
	selection *picking.Selection
	history   *history.History
}

// NewViewerSession registers every plot block as a pickable element.
// Axes and labels are registered as occluders, so a pick whose nearest
// hit is an axis or label selects nothing.
func NewViewerSession(id string, plot *layout.Plot, width, height, historyLimit int) *ViewerSession {
	elements := picking.NewScene()
	for _, b := range plot.Blocks {
		elements.Add(picking.Element{
			ID:     b.ID,
			Bounds: b.Bounds,
			Appearance: picking.Appearance{
				Color:   b.Color,
				Opacity: b.Opacity,
			},
		})
	}
	for _, a := range plot.Axes {
		elements.Add(picking.Element{ID: "axis-" + a.Name, Bounds: a.Bounds(), Occluder: true})
	}
	for i, l := range plot.Labels {
		elements.Add(picking.Element{ID: "label-" + strconv.Itoa(i), Bounds: l.Bounds(), Occluder: true})
	}

	return &ViewerSession{
		ID:        id,
		CreatedAt: time.Now(),
		plot:      plot,
		viewport:  scene.New(width, height, false),
		elements:  elements,
		selection: picking.NewSelection(elements, picking.BoxPicker{}, picking.DefaultHighlight),
		history:   history.New(historyLimit),
	}
}

// Pick casts a ray through viewport pixel (px, py) and updates the
// selection. An empty pick clears the selection. It returns the painting
// now selected, if any.
func (s *ViewerSession) Pick(px, py float32) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	x, y, err := s.viewport.NDC(px, py)
	if err != nil {
		return "", false, err
	}
	hit, ok := s.selection.Update(s.viewport.Camera.Ray(x, y))
	if !ok {
		return "", false, nil
	}
	paintingID, ok := s.plot.PaintingID(hit.ID)
	if !ok {
		return "", false, nil
	}
	s.history.Push(paintingID)
	return paintingID, true, nil
}

// Resize changes the viewport used for picking
func (s *ViewerSession) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Resize(width, height)
}

// Visit records a painting opened outside the plot, e.g. from history
func (s *ViewerSession) Visit(paintingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Push(paintingID)
}

// Selected returns the selected block and its painting
func (s *ViewerSession) Selected() (blockID, paintingID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected()
}

func (s *ViewerSession) selected() (string, string, bool) {
	blockID, ok := s.selection.Selected()
	if !ok {
		return "", "", false
	}
	paintingID, _ := s.plot.PaintingID(blockID)
	return blockID, paintingID, true
}

// View returns the JSON form of the session
func (s *ViewerSession) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Width:     s.viewport.Width,
		Height:    s.viewport.Height,
		Camera:    s.viewport.Camera,
		History:   s.history.Entries(),
	}
	if blockID, paintingID, ok := s.selected(); ok {
		view.SelectedBlock = blockID
		view.SelectedPainting = paintingID
		if e, ok := s.elements.Element(blockID); ok {
			view.Highlight = styles.Hex(e.Appearance.Color)
		}
	}
	return view
}

// SessionView is a viewer session as returned by the API
type SessionView struct {
	ID               string       `json:"id"`
	CreatedAt        time.Time    `json:"created_at"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	Camera           scene.Camera `json:"camera"`
	SelectedBlock    string       `json:"selected_block,omitempty"`
	SelectedPainting string       `json:"selected_painting,omitempty"`
	Highlight        string       `json:"highlight,omitempty"`
	History          []string     `json:"history"`
}

// PickRequest is a pointer position in viewport pixels
type PickRequest struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

// PickResponse is the outcome of a pick
type PickResponse struct {
	Selected bool           `json:"selected"`
	Painting *PaintingPanel `json:"painting,omitempty"`
	History  []string       `json:"history"`
}

// PaintingPanel carries the fields shown in the detail panel
type PaintingPanel struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Year        int      `json:"year,omitempty"`
	Location    string   `json:"location,omitempty"`
	Partner     string   `json:"partner,omitempty"`
	Styles      []string `json:"styles"`
	Color       string   `json:"color"`
	Range       float64  `json:"range"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	AssetLink   string   `json:"asset_link,omitempty"`
	InputImage  string   `json:"input_image"`
	OutputImage string   `json:"output_image"`
}

// NewPaintingPanel fills a panel from a record. baseURL is the image
// storage path.
func NewPaintingPanel(p *dataset.Painting, baseURL string) *PaintingPanel {
	return &PaintingPanel{
		ID:          p.ImageID,
		Title:       p.Title,
		Artist:      p.ArtistName,
		Year:        p.Year,
		Location:    p.Location,
		Partner:     p.PartnerName,
		Styles:      p.Styles(),
		Color:       styles.Hex(styles.Color(p.PrimaryStyle())),
		Range:       p.Range,
		Thumbnail:   p.Thumbnail,
		AssetLink:   p.AssetLink,
		InputImage:  images.InputURL(baseURL, p.ImageID),
		OutputImage: images.OutputURL(baseURL, p.ImageID),
	}
}
