// Package layout places one box per painting on the depth plot: year along
// x, depth range along y.
package layout

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"

	"cogentcore.org/core/math32"

	"github.com/arthistory/depthviz/internal/dataset"
	"github.com/arthistory/depthviz/internal/styles"
)

// Config holds the plot geometry parameters
type Config struct {
	StartYear      int            `json:"start_year" yaml:"start_year"`
	EndYear        int            `json:"end_year" yaml:"end_year"`
	UnitLength     float32        `json:"unit_length" yaml:"unit_length"`
	BlockLength    float32        `json:"block_length" yaml:"block_length"`
	Translate      math32.Vector3 `json:"translate" yaml:"translate"`
	DefaultOpacity float32        `json:"default_opacity" yaml:"default_opacity"`
	StylePolicy    styles.Policy  `json:"style_policy" yaml:"style_policy"`
	TickInterval   int            `json:"tick_interval" yaml:"tick_interval"`
	DepthAxisMax   float32        `json:"depth_axis_max" yaml:"depth_axis_max"`
}

// DefaultConfig returns the depth plot defaults
func DefaultConfig() Config {
	return Config{
		StartYear:      1300,
		EndYear:        2019,
		UnitLength:     0.4,
		BlockLength:    2,
		Translate:      math32.Vec3(34, -15, -300),
		DefaultOpacity: 0.3,
		StylePolicy:    styles.UseDefault,
		TickInterval:   100,
		DepthAxisMax:   255,
	}
}

// Validate checks that the year range and scale are usable
func (c Config) Validate() error {
	if c.EndYear < c.StartYear {
		return fmt.Errorf("end year %d is before start year %d", c.EndYear, c.StartYear)
	}
	if c.UnitLength <= 0 {
		return fmt.Errorf("unit length must be positive, got %v", c.UnitLength)
	}
	return nil
}

// InBounds reports whether year falls inside [StartYear, EndYear]
func (c Config) InBounds(year int) bool {
	return year >= c.StartYear && year <= c.EndYear
}

// offset is half the year span, used to center the x axis on the origin
func (c Config) offset() float32 {
	return float32(c.EndYear-c.StartYear) / 2
}

// YearX returns the untranslated x coordinate of a year
func (c Config) YearX(year int) float32 {
	return (float32(year-c.StartYear) - c.offset()) * c.UnitLength
}

// Block is one painting's box on the plot
type Block struct {
	ID         string         `json:"id" yaml:"id"`
	PaintingID string         `json:"painting_id" yaml:"painting_id"`
	Year       int            `json:"year" yaml:"year"`
	Range      float64        `json:"range" yaml:"range"`
	Style      string         `json:"style" yaml:"style"`
	Center     math32.Vector3 `json:"center" yaml:"center"`
	Size       float32        `json:"size" yaml:"size"`
	Bounds     math32.Box3    `json:"-" yaml:"-"`
	Color      color.RGBA     `json:"-" yaml:"-"`
	Hex        string         `json:"color" yaml:"color"`
	Opacity    float32        `json:"opacity" yaml:"opacity"`
}

// Axis is an axis bar or tick mark, drawn as a thin box
type Axis struct {
	Name   string         `json:"name" yaml:"name"`
	Center math32.Vector3 `json:"center" yaml:"center"`
	Size   math32.Vector3 `json:"size" yaml:"size"`
	Hex    string         `json:"color" yaml:"color"`
}

// Bounds returns the world-space box of the axis bar
func (a Axis) Bounds() math32.Box3 {
	var b math32.Box3
	b.SetFromCenterAndSize(a.Center, a.Size)
	return b
}

// Label is a text label placed on the plot
type Label struct {
	Text     string         `json:"text" yaml:"text"`
	Position math32.Vector3 `json:"position" yaml:"position"`
	Rotated  bool           `json:"rotated" yaml:"rotated"`
	Scale    float32        `json:"scale" yaml:"scale"`
}

// Bounds returns the world-space box of the label panel. Rotated labels
// stand upright.
func (l Label) Bounds() math32.Box3 {
	w, h := float32(labelWidth), float32(labelHeight)
	if l.Rotated {
		w, h = h, w
	}
	var b math32.Box3
	b.SetFromCenterAndSize(l.Position, math32.Vec3(w*l.Scale, h*l.Scale, labelDepth))
	return b
}

// Plot is the computed depth plot geometry
type Plot struct {
	Config  Config  `json:"config" yaml:"config"`
	Blocks  []Block `json:"blocks" yaml:"blocks"`
	Axes    []Axis  `json:"axes" yaml:"axes"`
	Labels  []Label `json:"labels" yaml:"labels"`
	Skipped Skipped `json:"skipped" yaml:"skipped"`

	byID map[string]int
}

// Skipped counts the records left off the plot and why
type Skipped struct {
	OutOfRange   int `json:"out_of_range" yaml:"out_of_range"`
	UnknownStyle int `json:"unknown_style" yaml:"unknown_style"`
}

const (
	axisColor = 0x999999

	xTickLength = 10

	labelScale   = 0.2
	labelZOffset = -10
	labelWidth   = 100
	labelHeight  = 50
	labelDepth   = 1

	xAxisLabelOffset  = -45
	yAxisLabelOffset  = -370
	tickLabelOffsetX  = 7
	tickLabelOffsetY  = -25
	depthLabelY       = 140
	minDepthLabelY    = -10
	maxDepthLabelY    = 240
	xAxisLabelText    = "year"
	yAxisLabelText    = "depth"
	minDepthLabelText = "0"
)

// Build lays out paintings on the plot. Records outside the year range
// are skipped, as are unknown styles under styles.SkipUnknown.
func Build(paintings []dataset.Painting, cfg Config) *Plot {
	plot := &Plot{
		Config: cfg,
		Blocks: make([]Block, 0, len(paintings)),
		byID:   make(map[string]int),
	}

	side := cfg.UnitLength * cfg.BlockLength
	for i := range paintings {
		p := &paintings[i]
		if !cfg.InBounds(p.Year) {
			plot.Skipped.OutOfRange++
			continue
		}

		style := p.PrimaryStyle()
		c, include := styles.Resolve(style, cfg.StylePolicy)
		if !include {
			plot.Skipped.UnknownStyle++
			continue
		}

		center := math32.Vec3(
			cfg.YearX(p.Year),
			side/2+cfg.UnitLength*float32(p.Range),
			0,
		).Add(cfg.Translate)

		var bounds math32.Box3
		bounds.SetFromCenterAndSize(center, math32.Vec3(side, side, side))

		block := Block{
			ID:         "block-" + strconv.Itoa(len(plot.Blocks)),
			PaintingID: p.ImageID,
			Year:       p.Year,
			Range:      p.Range,
			Style:      style,
			Center:     center,
			Size:       side,
			Bounds:     bounds,
			Color:      c,
			Hex:        styles.Hex(c),
			Opacity:    cfg.DefaultOpacity,
		}
		plot.byID[block.ID] = len(plot.Blocks)
		plot.Blocks = append(plot.Blocks, block)
	}

	plot.makeAxes()

	slog.Debug("Depth plot built",
		"blocks", len(plot.Blocks),
		"out_of_range", plot.Skipped.OutOfRange,
		"unknown_style", plot.Skipped.UnknownStyle)

	return plot
}

// Block returns the block with the given ID
func (p *Plot) Block(id string) (*Block, bool) {
	idx, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	return &p.Blocks[idx], true
}

// PaintingID returns the painting associated with a block ID
func (p *Plot) PaintingID(blockID string) (string, bool) {
	b, ok := p.Block(blockID)
	if !ok {
		return "", false
	}
	return b.PaintingID, true
}

// Has reports whether the block ID belongs to a painting on the plot
func (p *Plot) Has(blockID string) bool {
	_, ok := p.byID[blockID]
	return ok
}

func (p *Plot) makeAxes() {
	cfg := p.Config
	u := cfg.UnitLength
	hex := styles.Hex(styles.FromHex(axisColor))

	p.Axes = append(p.Axes, Axis{
		Name:   "y",
		Center: math32.Vec3(-u*cfg.offset(), u*cfg.DepthAxisMax/2, 0).Add(cfg.Translate),
		Size:   math32.Vec3(u, u*cfg.DepthAxisMax, u),
		Hex:    hex,
	})
	p.addLabel(yAxisLabelText, yAxisLabelOffset*u, depthLabelY*u, true)
	p.addLabel(minDepthLabelText, yAxisLabelOffset*u, minDepthLabelY*u, false)
	p.addLabel(strconv.Itoa(int(cfg.DepthAxisMax)), yAxisLabelOffset*u, maxDepthLabelY*u, false)

	p.Axes = append(p.Axes, Axis{
		Name:   "x",
		Center: cfg.Translate,
		Size:   math32.Vec3(u*float32(cfg.EndYear-cfg.StartYear), u, u),
		Hex:    hex,
	})

	if cfg.TickInterval > 0 {
		for year := cfg.StartYear; year < cfg.EndYear; year += cfg.TickInterval {
			x := cfg.YearX(year)
			p.Axes = append(p.Axes, Axis{
				Name:   "tick-" + strconv.Itoa(year),
				Center: math32.Vec3(x, 0, 0).Add(cfg.Translate),
				Size:   math32.Vec3(u, u*xTickLength, u),
				Hex:    hex,
			})
			p.addLabel(strconv.Itoa(year), x+tickLabelOffsetX, tickLabelOffsetY*u, false)
		}
	}
	p.addLabel(xAxisLabelText, 0, xAxisLabelOffset*u, false)
}

func (p *Plot) addLabel(text string, x, y float32, rotated bool) {
	p.Labels = append(p.Labels, Label{
		Text:     text,
		Position: math32.Vec3(x, y, labelZOffset).Add(p.Config.Translate),
		Rotated:  rotated,
		Scale:    labelScale,
	})
}
