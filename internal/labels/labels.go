// Package labels renders the text textures used for plot axis labels.
package labels

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	CanvasWidth  = 400
	CanvasHeight = 200

	// text is anchored here, not at the canvas center, so the visible part
	// of the texture sits in the top-left quarter
	anchorX = 100
	anchorY = 50

	fontSize = 64
)

// Renderer draws label textures and caches the encoded PNGs by text
type Renderer struct {
	Background color.Color
	Foreground color.Color

	face   font.Face
	drawMu sync.Mutex
	mu     sync.RWMutex
	cache  map[string][]byte
}

// NewRenderer returns a renderer drawing black text on white
func NewRenderer() (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return &Renderer{
		Background: color.White,
		Foreground: color.Black,
		face:       face,
		cache:      make(map[string][]byte),
	}, nil
}

// Render draws text onto a new label canvas
func (r *Renderer) Render(text string) image.Image {
	return r.draw(text).Image()
}

// draw renders onto a fresh context. Font faces are not safe for
// concurrent use, so drawing is serialized.
func (r *Renderer) draw(text string) *gg.Context {
	r.drawMu.Lock()
	defer r.drawMu.Unlock()

	ctx := gg.NewContext(CanvasWidth, CanvasHeight)
	ctx.SetColor(r.Background)
	ctx.Clear()
	ctx.SetFontFace(r.face)
	ctx.SetColor(r.Foreground)
	ctx.DrawStringAnchored(text, anchorX, anchorY, 0.5, 0.5)
	return ctx
}

// PNG returns the encoded texture for text
func (r *Renderer) PNG(text string) ([]byte, error) {
	r.mu.RLock()
	data, ok := r.cache[text]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	var buf bytes.Buffer
	if err := r.draw(text).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode label %q: %w", text, err)
	}

	r.mu.Lock()
	r.cache[text] = buf.Bytes()
	r.mu.Unlock()
	return buf.Bytes(), nil
}

// WritePNG writes the texture for text to w
func (r *Renderer) WritePNG(w io.Writer, text string) error {
	data, err := r.PNG(text)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
