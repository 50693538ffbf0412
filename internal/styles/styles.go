// Package styles maps art movements to the colors used by the depth plot
// and its legend.
package styles

import (
	"fmt"
	"image/color"
	"strings"
)

// Other is the style name whose color is used for unrecognized styles
const Other = "Other"

// Policy decides what happens to a record whose style has no table entry
type Policy int

const (
	// UseDefault colors unknown styles with the Other entry
	UseDefault Policy = iota
	// SkipUnknown excludes records with unknown styles
	SkipUnknown
)

// ParsePolicy parses "default" or "skip"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "use-default":
		return UseDefault, nil
	case "skip", "skip-unknown":
		return SkipUnknown, nil
	default:
		return UseDefault, fmt.Errorf("unknown style policy %q (expected default or skip)", s)
	}
}

func (p Policy) String() string {
	if p == SkipUnknown {
		return "skip"
	}
	return "default"
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Entry is one legend row
type Entry struct {
	Style string     `json:"style" yaml:"style"`
	Color color.RGBA `json:"-" yaml:"-"`
	Hex   string     `json:"color" yaml:"color"`
}

// palette keeps legend order stable
var palette = []struct {
	name string
	rgb  uint32
}{
	{"Baroque", 0xfc4e51},
	{"Renaissance", 0x4287f5},
	{"Romanticism", 0x1dabe6},
	{"Realism", 0x1c366a},
	{"Dutch Golden Age", 0xaf060f},
	{"Impressionism", 0x003f5c},
	{"Post-Impressionism", 0x2f4b7c},
	{"Contemporary art", 0xa05195},
	{"Neoclassicism", 0xd45087},
	{"Italian Renaissance", 0xf95d6a},
	{"Academic art", 0xff7c43},
	{"Mannerism", 0xffa600},
	{"Abstract art", 0xe43034},
	{"Ukiyo-e", 0x665191},
	{Other, 0xc3ced0},
}

var table = func() map[string]color.RGBA {
	m := make(map[string]color.RGBA, len(palette))
	for _, p := range palette {
		m[p.name] = FromHex(p.rgb)
	}
	return m
}()

// FromHex converts a 0xRRGGBB value to an opaque color
func FromHex(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}

// Hex formats a color as #rrggbb
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lookup returns the color for style and whether the style is in the table.
// Unknown styles get the Other color, so the returned color is always usable.
func Lookup(style string) (color.RGBA, bool) {
	if c, ok := table[style]; ok {
		return c, true
	}
	return table[Other], false
}

// Color returns the color for style, falling back to Other
func Color(style string) color.RGBA {
	c, _ := Lookup(style)
	return c
}

// Resolve applies policy to a style lookup. include is false only when
// the policy is SkipUnknown and the style is not in the table.
func Resolve(style string, policy Policy) (c color.RGBA, include bool) {
	c, known := Lookup(style)
	if !known && policy == SkipUnknown {
		return c, false
	}
	return c, true
}

// Legend returns all table entries in legend order
func Legend() []Entry {
	entries := make([]Entry, 0, len(palette))
	for _, p := range palette {
		c := table[p.name]
		entries = append(entries, Entry{Style: p.name, Color: c, Hex: Hex(c)})
	}
	return entries
}
