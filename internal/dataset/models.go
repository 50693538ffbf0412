package dataset

import (
	"strings"
)

// Painting represents one row of the art history depth dataset
type Painting struct {
	// Core identifiers
	ImageID string `json:"imageid" parquet:"imageid"` // Primary key

	// Descriptive metadata shown in the info panel
	Title        string `json:"title" parquet:"title"`
	ArtistName   string `json:"artist_name" parquet:"artist_name"`
	PartnerName  string `json:"partner_name" parquet:"partner_name"`
	Location     string `json:"location" parquet:"location"`
	ArtMovements string `json:"art_movements" parquet:"art_movements"`
	Style        string `json:"style" parquet:"style"` // Comma separated, first tag drives color

	// Year of creation, 0 when unknown
	Year int `json:"year" parquet:"year"`

	// Depth metrics computed from the depth map
	Depth           float64 `json:"depth" parquet:"depth"`
	Range           float64 `json:"range" parquet:"range"`
	StdDifference   float64 `json:"std_difference" parquet:"std_difference"`
	RangeDifference float64 `json:"range_difference" parquet:"range_difference"`

	// Asset links
	Image     string `json:"image" parquet:"image"`
	Thumbnail string `json:"thumbnail" parquet:"thumbnail"`
	AssetLink string `json:"asset_link" parquet:"asset_link"`
}

// Styles returns the ordered list of style tags
func (p *Painting) Styles() []string {
	src := p.Style
	if src == "" {
		src = p.ArtMovements
	}
	if strings.TrimSpace(src) == "" {
		return nil
	}

	parts := strings.Split(src, ",")
	styles := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			styles = append(styles, s)
		}
	}
	return styles
}

// PrimaryStyle returns the first style tag, or "" if there is none
func (p *Painting) PrimaryStyle() string {
	styles := p.Styles()
	if len(styles) == 0 {
		return ""
	}
	return styles[0]
}

// HasYear reports whether the year is known
func (p *Painting) HasYear() bool {
	return p.Year != 0
}

// Catalog is an ordered, ID-indexed collection of paintings.
// It is built once at load time and not modified afterwards.
type Catalog struct {
	paintings []Painting
	byID      map[string]int
}

// NewCatalog indexes paintings by ImageID. Later duplicates of an ID are
// kept in the ordered list but the index points at the first occurrence.
func NewCatalog(paintings []Painting) *Catalog {
	c := &Catalog{
		paintings: paintings,
		byID:      make(map[string]int, len(paintings)),
	}
	for i := range paintings {
		id := paintings[i].ImageID
		if id == "" {
			continue
		}
		if _, exists := c.byID[id]; !exists {
			c.byID[id] = i
		}
	}
	return c
}

// Len returns the number of paintings
func (c *Catalog) Len() int {
	return len(c.paintings)
}

// All returns the paintings in load order. Callers must not modify it.
func (c *Catalog) All() []Painting {
	return c.paintings
}

// Get returns the painting with the given ID
func (c *Catalog) Get(id string) (*Painting, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.paintings[idx], true
}

// Page returns up to limit paintings starting at offset
func (c *Catalog) Page(offset, limit int) []Painting {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(c.paintings) {
		return []Painting{}
	}
	end := len(c.paintings)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return c.paintings[offset:end]
}
