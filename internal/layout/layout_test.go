package layout

import (
	"math"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/arthistory/depthviz/internal/dataset"
	"github.com/arthistory/depthviz/internal/styles"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestBuildExcludesOutOfRangeYears(t *testing.T) {
	cfg := DefaultConfig()
	paintings := []dataset.Painting{
		{ImageID: "before", Year: 1299, Style: "Baroque"},
		{ImageID: "start", Year: 1300, Style: "Baroque"},
		{ImageID: "end", Year: 2019, Style: "Baroque"},
		{ImageID: "after", Year: 2020, Style: "Baroque"},
		{ImageID: "unknown", Year: 0, Style: "Baroque"},
	}

	plot := Build(paintings, cfg)

	if len(plot.Blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(plot.Blocks))
	}
	for _, b := range plot.Blocks {
		if !cfg.InBounds(b.Year) {
			t.Errorf("Block %s has out of range year %d", b.PaintingID, b.Year)
		}
	}
	if plot.Skipped.OutOfRange != 3 {
		t.Errorf("Expected 3 out of range, got %d", plot.Skipped.OutOfRange)
	}
}

func TestBuildEmpty(t *testing.T) {
	plot := Build(nil, DefaultConfig())

	if len(plot.Blocks) != 0 {
		t.Errorf("Expected no blocks, got %d", len(plot.Blocks))
	}
	if plot.Has("block-0") {
		t.Error("Expected no block IDs on an empty plot")
	}
}

func TestBuildPositions(t *testing.T) {
	cfg := DefaultConfig()
	plot := Build([]dataset.Painting{
		{ImageID: "mid", Year: 1660, Range: 100, Style: "Baroque"},
	}, cfg)

	if len(plot.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(plot.Blocks))
	}
	b := plot.Blocks[0]

	// (1660 - 1300 - 359.5) * 0.4 + 34
	wantX := float32(0.5)*0.4 + 34
	// 0.8/2 + 0.4*100 - 15
	wantY := float32(0.4) + 40 - 15
	if !approx(b.Center.X, wantX) {
		t.Errorf("Expected x %v, got %v", wantX, b.Center.X)
	}
	if !approx(b.Center.Y, wantY) {
		t.Errorf("Expected y %v, got %v", wantY, b.Center.Y)
	}
	if !approx(b.Center.Z, -300) {
		t.Errorf("Expected z -300, got %v", b.Center.Z)
	}
	if !approx(b.Size, 0.8) {
		t.Errorf("Expected size 0.8, got %v", b.Size)
	}
	if !approx(b.Bounds.Max.X-b.Bounds.Min.X, 0.8) {
		t.Errorf("Expected bounds width 0.8, got %v", b.Bounds.Max.X-b.Bounds.Min.X)
	}
	if b.Opacity != cfg.DefaultOpacity {
		t.Errorf("Expected default opacity, got %v", b.Opacity)
	}
}

func TestBuildYMonotonicWithRange(t *testing.T) {
	plot := Build([]dataset.Painting{
		{ImageID: "low", Year: 1700, Range: 10},
		{ImageID: "high", Year: 1700, Range: 200},
	}, DefaultConfig())

	if plot.Blocks[0].Center.Y >= plot.Blocks[1].Center.Y {
		t.Errorf("Expected higher range to be placed higher: %v vs %v", plot.Blocks[0].Center.Y, plot.Blocks[1].Center.Y)
	}
}

func TestBuildStylePolicy(t *testing.T) {
	paintings := []dataset.Painting{
		{ImageID: "known", Year: 1800, Style: "Romanticism, Realism"},
		{ImageID: "unknown", Year: 1800, Style: "Vaporwave"},
		{ImageID: "none", Year: 1800},
	}

	t.Run("use default", func(t *testing.T) {
		plot := Build(paintings, DefaultConfig())
		if len(plot.Blocks) != 3 {
			t.Fatalf("Expected 3 blocks, got %d", len(plot.Blocks))
		}
		if plot.Blocks[0].Color != styles.Color("Romanticism") {
			t.Errorf("Expected primary style color, got %v", plot.Blocks[0].Color)
		}
		other := styles.Color(styles.Other)
		if plot.Blocks[1].Color != other || plot.Blocks[2].Color != other {
			t.Errorf("Expected Other color for unknown styles")
		}
	})

	t.Run("skip unknown", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StylePolicy = styles.SkipUnknown
		plot := Build(paintings, cfg)
		if len(plot.Blocks) != 1 {
			t.Fatalf("Expected 1 block, got %d", len(plot.Blocks))
		}
		if plot.Skipped.UnknownStyle != 2 {
			t.Errorf("Expected 2 skipped for style, got %d", plot.Skipped.UnknownStyle)
		}
	})
}

func TestReverseAssociation(t *testing.T) {
	plot := Build([]dataset.Painting{
		{ImageID: "skip", Year: 1000},
		{ImageID: "a", Year: 1500},
		{ImageID: "b", Year: 1600},
	}, DefaultConfig())

	for _, b := range plot.Blocks {
		id, ok := plot.PaintingID(b.ID)
		if !ok || id != b.PaintingID {
			t.Errorf("Expected block %s to map to %s, got %s", b.ID, b.PaintingID, id)
		}
	}
	if _, ok := plot.PaintingID("block-99"); ok {
		t.Error("Expected unknown block ID to be absent")
	}
}

func TestAxes(t *testing.T) {
	plot := Build(nil, DefaultConfig())

	// x axis, y axis and one tick per century from 1300 through 2000
	if len(plot.Axes) != 2+8 {
		t.Errorf("Expected 10 axis meshes, got %d", len(plot.Axes))
	}

	found := map[string]bool{}
	for _, l := range plot.Labels {
		found[l.Text] = true
	}
	for _, text := range []string{"year", "depth", "0", "255", "1300", "2000"} {
		if !found[text] {
			t.Errorf("Expected label %q", text)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}

	cfg.EndYear = 1000
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for inverted year range")
	}
}

func TestAxisAndLabelBounds(t *testing.T) {
	axis := Axis{Center: math32.Vec3(1, 2, 3), Size: math32.Vec3(4, 2, 0.4)}
	b := axis.Bounds()
	if !approx(b.Min.X, -1) || !approx(b.Max.X, 3) || !approx(b.Min.Z, 2.8) || !approx(b.Max.Z, 3.2) {
		t.Errorf("Unexpected axis bounds %+v", b)
	}

	label := Label{Position: math32.Vec3(0, 0, -310), Scale: 0.2}
	b = label.Bounds()
	if !approx(b.Max.X-b.Min.X, 20) || !approx(b.Max.Y-b.Min.Y, 10) || !approx(b.Max.Z-b.Min.Z, 1) {
		t.Errorf("Expected 20x10x1 label, got %+v", b)
	}

	label.Rotated = true
	b = label.Bounds()
	if !approx(b.Max.X-b.Min.X, 10) || !approx(b.Max.Y-b.Min.Y, 20) {
		t.Errorf("Expected rotated label to stand upright, got %+v", b)
	}
}
