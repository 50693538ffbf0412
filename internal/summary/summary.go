// Package summary aggregates depth statistics over a painting dataset.
package summary

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthistory/depthviz/internal/dataset"
	"github.com/arthistory/depthviz/internal/styles"
)

// Report is the aggregate view of a dataset
type Report struct {
	Dataset     string         `yaml:"dataset,omitempty"`
	GeneratedAt string         `yaml:"generatedat"`
	StartYear   int            `yaml:"startyear"`
	EndYear     int            `yaml:"endyear"`
	Total       int            `yaml:"total"`
	UnknownYear int            `yaml:"unknownyear"`
	OutOfRange  int            `yaml:"outofrange"`
	MeanRange   float64        `yaml:"meanrange"`
	Styles      []StyleCount   `yaml:"styles"`
	Centuries   []CenturyStats `yaml:"centuries"`
}

// StyleCount is the number of paintings whose primary style is Style
type StyleCount struct {
	Style string `yaml:"style"`
	Hex   string `yaml:"hex"`
	Count int    `yaml:"count"`
}

// CenturyStats holds the depth range statistics of one century
type CenturyStats struct {
	Century   int     `yaml:"century"` // first year, e.g. 1600
	Count     int     `yaml:"count"`
	MeanRange float64 `yaml:"meanrange"`
	MinRange  float64 `yaml:"minrange"`
	MaxRange  float64 `yaml:"maxrange"`
}

// Aggregate builds a report over paintings. Paintings without a year are
// counted as unknown, and those outside [startYear, endYear] as out of
// range; neither contributes to the century statistics.
func Aggregate(paintings []dataset.Painting, startYear, endYear int) *Report {
	report := &Report{
		GeneratedAt: time.Now().Format(time.RFC3339),
		StartYear:   startYear,
		EndYear:     endYear,
		Total:       len(paintings),
		Styles:      []StyleCount{},
		Centuries:   []CenturyStats{},
	}

	styleCounts := make(map[string]int)
	centuries := make(map[int]*CenturyStats)
	sums := make(map[int]float64)
	totalRange := 0.0

	for _, p := range paintings {
		totalRange += p.Range

		style := p.PrimaryStyle()
		if _, known := styles.Lookup(style); !known {
			style = styles.Other
		}
		styleCounts[style]++

		if !p.HasYear() {
			report.UnknownYear++
			continue
		}
		if p.Year < startYear || p.Year > endYear {
			report.OutOfRange++
			continue
		}

		century := p.Year / 100 * 100
		stats, ok := centuries[century]
		if !ok {
			stats = &CenturyStats{Century: century, MinRange: p.Range, MaxRange: p.Range}
			centuries[century] = stats
		}
		stats.Count++
		stats.MinRange = min(stats.MinRange, p.Range)
		stats.MaxRange = max(stats.MaxRange, p.Range)
		sums[century] += p.Range
	}

	if report.Total > 0 {
		report.MeanRange = totalRange / float64(report.Total)
	}

	for style, count := range styleCounts {
		report.Styles = append(report.Styles, StyleCount{
			Style: style,
			Hex:   styles.Hex(styles.Color(style)),
			Count: count,
		})
	}
	slices.SortFunc(report.Styles, func(a, b StyleCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Style, b.Style)
	})

	for century, stats := range centuries {
		stats.MeanRange = sums[century] / float64(stats.Count)
		report.Centuries = append(report.Centuries, *stats)
	}
	slices.SortFunc(report.Centuries, func(a, b CenturyStats) int {
		return cmp.Compare(a.Century, b.Century)
	})

	return report
}

// Print writes a human-readable summary
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "DEPTH DATASET SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	if r.Dataset != "" {
		fmt.Fprintf(w, "Dataset: %s\n", r.Dataset)
	}
	fmt.Fprintf(w, "Paintings: %d\n", r.Total)
	fmt.Fprintf(w, "Unknown year: %d\n", r.UnknownYear)
	fmt.Fprintf(w, "Outside %d-%d: %d\n", r.StartYear, r.EndYear, r.OutOfRange)
	fmt.Fprintf(w, "Mean depth range: %.2f\n", r.MeanRange)

	fmt.Fprintln(w, "\nSTYLES")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, s := range r.Styles {
		fmt.Fprintf(w, "  %-28s %s %6d\n", s.Style, s.Hex, s.Count)
	}

	fmt.Fprintln(w, "\nCENTURIES")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, c := range r.Centuries {
		fmt.Fprintf(w, "  %ds  n=%-6d mean=%7.2f min=%7.2f max=%7.2f\n",
			c.Century, c.Count, c.MeanRange, c.MinRange, c.MaxRange)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// SaveYAML writes the report to path
func (r *Report) SaveYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
