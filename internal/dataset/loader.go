package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ErrUnsupportedFormat is returned for dataset files that are not CSV, JSONL or Parquet
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Loader handles loading of the painting dataset
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load loads every record from a dataset file (CSV, JSONL or Parquet)
func (l *Loader) Load() ([]Painting, error) {
	return l.LoadWithFilter(nil, -1)
}

// LoadSample loads a limited number of records (useful for testing)
func (l *Loader) LoadSample(limit int) ([]Painting, error) {
	return l.LoadWithFilter(nil, limit)
}

// LoadCatalog loads the full dataset and indexes it by image ID
func (l *Loader) LoadCatalog() (*Catalog, error) {
	paintings, err := l.Load()
	if err != nil {
		return nil, err
	}
	return NewCatalog(paintings), nil
}

// LoadWithFilter loads records matching filterFn, stopping after limit
// matches. A nil filter accepts everything and a negative limit means no limit.
func (l *Loader) LoadWithFilter(filterFn func(*Painting) bool, limit int) ([]Painting, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	var next func(yield func(Painting) bool) error
	switch ext {
	case ".csv":
		next = l.readCSV
	case ".jsonl", ".json":
		next = l.readJSONL
	case ".parquet":
		next = l.readParquet
	default:
		return nil, fmt.Errorf("%w: %s (supported: .csv, .jsonl, .parquet)", ErrUnsupportedFormat, ext)
	}

	records := []Painting{}
	err := next(func(p Painting) bool {
		if limit >= 0 && len(records) >= limit {
			return false
		}
		if filterFn == nil || filterFn(&p) {
			records = append(records, p)
		}
		return limit < 0 || len(records) < limit
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Finished reading dataset", "path", l.datasetPath, "total_records", len(records))
	return records, nil
}

// readCSV reads a header-keyed CSV file. Column order and presence vary
// across dataset variants, so fields are matched by header name.
func (l *Loader) readCSV(yield func(Painting) bool) error {
	slog.Debug("Opening CSV file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, yield)
}

// ReadCSV decodes paintings from CSV data whose first row is a header
func ReadCSV(r io.Reader, yield func(Painting) bool) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}

	lineNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		lineNum++
		if err != nil {
			return fmt.Errorf("failed to parse CSV at line %d: %w", lineNum, err)
		}

		p := paintingFromRow(columns, row)
		if lineNum == 2 {
			slog.Debug("First record sample", "imageid", p.ImageID, "title", p.Title, "year", p.Year, "style", p.Style)
		}
		if !yield(p) {
			return nil
		}
	}
}

func paintingFromRow(columns map[string]int, row []string) Painting {
	get := func(names ...string) string {
		for _, name := range names {
			if idx, ok := columns[name]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
		}
		return ""
	}

	return Painting{
		ImageID:         get("imageid", "image_id", "id"),
		Title:           get("title"),
		ArtistName:      get("artist_name", "artist"),
		PartnerName:     get("partner_name", "partner", "source"),
		Location:        get("location"),
		ArtMovements:    get("art_movements"),
		Style:           get("style"),
		Year:            parseYear(get("year")),
		Depth:           parseFloat(get("depth")),
		Range:           parseFloat(get("range")),
		StdDifference:   parseFloat(get("std_difference")),
		RangeDifference: parseFloat(get("range_difference")),
		Image:           get("image"),
		Thumbnail:       get("thumbnail"),
		AssetLink:       get("asset_link"),
	}
}

// parseYear returns 0 for empty or unparseable values, which marks the year as unknown
func parseYear(s string) int {
	if s == "" {
		return 0
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// readJSONL reads one JSON painting per line
func (l *Loader) readJSONL(yield func(Painting) bool) error {
	slog.Debug("Opening JSONL file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	// Increase buffer size for long lines
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var record Painting
		if err := json.Unmarshal(line, &record); err != nil {
			return fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		if !yield(record) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading dataset: %w", err)
	}
	return nil
}

// readParquet reads paintings from a Parquet file in batches
func (l *Loader) readParquet(yield func(Painting) bool) error {
	slog.Debug("Opening Parquet file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Painting](pf)
	defer reader.Close()

	rows := make([]Painting, 128)
	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			if !yield(rows[i]) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
}
