package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Save writes paintings to path, choosing the format from the file extension.
// Only Parquet and JSONL are supported as outputs.
func Save(path string, paintings []Painting) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		if err := parquet.WriteFile(path, paintings); err != nil {
			return fmt.Errorf("failed to write parquet file: %w", err)
		}
	case ".jsonl", ".json":
		if err := saveJSONL(path, paintings); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s (supported outputs: .parquet, .jsonl)", ErrUnsupportedFormat, ext)
	}

	slog.Info("Dataset written", "path", path, "records", len(paintings))
	return nil
}

func saveJSONL(path string, paintings []Painting) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for i := range paintings {
		if err := encoder.Encode(&paintings[i]); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return nil
}
