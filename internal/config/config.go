// Package config reads depthviz settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/arthistory/depthviz/internal/depth"
	"github.com/arthistory/depthviz/internal/history"
	"github.com/arthistory/depthviz/internal/images"
	"github.com/arthistory/depthviz/internal/layout"
	"github.com/arthistory/depthviz/internal/styles"
)

// Config is the runtime configuration shared by the commands
type Config struct {
	Dataset         string
	StoragePath     string
	DepthServiceURL string
	HistoryLimit    int
	Layout          layout.Config
}

// Load builds a Config from the environment, falling back to defaults for
// anything unset
func Load() (Config, error) {
	cfg := Config{
		Dataset:         os.Getenv("DEPTHVIZ_DATASET"),
		StoragePath:     getenv("DEPTHVIZ_STORAGE_PATH", images.DefaultBaseURL),
		DepthServiceURL: getenv("DEPTH_SERVICE_URL", depth.DefaultURL),
		HistoryLimit:    history.DefaultLimit,
		Layout:          layout.DefaultConfig(),
	}

	var err error
	if cfg.Layout.StartYear, err = getint("DEPTHVIZ_START_YEAR", cfg.Layout.StartYear); err != nil {
		return cfg, err
	}
	if cfg.Layout.EndYear, err = getint("DEPTHVIZ_END_YEAR", cfg.Layout.EndYear); err != nil {
		return cfg, err
	}
	if cfg.HistoryLimit, err = getint("DEPTHVIZ_HISTORY_LIMIT", cfg.HistoryLimit); err != nil {
		return cfg, err
	}
	if v := os.Getenv("DEPTHVIZ_STYLE_POLICY"); v != "" {
		if cfg.Layout.StylePolicy, err = styles.ParsePolicy(v); err != nil {
			return cfg, fmt.Errorf("invalid DEPTHVIZ_STYLE_POLICY: %w", err)
		}
	}

	if err := cfg.Layout.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid plot configuration: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
