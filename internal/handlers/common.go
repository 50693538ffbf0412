package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/arthistory/depthviz/internal/config"
	"github.com/arthistory/depthviz/internal/dataset"
	"github.com/arthistory/depthviz/internal/depth"
	"github.com/arthistory/depthviz/internal/images"
	"github.com/arthistory/depthviz/internal/labels"
	"github.com/arthistory/depthviz/internal/layout"
	"github.com/arthistory/depthviz/internal/models"
	"github.com/arthistory/depthviz/internal/pointcloud"
	"github.com/arthistory/depthviz/internal/storage"
)

type Handler struct {
	cfg          config.Config
	sessionStore *storage.SessionStore
	clouds       *storage.CloudCache
	fetcher      *images.Fetcher
	estimator    depth.Estimator
	labels       *labels.Renderer
	calibration  pointcloud.Calibration

	// StaticDir is served at / when set
	StaticDir string

	mu      sync.RWMutex
	catalog *dataset.Catalog
	plot    *layout.Plot
}

func New(cfg config.Config, catalog *dataset.Catalog, estimator depth.Estimator) (*Handler, error) {
	renderer, err := labels.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create label renderer: %w", err)
	}
	if estimator == nil {
		estimator = depth.NewRemote(cfg.DepthServiceURL)
	}

	h := &Handler{
		cfg:          cfg,
		sessionStore: storage.New(),
		clouds:       storage.NewCloudCache(30*time.Minute, 10*time.Minute),
		fetcher:      images.NewFetcher(cfg.StoragePath),
		estimator:    estimator,
		labels:       renderer,
		calibration:  pointcloud.DefaultCalibration(),
	}
	h.SetCatalog(catalog)
	return h, nil
}

// SetCatalog swaps in a new dataset and rebuilds the plot. Existing
// sessions keep the plot they were created with.
func (h *Handler) SetCatalog(catalog *dataset.Catalog) {
	if catalog == nil {
		catalog = dataset.NewCatalog(nil)
	}
	plot := layout.Build(catalog.All(), h.cfg.Layout)

	h.mu.Lock()
	h.catalog = catalog
	h.plot = plot
	h.mu.Unlock()

	h.clouds.Flush()
	slog.Info("Dataset loaded", "paintings", catalog.Len(), "blocks", len(plot.Blocks))
}

func (h *Handler) current() (*dataset.Catalog, *layout.Plot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog, h.plot
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/paintings", h.HandlePaintings)
	mux.HandleFunc("GET /api/paintings/{id}", h.HandlePaintingDetail)
	mux.HandleFunc("GET /api/legend", h.HandleLegend)
	mux.HandleFunc("GET /api/plot", h.HandlePlot)
	mux.HandleFunc("GET /api/pointcloud/{id}", h.HandlePointCloud)
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleSessionDetail)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleSessionDetail)
	mux.HandleFunc("POST /api/sessions/{id}/pick", h.HandlePick)
	mux.HandleFunc("POST /api/sessions/{id}/visit", h.HandleVisit)
	mux.HandleFunc("GET /api/sessions/{id}/ws", h.HandlePickStream)
	mux.HandleFunc("POST /api/estimate", h.HandleEstimate)
	mux.HandleFunc("GET /api/labels/{text}", h.HandleLabel)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	if h.StaticDir != "" {
		mux.HandleFunc("/", h.HandleStatic)
	}
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "code", code)
	} else {
		slog.Debug(message, "code", code)
	}
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.ViewerSession, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

// queryInt reads a non-negative integer query parameter
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
