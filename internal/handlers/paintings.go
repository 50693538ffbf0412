package handlers

import (
	"net/http"

	"github.com/arthistory/depthviz/internal/dataset"
	"github.com/arthistory/depthviz/internal/models"
	"github.com/arthistory/depthviz/internal/styles"
)

func (h *Handler) HandlePaintings(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	catalog, _ := h.current()
	page := catalog.Page(offset, limit)
	h.writeJSON(w, map[string]any{
		"total":     catalog.Len(),
		"offset":    offset,
		"limit":     limit,
		"paintings": page,
	})
}

func (h *Handler) HandlePaintingDetail(w http.ResponseWriter, r *http.Request) {
	painting, ok := h.getPaintingOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	h.writeJSON(w, models.NewPaintingPanel(painting, h.cfg.StoragePath))
}

func (h *Handler) HandleLegend(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, styles.Legend())
}

func (h *Handler) HandlePlot(w http.ResponseWriter, r *http.Request) {
	_, plot := h.current()
	h.writeJSON(w, plot)
}

func (h *Handler) getPaintingOrError(w http.ResponseWriter, id string) (*dataset.Painting, bool) {
	catalog, _ := h.current()
	painting, ok := catalog.Get(id)
	if !ok {
		h.writeError(w, "Painting not found", http.StatusNotFound)
		return nil, false
	}
	return painting, true
}
