package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxLabelLength = 32

// HandleLabel serves the texture for an axis label, e.g. /api/labels/1700.png
func (h *Handler) HandleLabel(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSuffix(r.PathValue("text"), ".png")
	if text == "" || utf8.RuneCountInString(text) > maxLabelLength {
		h.writeError(w, "Invalid label", http.StatusBadRequest)
		return
	}

	data, err := h.labels.PNG(text)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
