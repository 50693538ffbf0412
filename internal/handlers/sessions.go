package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/arthistory/depthviz/internal/models"
)

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sessions := h.sessionStore.GetAll()
		sessionList := make([]models.SessionView, 0, len(sessions))
		for _, session := range sessions {
			sessionList = append(sessionList, session.View())
		}
		h.writeJSON(w, sessionList)
	case "POST":
		var request struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
				h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		_, plot := h.current()
		session := models.NewViewerSession(uuid.NewString(), plot, request.Width, request.Height, h.cfg.HistoryLimit)
		h.sessionStore.Set(session.ID, session)
		slog.Info("Viewer session created", "session_id", session.ID, "width", request.Width, "height", request.Height)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		h.writeJSON(w, session.View())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		h.writeJSON(w, session.View())
	case "DELETE":
		h.sessionStore.Delete(sessionID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandlePick(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	var request models.PickRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.pick(session, request)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, response)
}

// HandleVisit records a painting opened from the history sidebar
func (h *Handler) HandleVisit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	var request struct {
		PaintingID string `json:"painting_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	painting, ok := h.getPaintingOrError(w, request.PaintingID)
	if !ok {
		return
	}

	session.Visit(painting.ImageID)
	view := session.View()
	h.writeJSON(w, models.PickResponse{
		Selected: true,
		Painting: models.NewPaintingPanel(painting, h.cfg.StoragePath),
		History:  view.History,
	})
}

func (h *Handler) pick(session *models.ViewerSession, request models.PickRequest) (models.PickResponse, error) {
	if request.Width > 0 && request.Height > 0 {
		session.Resize(request.Width, request.Height)
	}

	paintingID, selected, err := session.Pick(request.X, request.Y)
	if err != nil {
		return models.PickResponse{}, err
	}

	response := models.PickResponse{Selected: selected}
	if selected {
		catalog, _ := h.current()
		if painting, ok := catalog.Get(paintingID); ok {
			response.Painting = models.NewPaintingPanel(painting, h.cfg.StoragePath)
		}
	}
	response.History = session.View().History
	return response, nil
}
