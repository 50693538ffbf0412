package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"cogentcore.org/core/math32"

	"github.com/arthistory/depthviz/internal/latch"
	"github.com/arthistory/depthviz/internal/pointcloud"
)

const maxSamples = 1000

type pointCloudResponse struct {
	ID      string         `json:"id"`
	Samples int            `json:"samples"`
	Count   int            `json:"count"`
	Min     math32.Vector3 `json:"min"`
	Max     math32.Vector3 `json:"max"`
	// Points holds x, y, z, r, g, b for each point
	Points [][6]float32 `json:"points"`
}

// HandlePointCloud loads a painting's input and depth images and projects
// them into a point cloud. With ?session= the load joins that viewer's
// selection, and a newer load for the same viewer supersedes it.
func (h *Handler) HandlePointCloud(w http.ResponseWriter, r *http.Request) {
	painting, ok := h.getPaintingOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	cal := h.calibration
	samples, err := queryInt(r, "samples", cal.Samples)
	if err != nil || samples == 0 || samples > maxSamples {
		h.writeError(w, "samples must be between 1 and 1000", http.StatusBadRequest)
		return
	}
	cal.Samples = samples

	points, cached := h.clouds.Get(painting.ImageID, samples)
	if !cached {
		var gen *latch.Generation
		if sessionID := r.URL.Query().Get("session"); sessionID != "" {
			session, ok := h.getSessionOrError(w, sessionID)
			if !ok {
				return
			}
			gen = &session.Loads
		}

		pair, err := h.fetcher.FetchPair(r.Context(), gen, painting.ImageID)
		if errors.Is(err, latch.ErrCancelled) {
			h.writeError(w, "Superseded by a newer selection", http.StatusConflict)
			return
		}
		if err != nil {
			slog.Error("Failed to load images", "id", painting.ImageID, "err", err)
			h.writeError(w, "Failed to load images: "+err.Error(), http.StatusBadGateway)
			return
		}

		depthMap := pointcloud.Register(pair.Output, pair.Input.Bounds())
		points = pointcloud.Project(pair.Input, depthMap, cal)
		h.clouds.Set(painting.ImageID, samples, points)
	}

	if r.URL.Query().Get("rotate") == "true" {
		points = slices.Clone(points)
		pointcloud.RotateY(points, pointcloud.DefaultRotateY)
	}

	if r.URL.Query().Get("format") == "ply" {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="`+painting.ImageID+`.ply"`)
		if err := pointcloud.WritePLY(w, points); err != nil {
			slog.Error("Unable to write PLY", "id", painting.ImageID, "err", err)
		}
		return
	}

	bounds := pointcloud.Bounds(points)
	response := pointCloudResponse{
		ID:      painting.ImageID,
		Samples: samples,
		Count:   len(points),
		Points:  make([][6]float32, len(points)),
	}
	if len(points) > 0 {
		response.Min, response.Max = bounds.Min, bounds.Max
	}
	for i, p := range points {
		response.Points[i] = [6]float32{p.Position.X, p.Position.Y, p.Position.Z, p.R, p.G, p.B}
	}
	h.writeJSON(w, response)
}
