package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/h2non/filetype"

	"github.com/arthistory/depthviz/internal/depth"
	"github.com/arthistory/depthviz/internal/images"
)

const maxUploadSize = 10 * 1024 * 1024

// errImageFetch marks a failure to load the painting from storage, which
// is the upstream's fault rather than the caller's
var errImageFetch = errors.New("failed to fetch painting image")

// HandleEstimate runs an image through the depth service. The image is a
// multipart "file" upload, or JSON carrying either a data URL in
// "screenshot" or a "painting_id" whose input image is fetched from storage.
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var (
		img image.Image
		err error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		img, err = h.estimateInputFromJSON(r)
	} else {
		img, err = h.estimateInputFromUpload(w, r)
	}
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errImageFetch) {
			slog.Error("Failed to fetch painting for estimation", "err", err)
			status = http.StatusBadGateway
		}
		h.writeError(w, err.Error(), status)
		return
	}

	depthMap, err := h.estimator.Estimate(r.Context(), img)
	if err != nil {
		slog.Error("Depth estimation failed", "err", err)
		h.writeError(w, "Depth estimation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	message, err := depth.EncodeDataURL(depthMap)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]string{"message": message})
}

func (h *Handler) estimateInputFromJSON(r *http.Request) (image.Image, error) {
	var request struct {
		Screenshot string `json:"screenshot"`
		PaintingID string `json:"painting_id"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 2*maxUploadSize)).Decode(&request); err != nil {
		return nil, errors.New("invalid JSON: " + err.Error())
	}

	switch {
	case request.Screenshot != "":
		return depth.DecodeDataURL(request.Screenshot)
	case request.PaintingID != "":
		catalog, _ := h.current()
		painting, ok := catalog.Get(request.PaintingID)
		if !ok {
			return nil, errors.New("painting not found")
		}
		img, err := h.fetcher.Fetch(r.Context(), images.InputURL(h.cfg.StoragePath, painting.ImageID))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errImageFetch, err)
		}
		return img, nil
	default:
		return nil, errors.New("screenshot or painting_id is required")
	}
}

func (h *Handler) estimateInputFromUpload(w http.ResponseWriter, r *http.Request) (image.Image, error) {
	// room for the multipart envelope around a maximum size file
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New("file too large (max 10MB)")
		}
		return nil, errors.New("failed to parse form: " + err.Error())
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("failed to read file: " + err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, errors.New("failed to read file contents: " + err.Error())
	}
	if len(data) >= maxUploadSize {
		return nil, errors.New("file too large (max 10MB)")
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, errors.New("uploaded file is not an image")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("failed to decode " + kind.MIME.Value + ": " + err.Error())
	}
	return img, nil
}
