package depth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrEmptyResponse is returned when the service answers without an image
var ErrEmptyResponse = errors.New("depth service returned no image")

// DefaultURL is where the depth service listens when DEPTH_SERVICE_URL is unset
const DefaultURL = "http://localhost:3366"

// Remote is an Estimator backed by the HTTP depth service
type Remote struct {
	URL        string
	HTTPClient *http.Client
}

// NewRemote returns a client for the service at serviceURL. An empty URL
// falls back to DEPTH_SERVICE_URL and then DefaultURL.
func NewRemote(serviceURL string) *Remote {
	if serviceURL == "" {
		serviceURL = os.Getenv("DEPTH_SERVICE_URL")
	}
	if serviceURL == "" {
		serviceURL = DefaultURL
	}
	return &Remote{
		URL: strings.TrimRight(serviceURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Estimate sends img to the service and decodes the returned depth map
func (r *Remote) Estimate(ctx context.Context, img image.Image) (image.Image, error) {
	screenshot, err := EncodeDataURL(img)
	if err != nil {
		return nil, err
	}

	endpoint := r.URL + "/processImage?screenshot=" + url.QueryEscape(screenshot)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if response.Message == "" {
		return nil, ErrEmptyResponse
	}

	depthMap, err := DecodeDataURL(response.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to read depth map: %w", err)
	}
	slog.Debug("Depth estimated", "bounds", depthMap.Bounds(), "duration", time.Since(start))
	return depthMap, nil
}
