package images

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arthistory/depthviz/internal/latch"

	// registered decoders
	_ "image/jpeg"
	_ "image/png"
)

// DefaultBaseURL is the bucket holding each painting's input and depth images
const DefaultBaseURL = "https://storage.googleapis.com/art_history_depth_data/GAC_images"

const (
	Input  = "input"
	Output = "output"
)

// InputURL returns the color image URL for a painting
func InputURL(base, id string) string {
	return imageURL(base, id, Input)
}

// OutputURL returns the depth map URL for a painting
func OutputURL(base, id string) string {
	return imageURL(base, id, Output)
}

func imageURL(base, id, name string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%s/%s.png", strings.TrimRight(base, "/"), url.PathEscape(id), name)
}

// Fetcher retrieves painting images from the storage bucket
type Fetcher struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewFetcher creates a new image fetcher
func NewFetcher(baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL: baseURL,
	}
}

// Pair is a color image and its depth map
type Pair struct {
	ID     string
	Input  image.Image
	Output image.Image
}

// FetchPair downloads the input and output images of a painting
// concurrently and returns only once both have loaded. When gen is not nil
// the load joins that generation, and a newer FetchPair on the same
// generation makes this one return latch.ErrCancelled.
func (f *Fetcher) FetchPair(ctx context.Context, gen *latch.Generation, id string) (*Pair, error) {
	var (
		l   *latch.Latch
		seq uint64
	)
	if gen != nil {
		l, seq = gen.Next(Input, Output)
	} else {
		l = latch.New(Input, Output)
	}
	slog.Debug("Fetching image pair", "id", id, "generation", seq)

	// cancelling the latch aborts the downloads still in flight
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.Cancelled():
			cancel()
		case <-loadCtx.Done():
		}
	}()

	pair := &Pair{ID: id}
	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error {
		img, err := f.Fetch(gctx, InputURL(f.BaseURL, id))
		if err != nil {
			return fmt.Errorf("failed to fetch input image: %w", err)
		}
		pair.Input = img
		l.Done(Input)
		return nil
	})
	g.Go(func() error {
		img, err := f.Fetch(gctx, OutputURL(f.BaseURL, id))
		if err != nil {
			return fmt.Errorf("failed to fetch output image: %w", err)
		}
		pair.Output = img
		l.Done(Output)
		return nil
	})

	if err := g.Wait(); err != nil {
		select {
		case <-l.Cancelled():
			slog.Debug("Image pair superseded", "id", id, "generation", seq)
			return nil, latch.ErrCancelled
		default:
		}
		return nil, err
	}
	if err := l.Wait(ctx); err != nil {
		slog.Debug("Image pair superseded", "id", id, "generation", seq, "error", err)
		return nil, err
	}
	return pair, nil
}

// Fetch downloads and decodes a single image
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", imageURL, err)
	}
	slog.Debug("Fetched image", "url", imageURL, "format", format, "bounds", img.Bounds())
	return img, nil
}
