package depth

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 7, A: 255})
		}
	}
	return img
}

func TestDataURLRoundTrip(t *testing.T) {
	src := gradient(5, 4)

	s, err := EncodeDataURL(src)
	if err != nil {
		t.Fatalf("EncodeDataURL failed: %v", err)
	}
	if !strings.HasPrefix(s, "data:image/png;base64,") {
		t.Errorf("Expected png data URL, got %.30s", s)
	}

	got, err := DecodeDataURL(s)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", src.Bounds(), got.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := src.NRGBAAt(x, y)
			have := color.NRGBAModel.Convert(got.At(x, y)).(color.NRGBA)
			if want != have {
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, want, have)
			}
		}
	}
}

func TestDecodeDataURLInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: ErrNotDataURL},
		{name: "plain text", input: "hello", want: ErrNotDataURL},
		{name: "not base64", input: "data:image/png,abc", want: ErrNotDataURL},
		{name: "bad payload", input: "data:image/png;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURL(tt.input)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRemoteEstimate(t *testing.T) {
	depthMap := gradient(3, 3)
	reply, err := EncodeDataURL(depthMap)
	if err != nil {
		t.Fatal(err)
	}

	var gotScreenshot string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/processImage" {
			http.NotFound(w, r)
			return
		}
		gotScreenshot = r.URL.Query().Get("screenshot")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": reply})
	}))
	defer server.Close()

	remote := NewRemote(server.URL)
	got, err := remote.Estimate(context.Background(), gradient(6, 2))
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 3 {
		t.Errorf("Expected 3x3 depth map, got %v", got.Bounds())
	}

	sent, err := DecodeDataURL(gotScreenshot)
	if err != nil {
		t.Fatalf("Expected service to receive a data URL, got error %v", err)
	}
	if sent.Bounds().Dx() != 6 {
		t.Errorf("Expected sent image width 6, got %d", sent.Bounds().Dx())
	}
}

func TestRemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model crashed", http.StatusInternalServerError)
			},
		},
		{
			name: "empty message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"message":""}`))
			},
			want: ErrEmptyResponse,
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "message is not an image",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"message":"done"}`))
			},
			want: ErrNotDataURL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewRemote(server.URL).Estimate(context.Background(), gradient(2, 2))
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewRemoteFallsBackToEnv(t *testing.T) {
	t.Setenv("DEPTH_SERVICE_URL", "http://depth.internal:3366/")
	if got := NewRemote("").URL; got != "http://depth.internal:3366" {
		t.Errorf("Expected env URL, got %s", got)
	}

	t.Setenv("DEPTH_SERVICE_URL", "")
	if got := NewRemote("").URL; got != DefaultURL {
		t.Errorf("Expected default URL, got %s", got)
	}
}

var _ Estimator = (*Remote)(nil)
