package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/TioT2/p-tr/pkg/scene"
)

// newTestServer builds a server with a film small enough that rendering a
// frame in a test is cheap
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{
		Addr:    ":0",
		Width:   16,
		Height:  12,
		Workers: 2,
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", body["status"])
	}
}

func TestHandleCamera_InitialState(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleCamera(rec, httptest.NewRequest(http.MethodGet, "/api/camera", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var state CameraState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}

	wantLocation := [3]float64{
		scene.DefaultCameraLocation.X,
		scene.DefaultCameraLocation.Y,
		scene.DefaultCameraLocation.Z,
	}
	if state.Location != wantLocation {
		t.Errorf("Expected the default camera location %v, got %v", wantLocation, state.Location)
	}
	if state.Frames != 0 {
		t.Errorf("Expected no accumulated frames yet, got %d", state.Frames)
	}
}

func TestHandleCamera_MoveRestartsAccumulation(t *testing.T) {
	s := newTestServer(t)

	// Accumulate a couple of frames first
	s.renderFrame()
	s.renderFrame()

	rec := httptest.NewRecorder()
	s.handleCamera(rec, httptest.NewRequest(http.MethodGet, "/api/camera", nil))
	var state CameraState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if state.Frames != 2 {
		t.Fatalf("Expected 2 accumulated frames, got %d", state.Frames)
	}

	payload := `{"location":[10,5,10],"target":[10.5,0,10]}`
	rec = httptest.NewRecorder()
	s.handleCamera(rec, httptest.NewRequest(http.MethodPost, "/api/camera", strings.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if state.Frames != 0 {
		t.Errorf("Expected accumulation to restart, got %d frames", state.Frames)
	}
	if state.Location != [3]float64{10, 5, 10} {
		t.Errorf("Expected the new location echoed back, got %v", state.Location)
	}
	if state.Target != [3]float64{10.5, 0, 10} {
		t.Errorf("Expected the new target echoed back, got %v", state.Target)
	}
}

func TestHandleCamera_RejectsInvalidPoses(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"target equals location", `{"location":[1,2,3],"target":[1,2,3]}`},
		{"looking straight up", `{"location":[0,0,0],"target":[0,5,0]}`},
		{"looking straight down", `{"location":[0,5,0],"target":[0,0,0]}`},
		{"malformed JSON", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handleCamera(rec, httptest.NewRequest(http.MethodPost, "/api/camera", strings.NewReader(tt.payload)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}

	// A rejected pose must not disturb the current session
	rec := httptest.NewRecorder()
	s.handleCamera(rec, httptest.NewRequest(http.MethodGet, "/api/camera", nil))
	var state CameraState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if state.Location != [3]float64{
		scene.DefaultCameraLocation.X,
		scene.DefaultCameraLocation.Y,
		scene.DefaultCameraLocation.Z,
	} {
		t.Errorf("Expected the camera to stay at its default pose, got %v", state.Location)
	}
}

func TestHandleCamera_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleCamera(rec, httptest.NewRequest(http.MethodPut, "/api/camera", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestHandleThumbnail(t *testing.T) {
	s := newTestServer(t)
	s.renderFrame()

	rec := httptest.NewRecorder()
	s.handleThumbnail(rec, httptest.NewRequest(http.MethodGet, "/api/thumbnail?width=32", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected Content-Type image/png, got '%s'", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Expected a decodable PNG: %v", err)
	}
	// Width is requested, height follows the film's aspect ratio
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("Expected a 32x24 thumbnail, got %v", img.Bounds())
	}
}

func TestHandleThumbnail_InvalidWidth(t *testing.T) {
	s := newTestServer(t)

	for _, query := range []string{"width=100000", "width=abc", "width=0"} {
		rec := httptest.NewRecorder()
		s.handleThumbnail(rec, httptest.NewRequest(http.MethodGet, "/api/thumbnail?"+query, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Query %q: expected status 400, got %d", query, rec.Code)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	values := url.Values{}

	// Missing parameter falls back to the default
	if got, err := parseIntParam(values, "frames", 64, 1, 1000); err != nil || got != 64 {
		t.Errorf("Expected default 64, got %d (err: %v)", got, err)
	}

	values.Set("frames", "32")
	if got, err := parseIntParam(values, "frames", 64, 1, 1000); err != nil || got != 32 {
		t.Errorf("Expected 32, got %d (err: %v)", got, err)
	}

	values.Set("frames", "1001")
	if _, err := parseIntParam(values, "frames", 64, 1, 1000); err == nil {
		t.Error("Expected an error for an out-of-range value")
	}

	values.Set("frames", "abc")
	if _, err := parseIntParam(values, "frames", 64, 1, 1000); err == nil {
		t.Error("Expected an error for a non-numeric value")
	}
}
