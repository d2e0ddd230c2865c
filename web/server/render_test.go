package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// frameEvents extracts the JSON payloads of all SSE events with the given type
func frameEvents(t *testing.T, body, event string) []string {
	t.Helper()
	var payloads []string
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if line != "event: "+event {
			continue
		}
		if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "data: ") {
			t.Fatalf("Event %q at line %d has no data line", event, i)
		}
		payloads = append(payloads, strings.TrimPrefix(lines[i+1], "data: "))
	}
	return payloads
}

func TestHandleRenderStream(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/render/stream?frames=2&hud=1")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Expected an SSE content type, got '%s'", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Reading stream: %v", err)
	}
	body := string(raw)

	frames := frameEvents(t, body, "frame")
	if len(frames) != 2 {
		t.Fatalf("Expected 2 frame events, got %d", len(frames))
	}
	if !strings.Contains(body, "event: complete") {
		t.Error("Expected a completion event")
	}
	if !strings.Contains(body, "event: console") {
		t.Error("Expected console messages on the stream")
	}

	var first FrameUpdate
	if err := json.Unmarshal([]byte(frames[0]), &first); err != nil {
		t.Fatalf("Invalid frame payload: %v", err)
	}
	if first.FrameIndex != 0 {
		t.Errorf("Expected the stream to start at frame 0, got %d", first.FrameIndex)
	}
	if first.MaxFrames != 2 {
		t.Errorf("Expected maxFrames 2, got %d", first.MaxFrames)
	}
	if first.IsComplete {
		t.Error("Expected the first frame not to be marked complete")
	}

	imgData, err := base64.StdEncoding.DecodeString(first.ImageData)
	if err != nil {
		t.Fatalf("Invalid base64 image data: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(imgData))
	if err != nil {
		t.Fatalf("Invalid PNG image: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Errorf("Expected a 16x12 frame, got %v", img.Bounds())
	}

	var last FrameUpdate
	if err := json.Unmarshal([]byte(frames[1]), &last); err != nil {
		t.Fatalf("Invalid frame payload: %v", err)
	}
	if last.FrameIndex != 1 {
		t.Errorf("Expected frame index 1, got %d", last.FrameIndex)
	}
	if !last.IsComplete {
		t.Error("Expected the last frame to be marked complete")
	}
	// The emissive sphere keeps the scene from rendering black
	if last.MeanLuminance <= 0 {
		t.Errorf("Expected positive mean luminance, got %v", last.MeanLuminance)
	}
}

func TestHandleRenderStream_AdvancesSharedSession(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	for _, wantFirst := range []uint32{0, 2} {
		resp, err := http.Get(ts.URL + "/api/render/stream?frames=2")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Reading stream: %v", err)
		}

		frames := frameEvents(t, string(raw), "frame")
		if len(frames) != 2 {
			t.Fatalf("Expected 2 frame events, got %d", len(frames))
		}
		var first FrameUpdate
		if err := json.Unmarshal([]byte(frames[0]), &first); err != nil {
			t.Fatalf("Invalid frame payload: %v", err)
		}
		if first.FrameIndex != wantFirst {
			t.Errorf("Expected the stream to resume at frame %d, got %d", wantFirst, first.FrameIndex)
		}
	}
}

func TestHandleRenderStream_InvalidFrames(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/render/stream?frames=abc")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Reading stream: %v", err)
	}
	body := string(raw)

	if !strings.Contains(body, "event: error") {
		t.Error("Expected an error event for a bad frames parameter")
	}
	if strings.Contains(body, "event: frame") {
		t.Error("Expected no frames after a rejected request")
	}
}
