package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"net/http"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/TioT2/p-tr/pkg/renderer"
)

// FrameUpdate is one progressive frame sent to the client via SSE
type FrameUpdate struct {
	FrameIndex      uint32  `json:"frameIndex"`
	MaxFrames       int     `json:"maxFrames"`
	ImageData       string  `json:"imageData"` // Base64 encoded PNG
	MeanLuminance   float64 `json:"meanLuminance"`
	LuminanceStdDev float64 `json:"luminanceStdDev"`
	ElapsedMs       int64   `json:"elapsedMs"`
	IsComplete      bool    `json:"isComplete"`
}

// handleRenderStream advances the shared accumulation and streams every
// presented frame to the client via SSE. Frames keep sharpening for as long
// as nobody moves the camera; a camera update restarts the stream's frame
// indices at zero.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	maxFrames, err := parseIntParam(r.URL.Query(), "frames", 64, 1, 100000)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	hud := r.URL.Query().Get("hud") == "1"

	// Mirror render progress into the browser console
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan)

	logger.Printf("Streaming %d frames at %dx%d\n", maxFrames, s.config.Width, s.config.Height)

	startTime := time.Now()
	for i := 0; i < maxFrames; i++ {
		// Check if the client disconnected before rendering another frame
		select {
		case <-ctx.Done():
			return
		default:
		}

		img, stats, index := s.renderFrame()
		if hud {
			drawHUD(img, index, stats)
		}

		imageData, err := imageToBase64PNG(img)
		if err != nil {
			s.sendSSEError(w, fmt.Sprintf("Failed to encode frame: %v", err))
			return
		}

		if (i+1)%16 == 0 || i == maxFrames-1 {
			logger.Printf("Accumulated %d frames (mean luminance %.4f)\n", index+1, stats.MeanLuminance)
		}
		s.flushConsoleMessages(w, consoleChan)

		update := FrameUpdate{
			FrameIndex:      index,
			MaxFrames:       maxFrames,
			ImageData:       imageData,
			MeanLuminance:   stats.MeanLuminance,
			LuminanceStdDev: stats.LuminanceStdDev,
			ElapsedMs:       time.Since(startTime).Milliseconds(),
			IsComplete:      i == maxFrames-1,
		}
		data, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshaling frame update: %v", err)
			continue
		}
		if err := s.sendSSEEvent(w, "frame", string(data)); err != nil {
			return
		}
	}

	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// flushConsoleMessages forwards pending console messages to the client
func (s *Server) flushConsoleMessages(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			if err := s.sendSSEEvent(w, "console", string(data)); err != nil {
				return
			}
		default:
			return
		}
	}
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drawHUD stamps accumulation status into the top-left corner of a frame.
// The label is drawn twice, shadow first, so it stays readable on any
// background.
func drawHUD(img *image.RGBA, frameIndex uint32, stats renderer.FrameStats) {
	label := fmt.Sprintf("frame %d  lum %.3f", frameIndex+1, stats.MeanLuminance)

	shadow := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6, 14),
	}
	shadow.DrawString(label)

	text := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(5, 13),
	}
	text.DrawString(label)
}
