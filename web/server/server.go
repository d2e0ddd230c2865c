package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/nfnt/resize"

	"github.com/TioT2/p-tr/pkg/core"
	"github.com/TioT2/p-tr/pkg/renderer"
	"github.com/TioT2/p-tr/pkg/scene"
)

// Config holds the web server configuration
type Config struct {
	Addr    string // Listen address, e.g. ":8080"
	Width   int    // Render width in pixels
	Height  int    // Render height in pixels
	Workers int    // Number of render workers (0 = CPU count)
}

// Server drives one shared progressive render session over HTTP. Every
// handler works against the same accumulation, so all clients watch the same
// image sharpen, and changing the camera restarts it for everyone.
type Server struct {
	config Config
	scene  *scene.Scene

	mu         sync.Mutex
	renderer   *renderer.Renderer
	camera     renderer.Camera
	location   core.Vec3
	target     core.Vec3
	frameIndex uint32
}

// NewServer creates a web server rendering the static scene at the
// configured size
func NewServer(config Config) *Server {
	s := &Server{
		config:   config,
		scene:    scene.NewStaticScene(),
		location: scene.DefaultCameraLocation,
		target:   scene.DefaultCameraTarget,
	}
	s.renderer = renderer.New(s.scene, renderer.Config{
		Width:      config.Width,
		Height:     config.Height,
		NumWorkers: config.Workers,
	}, renderer.NewDefaultLogger())
	s.camera = renderer.NewLookAtCamera(
		s.location, s.target, scene.DefaultCameraUp,
		scene.DefaultCameraNear, config.Width, config.Height,
	)
	return s
}

// Handler returns the root handler with gzip compression applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("static/")))
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/camera", s.handleCamera)
	mux.HandleFunc("/api/thumbnail", s.handleThumbnail)
	mux.HandleFunc("/api/frame.exr", s.handleFrameEXR)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return gzhttp.GzipHandler(mux)
}

// Start starts the web server
func (s *Server) Start() error {
	log.Printf("Starting web server on http://localhost%s", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.Handler())
}

// renderFrame advances the shared accumulation by one frame and returns the
// presented image, its stats and the index that was just folded in
func (s *Server) renderFrame() (*image.RGBA, renderer.FrameStats, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sys := renderer.System{
		Width:            s.config.Width,
		Height:           s.config.Height,
		Time:             renderer.FrameTime(time.Now()),
		StaticFrameIndex: s.frameIndex,
	}
	s.renderer.RenderFrame(s.camera, sys)
	index := s.frameIndex
	s.frameIndex++

	display := s.renderer.Display()
	return display.ToRGBA(), renderer.CollectStats(display), index
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// CameraRequest represents a camera update from the client
type CameraRequest struct {
	Location [3]float64 `json:"location"`
	Target   [3]float64 `json:"target"`
}

// CameraState describes the current camera pose and accumulation progress
type CameraState struct {
	Location [3]float64 `json:"location"`
	Target   [3]float64 `json:"target"`
	Frames   uint32     `json:"frames"`
}

func (s *Server) cameraState() CameraState {
	return CameraState{
		Location: [3]float64{s.location.X, s.location.Y, s.location.Z},
		Target:   [3]float64{s.target.X, s.target.Y, s.target.Z},
		Frames:   s.frameIndex,
	}
}

// handleCamera reports the camera pose on GET and moves it on POST. Moving
// the camera restarts accumulation at frame index zero.
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		state := s.cameraState()
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(state)

	case http.MethodPost:
		var req CameraRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid camera request: " + err.Error()})
			return
		}

		location := core.NewVec3(req.Location[0], req.Location[1], req.Location[2])
		target := core.NewVec3(req.Target[0], req.Target[1], req.Target[2])
		direction := target.Subtract(location)
		if direction.Length() == 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Camera target must differ from its location"})
			return
		}
		if direction.Normalize().Cross(scene.DefaultCameraUp).Length() < 1e-9 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Camera may not look straight along the vertical axis"})
			return
		}

		s.mu.Lock()
		s.location = location
		s.target = target
		s.camera = renderer.NewLookAtCamera(
			location, target, scene.DefaultCameraUp,
			scene.DefaultCameraNear, s.config.Width, s.config.Height,
		)
		s.frameIndex = 0
		state := s.cameraState()
		s.mu.Unlock()

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(state)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleThumbnail returns a downscaled PNG of the current display film
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	width, err := parseIntParam(r.URL.Query(), "width", 160, 16, 1024)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	img := s.renderer.Display().ToRGBA()
	s.mu.Unlock()

	thumb := resize.Resize(uint(width), 0, img, resize.Bilinear)

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, thumb); err != nil {
		log.Printf("Error encoding thumbnail: %v", err)
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
