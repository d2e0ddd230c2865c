package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/TioT2/p-tr/pkg/core"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit      bool       `json:"hit"`
	Distance float64    `json:"distance"`
	Point    [3]float64 `json:"point"`
	Normal   [3]float64 `json:"normal"`
	Albedo   [3]float64 `json:"albedo"`
	Emission [3]float64 `json:"emission"`
	Emissive bool       `json:"emissive"`
	Color    string     `json:"color"` // Albedo as #rrggbb

	// Accumulation state for the inspected pixel
	Luminance float64 `json:"luminance"`
	Frames    uint32  `json:"frames"`
}

// inspectPixel casts a ray through the center of the given pixel and reports
// what it hits
func (s *Server) inspectPixel(x, y int) InspectResponse {
	s.mu.Lock()
	camera := s.camera
	frames := s.frameIndex
	luminance := s.renderer.Display().At(x, y).Luminance()
	s.mu.Unlock()

	u := (float64(x) + 0.5) / float64(s.config.Width)
	v := (float64(y) + 0.5) / float64(s.config.Height)
	ray := camera.Ray(u, v)

	response := InspectResponse{
		Luminance: luminance,
		Frames:    frames,
	}

	hit, ok := s.scene.Intersect(ray)
	if !ok {
		return response
	}

	point := ray.At(hit.T)
	response.Hit = true
	response.Distance = hit.T
	response.Point = [3]float64{point.X, point.Y, point.Z}
	response.Normal = [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z}
	response.Albedo = [3]float64{hit.Albedo.X, hit.Albedo.Y, hit.Albedo.Z}
	response.Emission = [3]float64{hit.Emission.X, hit.Emission.Y, hit.Emission.Z}
	response.Emissive = hit.Emission != (core.Vec3{})

	shade := hit.Albedo.Clamp(0, 1)
	response.Color = fmt.Sprintf("#%02x%02x%02x",
		int(shade.X*255), int(shade.Y*255), int(shade.Z*255))
	return response
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= s.config.Width || pixelY < 0 || pixelY >= s.config.Height {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.inspectPixel(pixelX, pixelY))
}
