package server

import (
	"fmt"
	"image"
	"io"
	"log"
	"net/http"

	"github.com/mrjoshuak/go-openexr/exr"

	"github.com/TioT2/p-tr/pkg/renderer"
)

// seekBuffer is an in-memory io.WriteSeeker. The EXR encoder seeks back over
// the scanline offset table after writing pixel data, which rules out a plain
// bytes.Buffer.
type seekBuffer struct {
	data []byte
	pos  int64
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + int64(len(p)); need > int64(len(b.data)) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += int64(len(p))
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = b.pos + offset
	case io.SeekEnd:
		next = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative seek position: %d", next)
	}
	b.pos = next
	return next, nil
}

func (b *seekBuffer) Bytes() []byte { return b.data }

// filmToEXR copies a film's linear radiance into an EXR image, alpha opaque
func filmToEXR(film *renderer.Film) *exr.RGBAImage {
	img := exr.NewRGBAImage(image.Rect(0, 0, film.Width, film.Height))
	for y := 0; y < film.Height; y++ {
		for x := 0; x < film.Width; x++ {
			value := film.At(x, y)
			img.SetRGBA(x, y, float32(value.X), float32(value.Y), float32(value.Z), 1.0)
		}
	}
	return img
}

// handleFrameEXR exports the current display film as an OpenEXR file. Unlike
// the PNG stream the radiance stays linear, with no gamma or clamping, so
// the result suits HDR postprocessing.
func (s *Server) handleFrameEXR(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	img := filmToEXR(s.renderer.Display())
	s.mu.Unlock()

	buf := &seekBuffer{}
	if err := exr.Encode(buf, img); err != nil {
		log.Printf("Error encoding EXR: %v", err)
		http.Error(w, "Failed to encode EXR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/x-exr")
	w.Header().Set("Content-Disposition", `attachment; filename="frame.exr"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing EXR response: %v", err)
	}
}
