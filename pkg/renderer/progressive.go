package renderer

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/TioT2/p-tr/pkg/core"
	"github.com/TioT2/p-tr/pkg/integrator"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains configuration for the progressive renderer
type Config struct {
	Width      int // Output width in pixels
	Height     int // Output height in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// samplesPerFrame is the number of jittered camera rays traced per pixel in
// one accumulation pass.
const samplesPerFrame = 4

// Renderer accumulates path traced frames over time. Each frame adds one
// low-sample pass into a running per-pixel sum, so the presented image
// sharpens for as long as the camera holds still.
type Renderer struct {
	tracer     *integrator.PathTracer
	films      [2]*Film // double buffered accumulation sums
	display    *Film    // normalized radiance of the latest Present
	numWorkers int
	logger     core.Logger
}

// New creates a progressive renderer for the given scene
func New(s integrator.Scene, config Config, logger core.Logger) *Renderer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Renderer{
		tracer: integrator.NewPathTracer(s),
		films: [2]*Film{
			NewFilm(config.Width, config.Height),
			NewFilm(config.Width, config.Height),
		},
		display:    NewFilm(config.Width, config.Height),
		numWorkers: config.NumWorkers,
		logger:     logger,
	}
}

// Display returns the film holding the most recently presented frame
func (r *Renderer) Display() *Film {
	return r.display
}

// Accumulation returns the film holding the accumulated sum for the given
// frame index, the buffer Accumulate writes when called with that index
func (r *Renderer) Accumulation(frameIndex uint32) *Film {
	return r.films[(frameIndex+1)&1]
}

// Resize reallocates the films for a new output size. Accumulated state is
// discarded; the caller restarts accumulation at frame index zero.
func (r *Renderer) Resize(width, height int) {
	r.films[0] = NewFilm(width, height)
	r.films[1] = NewFilm(width, height)
	r.display = NewFilm(width, height)
}

// parallelFor splits rows [0, height) across the renderer's workers and
// blocks until every row has been processed
func (r *Renderer) parallelFor(height int, body func(y int)) {
	workers := r.numWorkers
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		for y := 0; y < height; y++ {
			body(y)
		}
		return
	}

	chunk := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < height; start += chunk {
		end := start + chunk
		if end > height {
			end = height
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for y := start; y < end; y++ {
				body(y)
			}
		}(start, end)
	}
	wg.Wait()
}

// Accumulate traces one pass over every pixel and folds it into the
// accumulation sum. The pass reads the previous sum from one film and writes
// the updated sum to the other, selected by sys.StaticFrameIndex, so a
// frame's reads never touch the film it is writing. At index zero the
// previous sum is ignored, which is what restarts accumulation after camera
// movement: the stale film is simply overwritten.
func (r *Renderer) Accumulate(camera Camera, sys System) {
	prev := r.films[sys.StaticFrameIndex&1]
	next := r.films[(sys.StaticFrameIndex+1)&1]
	texelW, texelH := sys.TexelSize()

	r.parallelFor(sys.Height, func(y int) {
		for x := 0; x < sys.Width; x++ {
			rng := core.NewRNG(core.PixelSeed(
				(float64(x)+0.5)*texelW,
				(float64(y)+0.5)*texelH,
				sys.Time,
			))

			var sum core.Vec3
			for s := 0; s < samplesPerFrame; s++ {
				u := (float64(x) + rng.Float64()) * texelW
				v := (float64(y) + rng.Float64()) * texelH
				sum = sum.Add(r.tracer.Trace(camera.Ray(u, v), rng))
			}
			value := sum.Multiply(1.0 / samplesPerFrame)

			if sys.StaticFrameIndex != 0 {
				value = value.Add(prev.At(x, y))
			}
			next.Set(x, y, value)
		}
	})
}

// Present divides the accumulated sum by the number of folded frames and
// writes the normalized radiance to the display film
func (r *Renderer) Present(sys System) {
	src := r.films[(sys.StaticFrameIndex+1)&1]
	scale := 1.0 / float64(sys.StaticFrameIndex+1)

	r.parallelFor(sys.Height, func(y int) {
		for x := 0; x < sys.Width; x++ {
			r.display.Set(x, y, src.At(x, y).Multiply(scale))
		}
	})
}

// RenderFrame runs one full accumulate and present cycle for the frame
// described by sys
func (r *Renderer) RenderFrame(camera Camera, sys System) {
	r.Accumulate(camera, sys)
	r.Present(sys)
}

// FrameResult contains the outcome of a single progressive frame
type FrameResult struct {
	FrameIndex uint32
	Image      *image.RGBA
	Stats      FrameStats
	IsLast     bool
}

// RenderProgressive renders with channel-based communication (idiomatic Go).
// It drives the accumulate and present cycle itself, advancing the frame
// index after every frame, and emits each presented frame on the returned
// channel. The caller should read from these channels in separate goroutines.
// maxFrames bounds the number of frames; cancelling the context stops
// rendering early.
func (r *Renderer) RenderProgressive(ctx context.Context, camera Camera, maxFrames uint32) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		width, height := r.display.Width, r.display.Height
		r.logger.Printf("Starting progressive rendering of %d frames at %dx%d (using %d workers)...\n",
			maxFrames, width, height, r.numWorkers)

		for index := uint32(0); index < maxFrames; index++ {
			// Check if the caller gave up before starting this frame
			select {
			case <-ctx.Done():
				r.logger.Printf("Rendering cancelled before frame %d\n", index)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()
			sys := System{
				Width:            width,
				Height:           height,
				Time:             FrameTime(startTime),
				StaticFrameIndex: index,
			}
			r.RenderFrame(camera, sys)
			frameTime := time.Since(startTime)

			stats := CollectStats(r.display)
			r.logger.Printf("Frame %d completed in %v (mean luminance %.4f)\n",
				index, frameTime, stats.MeanLuminance)

			result := FrameResult{
				FrameIndex: index,
				Image:      r.display.ToRGBA(),
				Stats:      stats,
				IsLast:     index == maxFrames-1,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frameChan, errChan
}
