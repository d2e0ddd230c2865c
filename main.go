package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/TioT2/p-tr/pkg/core"
	"github.com/TioT2/p-tr/pkg/renderer"
	"github.com/TioT2/p-tr/pkg/scene"
)

const windowTitle = "p-tr"

const (
	moveSpeed    = 8.0  // world units per second
	turnSpeed    = 2.0  // radians per second
	minElevation = 0.01 // keeps the view direction off the vertical axis

	// maxFrameDelta caps the per-tick time step after stalls and window drags
	maxFrameDelta = 0.25
)

// moveInput captures one tick of camera control key state
type moveInput struct {
	forward, back bool
	left, right   bool
	up, down      bool

	turnLeft, turnRight bool
	tiltUp, tiltDown    bool
}

// cameraController turns key state into a camera pose. The view direction is
// stored as an azimuth around the world up axis and an elevation measured
// from it, so tilting can be clamped before the pose degenerates.
type cameraController struct {
	location  core.Vec3
	azimuth   float64
	elevation float64
}

func newCameraController(location, target core.Vec3) *cameraController {
	direction := target.Subtract(location).Normalize()
	return &cameraController{
		location:  location,
		azimuth:   math.Atan2(direction.Z, direction.X),
		elevation: math.Acos(direction.Y),
	}
}

func (c *cameraController) direction() core.Vec3 {
	sinElevation := math.Sin(c.elevation)
	return core.NewVec3(
		math.Cos(c.azimuth)*sinElevation,
		math.Cos(c.elevation),
		math.Sin(c.azimuth)*sinElevation,
	)
}

// update applies one tick of input to the pose and reports whether anything
// changed, which is the signal to restart accumulation
func (c *cameraController) update(in moveInput, dt float64) bool {
	oldLocation := c.location
	oldAzimuth, oldElevation := c.azimuth, c.elevation

	if in.turnLeft {
		c.azimuth -= turnSpeed * dt
	}
	if in.turnRight {
		c.azimuth += turnSpeed * dt
	}
	if in.tiltUp {
		c.elevation -= turnSpeed * dt
	}
	if in.tiltDown {
		c.elevation += turnSpeed * dt
	}
	c.elevation = math.Max(minElevation, math.Min(math.Pi-minElevation, c.elevation))

	direction := c.direction()
	right := direction.Cross(core.NewVec3(0, 1, 0)).Normalize()

	var step core.Vec3
	if in.forward {
		step = step.Add(direction)
	}
	if in.back {
		step = step.Subtract(direction)
	}
	if in.right {
		step = step.Add(right)
	}
	if in.left {
		step = step.Subtract(right)
	}
	if in.up {
		step = step.Add(core.NewVec3(0, 1, 0))
	}
	if in.down {
		step = step.Subtract(core.NewVec3(0, 1, 0))
	}
	c.location = c.location.Add(step.Multiply(moveSpeed * dt))

	return c.location != oldLocation || c.azimuth != oldAzimuth || c.elevation != oldElevation
}

func (c *cameraController) camera(width, height int) renderer.Camera {
	return renderer.NewLookAtCamera(
		c.location,
		c.location.Add(c.direction()),
		core.NewVec3(0, 1, 0),
		scene.DefaultCameraNear,
		width, height,
	)
}

// game drives the progressive renderer from the ebiten loop: every tick
// accumulates one more frame, and any camera movement or resize restarts
// accumulation at frame index zero.
type game struct {
	renderer   *renderer.Renderer
	controller *cameraController
	width      int
	height     int
	frameIndex uint32
	lastUpdate time.Time
	fpsFrames  int
	fpsStart   time.Time
	logger     core.Logger
}

func newGame(width, height, workers int, logger core.Logger) *game {
	r := renderer.New(
		scene.NewStaticScene(),
		renderer.Config{Width: width, Height: height, NumWorkers: workers},
		logger,
	)
	now := time.Now()
	return &game{
		renderer:   r,
		controller: newCameraController(scene.DefaultCameraLocation, scene.DefaultCameraTarget),
		width:      width,
		height:     height,
		lastUpdate: now,
		fpsStart:   now,
		logger:     logger,
	}
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	now := time.Now()
	dt := now.Sub(g.lastUpdate).Seconds()
	g.lastUpdate = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}

	in := moveInput{
		forward:   ebiten.IsKeyPressed(ebiten.KeyW),
		back:      ebiten.IsKeyPressed(ebiten.KeyS),
		left:      ebiten.IsKeyPressed(ebiten.KeyA),
		right:     ebiten.IsKeyPressed(ebiten.KeyD),
		up:        ebiten.IsKeyPressed(ebiten.KeyR),
		down:      ebiten.IsKeyPressed(ebiten.KeyF),
		turnLeft:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		turnRight: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		tiltUp:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		tiltDown:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
	}
	if g.controller.update(in, dt) {
		g.frameIndex = 0
	}

	sys := renderer.System{
		Width:            g.width,
		Height:           g.height,
		Time:             renderer.FrameTime(now),
		StaticFrameIndex: g.frameIndex,
	}
	g.renderer.RenderFrame(g.controller.camera(g.width, g.height), sys)
	g.frameIndex++

	g.fpsFrames++
	if elapsed := now.Sub(g.fpsStart); elapsed >= time.Second {
		fps := float64(g.fpsFrames) / elapsed.Seconds()
		ebiten.SetWindowTitle(fmt.Sprintf("%s [%.1f fps]", windowTitle, fps))
		g.logger.Printf("%.1f fps, %d frames accumulated\n", fps, g.frameIndex)
		g.fpsFrames = 0
		g.fpsStart = now
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := g.renderer.Display().ToRGBA()
	if b := screen.Bounds(); b.Dx() != img.Bounds().Dx() || b.Dy() != img.Bounds().Dy() {
		return
	}
	screen.WritePixels(img.Pix)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.renderer.Resize(outsideWidth, outsideHeight)
		g.frameIndex = 0
	}
	return g.width, g.height
}

// renderOffline accumulates the requested number of frames without a window
// and saves the final image as a PNG
func renderOffline(width, height, workers, frames int, output string, logger core.Logger) error {
	r := renderer.New(
		scene.NewStaticScene(),
		renderer.Config{Width: width, Height: height, NumWorkers: workers},
		logger,
	)
	camera := renderer.NewLookAtCamera(
		scene.DefaultCameraLocation,
		scene.DefaultCameraTarget,
		scene.DefaultCameraUp,
		scene.DefaultCameraNear,
		width, height,
	)

	frameChan, errChan := r.RenderProgressive(context.Background(), camera, uint32(frames))
	var final *image.RGBA
	for frame := range frameChan {
		if frame.IsLast {
			final = frame.Image
		}
	}
	if err := <-errChan; err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}
	if final == nil {
		return fmt.Errorf("no frames rendered")
	}

	return savePNG(output, final)
}

func savePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

func main() {
	width := flag.Int("width", 800, "Viewport width in pixels")
	height := flag.Int("height", 600, "Viewport height in pixels")
	workers := flag.Int("workers", 0, "Number of render workers (0 = CPU count)")
	frames := flag.Int("frames", 0, "Render this many frames offline instead of opening a window")
	output := flag.String("o", "render.png", "Output file for offline rendering")
	flag.Parse()

	logger := renderer.NewDefaultLogger()

	if *frames > 0 {
		if err := renderOffline(*width, *height, *workers, *frames, *output, logger); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	g := newGame(*width, *height, *workers, logger)
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
