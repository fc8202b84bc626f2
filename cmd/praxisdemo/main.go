// Command praxisdemo renders the time-modulated shading effect offscreen
// and writes each frame as a PNG file.
//
// Two scenes are available: the canonical four-color quad ("quad") and an
// instanced cube grid ("cubes") whose origin drifts as if steered by held
// movement keys.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/math/f32"

	"github.com/MartMcMahon/praxis"
	"github.com/MartMcMahon/praxis/render"
)

func main() {
	var (
		width   = flag.Int("width", 800, "frame width")
		height  = flag.Int("height", 600, "frame height")
		frames  = flag.Int("frames", 60, "number of frames to render")
		fps     = flag.Float64("fps", 30, "animation rate used for the time step")
		outDir  = flag.String("out", "frames", "output directory for PNG frames")
		scene   = flag.String("scene", "quad", "scene to render: quad or cubes")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	praxis.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if err := run(*width, *height, *frames, *fps, *outDir, *scene); err != nil {
		log.Fatalf("praxisdemo: %v", err)
	}
}

func run(width, height, frames int, fps float64, outDir, scene string) error {
	if frames <= 0 || fps <= 0 {
		return fmt.Errorf("invalid arguments: %d frames at %g fps", frames, fps)
	}

	var mesh *praxis.Mesh
	switch scene {
	case "quad":
		mesh = praxis.EffectQuad()
	case "cubes":
		mesh = praxis.Cube()
	default:
		return fmt.Errorf("unknown scene %q", scene)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	r, err := render.New(width, height)
	if err != nil {
		return err
	}
	defer r.Close()

	// A scripted controller drifts the cube grid rightward and forward,
	// standing in for interactive input in this offscreen host.
	controller := praxis.NewController(2)
	if scene == "cubes" {
		controller.SetPressed(praxis.KeyRight, true)
		controller.SetPressed(praxis.KeyForward, true)
	}

	timer := praxis.NewTimer()
	origin := f32.Vec3{}
	dt := float32(1 / fps)

	for frame := 0; frame < frames; frame++ {
		// Fixed time step: frame n renders at n/fps seconds regardless of
		// how long encoding and readback take.
		t := praxis.InitialTime + float32(frame)*dt

		var instances []f32.Mat4
		if scene == "cubes" {
			origin = controller.Move(origin, dt)
			instances = praxis.InstanceGrid(3, 1.2, origin)
		}

		if err := r.RenderFrame(t, mesh, instances); err != nil {
			return fmt.Errorf("render frame %d: %w", frame, err)
		}

		name := filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", frame))
		if err := writePNG(name, r.Image()); err != nil {
			return fmt.Errorf("write frame %d: %w", frame, err)
		}
		praxis.Logger().Debug("frame written", "frame", frame, "t", t, "file", name)
	}

	praxis.Logger().Info("done",
		"frames", frames, "size", fmt.Sprintf("%dx%d", width, height),
		"adapter", r.AdapterName(), "elapsed", timer.Elapsed())
	return nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
