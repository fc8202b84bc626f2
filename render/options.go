package render

import (
	"github.com/gogpu/gputypes"

	"github.com/MartMcMahon/praxis"
	"github.com/MartMcMahon/praxis/internal/gpu"
)

// Option configures a Renderer during creation.
type Option func(*config)

// config holds optional configuration for Renderer creation.
type config struct {
	format      gputypes.TextureFormat
	clearColor  gputypes.Color
	initialTime float32
}

// defaultConfig returns the default renderer configuration.
func defaultConfig() config {
	return config{
		format:      gputypes.TextureFormatBGRA8Unorm,
		clearColor:  gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		initialTime: praxis.InitialTime,
	}
}

// sessionOptions translates the renderer configuration into session
// options for the GPU layer.
func (c config) sessionOptions() []gpu.Option {
	return []gpu.Option{
		gpu.WithTargetFormat(c.format),
		gpu.WithClearColor(c.clearColor),
		gpu.WithInitialTime(c.initialTime),
	}
}

// WithFormat sets the color target format. The readback path assumes a
// BGRA 8-bit format; use BGRA8Unorm (default) or BGRA8UnormSrgb.
func WithFormat(format gputypes.TextureFormat) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithClearColor sets the color each frame is cleared to.
func WithClearColor(color gputypes.Color) Option {
	return func(c *config) {
		c.clearColor = color
	}
}

// WithInitialTime sets the time value the effect holds before the first
// rendered frame.
func WithInitialTime(t float32) Option {
	return func(c *config) {
		c.initialTime = t
	}
}
