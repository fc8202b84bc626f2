package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/MartMcMahon/praxis"
)

// Option configures an EffectSession during creation.
type Option func(*sessionConfig)

// sessionConfig holds optional configuration for EffectSession creation.
type sessionConfig struct {
	format      gputypes.TextureFormat
	clearColor  gputypes.Color
	initialTime float32
	labelPrefix string
}

// defaultSessionConfig returns the default session configuration: a
// BGRA8Unorm target cleared to opaque black, the canonical initial time,
// and the "effect" debug label prefix.
func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		format:      gputypes.TextureFormatBGRA8Unorm,
		clearColor:  gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		initialTime: praxis.InitialTime,
		labelPrefix: "effect",
	}
}

// WithTargetFormat sets the color target format. The offscreen readback
// path assumes a BGRA 8-bit format; use BGRA8Unorm (default) or
// BGRA8UnormSrgb.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return func(c *sessionConfig) {
		c.format = format
	}
}

// WithClearColor sets the color the target is cleared to each frame.
func WithClearColor(color gputypes.Color) Option {
	return func(c *sessionConfig) {
		c.clearColor = color
	}
}

// WithInitialTime sets the time value the uniform buffer holds before the
// first frame is rendered.
func WithInitialTime(t float32) Option {
	return func(c *sessionConfig) {
		c.initialTime = t
	}
}

// WithLabelPrefix sets the prefix used in GPU debug labels, to tell
// multiple sessions apart in capture tools.
func WithLabelPrefix(prefix string) Option {
	return func(c *sessionConfig) {
		if prefix != "" {
			c.labelPrefix = prefix
		}
	}
}
