package praxis

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// ShadeVertexColor computes the time-modulated vertex color on the CPU.
// This mirrors the vertex shader arithmetic exactly (float32 throughout):
//
//	r = base.r + cos(position.x) + sin(t)
//	g = base.g + sin(position.x) + cos(t)
//	b = base.b + cos(position.x) + cos(t)
//
// The result is deterministic for a given (position, base, t) and is NOT
// clamped: channels routinely leave [0, 1] and the render target clamps on
// write. Use [ClampColor] to predict the stored pixel value.
//
// Parameters:
//   - position: vertex position; only the x component participates
//   - base: the vertex base color from the vertex stream
//   - t: current time in seconds
//
// Returns the modulated RGB color.
func ShadeVertexColor(position, base f32.Vec3, t float32) f32.Vec3 {
	cosX := math32.Cos(position[0])
	sinX := math32.Sin(position[0])
	return f32.Vec3{
		base[0] + cosX + math32.Sin(t),
		base[1] + sinX + math32.Cos(t),
		base[2] + cosX + math32.Cos(t),
	}
}

// ShadeClipPosition returns the clip-space position for a vertex. The
// effect applies no transform: the mesh is authored in clip space and
// passes through with w = 1.
func ShadeClipPosition(position f32.Vec3) f32.Vec4 {
	return f32.Vec4{position[0], position[1], position[2], 1}
}

// ShadeFragment returns the final fragment output for a modulated color:
// the RGB channels unchanged and alpha forced to 1.
func ShadeFragment(color f32.Vec3) f32.Vec4 {
	return f32.Vec4{color[0], color[1], color[2], 1}
}

// ClampColor clamps each channel to [0, 1], mirroring what a unorm render
// target does when an out-of-range channel is written.
func ClampColor(c f32.Vec3) f32.Vec3 {
	return f32.Vec3{clamp01(c[0]), clamp01(c[1]), clamp01(c[2])}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
