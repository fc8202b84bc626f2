// Package gpu implements the wgpu rendering layer for the time-modulated
// shading effect: device acquisition, the render pipeline, per-frame
// resources, and the session that encodes, submits, and reads back frames.
//
// The pure CPU model of the effect (meshes, timer, reference shading math)
// lives in the root praxis package; this package only moves that data to
// the GPU and back.
package gpu
