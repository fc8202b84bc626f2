// Package praxis renders animated meshes whose per-vertex color is
// modulated in the vertex stage by a host-supplied time value.
//
// The effect itself is small: each vertex carries a position and a base
// color, and the shader offsets the color channels with trigonometric
// functions of the vertex x coordinate and the current time. The host
// advances a [Timer] each frame and writes the time into a single-float
// uniform buffer before submitting the frame, so every frame observes one
// coherent time value.
//
// The package splits into three layers:
//
//   - Pure CPU code at the root: [ShadeVertexColor] and friends mirror the
//     shader arithmetic exactly, [EffectQuad] and [Cube] provide the meshes,
//     [Timer] and [Controller] drive the animation. None of it touches a GPU
//     and all of it is testable on any machine.
//   - internal/gpu: the wgpu pipeline, per-frame resources, and the render
//     session that encodes, submits, and (offscreen) reads back frames.
//   - render: the public facade. A [render.Renderer] owns or shares a GPU
//     device and turns RenderFrame calls into RGBA pixels or an image.
//
// cmd/praxisdemo is an offscreen host built on render that writes a frame
// sequence to PNG files.
//
// By default praxis produces no log output. Call [SetLogger] to enable
// structured logging.
package praxis
