// Package render is the public entry point for rendering the
// time-modulated shading effect.
//
// A [Renderer] owns the GPU device (or adopts a shared one from a host
// application via [DeviceHandle]), the effect pipeline, and an offscreen
// render target. Each RenderFrame call writes the frame's time value to
// the GPU, draws the mesh, and reads the pixels back:
//
//	r, err := render.New(800, 600)
//	if err != nil { ... }
//	defer r.Close()
//
//	mesh := praxis.EffectQuad()
//	if err := r.RenderFrame(0.2, mesh, nil); err != nil { ... }
//	img := r.Image()
//
// Hosts that already own a GPU device (window-system integrations) pass
// it in with [NewWithDevice] instead, and the renderer will not create or
// destroy the device.
package render
