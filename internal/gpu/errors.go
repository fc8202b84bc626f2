package gpu

import "errors"

// Package errors.
var (
	// ErrNoGPU is returned when no usable GPU backend or adapter is found.
	ErrNoGPU = errors.New("gpu: no GPU available")

	// ErrNotInitialized is returned when a backend is used before Init.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrNilDevice is returned when a session is created without a device.
	ErrNilDevice = errors.New("gpu: device is nil")

	// ErrNilMesh is returned when RenderFrame is called with a nil mesh.
	ErrNilMesh = errors.New("gpu: mesh is nil")

	// ErrEmptyMesh is returned when a mesh has no vertices or indices.
	ErrEmptyMesh = errors.New("gpu: mesh is empty")

	// ErrNoTarget is returned when rendering without a configured target.
	ErrNoTarget = errors.New("gpu: no render target configured")

	// ErrShortReadbackBuffer is returned when the destination pixel buffer
	// is too small for the configured target size.
	ErrShortReadbackBuffer = errors.New("gpu: readback buffer too small")

	// ErrExternalProvider is returned when a device provider does not
	// expose usable HAL types.
	ErrExternalProvider = errors.New("gpu: provider does not expose HAL device")
)
