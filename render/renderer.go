package render

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/math/f32"

	"github.com/MartMcMahon/praxis"
	"github.com/MartMcMahon/praxis/internal/gpu"
)

// ErrClosed is returned when rendering with a closed Renderer.
var ErrClosed = errors.New("praxis: renderer is closed")

// Renderer renders the shading effect offscreen and keeps the most
// recent frame's pixels. It either owns its GPU device (New) or shares
// the host's (NewWithDevice).
//
// Renderer is not safe for concurrent use; drive it from one goroutine.
type Renderer struct {
	backend *gpu.Backend
	session *gpu.EffectSession

	width  int
	height int
	pixels []byte
	closed bool
}

// New creates a renderer with its own GPU device and an offscreen target
// of the given size.
func New(width, height int, opts ...Option) (*Renderer, error) {
	backend := gpu.NewBackend()
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("init GPU backend: %w", err)
	}
	r, err := newRenderer(backend, width, height, opts)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return r, nil
}

// NewWithDevice creates a renderer on a shared GPU device from the host.
// The handle must expose HAL types (HalDevice/HalQueue); the shared
// device is not destroyed on Close.
func NewWithDevice(handle DeviceHandle, width, height int, opts ...Option) (*Renderer, error) {
	backend := gpu.NewBackend()
	if err := backend.SetDeviceProvider(handle); err != nil {
		return nil, fmt.Errorf("adopt device: %w", err)
	}
	r, err := newRenderer(backend, width, height, opts)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return r, nil
}

func newRenderer(backend *gpu.Backend, width, height int, opts []Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("praxis: invalid dimensions %dx%d", width, height)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	session, err := gpu.NewEffectSession(backend.Device(), backend.Queue(), cfg.sessionOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := session.EnsureTarget(uint32(width), uint32(height)); err != nil { //nolint:gosec // dimensions validated above
		session.Destroy()
		return nil, fmt.Errorf("create render target: %w", err)
	}

	return &Renderer{
		backend: backend,
		session: session,
		width:   width,
		height:  height,
		pixels:  make([]byte, width*height*4),
	}, nil
}

// RenderFrame renders one frame at time t into the renderer's pixel
// buffer. An empty instances slice draws a single identity instance, so
// mesh positions pass straight through to clip space.
func (r *Renderer) RenderFrame(t float32, mesh *praxis.Mesh, instances []f32.Mat4) error {
	if r.closed {
		return ErrClosed
	}
	return r.session.RenderFrame(t, mesh, instances, r.pixels)
}

// Pixels returns the most recent frame as tightly packed RGBA bytes.
// The slice is reused by the next RenderFrame call.
func (r *Renderer) Pixels() []byte {
	return r.pixels
}

// Image wraps the most recent frame in an image.RGBA without copying.
// The pixels are overwritten by the next RenderFrame call.
func (r *Renderer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    r.pixels,
		Stride: r.width * 4,
		Rect:   image.Rect(0, 0, r.width, r.height),
	}
}

// Size returns the target dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Time returns the time value of the most recent frame, or the initial
// time before the first one.
func (r *Renderer) Time() float32 {
	return r.session.Time()
}

// AdapterName returns the name of the GPU adapter in use.
func (r *Renderer) AdapterName() string {
	return r.backend.AdapterName()
}

// Close releases all GPU resources. A shared device from NewWithDevice
// is not destroyed. Close is idempotent.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.session.Destroy()
	r.backend.Close()
	r.closed = true
}
