package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/MartMcMahon/praxis"
)

func TestEffectSessionCreation(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s, err := NewEffectSession(device, queue)
	if err != nil {
		t.Fatalf("NewEffectSession failed: %v", err)
	}

	w, h := s.Size()
	if w != 0 || h != 0 {
		t.Errorf("size before EnsureTarget = (%d, %d), want (0, 0)", w, h)
	}
	if got := s.Time(); got != praxis.InitialTime {
		t.Errorf("initial time = %v, want %v", got, float32(praxis.InitialTime))
	}

	s.Destroy()
	// Double-destroy should be safe.
	s.Destroy()
}

func TestEffectSessionNilDevice(t *testing.T) {
	if _, err := NewEffectSession(nil, nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewEffectSession(nil, nil) err = %v, want ErrNilDevice", err)
	}
}

func TestEffectSessionTarget(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s, err := NewEffectSession(device, queue)
	if err != nil {
		t.Fatalf("NewEffectSession failed: %v", err)
	}
	defer s.Destroy()

	if err := s.EnsureTarget(320, 240); err != nil {
		t.Fatalf("EnsureTarget failed: %v", err)
	}
	w, h := s.Size()
	if w != 320 || h != 240 {
		t.Errorf("size = (%d, %d), want (320, 240)", w, h)
	}

	// Same dimensions should be a no-op.
	orig := s.colorTex
	if err := s.EnsureTarget(320, 240); err != nil {
		t.Fatalf("second EnsureTarget failed: %v", err)
	}
	if s.colorTex != orig {
		t.Error("color texture was recreated unnecessarily")
	}

	// Resize recreates.
	if err := s.EnsureTarget(640, 480); err != nil {
		t.Fatalf("resize EnsureTarget failed: %v", err)
	}
	w, h = s.Size()
	if w != 640 || h != 480 {
		t.Errorf("size after resize = (%d, %d), want (640, 480)", w, h)
	}

	// Zero dimensions are rejected.
	if err := s.EnsureTarget(0, 100); !errors.Is(err, ErrNoTarget) {
		t.Errorf("EnsureTarget(0, 100) err = %v, want ErrNoTarget", err)
	}
}

func TestEffectSessionRenderFrame(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s, err := NewEffectSession(device, queue)
	if err != nil {
		t.Fatalf("NewEffectSession failed: %v", err)
	}
	defer s.Destroy()

	if err := s.EnsureTarget(64, 64); err != nil {
		t.Fatalf("EnsureTarget failed: %v", err)
	}

	// This exercises pipeline creation, uniform setup, render pass
	// encoding, submit, and readback with the noop device.
	dst := make([]byte, 64*64*4)
	err = s.RenderFrame(1.5, praxis.EffectQuad(), nil, dst)
	if err != nil {
		skipOnNagaLimitation(t, err)
		t.Fatalf("RenderFrame failed: %v", err)
	}

	if got := s.Time(); got != 1.5 {
		t.Errorf("Time after frame = %v, want 1.5", got)
	}
	if s.uniformBuf == nil || s.bindGroup == nil {
		t.Error("expected persistent uniform resources after first frame")
	}

	// Second frame reuses the persistent uniform buffer and bind group.
	uniformBuf, bindGroup := s.uniformBuf, s.bindGroup
	if err := s.RenderFrame(2.5, praxis.Cube(), praxis.InstanceGrid(2, 1, f32.Vec3{}), dst); err != nil {
		t.Fatalf("second RenderFrame failed: %v", err)
	}
	if s.uniformBuf != uniformBuf || s.bindGroup != bindGroup {
		t.Error("uniform resources were recreated between frames")
	}
}

func TestEffectSessionRenderFrameErrors(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s, err := NewEffectSession(device, queue)
	if err != nil {
		t.Fatalf("NewEffectSession failed: %v", err)
	}
	defer s.Destroy()

	dst := make([]byte, 16*16*4)

	// No target configured yet.
	if err := s.RenderFrame(0, praxis.EffectQuad(), nil, dst); !errors.Is(err, ErrNoTarget) {
		t.Errorf("RenderFrame without target err = %v, want ErrNoTarget", err)
	}

	if err := s.EnsureTarget(16, 16); err != nil {
		t.Fatalf("EnsureTarget failed: %v", err)
	}
	if err := s.ensurePipeline(); err != nil {
		skipOnNagaLimitation(t, err)
		t.Fatalf("ensurePipeline failed: %v", err)
	}

	// Short destination buffer.
	if err := s.RenderFrame(0, praxis.EffectQuad(), nil, dst[:10]); !errors.Is(err, ErrShortReadbackBuffer) {
		t.Errorf("short dst err = %v, want ErrShortReadbackBuffer", err)
	}

	// Nil and empty meshes.
	if err := s.RenderFrame(0, nil, nil, dst); !errors.Is(err, ErrNilMesh) {
		t.Errorf("nil mesh err = %v, want ErrNilMesh", err)
	}
	if err := s.RenderFrame(0, &praxis.Mesh{}, nil, dst); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("empty mesh err = %v, want ErrEmptyMesh", err)
	}

	// None of the failed frames rendered, so Time still reports the
	// initial value rather than any of the rejected t arguments.
	if got := s.Time(); got != praxis.InitialTime {
		t.Errorf("Time after failed frames = %v, want %v", got, float32(praxis.InitialTime))
	}
}

func TestEffectSessionOptions(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s, err := NewEffectSession(device, queue,
		WithTargetFormat(gputypes.TextureFormatBGRA8UnormSrgb),
		WithClearColor(gputypes.Color{R: 1, G: 1, B: 1, A: 1}),
		WithInitialTime(3),
		WithLabelPrefix("test"),
	)
	if err != nil {
		t.Fatalf("NewEffectSession failed: %v", err)
	}
	defer s.Destroy()

	if s.cfg.format != gputypes.TextureFormatBGRA8UnormSrgb {
		t.Errorf("format = %v, want BGRA8UnormSrgb", s.cfg.format)
	}
	if s.cfg.clearColor != (gputypes.Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("clear color = %v, want opaque white", s.cfg.clearColor)
	}
	if s.cfg.initialTime != 3 {
		t.Errorf("initial time = %v, want 3", s.cfg.initialTime)
	}
	if s.cfg.labelPrefix != "test" {
		t.Errorf("label prefix = %q, want %q", s.cfg.labelPrefix, "test")
	}
	if got := s.Time(); got != 3 {
		t.Errorf("Time = %v, want 3", got)
	}

	// Empty prefix keeps the default.
	s2, err := NewEffectSession(device, queue, WithLabelPrefix(""))
	if err != nil {
		t.Fatalf("NewEffectSession failed: %v", err)
	}
	defer s2.Destroy()
	if s2.cfg.labelPrefix != "effect" {
		t.Errorf("label prefix = %q, want %q", s2.cfg.labelPrefix, "effect")
	}
}

func TestConvertBGRAToRGBA(t *testing.T) {
	src := []byte{
		10, 20, 30, 40, // pixel 0: B=10 G=20 R=30 A=40
		50, 60, 70, 80, // pixel 1
	}
	dst := make([]byte, len(src))
	convertBGRAToRGBA(src, dst, 2)

	want := []byte{30, 20, 10, 40, 70, 60, 50, 80}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestBuildFrameResourcesDefaultInstance(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s, err := NewEffectSession(device, queue)
	if err != nil {
		t.Fatalf("NewEffectSession failed: %v", err)
	}
	defer s.Destroy()

	res, err := s.buildFrameResources(praxis.EffectQuad(), nil)
	if err != nil {
		t.Fatalf("buildFrameResources failed: %v", err)
	}
	defer res.destroy(s.device)

	if res.indexCount != 6 {
		t.Errorf("indexCount = %d, want 6", res.indexCount)
	}
	if res.instanceCount != 1 {
		t.Errorf("instanceCount = %d, want 1 (identity default)", res.instanceCount)
	}
	if res.vertBuf == nil || res.idxBuf == nil || res.instBuf == nil {
		t.Error("expected non-nil frame buffers")
	}
}
