package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/MartMcMahon/praxis"
)

// gpuTimeout bounds how long a frame waits for the GPU fence.
const gpuTimeout = 5 * time.Second

// copyPitchAlignment is the BytesPerRow alignment WebGPU (and DX12)
// require for texture-to-buffer copies.
const copyPitchAlignment = 256

// EffectSession renders the time-modulated effect frame by frame. It owns
// the render pipeline, the persistent time uniform buffer and bind group,
// and the offscreen color target.
//
// Two render modes:
//   - Offscreen (default): render to an internal texture, copy to a
//     staging buffer, fence wait, read back RGBA pixels.
//   - Surface: render to a caller-provided texture view, no readback.
//     The caller presents the surface and owns the view.
//
// The time uniform is written via the queue before every submit, so each
// frame observes exactly one time value.
//
// EffectSession is not safe for concurrent use; drive it from one frame
// loop goroutine.
type EffectSession struct {
	device hal.Device
	queue  hal.Queue

	cfg      sessionConfig
	pipeline *EffectPipeline

	// Persistent uniform resources (created lazily with the pipeline).
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	// Offscreen color target.
	colorTex  hal.Texture
	colorView hal.TextureView

	// Surface mode target. Non-nil view switches readback off.
	surfaceView hal.TextureView

	width  uint32
	height uint32

	lastTime  float32
	destroyed bool
}

// NewEffectSession creates a render session on the given device and queue.
// GPU objects are created lazily on the first RenderFrame.
func NewEffectSession(device hal.Device, queue hal.Queue, opts ...Option) (*EffectSession, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &EffectSession{
		device:   device,
		queue:    queue,
		cfg:      cfg,
		pipeline: NewEffectPipeline(device, queue),
		lastTime: cfg.initialTime,
	}, nil
}

// EnsureTarget creates or recreates the offscreen color target at the
// given size. A no-op if the target already matches. Clears any surface
// target previously set.
func (s *EffectSession) EnsureTarget(w, h uint32) error {
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: %dx%d", ErrNoTarget, w, h)
	}
	s.surfaceView = nil
	if s.colorTex != nil && s.width == w && s.height == h {
		return nil
	}
	s.destroyTarget()

	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         s.cfg.labelPrefix + "_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        s.cfg.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: s.cfg.labelPrefix + "_color_view",
	})
	if err != nil {
		s.device.DestroyTexture(tex)
		return fmt.Errorf("create color view: %w", err)
	}

	s.colorTex = tex
	s.colorView = view
	s.width = w
	s.height = h
	slogger().Debug("gpu: offscreen target created", "width", w, "height", h)
	return nil
}

// SetSurfaceTarget configures the session to render directly to the given
// texture view instead of the offscreen texture. The caller retains
// ownership of the view. Pass a nil view to return to offscreen mode
// (call EnsureTarget again before the next frame).
func (s *EffectSession) SetSurfaceTarget(view hal.TextureView, w, h uint32) {
	s.destroyTarget()
	s.surfaceView = view
	s.width = w
	s.height = h
}

// Size returns the current target dimensions.
func (s *EffectSession) Size() (uint32, uint32) {
	return s.width, s.height
}

// Time returns the last time value written to the uniform buffer, or the
// configured initial time before the first frame.
func (s *EffectSession) Time() float32 {
	return s.lastTime
}

// RenderFrame renders one frame of the effect at time t.
//
// The uniform write happens before the submit, so the whole frame sees
// this t. An empty instances slice draws a single identity instance,
// making the vertex positions a clip-space passthrough.
//
// In offscreen mode dst receives tightly packed RGBA pixels and must hold
// at least width*height*4 bytes. In surface mode dst is ignored.
func (s *EffectSession) RenderFrame(t float32, mesh *praxis.Mesh, instances []f32.Mat4, dst []byte) error {
	if s.destroyed {
		return ErrNotInitialized
	}
	if s.surfaceView == nil && s.colorTex == nil {
		return ErrNoTarget
	}
	if s.surfaceView == nil && uint64(len(dst)) < uint64(s.width)*uint64(s.height)*4 {
		return fmt.Errorf("%w: need %d bytes, have %d",
			ErrShortReadbackBuffer, uint64(s.width)*uint64(s.height)*4, len(dst))
	}

	if err := s.ensurePipeline(); err != nil {
		return fmt.Errorf("ensure pipeline: %w", err)
	}

	// Write the frame's time value ahead of the submit.
	s.queue.WriteBuffer(s.uniformBuf, 0, praxis.TimeUniform{T: t}.Bytes())

	res, err := s.buildFrameResources(mesh, instances)
	if err != nil {
		return fmt.Errorf("build frame resources: %w", err)
	}
	defer res.destroy(s.device)

	if s.surfaceView != nil {
		err = s.encodeSubmitSurface(res)
	} else {
		err = s.encodeSubmitReadback(res, dst)
	}
	if err != nil {
		return err
	}
	// Record the time only once the frame actually rendered with it.
	s.lastTime = t
	return nil
}

// Destroy releases all GPU resources held by the session. Safe to call
// multiple times. The surface view, if any, is owned by the caller and
// not destroyed.
func (s *EffectSession) Destroy() {
	if s.destroyed {
		return
	}
	if s.bindGroup != nil {
		s.device.DestroyBindGroup(s.bindGroup)
		s.bindGroup = nil
	}
	if s.uniformBuf != nil {
		s.device.DestroyBuffer(s.uniformBuf)
		s.uniformBuf = nil
	}
	s.destroyTarget()
	s.surfaceView = nil
	if s.pipeline != nil {
		s.pipeline.Destroy()
	}
	s.destroyed = true
}

// ensurePipeline creates the render pipeline and the persistent uniform
// buffer and bind group if they don't exist yet.
func (s *EffectSession) ensurePipeline() error {
	if err := s.pipeline.ensurePipeline(s.cfg.format); err != nil {
		return err
	}
	if s.uniformBuf != nil {
		return nil
	}

	uniformBuf, err := s.createAndUploadBuffer(s.cfg.labelPrefix+"_time_uniform",
		praxis.TimeUniform{T: s.cfg.initialTime}.Bytes(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("create time uniform: %w", err)
	}

	bindGroup, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  s.cfg.labelPrefix + "_bind",
		Layout: s.pipeline.UniformLayout(),
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: praxis.TimeUniformSize,
			}},
		},
	})
	if err != nil {
		s.device.DestroyBuffer(uniformBuf)
		return fmt.Errorf("create bind group: %w", err)
	}

	s.uniformBuf = uniformBuf
	s.bindGroup = bindGroup
	return nil
}

// encodeSubmitReadback encodes the render pass, copies the color target
// to a staging buffer, submits, waits, and reads back pixels into dst.
func (s *EffectSession) encodeSubmitReadback(res *frameResources, dst []byte) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: s.cfg.labelPrefix + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(s.cfg.labelPrefix + "_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: s.cfg.labelPrefix + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: s.cfg.clearColor,
		}},
	})
	s.pipeline.RecordDraws(rp, res)
	rp.End()

	// The copy source transition is required on Vulkan and DX12; it is a
	// no-op on Metal, GLES, software, and noop backends.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := s.width * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(s.height)

	stagingBuf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: s.cfg.labelPrefix + "_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer s.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(s.colorTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: s.height},
		TextureBase:  hal.ImageCopyTexture{Texture: s.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1},
	}})

	// Return the texture to RenderAttachment so the next frame's render
	// pass starts from the usage it expects.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := s.device.Wait(fence, 1, gpuTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("wait for GPU: timeout after %v", gpuTimeout)
	}

	readback := make([]byte, stagingSize)
	if err := s.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	pixels := int(s.width) * int(s.height)
	if alignedBytesPerRow == bytesPerRow {
		convertBGRAToRGBA(readback, dst, pixels)
		return nil
	}
	// Strip per-row padding from the aligned readback, then convert.
	tight := make([]byte, uint64(bytesPerRow)*uint64(s.height))
	for row := uint32(0); row < s.height; row++ {
		srcOff := int(row) * int(alignedBytesPerRow)
		dstOff := int(row) * int(bytesPerRow)
		copy(tight[dstOff:dstOff+int(bytesPerRow)], readback[srcOff:srcOff+int(bytesPerRow)])
	}
	convertBGRAToRGBA(tight, dst, pixels)
	return nil
}

// encodeSubmitSurface encodes the render pass against the caller-provided
// surface view and submits. No readback; the fence wait ensures rendering
// completes before the caller presents.
func (s *EffectSession) encodeSubmitSurface(res *frameResources) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: s.cfg.labelPrefix + "_surface_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(s.cfg.labelPrefix + "_surface_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: s.cfg.labelPrefix + "_surface_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.surfaceView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: s.cfg.clearColor,
		}},
	})
	s.pipeline.RecordDraws(rp, res)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := s.device.Wait(fence, 1, gpuTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("wait for GPU: timeout after %v", gpuTimeout)
	}
	return nil
}

func (s *EffectSession) destroyTarget() {
	if s.colorView != nil {
		s.device.DestroyTextureView(s.colorView)
		s.colorView = nil
	}
	if s.colorTex != nil {
		s.device.DestroyTexture(s.colorTex)
		s.colorTex = nil
	}
	s.width = 0
	s.height = 0
}

// convertBGRAToRGBA swaps the B and R channels of count pixels from src
// into dst. The slices may not alias.
func convertBGRAToRGBA(src, dst []byte, count int) {
	for i := 0; i < count; i++ {
		o := i * 4
		dst[o] = src[o+2]
		dst[o+1] = src[o+1]
		dst[o+2] = src[o]
		dst[o+3] = src[o+3]
	}
}
