package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/MartMcMahon/praxis"
)

// frameResources holds the per-frame GPU buffers for one effect draw:
// vertex, index, and instance buffers. The time uniform buffer and bind
// group are session-owned and persist across frames.
type frameResources struct {
	vertBuf   hal.Buffer
	idxBuf    hal.Buffer
	instBuf   hal.Buffer
	bindGroup hal.BindGroup

	indexCount    uint32
	instanceCount uint32
}

func (r *frameResources) destroy(device hal.Device) {
	if r.instBuf != nil {
		device.DestroyBuffer(r.instBuf)
	}
	if r.idxBuf != nil {
		device.DestroyBuffer(r.idxBuf)
	}
	if r.vertBuf != nil {
		device.DestroyBuffer(r.vertBuf)
	}
}

// buildFrameResources creates and uploads the vertex, index, and instance
// buffers for one frame. An empty instances slice draws a single identity
// instance.
func (s *EffectSession) buildFrameResources(mesh *praxis.Mesh, instances []f32.Mat4) (*frameResources, error) {
	if mesh == nil {
		return nil, ErrNilMesh
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(instances) == 0 {
		instances = []f32.Mat4{praxis.IdentityTransform()}
	}

	vertBuf, err := s.createAndUploadBuffer("effect_verts", praxis.VertexBytes(mesh.Vertices),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}

	idxBuf, err := s.createAndUploadBuffer("effect_indices", praxis.IndexBytes(mesh.Indices),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		s.device.DestroyBuffer(vertBuf)
		return nil, fmt.Errorf("create index buffer: %w", err)
	}

	instBuf, err := s.createAndUploadBuffer("effect_instances", praxis.InstanceBytes(instances),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		s.device.DestroyBuffer(idxBuf)
		s.device.DestroyBuffer(vertBuf)
		return nil, fmt.Errorf("create instance buffer: %w", err)
	}

	return &frameResources{
		vertBuf:       vertBuf,
		idxBuf:        idxBuf,
		instBuf:       instBuf,
		bindGroup:     s.bindGroup,
		indexCount:    mesh.IndexCount(),
		instanceCount: uint32(len(instances)), //nolint:gosec // instance count fits uint32
	}, nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (s *EffectSession) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	s.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
