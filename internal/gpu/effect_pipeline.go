package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/MartMcMahon/praxis"
)

// Embedded effect shader source.
//
//go:embed shaders/effect.wgsl
var effectShaderSource string

// EffectPipeline owns the shader, layouts, and render pipeline for the
// time-modulated shading effect. The pipeline draws indexed, instanced
// triangle lists with two vertex buffers: slot 0 carries per-vertex
// position and base color, slot 1 carries the per-instance transform.
//
// The time uniform lives at group 0, binding 0, visible to the vertex
// stage only. The session owns the uniform buffer and bind group; the
// pipeline only provides the layouts.
type EffectPipeline struct {
	device hal.Device
	queue  hal.Queue

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	format gputypes.TextureFormat
}

// NewEffectPipeline creates a new effect pipeline with the given device
// and queue. GPU objects are not created until ensurePipeline is called.
func NewEffectPipeline(device hal.Device, queue hal.Queue) *EffectPipeline {
	return &EffectPipeline{
		device: device,
		queue:  queue,
	}
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *EffectPipeline) Destroy() {
	p.destroyPipeline()
}

// UniformLayout returns the bind group layout for the time uniform, or
// nil before ensurePipeline.
func (p *EffectPipeline) UniformLayout() hal.BindGroupLayout {
	return p.uniformLayout
}

// ensurePipeline creates the shader, layouts, and render pipeline for the
// given color target format if they don't already exist.
func (p *EffectPipeline) ensurePipeline(format gputypes.TextureFormat) error {
	if p.pipeline != nil && p.format == format {
		return nil
	}
	if p.pipeline != nil {
		// Target format changed. Rebuild from scratch.
		p.destroyPipeline()
	}
	return p.createPipeline(format)
}

// compileEffectShader compiles the embedded WGSL source to SPIR-V words.
// Compilation happens on the CPU via naga, so shader errors surface as Go
// errors with source context instead of device-side failures.
func compileEffectShader() ([]uint32, error) {
	if effectShaderSource == "" {
		return nil, fmt.Errorf("effect shader source is empty")
	}
	spirvBytes, err := naga.Compile(effectShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile effect shader: %w", err)
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// createPipeline compiles the effect shader and creates the render
// pipeline for the given color target format.
func (p *EffectPipeline) createPipeline(format gputypes.TextureFormat) error {
	words, err := compileEffectShader()
	if err != nil {
		return err
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "effect_shader",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return fmt.Errorf("create effect shader module: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "effect_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: praxis.TimeUniformSize,
				},
			},
		},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create effect uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "effect_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create effect pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "effect_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    effectVertexLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create effect pipeline: %w", err)
	}
	p.pipeline = pipeline
	p.format = format

	slogger().Debug("gpu: effect pipeline created", "format", format)
	return nil
}

// RecordDraws records the effect draw into an existing render pass. The
// resources parameter holds the current frame's buffers and bind group.
func (p *EffectPipeline) RecordDraws(rp hal.RenderPassEncoder, res *frameResources) {
	if res == nil || res.indexCount == 0 || res.instanceCount == 0 {
		return
	}
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.SetVertexBuffer(0, res.vertBuf, 0)
	rp.SetVertexBuffer(1, res.instBuf, 0)
	rp.SetIndexBuffer(res.idxBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(res.indexCount, res.instanceCount, 0, 0, 0)
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *EffectPipeline) destroyPipeline() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
	p.format = 0
}

// effectVertexLayouts returns the two vertex buffer layouts for the effect
// pipeline: per-vertex data in slot 0, per-instance transform in slot 1.
func effectVertexLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: praxis.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				// position, then base color.
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x3, Offset: praxis.ColorOffset, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: praxis.InstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
			},
		},
	}
}
