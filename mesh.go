package praxis

import "golang.org/x/image/math/f32"

// Mesh is an indexed triangle mesh in the effect vertex format.
// Indices are 16-bit; every mesh this package produces fits comfortably.
type Mesh struct {
	Vertices []EffectVertex
	Indices  []uint16
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// EffectQuad returns the canonical full-screen effect quad: four corners in
// clip space with distinct base colors, split into two triangles.
func EffectQuad() *Mesh {
	return &Mesh{
		Vertices: []EffectVertex{
			{Position: f32.Vec3{-1, 1, 0}, Color: f32.Vec3{1, 0, 0}},
			{Position: f32.Vec3{1, 1, 0}, Color: f32.Vec3{0, 1, 0}},
			{Position: f32.Vec3{1, -1, 0}, Color: f32.Vec3{0, 0, 1}},
			{Position: f32.Vec3{-1, -1, 0}, Color: f32.Vec3{0.4, 0.4, 0.1}},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// Cube returns a unit cube centered at the origin with base colors derived
// from vertex position (corner (x,y,z) maps to color ((x+1)/2, (y+1)/2,
// (z+1)/2)). Drawn with 12 triangles, no culling.
func Cube() *Mesh {
	corners := [8]f32.Vec3{
		{-0.5, -0.5, -0.5},
		{0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5},
		{-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5},
		{-0.5, 0.5, 0.5},
	}
	verts := make([]EffectVertex, 8)
	for i, p := range corners {
		verts[i] = EffectVertex{
			Position: p,
			Color:    f32.Vec3{p[0] + 0.5, p[1] + 0.5, p[2] + 0.5},
		}
	}
	return &Mesh{
		Vertices: verts,
		Indices: []uint16{
			0, 2, 1, 0, 3, 2, // back
			4, 5, 6, 4, 6, 7, // front
			0, 1, 5, 0, 5, 4, // bottom
			3, 6, 2, 3, 7, 6, // top
			0, 4, 7, 0, 7, 3, // left
			1, 2, 6, 1, 6, 5, // right
		},
	}
}

// InstanceStride is the byte stride per instance: one column-major
// mat4x4<f32> transform, consumed as four vec4 attributes.
const InstanceStride = 64

// IdentityTransform returns the identity instance transform.
func IdentityTransform() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// TranslationTransform returns a column-major translation transform.
func TranslationTransform(offset f32.Vec3) f32.Mat4 {
	m := IdentityTransform()
	m[12] = offset[0]
	m[13] = offset[1]
	m[14] = offset[2]
	return m
}

// InstanceGrid returns n*n translation transforms laid out on the XZ plane
// around origin, spaced by spacing. n must be at least 1; InstanceGrid
// returns a single identity-positioned instance at origin for n <= 1.
func InstanceGrid(n int, spacing float32, origin f32.Vec3) []f32.Mat4 {
	if n <= 1 {
		return []f32.Mat4{TranslationTransform(origin)}
	}
	grid := make([]f32.Mat4, 0, n*n)
	half := float32(n-1) / 2
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			offset := f32.Vec3{
				origin[0] + (float32(col)-half)*spacing,
				origin[1],
				origin[2] + (float32(row)-half)*spacing,
			}
			grid = append(grid, TranslationTransform(offset))
		}
	}
	return grid
}

// InstanceBytes serializes instance transforms to the little-endian byte
// layout of vertex buffer slot 1 (stride [InstanceStride]).
func InstanceBytes(transforms []f32.Mat4) []byte {
	data := make([]byte, len(transforms)*InstanceStride)
	for i, m := range transforms {
		off := i * InstanceStride
		for j, v := range m {
			putFloat32(data[off+j*4:], v)
		}
	}
	return data
}
