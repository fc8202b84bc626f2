package praxis

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// VertexStride is the byte stride per vertex in the effect vertex stream.
// Layout per vertex:
//
//	position (vec3<f32>) = 12 bytes  (location 0, offset 0)
//	color    (vec3<f32>) = 12 bytes  (location 1, offset 12)
//
// Total = 24 bytes per vertex.
const VertexStride = 24

// ColorOffset is the byte offset of the color attribute within a vertex.
const ColorOffset = 12

// EffectVertex is one vertex of an effect mesh: a clip-space position and
// a base color. The shader modulates the base color; see [ShadeVertexColor].
type EffectVertex struct {
	Position f32.Vec3
	Color    f32.Vec3
}

// VertexBytes serializes vertices to the little-endian byte layout the
// vertex stage consumes (stride [VertexStride], position then color).
func VertexBytes(verts []EffectVertex) []byte {
	data := make([]byte, len(verts)*VertexStride)
	for i, v := range verts {
		off := i * VertexStride
		putFloat32(data[off:], v.Position[0])
		putFloat32(data[off+4:], v.Position[1])
		putFloat32(data[off+8:], v.Position[2])
		putFloat32(data[off+12:], v.Color[0])
		putFloat32(data[off+16:], v.Color[1])
		putFloat32(data[off+20:], v.Color[2])
	}
	return data
}

// IndexBytes serializes 16-bit indices little-endian.
func IndexBytes(indices []uint16) []byte {
	data := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(data[i*2:], idx)
	}
	return data
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
