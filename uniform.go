package praxis

// TimeUniformSize is the byte size of the time uniform buffer: a single
// f32 at group 0, binding 0, visible to the vertex stage.
const TimeUniformSize = 4

// InitialTime is the time value the uniform buffer holds before the first
// frame is rendered.
const InitialTime = 0.2

// TimeUniform is the host-side mirror of the shader's time uniform.
//
// The host writes Bytes() into the uniform buffer via the queue before each
// frame's submit. Queue writes are ordered ahead of the submit they precede,
// so a frame never observes a torn or stale time value.
type TimeUniform struct {
	T float32
}

// Bytes returns the 4-byte little-endian encoding of the uniform.
func (u TimeUniform) Bytes() []byte {
	data := make([]byte, TimeUniformSize)
	putFloat32(data, u.T)
	return data
}
