package praxis

import "golang.org/x/image/math/f32"

// Key identifies a movement key the controller reacts to.
type Key int

// Movement keys. The host maps its input events onto these.
const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// Controller turns held movement keys into a velocity vector the host
// applies to the scene origin each frame. It holds no reference to any
// window system; the host feeds it press and release events.
//
// Controller is not safe for concurrent use; drive it with the frame loop.
type Controller struct {
	speed   float32
	pressed [6]bool
}

// NewController returns a controller with the given movement speed in
// scene units per second. Non-positive speeds default to 1.
func NewController(speed float32) *Controller {
	if speed <= 0 {
		speed = 1
	}
	return &Controller{speed: speed}
}

// SetPressed records a key press or release. Unknown keys are ignored.
func (c *Controller) SetPressed(k Key, down bool) {
	if k < KeyForward || k > KeyDown {
		return
	}
	c.pressed[k] = down
}

// Pressed reports whether a key is currently held.
func (c *Controller) Pressed(k Key) bool {
	if k < KeyForward || k > KeyDown {
		return false
	}
	return c.pressed[k]
}

// Velocity returns the current movement velocity in scene units per
// second. Opposing held keys cancel. X is right, Y is up, Z is forward.
func (c *Controller) Velocity() f32.Vec3 {
	var v f32.Vec3
	if c.pressed[KeyRight] {
		v[0] += c.speed
	}
	if c.pressed[KeyLeft] {
		v[0] -= c.speed
	}
	if c.pressed[KeyUp] {
		v[1] += c.speed
	}
	if c.pressed[KeyDown] {
		v[1] -= c.speed
	}
	if c.pressed[KeyForward] {
		v[2] += c.speed
	}
	if c.pressed[KeyBackward] {
		v[2] -= c.speed
	}
	return v
}

// Move advances an origin by the current velocity over dt seconds.
func (c *Controller) Move(origin f32.Vec3, dt float32) f32.Vec3 {
	v := c.Velocity()
	return f32.Vec3{
		origin[0] + v[0]*dt,
		origin[1] + v[1]*dt,
		origin[2] + v[2]*dt,
	}
}
