package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from a host application.
//
// Hosts that already own a GPU device (a windowed application, an engine)
// implement DeviceHandle and pass it to [NewWithDevice], so the renderer
// shares the device instead of creating its own. The handle must also
// expose HAL types via HalDevice/HalQueue methods (the gpucontext
// HalProvider shape); the renderer rejects handles that do not.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping this
// package compatible with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Useful as an embedding base for test providers.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
