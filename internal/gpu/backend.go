package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Backend owns the GPU instance, device, and queue the effect renders
// with. It either creates its own device (Init) or adopts a shared one
// from a host application (SetDeviceProvider).
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adapterName    string
	externalDevice bool
	initialized    bool
}

// NewBackend creates an uninitialized backend. Call Init or
// SetDeviceProvider before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Init creates the backend's own GPU resources: instance, adapter, device,
// and queue. Prefers a discrete or integrated GPU over software adapters.
// Calling Init on an initialized backend is a no-op.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not registered", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("open device: %w", err)
	}

	b.instance = instance
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapterName = selected.Info.Name
	b.externalDevice = false
	b.initialized = true

	slogger().Info("gpu: backend initialized", "adapter", b.adapterName)
	return nil
}

// SetDeviceProvider adopts a shared GPU device from a host application
// instead of creating one. The provider must expose HAL types via
// HalDevice/HalQueue methods (gpucontext.HalProvider shape). Resources the
// backend created itself are released first.
func (b *Backend) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrExternalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrExternalProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrExternalProvider)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Release own resources before adopting shared ones.
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}

	b.device = device
	b.queue = queue
	b.adapterName = "external"
	b.externalDevice = true
	b.initialized = true

	slogger().Info("gpu: using shared device from host")
	return nil
}

// Close releases all backend resources. Shared devices adopted via
// SetDeviceProvider are not destroyed. Close is idempotent.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.instance = nil
	b.device = nil
	b.queue = nil
	b.externalDevice = false
	b.initialized = false

	slogger().Info("gpu: backend closed")
}

// IsInitialized reports whether the backend holds a usable device.
func (b *Backend) IsInitialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Device returns the HAL device, or nil before Init.
func (b *Backend) Device() hal.Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.device
}

// Queue returns the HAL queue, or nil before Init.
func (b *Backend) Queue() hal.Queue {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue
}

// AdapterName returns the selected adapter's name, or "" before Init.
func (b *Backend) AdapterName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.adapterName
}
