package renderer

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// BindGroupSlot identifies one of the fixed bind group slots of the lit render pipeline.
// The slot values are the WGSL @group indices in the shader; draw calls must supply
// providers in this order.
type BindGroupSlot uint32

const (
	// BindGroupCamera holds the view-projection matrix and camera position uniform (group 0).
	BindGroupCamera BindGroupSlot = iota

	// BindGroupLights holds the ambient color, light count, and light array uniform (group 1).
	BindGroupLights

	// BindGroupModel holds the per-mesh model matrix uniform (group 2).
	BindGroupModel

	// BindGroupMaterial holds the base color texture and sampler (group 3).
	BindGroupMaterial

	// bindGroupSlotCount is the number of bind group slots the lit pipeline uses.
	bindGroupSlotCount
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
