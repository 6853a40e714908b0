package renderer

import (
	"sync"

	"github.com/acuview/meridian/common"
	"github.com/acuview/meridian/engine/renderer/bind_group_provider"
	"github.com/acuview/meridian/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer owns a single lit render pipeline with four fixed bind group slots (camera, lights,
// per-mesh model data, material) and issues unindexed draws against it. The Renderer also implements
// a backend which allows for multiple backend API implementations to exist.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers creates an unindexed GPU vertex buffer from raw interleaved vertex bytes and
	// stores it on the given BindGroupProvider along with the vertex count for draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffer on
	//   - vertexData: the raw interleaved vertex bytes to upload to the GPU
	//   - vertexCount: the number of vertices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error

	// InitUniformBindGroup creates a uniform buffer and bind group for one of the pipeline's
	// uniform slots (camera, lights, or model) and stores both on the provider. Write uniform
	// data into the created buffer via WriteBuffers targeting binding 0.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created resources on
	//   - slot: the pipeline bind group slot this provider will be bound to
	//
	// Returns:
	//   - error: an error if resource creation fails
	InitUniformBindGroup(provider bind_group_provider.BindGroupProvider, slot BindGroupSlot) error

	// InitMaterialBindGroup creates the GPU texture, sampler, and bind group for the material
	// slot from a decoded texture and stores them on the provider. A nil texture uploads a
	// single white pixel so untextured models still render lit.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created resources on
	//   - tex: the decoded RGBA texture, or nil for the white fallback
	//
	// Returns:
	//   - error: an error if resource creation fails
	InitMaterialBindGroup(provider bind_group_provider.BindGroupProvider, tex *common.Texture) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass with the lit
	// pipeline bound. Must be paired with EndFrame after all DrawCall invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes a single unindexed draw command within the current render pass.
	// Multiple DrawCall invocations can be made between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - meshProvider: the BindGroupProvider holding the vertex buffer and vertex count
	//   - bindGroups: the providers to bind, in BindGroupSlot order (camera, lights, model, material)
	DrawCall(meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all DrawCall invocations within a single frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, bound to the
// given window's surface. The surface is configured to the window's current size and the lit
// render pipeline is created immediately; a pipeline creation failure indicates a broken GPU
// environment and panics.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface the renderer draws into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	if err := r.backend.RegisterLitPipeline(); err != nil {
		panic(err)
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, vertexCount)
}

func (r *renderer) InitUniformBindGroup(provider bind_group_provider.BindGroupProvider, slot BindGroupSlot) error {
	return r.backend.InitUniformBindGroup(provider, slot)
}

func (r *renderer) InitMaterialBindGroup(provider bind_group_provider.BindGroupProvider, tex *common.Texture) error {
	return r.backend.InitMaterialBindGroup(provider, tex)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) {
	r.backend.DrawCall(meshProvider, bindGroups)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
