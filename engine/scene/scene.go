package scene

import (
	"fmt"
	"math"
	"sync"

	"github.com/acuview/meridian/common"
	"github.com/acuview/meridian/engine/camera"
	"github.com/acuview/meridian/engine/light"
	"github.com/acuview/meridian/engine/model"
	"github.com/acuview/meridian/engine/renderer"
	"github.com/acuview/meridian/engine/renderer/bind_group_provider"
)

// Scene assembles the viewer's render state: one anatomy model, the orbit
// camera that inspects it, a light rig, and a highlight marker placed on the
// currently selected point. The scene owns the bind group providers for every
// pipeline slot and stages their uniform writes each frame.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Controller returns the orbit controller driving the scene's camera.
	Controller() camera.OrbitController

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Model returns the loaded anatomy model, or nil if none has been set.
	Model() model.Model

	// SetModel uploads the model's interleaved vertex stream, per-mesh uniform,
	// and material texture to the GPU, replacing any previously set model, then
	// frames the camera on the model via FitToModel.
	//
	// Parameters:
	//   - m: the loaded model to display
	//
	// Returns:
	//   - error: an error if GPU resource creation fails
	SetModel(m model.Model) error

	// FitToModel centers the orbit controller's target on the model's bounding
	// box center and backs the camera off far enough for the whole bounding
	// sphere to fit in view, then saves the controller state so Reset returns
	// to the fitted framing. No-ops when no model is set.
	FitToModel()

	// AddLight adds a light source to the scene. Lights are marshaled into the
	// GPU light buffer each frame.
	//
	// Parameters:
	//   - l: the Light to add
	AddLight(l light.Light)

	// Lights returns all lights currently registered in the scene.
	//
	// Returns:
	//   - []light.Light: the scene's light list
	Lights() []light.Light

	// AmbientColor returns the scene's ambient light color.
	//
	// Returns:
	//   - [3]float32: the ambient RGB color
	AmbientColor() [3]float32

	// SetAmbientColor sets the scene's ambient light color.
	//
	// Parameters:
	//   - color: the ambient RGB color
	SetAmbientColor(color [3]float32)

	// SetFocusPoint places the highlight marker at a world-space position and
	// enables the marker's point light. The caller typically follows up by
	// tweening the controller target toward the same position.
	//
	// Parameters:
	//   - position: world-space position of the selected point
	SetFocusPoint(position common.Vec3)

	// ClearFocus hides the highlight marker and disables its point light.
	ClearFocus()

	// FocusPoint returns the current marker position and whether a point is focused.
	//
	// Returns:
	//   - common.Vec3: the marker's world-space position
	//   - bool: true if a focus point is active
	FocusPoint() (common.Vec3, bool)

	// Resize updates the camera aspect ratio and reconfigures the render surface.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// Prepare advances the orbit controller, pulls the resulting pose into the
	// camera, and uploads the camera, light, and per-mesh uniforms to the GPU.
	// Must be called once per frame before BeginFrame on the renderer.
	//
	// Returns:
	//   - bool: true if the controller applied a camera change this frame
	Prepare() bool

	// DrawCalls encodes the scene's draw commands: the anatomy model and, when
	// a point is focused, the highlight marker. Must be called within a
	// BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: an error if no model has been set
	DrawCalls() error
}

type scene struct {
	mu *sync.RWMutex

	name string

	cam  camera.Camera
	ctrl camera.OrbitController
	r    renderer.Renderer

	mdl model.Model

	// Lighting state.
	lights         []light.Light
	ambientColor   [3]float32
	highlightLight light.Light

	// Bind group providers, one per pipeline slot plus the two mesh streams.
	cameraBGP   bind_group_provider.BindGroupProvider
	lightsBGP   bind_group_provider.BindGroupProvider
	modelBGP    bind_group_provider.BindGroupProvider
	materialBGP bind_group_provider.BindGroupProvider
	meshBGP     bind_group_provider.BindGroupProvider

	markerMeshBGP     bind_group_provider.BindGroupProvider
	markerModelBGP    bind_group_provider.BindGroupProvider
	markerMaterialBGP bind_group_provider.BindGroupProvider

	markerPosition common.Vec3
	markerScale    float32
	markerVisible  bool

	// fitMargin pads the fitted camera distance so the model never touches the
	// viewport edge.
	fitMargin float32

	// Pre-allocated slices reused each frame to avoid per-frame allocations.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider

	matrixScratch [16]float32
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera, orbit controller, and
// renderer. All three are required and NewScene panics if any of them is nil.
// The camera, light, and marker GPU resources are initialized immediately; the
// default three-point light rig and ambient color are installed unless options
// override them.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - ctrl: the orbit controller driving the camera (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, ctrl camera.OrbitController, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if ctrl == nil {
		panic("scene: NewScene requires a non-nil OrbitController")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:                 &sync.RWMutex{},
		name:               name,
		cam:                cam,
		ctrl:               ctrl,
		r:                  r,
		ambientColor:       light.DefaultAmbient,
		markerScale:        0.035,
		fitMargin:          1.15,
		writePool:          make([]bind_group_provider.BufferWrite, 0, 8),
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 4),
	}

	for _, option := range options {
		option(s)
	}

	if s.lights == nil {
		s.lights = light.DefaultRig()
	}

	// The highlight light tracks the marker; it stays disabled until a point
	// is focused.
	s.highlightLight = light.NewLight(light.LightTypePoint,
		light.WithColor(1.0, 0.85, 0.4),
		light.WithIntensity(1.2),
		light.WithRange(2.5),
		light.WithEnabled(false),
	)
	s.lights = append(s.lights, s.highlightLight)

	s.cameraBGP = bind_group_provider.NewBindGroupProvider(name + "_camera")
	if err := r.InitUniformBindGroup(s.cameraBGP, renderer.BindGroupCamera); err != nil {
		panic(fmt.Sprintf("scene: failed to init camera bind group: %v", err))
	}
	s.lightsBGP = bind_group_provider.NewBindGroupProvider(name + "_lights")
	if err := r.InitUniformBindGroup(s.lightsBGP, renderer.BindGroupLights); err != nil {
		panic(fmt.Sprintf("scene: failed to init light bind group: %v", err))
	}

	s.initMarker()

	return s
}

// initMarker uploads the highlight marker's sphere mesh, model uniform, and
// tinted material. Called once from NewScene.
func (s *scene) initMarker() {
	sphere := markerSphere(16, 12)

	s.markerMeshBGP = bind_group_provider.NewBindGroupProvider(s.name + "_marker_mesh")
	if err := s.r.InitMeshBuffers(s.markerMeshBGP, common.SliceToBytes(sphere.Interleave()), sphere.VertexCount()); err != nil {
		panic(fmt.Sprintf("scene: failed to init marker mesh buffers: %v", err))
	}

	s.markerModelBGP = bind_group_provider.NewBindGroupProvider(s.name + "_marker_model")
	if err := s.r.InitUniformBindGroup(s.markerModelBGP, renderer.BindGroupModel); err != nil {
		panic(fmt.Sprintf("scene: failed to init marker model bind group: %v", err))
	}

	s.markerMaterialBGP = bind_group_provider.NewBindGroupProvider(s.name + "_marker_material")
	if err := s.r.InitMaterialBindGroup(s.markerMaterialBGP, markerTexture()); err != nil {
		panic(fmt.Sprintf("scene: failed to init marker material: %v", err))
	}
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Controller() camera.OrbitController {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Model() model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mdl
}

func (s *scene) SetModel(m model.Model) error {
	s.mu.Lock()

	if s.meshBGP != nil {
		s.meshBGP.Release()
	}
	if s.modelBGP != nil {
		s.modelBGP.Release()
	}
	if s.materialBGP != nil {
		s.materialBGP.Release()
	}

	meshBGP := bind_group_provider.NewBindGroupProvider(m.Name() + "_mesh")
	if err := s.r.InitMeshBuffers(meshBGP, m.VertexData(), m.VertexCount()); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to init mesh buffers for %s: %w", m.Name(), err)
	}

	modelBGP := bind_group_provider.NewBindGroupProvider(m.Name() + "_model")
	if err := s.r.InitUniformBindGroup(modelBGP, renderer.BindGroupModel); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to init model bind group for %s: %w", m.Name(), err)
	}

	materialBGP := bind_group_provider.NewBindGroupProvider(m.Name() + "_material")
	if err := s.r.InitMaterialBindGroup(materialBGP, m.Texture()); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to init material for %s: %w", m.Name(), err)
	}

	s.mdl = m
	s.meshBGP = meshBGP
	s.modelBGP = modelBGP
	s.materialBGP = materialBGP
	s.mu.Unlock()

	s.FitToModel()
	return nil
}

func (s *scene) FitToModel() {
	s.mu.RLock()
	mdl := s.mdl
	s.mu.RUnlock()
	if mdl == nil {
		return
	}

	center := mdl.Center()
	distance := fitDistance(mdl.BoundingRadius(), s.cam.Projection(), s.cam.Aspect(), s.fitMargin)

	s.ctrl.SetTarget(center)
	s.ctrl.SetPosition(common.Vec3{X: center.X, Y: center.Y, Z: center.Z + distance})
	s.ctrl.SaveState()
	s.cam.Update()
}

// fitDistance returns the camera distance at which a bounding sphere of the
// given radius fills the viewport, padded by margin. For a perspective camera
// the limiting half-angle is the vertical fov or its horizontal equivalent,
// whichever is narrower. Orthographic cameras have no distance-dependent
// framing, so the distance only needs to clear the geometry.
func fitDistance(radius float32, projection camera.Projection, aspect, margin float32) float32 {
	if radius <= 0 {
		return margin
	}
	switch p := projection.(type) {
	case camera.Perspective:
		halfFov := float64(p.Fov) / 2
		if aspect > 0 && aspect < 1 {
			halfFov = math.Atan(math.Tan(halfFov) * float64(aspect))
		}
		return radius / float32(math.Sin(halfFov)) * margin
	default:
		return radius * 2 * margin
	}
}

func (s *scene) AddLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) AmbientColor() [3]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambientColor
}

func (s *scene) SetAmbientColor(color [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambientColor = color
}

func (s *scene) SetFocusPoint(position common.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markerPosition = position
	s.markerVisible = true
	// Lift the highlight light slightly off the surface so the marker and the
	// surrounding skin both catch it.
	s.highlightLight.SetPosition(position.X, position.Y, position.Z+s.markerScale*4)
	s.highlightLight.SetEnabled(true)
}

func (s *scene) ClearFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markerVisible = false
	s.highlightLight.SetEnabled(false)
}

func (s *scene) FocusPoint() (common.Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markerPosition, s.markerVisible
}

func (s *scene) Resize(width, height int) {
	if height > 0 {
		s.cam.SetAspect(float32(width) / float32(height))
	}
	s.r.Resize(width, height)
}

func (s *scene) Prepare() bool {
	changed := s.ctrl.Update()
	s.cam.Update()

	s.mu.Lock()
	defer s.mu.Unlock()

	writes := s.writePool[:0]

	pos := s.cam.Position()
	camUniform := camera.GPUCameraUniform{
		ViewProj:       s.cam.ViewProjectionMatrix(),
		CameraPosition: [3]float32{pos.X, pos.Y, pos.Z},
	}
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: s.cameraBGP,
		Binding:  0,
		Data:     camUniform.Marshal(),
	})

	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: s.lightsBGP,
		Binding:  0,
		Data:     light.MarshalLightBuffer(s.ambientColor, s.lights),
	})

	if s.modelBGP != nil {
		// The model stays at its authored origin; the controller target does
		// the centering, so the model matrix is identity.
		var modelData model.GPUModelData
		common.Identity(s.matrixScratch[:])
		copy(modelData.Model[:], s.matrixScratch[:])
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.modelBGP,
			Binding:  0,
			Data:     modelData.Marshal(),
		})
	}

	if s.markerVisible {
		var markerData model.GPUModelData
		common.ComposeTransform(s.matrixScratch[:], s.markerPosition, s.markerScale)
		copy(markerData.Model[:], s.matrixScratch[:])
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.markerModelBGP,
			Binding:  0,
			Data:     markerData.Marshal(),
		})
	}

	s.writePool = writes
	s.r.WriteBuffers(writes)

	return changed
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mdl == nil {
		return fmt.Errorf("scene %s has no model to draw", s.name)
	}

	bindGroups := s.drawBindGroupsPool[:0]
	bindGroups = append(bindGroups, s.cameraBGP, s.lightsBGP, s.modelBGP, s.materialBGP)
	s.r.DrawCall(s.meshBGP, bindGroups)

	if s.markerVisible {
		bindGroups = bindGroups[:0]
		bindGroups = append(bindGroups, s.cameraBGP, s.lightsBGP, s.markerModelBGP, s.markerMaterialBGP)
		s.r.DrawCall(s.markerMeshBGP, bindGroups)
	}
	s.drawBindGroupsPool = bindGroups[:0]

	return nil
}

// markerSphere generates an expanded unindexed UV sphere of unit radius for
// the highlight marker. Pole caps emit single triangles; interior rings emit
// quads split into two triangles, matching the winding the lit pipeline culls.
func markerSphere(segments, rings int) model.MeshObject {
	obj := model.MeshObject{Name: "marker_sphere"}

	vertexAt := func(ring, seg int) ([3]float32, [2]float32) {
		theta := math.Pi * float64(ring) / float64(rings)
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		sinT, cosT := math.Sin(theta), math.Cos(theta)
		position := [3]float32{
			float32(sinT * math.Cos(phi)),
			float32(cosT),
			float32(sinT * math.Sin(phi)),
		}
		uv := [2]float32{
			float32(seg) / float32(segments),
			float32(ring) / float32(rings),
		}
		return position, uv
	}

	appendVertex := func(ring, seg int) {
		position, uv := vertexAt(ring, seg)
		obj.Positions = append(obj.Positions, position[0], position[1], position[2])
		// A unit sphere's normal is its position.
		obj.Normals = append(obj.Normals, position[0], position[1], position[2])
		obj.UVs = append(obj.UVs, uv[0], uv[1])
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			nextSeg := seg + 1
			// Upper triangle degenerates at the north pole, lower at the south.
			// Corner order keeps outward faces counter-clockwise.
			if ring > 0 {
				appendVertex(ring, seg)
				appendVertex(ring+1, seg)
				appendVertex(ring, nextSeg)
			}
			if ring < rings-1 {
				appendVertex(ring+1, seg)
				appendVertex(ring+1, nextSeg)
				appendVertex(ring, nextSeg)
			}
		}
	}

	return obj
}

// markerTexture returns the 1x1 amber tint uploaded as the marker's base color.
func markerTexture() *common.Texture {
	return &common.Texture{
		Name:   "marker_tint",
		Pixels: []byte{0xE8, 0xA8, 0x3C, 0xFF},
		Width:  1,
		Height: 1,
	}
}
