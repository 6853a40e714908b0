package camera

import (
	"log"
	"math"
	"sync"

	"github.com/acuview/meridian/common"
)

const (
	twoPi = float32(2 * math.Pi)

	// poleEps keeps phi strictly inside (0, pi) so the look-at up vector
	// never degenerates at the poles.
	poleEps = 1e-6

	// changeEps is the combined threshold for the per-frame change test:
	// squared positional displacement or the small-angle rotation measure
	// 8*(1 - dot(qPrev, qNew)) must exceed it to count as movement.
	changeEps = 1e-6
)

type vec2 struct {
	x, y float32
}

func (v vec2) sub(o vec2) vec2 {
	return vec2{v.x - o.x, v.y - o.y}
}

func (v vec2) scale(s float32) vec2 {
	return vec2{v.x * s, v.y * s}
}

// orbitControllerImpl is the single implementation of OrbitController.
// Input handlers accumulate pending deltas (sphericalDelta, panOffset, scale);
// Update integrates them into the spherical state, clamps, damps, and
// repositions the camera. All handlers and Update run to completion under one
// mutex, so events are processed strictly in arrival order.
type orbitControllerImpl struct {
	mu *sync.Mutex

	camera  Camera
	surface Surface

	enabled bool

	target   common.Vec3
	position common.Vec3

	minDistance, maxDistance         float32
	minZoom, maxZoom                 float32
	minPolarAngle, maxPolarAngle     float32
	minAzimuthAngle, maxAzimuthAngle float32

	enableDamping bool
	dampingFactor float32

	enableZoom bool
	zoomSpeed  float32

	enableRotate bool
	rotateSpeed  float32

	enablePan          bool
	panSpeed           float32
	screenSpacePanning bool
	keyPanSpeed        float32

	autoRotate      bool
	autoRotateSpeed float32

	mouseButtons   map[MouseButton]MouseAction
	touchOneAction TouchAction
	touchTwoAction TouchAction

	// Saved baseline for Reset.
	target0   common.Vec3
	position0 common.Vec3
	zoom0     float32

	state controlState

	spherical      common.Spherical
	sphericalDelta common.Spherical
	scale          float32
	panOffset      common.Vec3
	zoomChanged    bool

	rotateStart, rotateEnd vec2
	panStart, panEnd       vec2
	dollyStart, dollyEnd   vec2

	pointers         []int
	pointerPositions map[int]vec2

	// Rotation mapping the camera's up axis to canonical vertical, and its
	// inverse. Computed once from the camera at construction.
	quat        common.Quat
	quatInverse common.Quat
	camUp       common.Vec3

	lastPosition   common.Vec3
	lastQuaternion common.Quat

	zoomWarned bool
	panWarned  bool
	disposed   bool

	startHandlers  *handlerRegistry
	changeHandlers *handlerRegistry
	endHandlers    *handlerRegistry
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates an orbit controller driving the given camera.
// The controller owns the camera's position and look-at target; the host
// render loop calls Update once per frame and forwards input events through
// the Handle* methods.
//
// Parameters:
//   - cam: the camera to drive (must not be nil)
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(cam Camera, options ...OrbitControllerOption) OrbitController {
	if cam == nil {
		panic("orbit controller requires a camera")
	}

	oc := &orbitControllerImpl{
		mu:     &sync.Mutex{},
		camera: cam,

		enabled: true,

		position: common.Vec3{X: 0, Y: 0, Z: 10},

		minDistance: 0,
		maxDistance: float32(math.Inf(1)),
		minZoom:     0,
		maxZoom:     float32(math.Inf(1)),

		minPolarAngle:   0,
		maxPolarAngle:   float32(math.Pi),
		minAzimuthAngle: float32(math.Inf(-1)),
		maxAzimuthAngle: float32(math.Inf(1)),

		dampingFactor: 0.05,

		enableZoom: true,
		zoomSpeed:  1.0,

		enableRotate: true,
		rotateSpeed:  1.0,

		enablePan:          true,
		panSpeed:           1.0,
		screenSpacePanning: true,
		keyPanSpeed:        7.0,

		autoRotateSpeed: 2.0,

		mouseButtons: map[MouseButton]MouseAction{
			MouseButtonLeft:   MouseActionRotate,
			MouseButtonMiddle: MouseActionDolly,
			MouseButtonRight:  MouseActionPan,
		},
		touchOneAction: TouchActionRotate,
		touchTwoAction: TouchActionDollyPan,

		scale:            1,
		pointerPositions: make(map[int]vec2),

		startHandlers:  newHandlerRegistry(),
		changeHandlers: newHandlerRegistry(),
		endHandlers:    newHandlerRegistry(),
	}

	for _, option := range options {
		option(oc)
	}

	oc.camUp = cam.Up().Normalize()
	oc.quat = common.QuatFromUnitVectors(oc.camUp, common.Vec3{X: 0, Y: 1, Z: 0})
	oc.quatInverse = oc.quat.Invert()

	offset := oc.position.Sub(oc.target).ApplyQuaternion(oc.quat)
	oc.spherical = common.SphericalFromVec3(offset)

	oc.lastPosition = oc.position
	oc.lastQuaternion = common.QuatLookAt(oc.position, oc.target, oc.camUp)

	oc.target0 = oc.target
	oc.position0 = oc.position
	oc.zoom0 = oc.currentZoom()

	return oc
}

// --- CameraController contract ---

func (oc *orbitControllerImpl) Position() common.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.position
}

func (oc *orbitControllerImpl) Target() common.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

// --- queries ---

func (oc *orbitControllerImpl) PolarAngle() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.spherical.Phi
}

func (oc *orbitControllerImpl) AzimuthAngle() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.spherical.Theta
}

func (oc *orbitControllerImpl) Distance() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.spherical.Radius
}

func (oc *orbitControllerImpl) Enabled() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.enabled
}

// --- state mutation ---

func (oc *orbitControllerImpl) SetTarget(target common.Vec3) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = target
}

func (oc *orbitControllerImpl) SetPosition(position common.Vec3) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.position = position
	offset := oc.position.Sub(oc.target).ApplyQuaternion(oc.quat)
	oc.spherical = common.SphericalFromVec3(offset)
}

func (oc *orbitControllerImpl) SaveState() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target0 = oc.target
	oc.position0 = oc.position
	oc.zoom0 = oc.currentZoom()
}

func (oc *orbitControllerImpl) Reset() {
	oc.mu.Lock()
	oc.target = oc.target0
	oc.position = oc.position0
	if o, ok := oc.camera.Projection().(Orthographic); ok {
		o.Zoom = oc.zoom0
		oc.camera.SetProjection(o)
		oc.zoomChanged = true
	}
	offset := oc.position.Sub(oc.target).ApplyQuaternion(oc.quat)
	oc.spherical = common.SphericalFromVec3(offset)

	fire := oc.changeHandlers.snapshot()
	oc.mu.Unlock()
	for _, fn := range fire {
		fn()
	}

	oc.Update()

	oc.mu.Lock()
	oc.state = stateNone
	oc.mu.Unlock()
}

func (oc *orbitControllerImpl) SyncCamera() {
	pos := oc.camera.Position()
	q := oc.camera.Quaternion()
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.lastPosition = pos
	oc.lastQuaternion = q
}

func (oc *orbitControllerImpl) Dispose() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.disposed = true
	if oc.surface != nil {
		for _, id := range oc.pointers {
			oc.surface.ReleasePointerCapture(id)
		}
	}
	oc.pointers = nil
	oc.pointerPositions = make(map[int]vec2)
	oc.state = stateNone
	oc.startHandlers.clear()
	oc.changeHandlers.clear()
	oc.endHandlers.clear()
}

// --- observers ---

func (oc *orbitControllerImpl) OnStart(fn func()) *CallbackHandle {
	return oc.register(oc.startHandlers, fn)
}

func (oc *orbitControllerImpl) OnChange(fn func()) *CallbackHandle {
	return oc.register(oc.changeHandlers, fn)
}

func (oc *orbitControllerImpl) OnEnd(fn func()) *CallbackHandle {
	return oc.register(oc.endHandlers, fn)
}

func (oc *orbitControllerImpl) register(reg *handlerRegistry, fn func()) *CallbackHandle {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	id := reg.add(fn)
	return &CallbackHandle{remove: func() {
		oc.mu.Lock()
		defer oc.mu.Unlock()
		reg.remove(id)
	}}
}

// --- configuration setters ---

func (oc *orbitControllerImpl) SetEnabled(enabled bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.enabled = enabled
}

func (oc *orbitControllerImpl) SetEnableRotate(enabled bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.enableRotate = enabled
}

func (oc *orbitControllerImpl) SetEnableZoom(enabled bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.enableZoom = enabled
}

func (oc *orbitControllerImpl) SetEnablePan(enabled bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.enablePan = enabled
}

func (oc *orbitControllerImpl) SetDamping(enabled bool, factor float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.enableDamping = enabled
	oc.dampingFactor = factor
}

func (oc *orbitControllerImpl) SetAutoRotate(enabled bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.autoRotate = enabled
}

func (oc *orbitControllerImpl) SetAutoRotateSpeed(speed float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.autoRotateSpeed = speed
}

func (oc *orbitControllerImpl) SetScreenSpacePanning(screenSpace bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.screenSpacePanning = screenSpace
}

func (oc *orbitControllerImpl) SetRotateSpeed(speed float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.rotateSpeed = speed
}

func (oc *orbitControllerImpl) SetZoomSpeed(speed float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.zoomSpeed = speed
}

func (oc *orbitControllerImpl) SetPanSpeed(speed float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.panSpeed = speed
}

func (oc *orbitControllerImpl) SetKeyPanSpeed(pixels float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.keyPanSpeed = pixels
}

func (oc *orbitControllerImpl) SetDistanceBounds(min, max float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.minDistance = min
	oc.maxDistance = max
}

func (oc *orbitControllerImpl) SetZoomBounds(min, max float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.minZoom = min
	oc.maxZoom = max
}

func (oc *orbitControllerImpl) SetPolarBounds(min, max float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.minPolarAngle = min
	oc.maxPolarAngle = max
}

func (oc *orbitControllerImpl) SetAzimuthBounds(min, max float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.minAzimuthAngle = min
	oc.maxAzimuthAngle = max
}

func (oc *orbitControllerImpl) SetMouseButtons(left, middle, right MouseAction) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.mouseButtons[MouseButtonLeft] = left
	oc.mouseButtons[MouseButtonMiddle] = middle
	oc.mouseButtons[MouseButtonRight] = right
}

func (oc *orbitControllerImpl) SetTouchActions(one, two TouchAction) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.touchOneAction = one
	oc.touchTwoAction = two
}

// --- per-frame integration ---

func (oc *orbitControllerImpl) Update() bool {
	oc.mu.Lock()
	changed := oc.stepLocked()
	var fire []func()
	if changed {
		fire = oc.changeHandlers.snapshot()
	}
	oc.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
	return changed
}

// stepLocked integrates all pending deltas into the spherical state, clamps,
// damps, and recomputes the camera position. Returns whether the camera
// visibly moved. Caller must hold the mutex.
func (oc *orbitControllerImpl) stepLocked() bool {
	offset := oc.position.Sub(oc.target).ApplyQuaternion(oc.quat)
	oc.spherical = common.SphericalFromVec3(offset)

	if oc.autoRotate && oc.state == stateNone {
		oc.rotateLeft(oc.autoRotationAngle())
	}

	if oc.enableDamping {
		oc.spherical.Theta += oc.sphericalDelta.Theta * oc.dampingFactor
		oc.spherical.Phi += oc.sphericalDelta.Phi * oc.dampingFactor
	} else {
		oc.spherical.Theta += oc.sphericalDelta.Theta
		oc.spherical.Phi += oc.sphericalDelta.Phi
	}

	oc.clampAzimuth()

	oc.spherical.Phi = clamp32f(oc.spherical.Phi, oc.minPolarAngle, oc.maxPolarAngle)
	oc.spherical = oc.spherical.MakeSafe(poleEps)

	oc.spherical.Radius *= oc.scale
	oc.spherical.Radius = clamp32f(oc.spherical.Radius, oc.minDistance, oc.maxDistance)

	if oc.enableDamping {
		oc.target = oc.target.Add(oc.panOffset.Scale(oc.dampingFactor))
	} else {
		oc.target = oc.target.Add(oc.panOffset)
	}

	offset = oc.spherical.Vec3().ApplyQuaternion(oc.quatInverse)
	oc.position = oc.target.Add(offset)
	newQuat := common.QuatLookAt(oc.position, oc.target, oc.camUp)

	if oc.enableDamping {
		oc.sphericalDelta.Theta *= 1 - oc.dampingFactor
		oc.sphericalDelta.Phi *= 1 - oc.dampingFactor
		oc.panOffset = oc.panOffset.Scale(1 - oc.dampingFactor)
	} else {
		oc.sphericalDelta = common.Spherical{}
		oc.panOffset = common.Vec3{}
	}
	oc.scale = 1

	if oc.zoomChanged ||
		oc.lastPosition.DistanceSqTo(oc.position) > changeEps ||
		8*(1-oc.lastQuaternion.Dot(newQuat)) > changeEps {
		oc.lastPosition = oc.position
		oc.lastQuaternion = newQuat
		oc.zoomChanged = false
		return true
	}
	return false
}

// clampAzimuth restricts theta to [minAzimuthAngle, maxAzimuthAngle] when
// both limits are finite. Limits and theta are first wrapped into (-pi, pi];
// a min greater than max denotes a range crossing the antipode, resolved by
// snapping theta toward whichever bound is nearer to the range midpoint.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) clampAzimuth() {
	min64 := float64(oc.minAzimuthAngle)
	max64 := float64(oc.maxAzimuthAngle)
	if math.IsInf(min64, 0) || math.IsInf(max64, 0) || math.IsNaN(min64) || math.IsNaN(max64) {
		return
	}

	min := wrapPi(oc.minAzimuthAngle)
	max := wrapPi(oc.maxAzimuthAngle)
	oc.spherical.Theta = wrapPi(oc.spherical.Theta)

	if min <= max {
		oc.spherical.Theta = clamp32f(oc.spherical.Theta, min, max)
		return
	}
	if oc.spherical.Theta > (min+max)/2 {
		oc.spherical.Theta = max32(min, oc.spherical.Theta)
	} else {
		oc.spherical.Theta = min32(max, oc.spherical.Theta)
	}
}

// --- pointer event handling ---

func (oc *orbitControllerImpl) HandlePointerDown(ev PointerEvent) {
	oc.mu.Lock()
	if oc.disposed || !oc.enabled {
		oc.mu.Unlock()
		return
	}

	if len(oc.pointers) == 0 && oc.surface != nil {
		oc.surface.SetPointerCapture(ev.PointerID)
	}
	oc.addPointer(ev)

	var started bool
	if ev.IsTouch {
		started = oc.touchStart()
	} else {
		started = oc.mouseDown(ev)
	}

	var fire []func()
	if started {
		fire = oc.startHandlers.snapshot()
	}
	oc.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (oc *orbitControllerImpl) HandlePointerMove(ev PointerEvent) {
	proj := oc.camera.Projection()

	oc.mu.Lock()
	if oc.disposed || !oc.enabled {
		oc.mu.Unlock()
		return
	}

	var moved bool
	if ev.IsTouch {
		oc.trackPointer(ev)
		moved = oc.touchMove(ev, proj)
	} else {
		moved = oc.mouseMove(ev, proj)
	}

	var changed bool
	if moved {
		changed = oc.stepLocked()
	}
	var fire []func()
	if changed {
		fire = oc.changeHandlers.snapshot()
	}
	oc.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (oc *orbitControllerImpl) HandlePointerUp(ev PointerEvent) {
	oc.mu.Lock()
	if oc.disposed {
		oc.mu.Unlock()
		return
	}

	oc.removePointer(ev.PointerID)

	var fire []func()
	if len(oc.pointers) == 0 {
		if oc.surface != nil {
			oc.surface.ReleasePointerCapture(ev.PointerID)
		}
		fire = oc.endHandlers.snapshot()
	}
	// A release always cancels the current gesture, even if other pointers
	// remain; the next move re-detects the mode.
	oc.state = stateNone
	oc.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (oc *orbitControllerImpl) HandleWheel(ev WheelEvent) {
	proj := oc.camera.Projection()

	oc.mu.Lock()
	if oc.disposed || !oc.enabled || !oc.enableZoom || oc.state != stateNone {
		oc.mu.Unlock()
		return
	}

	if ev.DeltaY < 0 {
		oc.dollyIn(oc.zoomScale(), proj)
	} else if ev.DeltaY > 0 {
		oc.dollyOut(oc.zoomScale(), proj)
	}

	changed := oc.stepLocked()
	var fire []func()
	if changed {
		fire = oc.changeHandlers.snapshot()
	}
	oc.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (oc *orbitControllerImpl) HandleKeyDown(keyCode int) {
	proj := oc.camera.Projection()

	oc.mu.Lock()
	if oc.disposed || !oc.enabled || !oc.enablePan {
		oc.mu.Unlock()
		return
	}

	needsUpdate := true
	switch keyCode {
	case common.KeyUp:
		oc.pan(0, oc.keyPanSpeed, proj)
	case common.KeyDown:
		oc.pan(0, -oc.keyPanSpeed, proj)
	case common.KeyLeft:
		oc.pan(oc.keyPanSpeed, 0, proj)
	case common.KeyRight:
		oc.pan(-oc.keyPanSpeed, 0, proj)
	default:
		needsUpdate = false
	}

	var changed bool
	if needsUpdate {
		changed = oc.stepLocked()
	}
	var fire []func()
	if changed {
		fire = oc.changeHandlers.snapshot()
	}
	oc.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// --- mouse gesture routing (caller holds mutex) ---

func (oc *orbitControllerImpl) mouseDown(ev PointerEvent) bool {
	action, ok := oc.mouseButtons[ev.Button]
	if !ok {
		action = MouseActionNone
	}
	modified := ev.Ctrl || ev.Meta || ev.Shift

	switch action {
	case MouseActionDolly:
		if !oc.enableZoom {
			return false
		}
		oc.dollyStart = vec2{ev.X, ev.Y}
		oc.state = stateDolly

	case MouseActionRotate:
		if modified {
			if !oc.enablePan {
				return false
			}
			oc.panStart = vec2{ev.X, ev.Y}
			oc.state = statePan
		} else {
			if !oc.enableRotate {
				return false
			}
			oc.rotateStart = vec2{ev.X, ev.Y}
			oc.state = stateRotate
		}

	case MouseActionPan:
		if modified {
			if !oc.enableRotate {
				return false
			}
			oc.rotateStart = vec2{ev.X, ev.Y}
			oc.state = stateRotate
		} else {
			if !oc.enablePan {
				return false
			}
			oc.panStart = vec2{ev.X, ev.Y}
			oc.state = statePan
		}

	default:
		oc.state = stateNone
	}

	return oc.state != stateNone
}

func (oc *orbitControllerImpl) mouseMove(ev PointerEvent, proj Projection) bool {
	switch oc.state {
	case stateRotate:
		if !oc.enableRotate {
			return false
		}
		oc.rotateEnd = vec2{ev.X, ev.Y}
		delta := oc.rotateEnd.sub(oc.rotateStart).scale(oc.rotateSpeed)
		_, h := oc.surfaceSize()
		oc.rotateLeft(twoPi * delta.x / float32(h))
		oc.rotateUp(twoPi * delta.y / float32(h))
		oc.rotateStart = oc.rotateEnd
		return true

	case stateDolly:
		if !oc.enableZoom {
			return false
		}
		oc.dollyEnd = vec2{ev.X, ev.Y}
		delta := oc.dollyEnd.sub(oc.dollyStart)
		if delta.y > 0 {
			oc.dollyOut(oc.zoomScale(), proj)
		} else if delta.y < 0 {
			oc.dollyIn(oc.zoomScale(), proj)
		}
		oc.dollyStart = oc.dollyEnd
		return true

	case statePan:
		if !oc.enablePan {
			return false
		}
		oc.panEnd = vec2{ev.X, ev.Y}
		delta := oc.panEnd.sub(oc.panStart).scale(oc.panSpeed)
		oc.pan(delta.x, delta.y, proj)
		oc.panStart = oc.panEnd
		return true
	}
	return false
}

// --- touch gesture routing (caller holds mutex) ---

func (oc *orbitControllerImpl) touchStart() bool {
	switch len(oc.pointers) {
	case 1:
		switch oc.touchOneAction {
		case TouchActionRotate:
			if !oc.enableRotate {
				return false
			}
			oc.touchStartRotate()
			oc.state = stateTouchRotate
		case TouchActionPan:
			if !oc.enablePan {
				return false
			}
			oc.touchStartPan()
			oc.state = stateTouchPan
		default:
			oc.state = stateNone
		}

	case 2:
		switch oc.touchTwoAction {
		case TouchActionDollyPan:
			if !oc.enableZoom && !oc.enablePan {
				return false
			}
			if oc.enableZoom {
				oc.touchStartDolly()
			}
			if oc.enablePan {
				oc.touchStartPan()
			}
			oc.state = stateTouchDollyPan
		case TouchActionDollyRotate:
			if !oc.enableZoom && !oc.enableRotate {
				return false
			}
			if oc.enableZoom {
				oc.touchStartDolly()
			}
			if oc.enableRotate {
				oc.touchStartRotate()
			}
			oc.state = stateTouchDollyRotate
		default:
			oc.state = stateNone
		}

	default:
		oc.state = stateNone
	}

	return oc.state != stateNone
}

func (oc *orbitControllerImpl) touchMove(ev PointerEvent, proj Projection) bool {
	switch oc.state {
	case stateTouchRotate:
		if !oc.enableRotate {
			return false
		}
		oc.touchMoveRotate(ev)
		return true

	case stateTouchPan:
		if !oc.enablePan {
			return false
		}
		oc.touchMovePan(ev, proj)
		return true

	case stateTouchDollyPan:
		if !oc.enableZoom && !oc.enablePan {
			return false
		}
		if oc.enableZoom {
			oc.touchMoveDolly(ev, proj)
		}
		if oc.enablePan {
			oc.touchMovePan(ev, proj)
		}
		return true

	case stateTouchDollyRotate:
		if !oc.enableZoom && !oc.enableRotate {
			return false
		}
		if oc.enableZoom {
			oc.touchMoveDolly(ev, proj)
		}
		if oc.enableRotate {
			oc.touchMoveRotate(ev)
		}
		return true
	}

	oc.state = stateNone
	return false
}

func (oc *orbitControllerImpl) touchStartRotate() {
	oc.rotateStart = oc.touchCentroid()
}

func (oc *orbitControllerImpl) touchStartPan() {
	oc.panStart = oc.touchCentroid()
}

func (oc *orbitControllerImpl) touchStartDolly() {
	if len(oc.pointers) < 2 {
		return
	}
	p0 := oc.pointerPositions[oc.pointers[0]]
	p1 := oc.pointerPositions[oc.pointers[1]]
	dx := p0.x - p1.x
	dy := p0.y - p1.y
	oc.dollyStart = vec2{0, float32(math.Sqrt(float64(dx*dx + dy*dy)))}
}

func (oc *orbitControllerImpl) touchMoveRotate(ev PointerEvent) {
	oc.rotateEnd = oc.touchPoint(ev)
	delta := oc.rotateEnd.sub(oc.rotateStart).scale(oc.rotateSpeed)
	_, h := oc.surfaceSize()
	oc.rotateLeft(twoPi * delta.x / float32(h))
	oc.rotateUp(twoPi * delta.y / float32(h))
	oc.rotateStart = oc.rotateEnd
}

func (oc *orbitControllerImpl) touchMovePan(ev PointerEvent, proj Projection) {
	oc.panEnd = oc.touchPoint(ev)
	delta := oc.panEnd.sub(oc.panStart).scale(oc.panSpeed)
	oc.pan(delta.x, delta.y, proj)
	oc.panStart = oc.panEnd
}

func (oc *orbitControllerImpl) touchMoveDolly(ev PointerEvent, proj Projection) {
	second, ok := oc.secondPointerPosition(ev.PointerID)
	if !ok {
		return
	}
	dx := ev.X - second.x
	dy := ev.Y - second.y
	oc.dollyEnd = vec2{0, float32(math.Sqrt(float64(dx*dx + dy*dy)))}
	if oc.dollyStart.y == 0 {
		oc.dollyStart = oc.dollyEnd
		return
	}
	// Pinch ratio drives zoom with the same exponent law as the wheel.
	ratio := float32(math.Pow(float64(oc.dollyEnd.y/oc.dollyStart.y), float64(oc.zoomSpeed)))
	oc.dollyOut(ratio, proj)
	oc.dollyStart = oc.dollyEnd
}

// touchPoint returns the gesture reference point for the given event: the
// event position for one pointer, or the midpoint with the second pointer.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) touchPoint(ev PointerEvent) vec2 {
	if len(oc.pointers) < 2 {
		return vec2{ev.X, ev.Y}
	}
	second, ok := oc.secondPointerPosition(ev.PointerID)
	if !ok {
		return vec2{ev.X, ev.Y}
	}
	return vec2{0.5 * (ev.X + second.x), 0.5 * (ev.Y + second.y)}
}

// touchCentroid returns the average of all tracked pointer positions.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) touchCentroid() vec2 {
	if len(oc.pointers) == 0 {
		return vec2{}
	}
	var sum vec2
	for _, id := range oc.pointers {
		p := oc.pointerPositions[id]
		sum.x += p.x
		sum.y += p.y
	}
	n := float32(len(oc.pointers))
	return vec2{sum.x / n, sum.y / n}
}

func (oc *orbitControllerImpl) secondPointerPosition(pointerID int) (vec2, bool) {
	for _, id := range oc.pointers {
		if id != pointerID {
			p, ok := oc.pointerPositions[id]
			return p, ok
		}
	}
	return vec2{}, false
}

// --- pointer bookkeeping (caller holds mutex) ---

func (oc *orbitControllerImpl) addPointer(ev PointerEvent) {
	for _, id := range oc.pointers {
		if id == ev.PointerID {
			oc.pointerPositions[ev.PointerID] = vec2{ev.X, ev.Y}
			return
		}
	}
	oc.pointers = append(oc.pointers, ev.PointerID)
	oc.pointerPositions[ev.PointerID] = vec2{ev.X, ev.Y}
}

func (oc *orbitControllerImpl) trackPointer(ev PointerEvent) {
	if _, ok := oc.pointerPositions[ev.PointerID]; !ok {
		return
	}
	oc.pointerPositions[ev.PointerID] = vec2{ev.X, ev.Y}
}

func (oc *orbitControllerImpl) removePointer(pointerID int) {
	delete(oc.pointerPositions, pointerID)
	for i, id := range oc.pointers {
		if id == pointerID {
			oc.pointers = append(oc.pointers[:i], oc.pointers[i+1:]...)
			return
		}
	}
}

// --- motion primitives (caller holds mutex) ---

func (oc *orbitControllerImpl) rotateLeft(angle float32) {
	oc.sphericalDelta.Theta -= angle
}

func (oc *orbitControllerImpl) rotateUp(angle float32) {
	oc.sphericalDelta.Phi -= angle
}

// autoRotationAngle is the azimuthal delta injected per idle update:
// a full revolution every 3600/autoRotateSpeed calls.
func (oc *orbitControllerImpl) autoRotationAngle() float32 {
	return twoPi / 60 / 60 * oc.autoRotateSpeed
}

// zoomScale is the per-notch dolly factor.
func (oc *orbitControllerImpl) zoomScale() float32 {
	return float32(math.Pow(0.95, float64(oc.zoomSpeed)))
}

func (oc *orbitControllerImpl) dollyIn(dollyScale float32, proj Projection) {
	switch p := proj.(type) {
	case Perspective:
		oc.scale *= dollyScale
	case Orthographic:
		p.Zoom = clamp32f(p.Zoom/dollyScale, oc.minZoom, oc.maxZoom)
		oc.camera.SetProjection(p)
		oc.zoomChanged = true
	default:
		oc.warnZoom(proj)
	}
}

func (oc *orbitControllerImpl) dollyOut(dollyScale float32, proj Projection) {
	switch p := proj.(type) {
	case Perspective:
		oc.scale /= dollyScale
	case Orthographic:
		p.Zoom = clamp32f(p.Zoom*dollyScale, oc.minZoom, oc.maxZoom)
		oc.camera.SetProjection(p)
		oc.zoomChanged = true
	default:
		oc.warnZoom(proj)
	}
}

// pan converts a screen-space delta in pixels into a world-space translation
// of the target along the camera's local right/up axes.
func (oc *orbitControllerImpl) pan(deltaX, deltaY float32, proj Projection) {
	w, h := oc.surfaceSize()

	switch p := proj.(type) {
	case Perspective:
		offset := oc.position.Sub(oc.target)
		targetDistance := offset.Length()
		targetDistance *= float32(math.Tan(float64(p.Fov) / 2))
		oc.panLeft(2 * deltaX * targetDistance / float32(h))
		oc.panUp(2 * deltaY * targetDistance / float32(h))

	case Orthographic:
		oc.panLeft(deltaX * (p.Right - p.Left) / p.Zoom / float32(w))
		oc.panUp(deltaY * (p.Top - p.Bottom) / p.Zoom / float32(h))

	default:
		oc.warnPan(proj)
	}
}

func (oc *orbitControllerImpl) panLeft(distance float32) {
	x := oc.cameraXAxis()
	oc.panOffset = oc.panOffset.Add(x.Scale(-distance))
}

func (oc *orbitControllerImpl) panUp(distance float32) {
	var v common.Vec3
	if oc.screenSpacePanning {
		q := common.QuatLookAt(oc.position, oc.target, oc.camUp)
		v = common.Vec3{X: 0, Y: 1, Z: 0}.ApplyQuaternion(q)
	} else {
		v = oc.camUp.Cross(oc.cameraXAxis())
	}
	oc.panOffset = oc.panOffset.Add(v.Scale(distance))
}

// cameraXAxis is the camera's local right axis in world space.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) cameraXAxis() common.Vec3 {
	q := common.QuatLookAt(oc.position, oc.target, oc.camUp)
	return common.Vec3{X: 1, Y: 0, Z: 0}.ApplyQuaternion(q)
}

func (oc *orbitControllerImpl) surfaceSize() (int, int) {
	if oc.surface == nil {
		return 1, 1
	}
	w, h := oc.surface.Size()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// currentZoom reads the orthographic zoom factor, or 1 for other projections.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) currentZoom() float32 {
	if o, ok := oc.camera.Projection().(Orthographic); ok {
		return o.Zoom
	}
	return 1
}

func (oc *orbitControllerImpl) warnZoom(proj Projection) {
	if !oc.zoomWarned {
		log.Printf("orbit controller: unsupported projection %T, zoom disabled", proj)
		oc.zoomWarned = true
	}
	oc.enableZoom = false
}

func (oc *orbitControllerImpl) warnPan(proj Projection) {
	if !oc.panWarned {
		log.Printf("orbit controller: unsupported projection %T, pan disabled", proj)
		oc.panWarned = true
	}
	oc.enablePan = false
}

// --- small float helpers ---

func wrapPi(a float32) float32 {
	for a > float32(math.Pi) {
		a -= twoPi
	}
	for a <= -float32(math.Pi) {
		a += twoPi
	}
	return a
}

func clamp32f(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
