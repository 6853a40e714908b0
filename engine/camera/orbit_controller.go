package camera

import (
	"github.com/acuview/meridian/common"
)

// MouseButton identifies a physical mouse button by its DOM-style index.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonMiddle MouseButton = 1
	MouseButtonRight  MouseButton = 2
)

// MouseAction is the camera operation bound to a mouse button.
type MouseAction int

const (
	MouseActionNone MouseAction = iota
	MouseActionRotate
	MouseActionDolly
	MouseActionPan
)

// TouchAction is the camera operation bound to a touch finger count.
type TouchAction int

const (
	TouchActionNone TouchAction = iota
	TouchActionRotate
	TouchActionPan
	TouchActionDollyPan
	TouchActionDollyRotate
)

// controlState is the controller's current interaction mode. It starts at
// stateNone and returns to stateNone whenever a pointer is released.
type controlState int

const (
	stateNone controlState = iota
	stateRotate
	stateDolly
	statePan
	stateTouchRotate
	stateTouchPan
	stateTouchDollyPan
	stateTouchDollyRotate
)

// PointerEvent carries a single pointer down/move/up/cancel sample.
type PointerEvent struct {
	// PointerID identifies the pointer across its down/move/up lifetime.
	PointerID int
	// X, Y are screen-space coordinates in pixels.
	X, Y float32
	// Button is the physical button pressed (down events only).
	Button MouseButton
	// IsTouch marks touch-classified pointers; these route through the
	// touch gesture handlers instead of the mouse button map.
	IsTouch bool
	// Ctrl, Meta, Shift report modifier key state at event time.
	Ctrl, Meta, Shift bool
}

// WheelEvent carries a mouse wheel sample. Only the sign of DeltaY matters:
// negative dollies in, positive dollies out.
type WheelEvent struct {
	DeltaY float32
}

// Surface is the host binding the controller drives input capture and
// viewport queries through. A browser canvas, a native window, or a test
// double can implement it.
type Surface interface {
	// Size returns the viewport dimensions in pixels.
	//
	// Returns:
	//   - width, height: viewport size in pixels
	Size() (width, height int)

	// SetPointerCapture directs all subsequent move/up events for the given
	// pointer to this surface until released.
	//
	// Parameters:
	//   - pointerID: the pointer to capture
	SetPointerCapture(pointerID int)

	// ReleasePointerCapture ends capture for the given pointer.
	//
	// Parameters:
	//   - pointerID: the pointer to release
	ReleasePointerCapture(pointerID int)
}

// OrbitController converts pointer/wheel/key input into orbit, dolly, and pan
// motion of a camera around a target point. Input events accumulate pending
// deltas; Update integrates them once per frame with damping and clamping,
// repositions the camera, and reports whether anything visibly changed.
//
// The controller references the camera, it never owns it. The host render
// loop calls Update once per frame and must not mutate the camera position
// or orientation concurrently without calling SyncCamera afterward.
type OrbitController interface {
	CameraController

	// Update integrates all pending deltas accumulated since the previous
	// call, applies clamps and damping, and repositions the camera.
	// Idempotent when no input is pending.
	//
	// Returns:
	//   - bool: true if the camera visibly moved (or ortho zoom changed)
	Update() bool

	// PolarAngle returns the current polar angle phi in radians.
	//
	// Returns:
	//   - float32: polar angle, 0 at the up pole
	PolarAngle() float32

	// AzimuthAngle returns the current azimuthal angle theta in radians.
	//
	// Returns:
	//   - float32: azimuthal angle around the vertical axis
	AzimuthAngle() float32

	// Distance returns the current camera distance from the target.
	//
	// Returns:
	//   - float32: orbit radius
	Distance() float32

	// SetTarget moves the focus point the camera orbits.
	//
	// Parameters:
	//   - target: new world-space focus point
	SetTarget(target common.Vec3)

	// SetPosition places the camera directly. The next Update derives
	// spherical coordinates from this position.
	//
	// Parameters:
	//   - position: new world-space camera position
	SetPosition(position common.Vec3)

	// SaveState snapshots the current target, camera position, and ortho
	// zoom as the baseline Reset restores.
	SaveState()

	// Reset restores the last saved baseline (or the construction-time
	// state), emits a change notification, runs one Update, and cancels any
	// in-progress gesture.
	Reset()

	// SyncCamera re-reads the camera's position and orientation into the
	// controller's change-detection cache. Call after mutating the camera
	// outside the controller.
	SyncCamera()

	// Dispose detaches all observers and stops processing input. Update
	// remains legal afterward.
	Dispose()

	// HandlePointerDown processes a pointer press.
	//
	// Parameters:
	//   - ev: the pointer sample
	HandlePointerDown(ev PointerEvent)

	// HandlePointerMove processes pointer motion for a tracked pointer.
	//
	// Parameters:
	//   - ev: the pointer sample
	HandlePointerMove(ev PointerEvent)

	// HandlePointerUp processes a pointer release or cancellation.
	//
	// Parameters:
	//   - ev: the pointer sample
	HandlePointerUp(ev PointerEvent)

	// HandleWheel processes a mouse wheel notch.
	//
	// Parameters:
	//   - ev: the wheel sample
	HandleWheel(ev WheelEvent)

	// HandleKeyDown processes a key press. Arrow keys pan the target by
	// the key pan speed.
	//
	// Parameters:
	//   - keyCode: GLFW/ASCII key code (see common key constants)
	HandleKeyDown(keyCode int)

	// OnStart registers a callback fired when a gesture begins.
	//
	// Parameters:
	//   - fn: the callback
	//
	// Returns:
	//   - *CallbackHandle: handle to unregister the callback
	OnStart(fn func()) *CallbackHandle

	// OnChange registers a callback fired when the camera visibly moves.
	//
	// Parameters:
	//   - fn: the callback
	//
	// Returns:
	//   - *CallbackHandle: handle to unregister the callback
	OnChange(fn func()) *CallbackHandle

	// OnEnd registers a callback fired when a gesture ends.
	//
	// Parameters:
	//   - fn: the callback
	//
	// Returns:
	//   - *CallbackHandle: handle to unregister the callback
	OnEnd(fn func()) *CallbackHandle

	// Enabled reports whether the controller responds to input.
	//
	// Returns:
	//   - bool: true when input is processed
	Enabled() bool

	// SetEnabled toggles all input processing.
	//
	// Parameters:
	//   - enabled: false to ignore all input events
	SetEnabled(enabled bool)

	// SetEnableRotate toggles rotation gestures.
	//
	// Parameters:
	//   - enabled: false to ignore rotate input
	SetEnableRotate(enabled bool)

	// SetEnableZoom toggles dolly/zoom gestures.
	//
	// Parameters:
	//   - enabled: false to ignore dolly input
	SetEnableZoom(enabled bool)

	// SetEnablePan toggles pan gestures.
	//
	// Parameters:
	//   - enabled: false to ignore pan input
	SetEnablePan(enabled bool)

	// SetDamping toggles inertial damping and sets its decay factor.
	//
	// Parameters:
	//   - enabled: true to apply deltas fractionally with geometric decay
	//   - factor: per-frame fraction applied, in (0, 1]
	SetDamping(enabled bool, factor float32)

	// SetAutoRotate toggles idle auto-rotation around the target.
	//
	// Parameters:
	//   - enabled: true to rotate while no gesture is active
	SetAutoRotate(enabled bool)

	// SetAutoRotateSpeed sets the idle rotation speed. A speed of 2.0 is
	// one full orbit in roughly 30 seconds at 60 updates per second.
	//
	// Parameters:
	//   - speed: revolutions scale factor
	SetAutoRotateSpeed(speed float32)

	// SetScreenSpacePanning selects the pan-up direction: camera-local up
	// (screen space, default) or world up projected onto the view plane.
	//
	// Parameters:
	//   - screenSpace: true for camera-local up
	SetScreenSpacePanning(screenSpace bool)

	// SetRotateSpeed sets the rotation speed multiplier.
	//
	// Parameters:
	//   - speed: multiplier applied to pointer rotation deltas
	SetRotateSpeed(speed float32)

	// SetZoomSpeed sets the dolly speed exponent. The per-notch dolly
	// factor is 0.95 raised to this power.
	//
	// Parameters:
	//   - speed: dolly exponent
	SetZoomSpeed(speed float32)

	// SetPanSpeed sets the pan speed multiplier.
	//
	// Parameters:
	//   - speed: multiplier applied to pointer pan deltas
	SetPanSpeed(speed float32)

	// SetKeyPanSpeed sets the pan distance in pixels per arrow key press.
	//
	// Parameters:
	//   - pixels: pan nudge per key press
	SetKeyPanSpeed(pixels float32)

	// SetDistanceBounds clamps the orbit radius (perspective dolly).
	//
	// Parameters:
	//   - min, max: allowed radius range
	SetDistanceBounds(min, max float32)

	// SetZoomBounds clamps the orthographic zoom factor.
	//
	// Parameters:
	//   - min, max: allowed zoom range
	SetZoomBounds(min, max float32)

	// SetPolarBounds clamps the polar angle phi.
	//
	// Parameters:
	//   - min, max: allowed phi range within [0, pi]
	SetPolarBounds(min, max float32)

	// SetAzimuthBounds clamps the azimuthal angle theta. Use infinities to
	// leave theta unbounded. A min greater than max denotes a wrap-around
	// range through the antipode.
	//
	// Parameters:
	//   - min, max: allowed theta range in radians
	SetAzimuthBounds(min, max float32)

	// SetMouseButtons rebinds mouse buttons to camera actions.
	//
	// Parameters:
	//   - left, middle, right: action per physical button
	SetMouseButtons(left, middle, right MouseAction)

	// SetTouchActions rebinds touch gestures to camera actions.
	//
	// Parameters:
	//   - one: action for a single finger
	//   - two: action for two fingers
	SetTouchActions(one, two TouchAction)
}
