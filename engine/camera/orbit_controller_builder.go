package camera

import (
	"github.com/acuview/meridian/common"
)

// OrbitControllerOption is a functional option for configuring an OrbitController.
type OrbitControllerOption func(*orbitControllerImpl)

// WithSurface binds the controller to a host surface for pointer capture and
// viewport size queries. Without a surface, gestures normalize against a
// 1x1 viewport and capture calls are skipped.
//
// Parameters:
//   - surface: the host surface binding
//
// Returns:
//   - OrbitControllerOption: functional option to set the surface
func WithSurface(surface Surface) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.surface = surface
	}
}

// WithOrbitTarget sets the initial focus point the camera orbits.
//
// Parameters:
//   - target: world-space focus point
//
// Returns:
//   - OrbitControllerOption: functional option to set the target
func WithOrbitTarget(target common.Vec3) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.target = target
	}
}

// WithOrbitPosition sets the initial camera position.
//
// Parameters:
//   - position: world-space camera position
//
// Returns:
//   - OrbitControllerOption: functional option to set the position
func WithOrbitPosition(position common.Vec3) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.position = position
	}
}

// WithDistanceBounds sets the allowed orbit radius range.
//
// Parameters:
//   - min: minimum distance from target
//   - max: maximum distance from target
//
// Returns:
//   - OrbitControllerOption: functional option to set distance bounds
func WithDistanceBounds(min, max float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minDistance = min
		oc.maxDistance = max
	}
}

// WithZoomBounds sets the allowed orthographic zoom range.
//
// Parameters:
//   - min: minimum zoom factor
//   - max: maximum zoom factor
//
// Returns:
//   - OrbitControllerOption: functional option to set zoom bounds
func WithZoomBounds(min, max float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minZoom = min
		oc.maxZoom = max
	}
}

// WithPolarBounds sets the allowed polar angle range within [0, pi].
//
// Parameters:
//   - min: minimum polar angle in radians
//   - max: maximum polar angle in radians
//
// Returns:
//   - OrbitControllerOption: functional option to set polar bounds
func WithPolarBounds(min, max float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minPolarAngle = min
		oc.maxPolarAngle = max
	}
}

// WithAzimuthBounds sets the allowed azimuthal angle range. Use infinities
// to leave the azimuth unbounded; min greater than max denotes a range that
// wraps through the antipode.
//
// Parameters:
//   - min: minimum azimuthal angle in radians
//   - max: maximum azimuthal angle in radians
//
// Returns:
//   - OrbitControllerOption: functional option to set azimuth bounds
func WithAzimuthBounds(min, max float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minAzimuthAngle = min
		oc.maxAzimuthAngle = max
	}
}

// WithDamping enables inertial damping with the given decay factor.
//
// Parameters:
//   - factor: per-frame fraction of pending deltas applied, in (0, 1]
//
// Returns:
//   - OrbitControllerOption: functional option to enable damping
func WithDamping(factor float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.enableDamping = true
		oc.dampingFactor = factor
	}
}

// WithAutoRotate enables idle auto-rotation at the given speed. A speed of
// 2.0 completes a full orbit in roughly 30 seconds at 60 updates per second.
//
// Parameters:
//   - speed: auto-rotation speed factor
//
// Returns:
//   - OrbitControllerOption: functional option to enable auto-rotation
func WithAutoRotate(speed float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.autoRotate = true
		oc.autoRotateSpeed = speed
	}
}

// WithRotateSpeed sets the rotation speed multiplier.
//
// Parameters:
//   - speed: multiplier for pointer rotation deltas
//
// Returns:
//   - OrbitControllerOption: functional option to set rotate speed
func WithRotateSpeed(speed float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.rotateSpeed = speed
	}
}

// WithZoomSpeed sets the dolly speed exponent.
//
// Parameters:
//   - speed: exponent applied to the 0.95 per-notch dolly base
//
// Returns:
//   - OrbitControllerOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
//
// Parameters:
//   - speed: multiplier for pointer pan deltas
//
// Returns:
//   - OrbitControllerOption: functional option to set pan speed
func WithPanSpeed(speed float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.panSpeed = speed
	}
}

// WithKeyPanSpeed sets the pan distance per arrow key press.
//
// Parameters:
//   - pixels: screen-space pan nudge in pixels
//
// Returns:
//   - OrbitControllerOption: functional option to set key pan speed
func WithKeyPanSpeed(pixels float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.keyPanSpeed = pixels
	}
}

// WithWorldSpacePanning makes vertical panning follow world up projected
// onto the view plane instead of camera-local up.
//
// Returns:
//   - OrbitControllerOption: functional option to disable screen-space panning
func WithWorldSpacePanning() OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.screenSpacePanning = false
	}
}

// WithMouseButtons rebinds mouse buttons to camera actions.
//
// Parameters:
//   - left, middle, right: action per physical button
//
// Returns:
//   - OrbitControllerOption: functional option to set the button map
func WithMouseButtons(left, middle, right MouseAction) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.mouseButtons[MouseButtonLeft] = left
		oc.mouseButtons[MouseButtonMiddle] = middle
		oc.mouseButtons[MouseButtonRight] = right
	}
}

// WithTouchActions rebinds touch gestures to camera actions.
//
// Parameters:
//   - one: action for a single finger
//   - two: action for two fingers
//
// Returns:
//   - OrbitControllerOption: functional option to set the touch map
func WithTouchActions(one, two TouchAction) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.touchOneAction = one
		oc.touchTwoAction = two
	}
}
