package scene

import (
	"github.com/acuview/meridian/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLights replaces the default three-point light rig with the given lights.
// The marker highlight light is always appended after options are applied.
//
// Parameters:
//   - lights: the lights to install
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = lights
	}
}

// WithAmbientColor sets the scene's ambient light color.
// Defaults to light.DefaultAmbient.
//
// Parameters:
//   - color: the ambient RGB color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbientColor(color [3]float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambientColor = color
	}
}

// WithMarkerScale sets the world-space radius of the selected-point highlight
// marker. The anatomy models are roughly two units tall, so the default of
// 0.035 reads as a small bead on the skin.
//
// Parameters:
//   - scale: the marker sphere radius in world units (minimum 0.001)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMarkerScale(scale float32) SceneBuilderOption {
	return func(s *scene) {
		if scale < 0.001 {
			scale = 0.001
		}
		s.markerScale = scale
	}
}

// WithFitMargin sets the padding factor applied to the fitted camera distance
// in FitToModel. 1.0 frames the bounding sphere exactly; larger values back
// the camera off further. Default is 1.15.
//
// Parameters:
//   - margin: the fit padding factor (minimum 1.0)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFitMargin(margin float32) SceneBuilderOption {
	return func(s *scene) {
		if margin < 1.0 {
			margin = 1.0
		}
		s.fitMargin = margin
	}
}
