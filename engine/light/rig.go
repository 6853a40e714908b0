package light

// DefaultAmbient is the ambient color used by the default rig. Kept low so the
// directional lights carry the shading that gives the body model its depth.
var DefaultAmbient = [3]float32{0.12, 0.12, 0.14}

// DefaultRig builds the viewer's standard three-point lighting rig for the
// body model: a key light from the upper front-left, a cooler fill from the
// right to soften the key's shadows, and a warm rim from behind to separate
// the silhouette from the background.
//
// Returns:
//   - []Light: the key, fill, and rim lights in that order
func DefaultRig() []Light {
	key := NewLight(LightTypeDirectional,
		WithDirection(0.4, -0.7, -0.6),
		WithColor(1.0, 0.98, 0.95),
		WithIntensity(1.0),
	)
	fill := NewLight(LightTypeDirectional,
		WithDirection(-0.7, -0.15, -0.4),
		WithColor(0.75, 0.8, 0.9),
		WithIntensity(0.45),
	)
	rim := NewLight(LightTypeDirectional,
		WithDirection(0.1, 0.25, 0.95),
		WithColor(1.0, 0.95, 0.85),
		WithIntensity(0.6),
	)
	return []Light{key, fill, rim}
}
