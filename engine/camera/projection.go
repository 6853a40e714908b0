package camera

import (
	"github.com/acuview/meridian/common"
)

// Projection computes a column-major projection matrix for the camera.
// The two built-in implementations are Perspective and Orthographic. The
// orbit controller inspects the concrete type to decide how dolly and pan
// gestures map to camera state; unrecognized implementations degrade the
// controller to rotate-only mode.
type Projection interface {
	// Matrix writes the projection matrix into out.
	//
	// Parameters:
	//   - out: destination slice (must be at least 16 elements)
	//   - aspect: viewport aspect ratio (width / height)
	//   - near: near clipping plane distance
	//   - far: far clipping plane distance
	Matrix(out []float32, aspect, near, far float32)
}

// Perspective is a standard perspective projection.
type Perspective struct {
	// Fov is the vertical field of view in radians.
	Fov float32
}

func (p Perspective) Matrix(out []float32, aspect, near, far float32) {
	common.Perspective(out, p.Fov, aspect, near, far)
}

// Orthographic is a zoomable orthographic projection. The visible extents
// shrink as Zoom grows.
type Orthographic struct {
	// Left, Right, Top, Bottom are the view volume extents at Zoom = 1.
	Left, Right, Top, Bottom float32
	// Zoom is the magnification factor (must be > 0).
	Zoom float32
}

func (o Orthographic) Matrix(out []float32, aspect, near, far float32) {
	common.Orthographic(out, o.Left, o.Right, o.Top, o.Bottom, o.Zoom, near, far)
}

var (
	_ Projection = Perspective{}
	_ Projection = Orthographic{}
)
