package viewer

import (
	"sync"

	"github.com/acuview/meridian/engine/camera"
	"github.com/acuview/meridian/engine/scene"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// defaultFocusDuration is how long a focus transition takes in seconds.
const defaultFocusDuration float32 = 0.8

// targetAnim holds the active per-axis tweens gliding the controller target
// toward a focused point.
type targetAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	tweenZ *gween.Tween
	doneX  bool
	doneY  bool
	doneZ  bool
}

// focusAnimator is the implementation of the FocusAnimator interface.
type focusAnimator struct {
	mu *sync.Mutex

	ctrl camera.OrbitController
	scn  scene.Scene

	duration float32
	easing   ease.TweenFunc

	anim     *targetAnim
	selected Point
	hasPoint bool
}

// FocusAnimator glides the orbit controller's target toward a selected
// catalog point instead of snapping to it. FocusOn places the scene's
// highlight marker immediately and starts the transition; the host loop
// advances it by calling Update once per tick.
type FocusAnimator interface {
	// FocusOn selects a point: the scene marker appears at the point right
	// away and the controller target starts easing toward it from wherever
	// it currently is. Selecting a new point mid-transition retargets the
	// tween from the current target position.
	//
	// Parameters:
	//   - p: the catalog point to focus
	FocusOn(p Point)

	// Clear drops the selection, hides the scene marker, and cancels any
	// transition in progress. The controller target stays where it is.
	Clear()

	// Update advances an in-progress transition by dt seconds, moving the
	// controller target along the eased path.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous call
	//
	// Returns:
	//   - bool: true while a transition is still running
	Update(dt float32) bool

	// Selected returns the currently focused point.
	//
	// Returns:
	//   - Point: the focused point (zero value when none)
	//   - bool: true if a point is focused
	Selected() (Point, bool)

	// Animating reports whether a transition is in progress.
	//
	// Returns:
	//   - bool: true while the target is still easing toward the point
	Animating() bool
}

var _ FocusAnimator = &focusAnimator{}

// NewFocusAnimator creates a FocusAnimator driving the given controller and
// scene with the provided options applied.
//
// Parameters:
//   - ctrl: the orbit controller whose target the animator moves
//   - scn: the scene whose highlight marker follows the selection
//   - options: functional options for duration and easing
//
// Returns:
//   - FocusAnimator: the configured animator
func NewFocusAnimator(ctrl camera.OrbitController, scn scene.Scene, options ...FocusAnimatorOption) FocusAnimator {
	if ctrl == nil {
		panic("focus animator requires an orbit controller")
	}
	if scn == nil {
		panic("focus animator requires a scene")
	}

	f := &focusAnimator{
		mu:       &sync.Mutex{},
		ctrl:     ctrl,
		scn:      scn,
		duration: defaultFocusDuration,
		easing:   ease.InOutCubic,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *focusAnimator) FocusOn(p Point) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dest := p.LocationVec()
	f.scn.SetFocusPoint(dest)
	f.selected = p
	f.hasPoint = true

	from := f.ctrl.Target()
	if f.duration <= 0 {
		f.anim = nil
		f.ctrl.SetTarget(dest)
		return
	}

	f.anim = &targetAnim{
		tweenX: gween.New(from.X, dest.X, f.duration, f.easing),
		tweenY: gween.New(from.Y, dest.Y, f.duration, f.easing),
		tweenZ: gween.New(from.Z, dest.Z, f.duration, f.easing),
	}
}

func (f *focusAnimator) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scn.ClearFocus()
	f.anim = nil
	f.selected = Point{}
	f.hasPoint = false
}

func (f *focusAnimator) Update(dt float32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.anim == nil {
		return false
	}

	target := f.ctrl.Target()
	if !f.anim.doneX {
		val, done := f.anim.tweenX.Update(dt)
		target.X = val
		f.anim.doneX = done
	}
	if !f.anim.doneY {
		val, done := f.anim.tweenY.Update(dt)
		target.Y = val
		f.anim.doneY = done
	}
	if !f.anim.doneZ {
		val, done := f.anim.tweenZ.Update(dt)
		target.Z = val
		f.anim.doneZ = done
	}
	f.ctrl.SetTarget(target)

	if f.anim.doneX && f.anim.doneY && f.anim.doneZ {
		f.anim = nil
		return false
	}
	return true
}

func (f *focusAnimator) Selected() (Point, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected, f.hasPoint
}

func (f *focusAnimator) Animating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.anim != nil
}
