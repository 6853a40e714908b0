package camera

import (
	"math"
	"testing"

	"github.com/acuview/meridian/common"
)

type fakeSurface struct {
	w, h     int
	captured map[int]bool
	releases int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{w: 800, h: 600, captured: make(map[int]bool)}
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) SetPointerCapture(id int) { s.captured[id] = true }

func (s *fakeSurface) ReleasePointerCapture(id int) {
	delete(s.captured, id)
	s.releases++
}

type fakeProjection struct{}

func (fakeProjection) Matrix(out []float32, aspect, near, far float32) {
	common.Identity(out)
}

func newTestRig(options ...OrbitControllerOption) (Camera, OrbitController, *fakeSurface) {
	surface := newFakeSurface()
	cam := NewCamera(WithAspect(800.0 / 600.0))
	opts := append([]OrbitControllerOption{
		WithSurface(surface),
		WithOrbitPosition(common.Vec3{X: 0, Y: 0, Z: 10}),
	}, options...)
	ctrl := NewOrbitController(cam, opts...)
	cam.SetController(ctrl)
	return cam, ctrl, surface
}

func mouseDrag(ctrl OrbitController, button MouseButton, x0, y0, x1, y1 float32) {
	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: x0, Y: y0, Button: button})
	ctrl.HandlePointerMove(PointerEvent{PointerID: 1, X: x1, Y: y1})
	ctrl.HandlePointerUp(PointerEvent{PointerID: 1, X: x1, Y: y1})
}

func TestDollyRespectsDistanceBounds(t *testing.T) {
	_, ctrl, _ := newTestRig(WithDistanceBounds(5, 15))

	for range 100 {
		ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	}
	if d := ctrl.Distance(); d < 5 {
		t.Errorf("distance %v fell below min 5", d)
	}

	for range 100 {
		ctrl.HandleWheel(WheelEvent{DeltaY: 1})
	}
	if d := ctrl.Distance(); d > 15 {
		t.Errorf("distance %v exceeded max 15", d)
	}
}

func TestWheelDollyFactor(t *testing.T) {
	_, ctrl, _ := newTestRig()

	ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	want := float32(10 * 0.95)
	if d := ctrl.Distance(); math.Abs(float64(d-want)) > 1e-4 {
		t.Errorf("distance after one wheel-in = %v, want %v", d, want)
	}

	ctrl.HandleWheel(WheelEvent{DeltaY: 1})
	if d := ctrl.Distance(); math.Abs(float64(d-10)) > 1e-4 {
		t.Errorf("distance after wheel-out = %v, want 10", d)
	}
}

func TestAzimuthClampWithoutWrap(t *testing.T) {
	_, ctrl, _ := newTestRig(WithAzimuthBounds(-1, 1))

	for range 10 {
		mouseDrag(ctrl, MouseButtonLeft, 400, 300, 700, 300)
	}
	if theta := ctrl.AzimuthAngle(); theta < -1 || theta > 1 {
		t.Errorf("theta %v escaped [-1, 1]", theta)
	}

	for range 10 {
		mouseDrag(ctrl, MouseButtonLeft, 400, 300, 100, 300)
	}
	if theta := ctrl.AzimuthAngle(); theta < -1 || theta > 1 {
		t.Errorf("theta %v escaped [-1, 1]", theta)
	}
}

func TestAzimuthWrapMidpointTieBreak(t *testing.T) {
	// min > max denotes the range [2.8, pi] joined with [-pi, -2.8].
	// The disallowed gap (-2.8, 2.8) has midpoint 0: angles above it snap
	// to 2.8, angles below snap to -2.8.
	cases := []struct {
		theta, want float32
	}{
		{2.0, 2.8},
		{-2.0, -2.8},
		{3.0, 3.0},
		{-3.0, -3.0},
	}
	for _, tc := range cases {
		pos := common.Spherical{Radius: 10, Phi: math.Pi / 2, Theta: tc.theta}.Vec3()
		_, ctrl, _ := newTestRig(
			WithOrbitPosition(pos),
			WithAzimuthBounds(2.8, -2.8),
		)
		ctrl.Update()
		if got := ctrl.AzimuthAngle(); math.Abs(float64(got-tc.want)) > 1e-4 {
			t.Errorf("theta %v resolved to %v, want %v", tc.theta, got, tc.want)
		}
	}
}

func TestUpdateIdempotent(t *testing.T) {
	_, ctrl, _ := newTestRig()

	ctrl.SetPosition(common.Vec3{X: 3, Y: 2, Z: 8})
	if !ctrl.Update() {
		t.Fatal("first update after moving camera reported no change")
	}
	if ctrl.Update() {
		t.Error("second update with no pending input reported a change")
	}
}

func TestDampingConvergence(t *testing.T) {
	_, damped, _ := newTestRig(WithDamping(0.1))
	_, direct, _ := newTestRig()

	damped.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft})
	damped.HandlePointerMove(PointerEvent{PointerID: 1, X: 520, Y: 300})
	damped.HandlePointerUp(PointerEvent{PointerID: 1, X: 520, Y: 300})

	direct.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft})
	direct.HandlePointerMove(PointerEvent{PointerID: 1, X: 520, Y: 300})
	direct.HandlePointerUp(PointerEvent{PointerID: 1, X: 520, Y: 300})

	for range 1000 {
		damped.Update()
	}

	got := damped.AzimuthAngle()
	want := direct.AzimuthAngle()
	if math.Abs(float64(got-want)) > 1e-3 {
		t.Errorf("damped azimuth %v did not converge to direct azimuth %v", got, want)
	}

	// Once the delta has decayed away, updates settle.
	for range 100 {
		damped.Update()
	}
	if damped.Update() {
		t.Error("update still reports changes after damping settled")
	}
}

func TestSaveStateResetRoundTrip(t *testing.T) {
	_, ctrl, _ := newTestRig()

	ctrl.Update()
	ctrl.SaveState()
	savedPos := ctrl.Position()
	savedTarget := ctrl.Target()

	mouseDrag(ctrl, MouseButtonLeft, 400, 300, 600, 400)
	mouseDrag(ctrl, MouseButtonRight, 400, 300, 500, 350)
	ctrl.HandleWheel(WheelEvent{DeltaY: -1})

	ctrl.Reset()

	if got := ctrl.Position(); got.DistanceSqTo(savedPos) > 1e-8 {
		t.Errorf("position after reset = %v, want %v", got, savedPos)
	}
	if got := ctrl.Target(); got.DistanceSqTo(savedTarget) > 1e-8 {
		t.Errorf("target after reset = %v, want %v", got, savedTarget)
	}
}

func TestResetCancelsGesture(t *testing.T) {
	_, ctrl, _ := newTestRig()
	impl := ctrl.(*orbitControllerImpl)

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft})
	if impl.state != stateRotate {
		t.Fatalf("state after left down = %v, want rotate", impl.state)
	}
	ctrl.Reset()
	if impl.state != stateNone {
		t.Errorf("state after reset = %v, want none", impl.state)
	}
}

func TestPolarPoleEpsilonNudge(t *testing.T) {
	_, ctrl, _ := newTestRig(WithPolarBounds(0, math.Pi))

	// Drag far enough upward to drive phi against the 0 pole.
	for range 20 {
		mouseDrag(ctrl, MouseButtonLeft, 400, 300, 400, 900)
	}
	if phi := ctrl.PolarAngle(); phi <= 0 {
		t.Errorf("phi %v reached the up pole", phi)
	}

	// And downward against the pi pole.
	for range 40 {
		mouseDrag(ctrl, MouseButtonLeft, 400, 300, 400, -900)
	}
	if phi := ctrl.PolarAngle(); phi >= math.Pi {
		t.Errorf("phi %v reached the down pole", phi)
	}
}

func TestAutoRotateInjectsExactDelta(t *testing.T) {
	_, ctrl, _ := newTestRig(WithAutoRotate(2))

	before := ctrl.AzimuthAngle()
	ctrl.Update()
	after := ctrl.AzimuthAngle()

	want := float64(2 * math.Pi / 3600 * 2)
	if got := float64(before - after); math.Abs(got-want) > 1e-6 {
		t.Errorf("auto-rotate delta = %v, want %v", got, want)
	}
}

func TestAutoRotatePausesDuringGesture(t *testing.T) {
	_, ctrl, _ := newTestRig(WithAutoRotate(2))
	impl := ctrl.(*orbitControllerImpl)

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft})
	if impl.state != stateRotate {
		t.Fatalf("state = %v, want rotate", impl.state)
	}
	before := ctrl.AzimuthAngle()
	ctrl.Update()
	if got := ctrl.AzimuthAngle(); got != before {
		t.Errorf("azimuth moved by %v while a gesture was active", before-got)
	}
}

func TestModifierSwapsRotateAndPan(t *testing.T) {
	_, ctrl, _ := newTestRig()
	impl := ctrl.(*orbitControllerImpl)

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft, Shift: true})
	if impl.state != statePan {
		t.Errorf("shift+left state = %v, want pan", impl.state)
	}
	ctrl.HandlePointerUp(PointerEvent{PointerID: 1, X: 400, Y: 300})

	ctrl.HandlePointerDown(PointerEvent{PointerID: 2, X: 400, Y: 300, Button: MouseButtonRight, Ctrl: true})
	if impl.state != stateRotate {
		t.Errorf("ctrl+right state = %v, want rotate", impl.state)
	}
	ctrl.HandlePointerUp(PointerEvent{PointerID: 2, X: 400, Y: 300})
}

func TestPointerUpAlwaysResetsState(t *testing.T) {
	_, ctrl, surface := newTestRig()
	impl := ctrl.(*orbitControllerImpl)

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 100, Y: 100, IsTouch: true})
	ctrl.HandlePointerDown(PointerEvent{PointerID: 2, X: 200, Y: 200, IsTouch: true})
	if impl.state != stateTouchDollyPan {
		t.Fatalf("two-finger state = %v, want touch dolly-pan", impl.state)
	}

	// Releasing one of two pointers cancels the gesture but keeps tracking
	// the survivor.
	ctrl.HandlePointerUp(PointerEvent{PointerID: 1, X: 100, Y: 100, IsTouch: true})
	if impl.state != stateNone {
		t.Errorf("state after partial release = %v, want none", impl.state)
	}
	if len(impl.pointers) != 1 || len(impl.pointerPositions) != 1 {
		t.Errorf("pointer bookkeeping = %d/%d entries, want 1/1",
			len(impl.pointers), len(impl.pointerPositions))
	}

	ctrl.HandlePointerUp(PointerEvent{PointerID: 2, X: 200, Y: 200, IsTouch: true})
	if len(surface.captured) != 0 {
		t.Errorf("%d pointers still captured after full release", len(surface.captured))
	}
}

func TestTwoFingerGestureCombinesDollyAndPan(t *testing.T) {
	_, ctrl, _ := newTestRig()

	startDistance := ctrl.Distance()
	startTarget := ctrl.Target()

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 300, Y: 300, IsTouch: true})
	ctrl.HandlePointerDown(PointerEvent{PointerID: 2, X: 500, Y: 300, IsTouch: true})

	// Spread the fingers apart while drifting both upward: pinch ratio
	// drives dolly, midpoint motion drives pan, in the same move.
	ctrl.HandlePointerMove(PointerEvent{PointerID: 1, X: 250, Y: 280, IsTouch: true})
	ctrl.HandlePointerMove(PointerEvent{PointerID: 2, X: 550, Y: 280, IsTouch: true})

	if d := ctrl.Distance(); d >= startDistance {
		t.Errorf("distance %v did not shrink on pinch-out (start %v)", d, startDistance)
	}
	if tgt := ctrl.Target(); tgt.DistanceSqTo(startTarget) == 0 {
		t.Error("target did not move with the midpoint")
	}
}

func TestSingleTouchRotates(t *testing.T) {
	_, ctrl, _ := newTestRig()

	before := ctrl.AzimuthAngle()
	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, IsTouch: true})
	ctrl.HandlePointerMove(PointerEvent{PointerID: 1, X: 520, Y: 300, IsTouch: true})
	ctrl.HandlePointerUp(PointerEvent{PointerID: 1, X: 520, Y: 300, IsTouch: true})

	if got := ctrl.AzimuthAngle(); got == before {
		t.Error("single-finger drag did not rotate")
	}
}

func TestDisabledCapabilitiesIgnoreInput(t *testing.T) {
	_, ctrl, _ := newTestRig()
	impl := ctrl.(*orbitControllerImpl)

	ctrl.SetEnableRotate(false)
	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft})
	if impl.state != stateNone {
		t.Errorf("rotate-disabled left down entered state %v", impl.state)
	}
	ctrl.HandlePointerUp(PointerEvent{PointerID: 1, X: 400, Y: 300})

	ctrl.SetEnableZoom(false)
	before := ctrl.Distance()
	ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	if got := ctrl.Distance(); got != before {
		t.Errorf("zoom-disabled wheel changed distance %v -> %v", before, got)
	}

	ctrl.SetEnabled(false)
	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonRight})
	if impl.state != stateNone {
		t.Errorf("disabled controller entered state %v", impl.state)
	}
}

func TestKeyPanMovesTarget(t *testing.T) {
	_, ctrl, _ := newTestRig()

	before := ctrl.Target()
	ctrl.HandleKeyDown(common.KeyLeft)
	if got := ctrl.Target(); got.DistanceSqTo(before) == 0 {
		t.Error("arrow key did not pan the target")
	}

	// Unmapped keys do nothing.
	mid := ctrl.Target()
	ctrl.HandleKeyDown(common.KeySpace)
	if got := ctrl.Target(); got != mid {
		t.Error("unmapped key panned the target")
	}
}

func TestStartChangeEndNotifications(t *testing.T) {
	_, ctrl, _ := newTestRig()

	var starts, changes, ends int
	ctrl.OnStart(func() { starts++ })
	changeHandle := ctrl.OnChange(func() { changes++ })
	ctrl.OnEnd(func() { ends++ })

	mouseDrag(ctrl, MouseButtonLeft, 400, 300, 500, 300)

	if starts != 1 {
		t.Errorf("start notifications = %d, want 1", starts)
	}
	if changes == 0 {
		t.Error("no change notification during drag")
	}
	if ends != 1 {
		t.Errorf("end notifications = %d, want 1", ends)
	}

	changeHandle.Remove()
	seen := changes
	ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	if changes != seen {
		t.Error("removed change handler still fired")
	}
}

func TestOrthographicWheelAdjustsZoom(t *testing.T) {
	surface := newFakeSurface()
	cam := NewCamera(WithProjection(Orthographic{Left: -2, Right: 2, Top: 2, Bottom: -2, Zoom: 1}))
	ctrl := NewOrbitController(cam,
		WithSurface(surface),
		WithOrbitPosition(common.Vec3{X: 0, Y: 0, Z: 10}),
		WithZoomBounds(0.5, 4),
	)
	cam.SetController(ctrl)

	before := ctrl.Distance()
	ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	if ctrl.Distance() != before {
		t.Error("orthographic wheel changed the orbit radius")
	}

	proj := cam.Projection().(Orthographic)
	want := float32(1 / 0.95)
	if math.Abs(float64(proj.Zoom-want)) > 1e-4 {
		t.Errorf("zoom after wheel-in = %v, want %v", proj.Zoom, want)
	}

	for range 100 {
		ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	}
	proj = cam.Projection().(Orthographic)
	if proj.Zoom > 4 {
		t.Errorf("zoom %v exceeded max bound 4", proj.Zoom)
	}
}

func TestUnknownProjectionDegradesZoomAndPan(t *testing.T) {
	surface := newFakeSurface()
	cam := NewCamera(WithProjection(fakeProjection{}))
	ctrl := NewOrbitController(cam,
		WithSurface(surface),
		WithOrbitPosition(common.Vec3{X: 0, Y: 0, Z: 10}),
	)
	cam.SetController(ctrl)
	impl := ctrl.(*orbitControllerImpl)

	ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	if impl.enableZoom {
		t.Error("zoom still enabled after unknown projection dolly")
	}

	ctrl.HandleKeyDown(common.KeyLeft)
	if impl.enablePan {
		t.Error("pan still enabled after unknown projection pan")
	}

	// Rotation keeps working in degraded mode.
	before := ctrl.AzimuthAngle()
	mouseDrag(ctrl, MouseButtonLeft, 400, 300, 500, 300)
	if got := ctrl.AzimuthAngle(); got == before {
		t.Error("rotation stopped working in degraded mode")
	}
}

func TestDisposeStopsInput(t *testing.T) {
	_, ctrl, _ := newTestRig()
	impl := ctrl.(*orbitControllerImpl)

	var changes int
	ctrl.OnChange(func() { changes++ })

	ctrl.Dispose()

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft})
	ctrl.HandlePointerMove(PointerEvent{PointerID: 1, X: 500, Y: 300})
	ctrl.HandleWheel(WheelEvent{DeltaY: -1})
	if impl.state != stateNone {
		t.Errorf("disposed controller entered state %v", impl.state)
	}
	if changes != 0 {
		t.Errorf("disposed controller fired %d change notifications", changes)
	}

	// Update stays legal after dispose.
	ctrl.SetPosition(common.Vec3{X: 1, Y: 2, Z: 9})
	ctrl.Update()
}

func TestMouseButtonRebinding(t *testing.T) {
	_, ctrl, _ := newTestRig()
	impl := ctrl.(*orbitControllerImpl)

	ctrl.SetMouseButtons(MouseActionPan, MouseActionRotate, MouseActionDolly)

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonLeft})
	if impl.state != statePan {
		t.Errorf("rebound left button state = %v, want pan", impl.state)
	}
	ctrl.HandlePointerUp(PointerEvent{PointerID: 1, X: 400, Y: 300})

	ctrl.HandlePointerDown(PointerEvent{PointerID: 1, X: 400, Y: 300, Button: MouseButtonRight})
	if impl.state != stateDolly {
		t.Errorf("rebound right button state = %v, want dolly", impl.state)
	}
	ctrl.HandlePointerUp(PointerEvent{PointerID: 1, X: 400, Y: 300})
}

func TestPanMovesTargetPerpendicularToView(t *testing.T) {
	_, ctrl, _ := newTestRig()

	mouseDrag(ctrl, MouseButtonRight, 400, 300, 500, 300)

	tgt := ctrl.Target()
	if tgt.X == 0 {
		t.Error("horizontal pan did not move the target along x")
	}
	if tgt.Z != 0 {
		t.Errorf("horizontal pan moved the target along the view axis: z = %v", tgt.Z)
	}
	// Orbit relationship is preserved: the camera moved with the target.
	if d := ctrl.Distance(); math.Abs(float64(d-10)) > 1e-4 {
		t.Errorf("pan changed orbit distance to %v", d)
	}
}

func TestSyncCameraSuppressesStaleChange(t *testing.T) {
	cam, ctrl, _ := newTestRig()
	ctrl.Update()
	cam.Update()

	// Control case: an external move with no resync trips change detection.
	ctrl.SetPosition(common.Vec3{X: 3, Y: 4, Z: 5})
	cam.Update()
	if !ctrl.Update() {
		t.Fatal("Update did not report the external move")
	}

	// Same move followed by SyncCamera: the next Update must be quiet.
	ctrl.SetPosition(common.Vec3{X: -2, Y: 1, Z: 8})
	cam.Update()
	ctrl.SyncCamera()
	if ctrl.Update() {
		t.Error("Update reported a change after SyncCamera")
	}
}
