package window

import (
	"github.com/acuview/meridian/engine/camera"
)

// mousePointerID is the synthetic pointer identity used for the single mouse
// cursor. Touch input, when a platform provides it, uses its own IDs.
const mousePointerID = 0

// Bind wires a window's input callbacks to an orbit controller: button
// press/release become pointer down/up, cursor motion becomes pointer move,
// the wheel becomes a dolly event, and key presses feed the controller's
// arrow-key panning.
//
// Scroll direction is flipped on the way through: the platform reports
// scroll-up as a positive offset while the controller follows the DOM wheel
// convention where negative deltaY means zoom in.
//
// Parameters:
//   - w: the window producing input events
//   - ctrl: the orbit controller consuming them
func Bind(w Window, ctrl camera.OrbitController) {
	w.SetMouseDownCallback(func(button camera.MouseButton, x, y float32, ctrlKey, metaKey, shiftKey bool) {
		ctrl.HandlePointerDown(camera.PointerEvent{
			PointerID: mousePointerID,
			X:         x,
			Y:         y,
			Button:    button,
			Ctrl:      ctrlKey,
			Meta:      metaKey,
			Shift:     shiftKey,
		})
	})

	w.SetMouseUpCallback(func(button camera.MouseButton, x, y float32, ctrlKey, metaKey, shiftKey bool) {
		ctrl.HandlePointerUp(camera.PointerEvent{
			PointerID: mousePointerID,
			X:         x,
			Y:         y,
			Button:    button,
			Ctrl:      ctrlKey,
			Meta:      metaKey,
			Shift:     shiftKey,
		})
	})

	w.SetMouseMoveCallback(func(x, y float32) {
		ctrl.HandlePointerMove(camera.PointerEvent{
			PointerID: mousePointerID,
			X:         x,
			Y:         y,
		})
	})

	w.SetScrollCallback(func(delta float32) {
		ctrl.HandleWheel(camera.WheelEvent{DeltaY: -delta})
	})

	w.SetKeyDownCallback(func(keyCode uint32) {
		ctrl.HandleKeyDown(int(keyCode))
	})
}
