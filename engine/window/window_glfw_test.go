package window

import "testing"

func TestSurfacePosScalesToFramebuffer(t *testing.T) {
	// High-DPI: window coordinates are half the framebuffer resolution.
	gw := &glfwWindow{scaleX: 2, scaleY: 2}
	x, y := gw.surfacePos(100, 40)
	if x != 200 || y != 80 {
		t.Fatalf("expected (200, 80), got (%v, %v)", x, y)
	}

	// Standard displays pass cursor positions through unchanged.
	gw = &glfwWindow{scaleX: 1, scaleY: 1}
	x, y = gw.surfacePos(100, 40)
	if x != 100 || y != 40 {
		t.Fatalf("expected (100, 40), got (%v, %v)", x, y)
	}
}

func TestSurfacePosFractionalScale(t *testing.T) {
	gw := &glfwWindow{scaleX: 1.5, scaleY: 1.25}
	x, y := gw.surfacePos(200, 80)
	if x != 300 || y != 100 {
		t.Fatalf("expected (300, 100), got (%v, %v)", x, y)
	}
}
