package viewer

import "time"

// AppBuilderOption configures an App during construction.
type AppBuilderOption func(*app)

// WithCatalog attaches a point catalog to the app, enabling FocusByID and the
// sidebar point list.
//
// Parameters:
//   - c: the loaded catalog
//
// Returns:
//   - AppBuilderOption: the option function
func WithCatalog(c Catalog) AppBuilderOption {
	return func(a *app) {
		a.catalog = c
	}
}

// WithRemoteAddr enables the browser sidebar on the given TCP listen address.
// Has no effect unless a catalog is also attached.
//
// Parameters:
//   - addr: listen address (e.g. "localhost:8090")
//
// Returns:
//   - AppBuilderOption: the option function
func WithRemoteAddr(addr string) AppBuilderOption {
	return func(a *app) {
		a.remoteAddr = addr
	}
}

// WithTickRate sets the logic tick rate in ticks per second.
//
// Parameters:
//   - fps: target ticks per second (defaults to 60 if <= 0)
//
// Returns:
//   - AppBuilderOption: the option function
func WithTickRate(fps float64) AppBuilderOption {
	return func(a *app) {
		if fps <= 0 {
			fps = 60
		}
		a.tickRate = time.Second / time.Duration(fps)
	}
}

// WithRenderFrameLimit caps the render loop at the given frames per second.
// Pass 0 to uncap (default).
//
// Parameters:
//   - fps: maximum render frames per second
//
// Returns:
//   - AppBuilderOption: the option function
func WithRenderFrameLimit(fps float64) AppBuilderOption {
	return func(a *app) {
		if fps <= 0 {
			a.renderFrameLimit = 0
			return
		}
		a.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithProfiling enables frame statistics logging from the start.
//
// Returns:
//   - AppBuilderOption: the option function
func WithProfiling() AppBuilderOption {
	return func(a *app) {
		a.profilingEnabled = true
	}
}
