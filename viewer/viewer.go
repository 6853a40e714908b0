package viewer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/acuview/meridian/engine/profiler"
	"github.com/acuview/meridian/engine/scene"
	"github.com/acuview/meridian/engine/window"
	"github.com/acuview/meridian/viewer/remote"
)

// app is the implementation of the App interface.
// Coordinates the tick, render, and window threads.
type app struct {
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	win window.Window
	scn scene.Scene

	catalog Catalog
	focus   FocusAnimator
	sidebar remote.Server

	// remoteAddr is where the sidebar listens; empty disables the sidebar.
	remoteAddr string

	prof             *profiler.Profiler
	profilingEnabled bool

	tickRate       time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// App is the viewer application: a window, a scene showing one anatomy
// model, an orbit controller bound to the window's input, a point catalog,
// and an optional browser sidebar. Run blocks until the window closes.
type App interface {
	// Window returns the application window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the application scene.
	//
	// Returns:
	//   - scene.Scene: the scene instance
	Scene() scene.Scene

	// Catalog returns the loaded point catalog, or nil when the app was
	// built without one.
	//
	// Returns:
	//   - Catalog: the point catalog
	Catalog() Catalog

	// FocusByID selects a catalog point by ID: the scene marker moves to the
	// point and the camera target glides toward it.
	//
	// Parameters:
	//   - id: the point ID (e.g. "LI4")
	//
	// Returns:
	//   - error: error if the app has no catalog or the ID is unknown
	FocusByID(id string) error

	// ClearFocus drops the current point selection.
	ClearFocus()

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetTickCallback registers a function called each logic tick, after the
	// focus transition has advanced.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called after each rendered
	// frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// Run starts the tick and render loops and the sidebar server, then
	// blocks in the window message loop until the window closes.
	Run()

	// Quit signals all application goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ App = &app{}

// NewApp assembles the viewer application around an existing window and
// scene. The window's input is bound to the scene's orbit controller, the
// window resize is routed to the scene, and, when a catalog and a remote
// address are configured, the browser sidebar is wired to point selection.
//
// Parameters:
//   - win: the application window
//   - scn: the scene to display
//   - options: functional options for catalog, sidebar, tick rate, and limits
//
// Returns:
//   - App: the assembled application
func NewApp(win window.Window, scn scene.Scene, options ...AppBuilderOption) App {
	if win == nil {
		panic("app requires a window")
	}
	if scn == nil {
		panic("app requires a scene")
	}

	a := &app{
		quitChannel: make(chan struct{}),
		win:         win,
		scn:         scn,
		prof:        profiler.NewProfiler(),
		tickRate:    time.Second / 60,
	}

	for _, opt := range options {
		opt(a)
	}

	a.focus = NewFocusAnimator(scn.Controller(), scn)

	window.Bind(win, scn.Controller())
	win.SetResizeCallback(func(width, height int) {
		a.scn.Resize(width, height)
	})

	if a.remoteAddr != "" && a.catalog != nil {
		a.sidebar = remote.NewServer(scn.Controller(), sidebarEntries(a.catalog),
			remote.WithSelectCallback(func(pointID string) {
				if err := a.FocusByID(pointID); err != nil {
					log.Printf("[Viewer] sidebar selected unknown point: %v", err)
				}
			}),
			remote.WithClearCallback(a.ClearFocus),
		)
	}

	return a
}

// sidebarEntries maps catalog points to the wire rows the sidebar lists.
func sidebarEntries(c Catalog) []remote.PointEntry {
	points := c.Points()
	entries := make([]remote.PointEntry, len(points))
	for i, p := range points {
		entries[i] = remote.PointEntry{
			ID:          p.ID,
			Name:        p.Name,
			Meridian:    p.Meridian,
			Description: p.Description,
		}
	}
	return entries
}

func (a *app) Window() window.Window {
	return a.win
}

func (a *app) Scene() scene.Scene {
	return a.scn
}

func (a *app) Catalog() Catalog {
	return a.catalog
}

func (a *app) FocusByID(id string) error {
	if a.catalog == nil {
		return fmt.Errorf("no point catalog loaded")
	}
	p, ok := a.catalog.ByID(id)
	if !ok {
		return fmt.Errorf("unknown point id %s", id)
	}

	a.focus.FocusOn(p)
	if a.sidebar != nil {
		a.sidebar.BroadcastSelection(p.ID)
	}
	log.Printf("[Viewer] focused %s (%s, %s)", p.ID, p.Name, p.Meridian)
	return nil
}

func (a *app) ClearFocus() {
	a.focus.Clear()
	if a.sidebar != nil {
		a.sidebar.BroadcastSelection("")
	}
}

func (a *app) EnableProfiler() {
	a.profilingEnabled = true
}

func (a *app) DisableProfiler() {
	a.profilingEnabled = false
}

func (a *app) SetTickCallback(callback func(deltaTime float32)) {
	a.tickCallback = callback
}

func (a *app) SetRenderCallback(callback func(deltaTime float32)) {
	a.renderCallback = callback
}

func (a *app) Run() {
	if a.sidebar != nil {
		if err := a.sidebar.Start(a.remoteAddr); err != nil {
			log.Printf("[Viewer] sidebar disabled: %v", err)
			a.sidebar = nil
		}
	}

	a.wg.Add(2)
	go a.handleTick()
	go a.handleRender()

	a.win.ProcessMessages()

	a.Quit()
	a.wg.Wait()
}

// Quit signals the tick and render goroutines to stop and shuts the sidebar
// down. Safe to call multiple times.
func (a *app) Quit() {
	a.quitOnce.Do(func() {
		close(a.quitChannel)
		if a.sidebar != nil {
			if err := a.sidebar.Close(); err != nil {
				log.Printf("[Viewer] sidebar close error: %v", err)
			}
		}
	})
}

// handleTick runs the fixed-rate logic loop in its own goroutine: it advances
// the focus transition and fires the tick callback. Exits when the quit
// channel is closed.
func (a *app) handleTick() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-a.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			a.focus.Update(dt)

			if a.tickCallback != nil {
				a.tickCallback(dt)
			}
		}
	}
}

// handleRender runs the render loop in its own goroutine: each iteration
// integrates the controller into the camera, uploads dirty uniforms, encodes
// the frame, and streams the camera pose to the sidebar when it moved.
// Recovers from panics so a GPU fault closes the app instead of crashing the
// process.
func (a *app) handleRender() {
	defer a.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Viewer] render goroutine recovered from panic: %v", r)
			a.Quit()
		}
	}()

	r := a.scn.Renderer()
	lastRender := time.Now()

	for {
		select {
		case <-a.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			changed := a.scn.Prepare()

			if err := r.BeginFrame(); err == nil {
				if err := a.scn.DrawCalls(); err != nil {
					log.Printf("[Viewer] draw error: %v", err)
				}
				r.EndFrame()
				r.Present()
			}

			if changed && a.sidebar != nil {
				cam := a.scn.Camera()
				a.sidebar.BroadcastPose(cam.Position(), cam.Target())
			}

			if a.renderCallback != nil {
				a.renderCallback(dt)
			}

			if a.profilingEnabled && a.prof != nil {
				a.prof.Tick()
			}

			if a.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := a.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}
