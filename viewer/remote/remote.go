package remote

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/acuview/meridian/common"
	"github.com/acuview/meridian/engine/camera"

	"github.com/gorilla/websocket"
)

//go:embed assets/sidebar.html
var sidebarAssets embed.FS

// shutdownTimeout bounds how long Close waits for the HTTP server to drain.
const shutdownTimeout = 2 * time.Second

// PointEntry is the catalog row shared with the sidebar page.
type PointEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Meridian    string `json:"meridian"`
	Description string `json:"description,omitempty"`
}

// PoseFrame is the outbound message streamed to connected pages after each
// camera change.
type PoseFrame struct {
	Type     string     `json:"type"`
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
	Selected string     `json:"selected,omitempty"`
}

// clientMessage is the inbound message envelope from the sidebar page. Type
// selects which of the remaining fields are meaningful.
type clientMessage struct {
	Type      string  `json:"type"`
	PointID   string  `json:"pointId,omitempty"`
	PointerID int     `json:"pointerId,omitempty"`
	X         float32 `json:"x,omitempty"`
	Y         float32 `json:"y,omitempty"`
	Button    int     `json:"button,omitempty"`
	DeltaY    float32 `json:"deltaY,omitempty"`
	Ctrl      bool    `json:"ctrl,omitempty"`
	Meta      bool    `json:"meta,omitempty"`
	Shift     bool    `json:"shift,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
}

// server is the implementation of the Server interface.
type server struct {
	mu *sync.Mutex

	ctrl   camera.OrbitController
	points []PointEntry

	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader

	clients map[*websocket.Conn]bool

	onSelect func(pointID string)
	onClear  func()

	// Page-reported trackpad viewport, used when the controller treats the
	// remote as its surface.
	viewportWidth  int
	viewportHeight int

	captured map[int]bool

	selectedID string
	lastPose   PoseFrame
	hasPose    bool
}

// Server bridges a browser sidebar to the viewer over a WebSocket: it serves
// an embedded point-list page, streams camera pose frames to every connected
// page, and feeds the page's selection, pointer, and wheel events into the
// orbit controller.
//
// Server is also a camera.Surface, so a controller can run entirely against
// the remote page with no native window: Size reports the page's trackpad
// viewport and pointer capture is tracked per pointer ID.
type Server interface {
	camera.Surface

	// Start begins listening on the given address and serves the sidebar in
	// a background goroutine.
	//
	// Parameters:
	//   - addr: TCP listen address (e.g. ":8080")
	//
	// Returns:
	//   - error: error if the listener cannot be created
	Start(addr string) error

	// Addr returns the bound listen address, useful when Start was given
	// port 0.
	//
	// Returns:
	//   - string: the listener address, or "" before Start
	Addr() string

	// Close shuts the HTTP server down and disconnects all pages.
	//
	// Returns:
	//   - error: error from the underlying shutdown
	Close() error

	// BroadcastPose streams the camera pose to every connected page. Called
	// by the render loop after frames where the camera moved.
	//
	// Parameters:
	//   - position: world-space camera position
	//   - target: world-space orbit target
	BroadcastPose(position, target common.Vec3)

	// BroadcastSelection tells every connected page which point is focused,
	// so selections made natively stay in sync with the sidebar.
	//
	// Parameters:
	//   - pointID: the focused point ID, or "" for no selection
	BroadcastSelection(pointID string)

	// SetSelectCallback registers the function called when a page selects a
	// point from the list.
	//
	// Parameters:
	//   - callback: function receiving the selected point ID
	SetSelectCallback(callback func(pointID string))

	// SetClearCallback registers the function called when a page clears the
	// selection.
	//
	// Parameters:
	//   - callback: function to call
	SetClearCallback(callback func())
}

var _ Server = &server{}
var _ camera.Surface = &server{}

// NewServer creates a sidebar Server feeding input to the given controller
// and listing the given points.
//
// Parameters:
//   - ctrl: the orbit controller page events are routed to
//   - points: the catalog entries shown in the sidebar list
//   - options: functional options for callbacks and viewport defaults
//
// Returns:
//   - Server: the configured server (not yet listening)
func NewServer(ctrl camera.OrbitController, points []PointEntry, options ...ServerOption) Server {
	if ctrl == nil {
		panic("remote server requires an orbit controller")
	}

	s := &server{
		mu:     &sync.Mutex{},
		ctrl:   ctrl,
		points: points,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The sidebar is a local control surface; any origin may
				// connect.
				return true
			},
		},
		clients:        make(map[*websocket.Conn]bool),
		captured:       make(map[int]bool),
		viewportWidth:  800,
		viewportHeight: 600,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveSidebar)
	mux.HandleFunc("/points", s.servePoints)
	mux.HandleFunc("/ws", s.handleWebSocket)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{Handler: mux}
	srv := s.httpServer
	s.mu.Unlock()

	log.Printf("[Remote] sidebar listening on http://%s", listener.Addr())

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Remote] serve error: %v", err)
		}
	}()
	return nil
}

func (s *server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *server) Close() error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *server) BroadcastPose(position, target common.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := PoseFrame{
		Type:     "pose",
		Position: [3]float32{position.X, position.Y, position.Z},
		Target:   [3]float32{target.X, target.Y, target.Z},
		Selected: s.selectedID,
	}
	s.lastPose = frame
	s.hasPose = true
	s.broadcastLocked(frame)
}

func (s *server) BroadcastSelection(pointID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedID = pointID
	s.broadcastLocked(PoseFrame{Type: "selection", Selected: pointID})
}

// broadcastLocked sends a frame to every client, dropping clients whose
// writes fail. Caller holds s.mu.
func (s *server) broadcastLocked(frame PoseFrame) {
	if len(s.clients) == 0 {
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("[Remote] failed to marshal frame: %v", err)
		return
	}
	for client := range s.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[Remote] write error, dropping client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}

func (s *server) SetSelectCallback(callback func(pointID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSelect = callback
}

func (s *server) SetClearCallback(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = callback
}

// Size implements camera.Surface using the page-reported trackpad viewport.
func (s *server) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewportWidth, s.viewportHeight
}

// SetPointerCapture implements camera.Surface. The page routes all pointer
// events through the socket already, so capture only needs bookkeeping.
func (s *server) SetPointerCapture(pointerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured[pointerID] = true
}

// ReleasePointerCapture implements camera.Surface.
func (s *server) ReleasePointerCapture(pointerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.captured, pointerID)
}

func (s *server) serveSidebar(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := sidebarAssets.ReadFile("assets/sidebar.html")
	if err != nil {
		http.Error(w, "sidebar page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *server) servePoints(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	points := s.points
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(points); err != nil {
		log.Printf("[Remote] failed to encode point list: %v", err)
	}
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Remote] websocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	// Catch the new page up on the current pose and selection.
	if s.hasPose {
		if data, err := json.Marshal(s.lastPose); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	} else if s.selectedID != "" {
		if data, err := json.Marshal(PoseFrame{Type: "selection", Selected: s.selectedID}); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}
	s.mu.Unlock()

	log.Println("[Remote] sidebar connected")

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
		log.Println("[Remote] sidebar disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[Remote] ignoring malformed message: %v", err)
			continue
		}
		s.dispatch(msg)
	}
}

// dispatch routes one inbound page message to the controller or the
// selection callbacks.
func (s *server) dispatch(msg clientMessage) {
	switch msg.Type {
	case "select":
		s.mu.Lock()
		cb := s.onSelect
		s.mu.Unlock()
		if cb != nil && msg.PointID != "" {
			cb(msg.PointID)
		}
	case "clear":
		s.mu.Lock()
		cb := s.onClear
		s.mu.Unlock()
		if cb != nil {
			cb()
		}
	case "viewport":
		s.mu.Lock()
		if msg.Width > 0 && msg.Height > 0 {
			s.viewportWidth = msg.Width
			s.viewportHeight = msg.Height
		}
		s.mu.Unlock()
	case "pointerdown":
		s.ctrl.HandlePointerDown(s.pointerEvent(msg))
	case "pointermove":
		s.ctrl.HandlePointerMove(s.pointerEvent(msg))
	case "pointerup", "pointercancel":
		s.ctrl.HandlePointerUp(s.pointerEvent(msg))
	case "wheel":
		s.ctrl.HandleWheel(camera.WheelEvent{DeltaY: msg.DeltaY})
	default:
		log.Printf("[Remote] ignoring unknown message type %q", msg.Type)
	}
}

func (s *server) pointerEvent(msg clientMessage) camera.PointerEvent {
	return camera.PointerEvent{
		PointerID: msg.PointerID,
		X:         msg.X,
		Y:         msg.Y,
		Button:    camera.MouseButton(msg.Button),
		Ctrl:      msg.Ctrl,
		Meta:      msg.Meta,
		Shift:     msg.Shift,
	}
}
