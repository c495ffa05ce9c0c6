package remote

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/MartinZikmund/UnoDoom/internal/doom"
	"github.com/MartinZikmund/UnoDoom/internal/geom"
	"github.com/MartinZikmund/UnoDoom/internal/layout"
	"github.com/MartinZikmund/UnoDoom/internal/overlay"
	"github.com/MartinZikmund/UnoDoom/internal/session"
)

// Server handles the websocket control channel from the browser client.
type Server struct {
	mu               sync.Mutex
	upgrader         websocket.Upgrader
	session          *session.Session
	mapper           *overlay.Mapper
	lay              *layout.Layout
	sink             doom.KeySink
	tics             doom.Ticker
	onPipelineChange func(reason string)
	saveLayout       func(map[layout.Control]layout.NormRect) error
	conn             *websocket.Conn
}

// NewServer creates a control websocket server.
func NewServer(sess *session.Session, mapper *overlay.Mapper, lay *layout.Layout, sink doom.KeySink, tics doom.Ticker, onPipelineChange func(reason string), saveLayout func(map[layout.Control]layout.NormRect) error) *Server {
	return &Server{
		session: sess,
		mapper:  mapper,
		lay:     lay,
		sink:    sink,
		tics:    tics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		onPipelineChange: onPipelineChange,
		saveLayout:       saveLayout,
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		_ = conn.Close()
		return
	}
	defer s.cleanupConn(conn)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.handleMessage(msg); err != nil {
			return
		}
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection and releases any held contacts so
// a dropped client cannot leave a stick deflected or a button down.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
	s.mapper.ReleaseAll()
}

// handleMessage dispatches a single control message.
func (s *Server) handleMessage(msg Message) error {
	switch msg.T {
	case "surface":
		if msg.W > 0 && msg.H > 0 {
			s.lay.SetSurface(msg.W, msg.H)
		}
		return nil
	case "down":
		if !s.session.InputEnabled() {
			return nil
		}
		p, ok := s.toSurface(msg.X, msg.Y)
		if ok {
			s.mapper.PointerDown(msg.ID, p)
		}
		return nil
	case "move":
		p, ok := s.toSurface(msg.X, msg.Y)
		if ok {
			s.mapper.PointerMove(msg.ID, p)
		}
		return nil
	case "up":
		s.mapper.PointerUp(msg.ID)
		return nil
	case "cancel":
		s.mapper.PointerCancel(msg.ID)
		return nil
	case "key":
		return s.handleKey(msg)
	case "setVideo":
		s.session.SetVideoMode(msg.Video)
		s.notifyPipeline("video")
		return nil
	case "inputEnabled":
		if msg.Enabled != nil {
			s.session.SetInputEnabled(*msg.Enabled)
			if !*msg.Enabled {
				s.mapper.ReleaseAll()
			}
		}
		return nil
	case "overlay":
		if msg.Visible != nil {
			s.session.SetOverlayVisible(*msg.Visible)
		}
		return nil
	case "layout":
		return s.handleLayout(msg)
	default:
		return nil
	}
}

// handleKey forwards one physical-keyboard transition from the client.
func (s *Server) handleKey(msg Message) error {
	if !s.session.InputEnabled() && msg.Down {
		return nil
	}
	key, ok := doom.KeyByName(msg.Key)
	if !ok {
		return nil
	}
	kind := doom.KeyUp
	if msg.Down {
		kind = doom.KeyDown
	}
	var tic uint32
	if s.tics != nil {
		tic = s.tics.Tic()
	}
	s.sink.SetKeyStatus(kind, key, tic)
	return nil
}

// handleLayout pins one overlay control to a client-chosen rectangle.
func (s *Server) handleLayout(msg Message) error {
	if msg.Rect == nil {
		return nil
	}
	c, ok := layout.ControlByName(msg.Control)
	if !ok {
		return nil
	}
	s.lay.SetOverride(c, layout.NormRect{X: msg.Rect.X, Y: msg.Rect.Y, W: msg.Rect.W, H: msg.Rect.H})
	if s.saveLayout != nil {
		if err := s.saveLayout(s.lay.Overrides()); err != nil {
			return err
		}
	}
	return nil
}

// toSurface scales normalized client coordinates to surface pixels.
func (s *Server) toSurface(xn, yn float64) (geom.Point, bool) {
	w, h := s.lay.Surface()
	if w <= 0 || h <= 0 {
		return geom.Point{}, false
	}
	return geom.Point{X: xn * w, Y: yn * h}, true
}

// notifyPipeline notifies the app about pipeline-relevant changes.
func (s *Server) notifyPipeline(reason string) {
	if s.onPipelineChange != nil {
		s.onPipelineChange(reason)
	}
}
