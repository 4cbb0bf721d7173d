// Package control exposes the engine's control surface over a websocket
// endpoint so external hosts can pause the solver or inject splats.
package control

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Surface is the engine control contract handed over once the engine
// signals readiness. All methods are safe to call off the render thread.
type Surface interface {
	Pause()
	Resume()
	IsPaused() bool
	AddRandomSplats(count int)
	SplatAt(x, y, dx, dy float64)
}

// Command is one inbound control message.
type Command struct {
	Op    string  `json:"op"` // pause | resume | splat | burst | status
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`
	Count int     `json:"count,omitempty"`
}

// Status is the reply sent after every command.
type Status struct {
	OK     bool   `json:"ok"`
	Paused bool   `json:"paused"`
	Error  string `json:"error,omitempty"`
}

// Server accepts websocket connections and applies commands to the
// surface.
type Server struct {
	surface Surface
	logger  *slog.Logger

	upgrader websocket.Upgrader
}

// NewServer creates a control server for the given surface.
func NewServer(surface Surface, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		surface: surface,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ListenAndServe blocks serving the /ws endpoint on addr. Intended to run
// in its own goroutine.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.logger.Info("control surface listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Info("control client connected", "remote", r.RemoteAddr)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("control read failed", "error", err)
			}
			return
		}

		status := s.apply(cmd)
		if err := conn.WriteJSON(status); err != nil {
			s.logger.Warn("control write failed", "error", err)
			return
		}
	}
}

// apply executes one command against the surface.
func (s *Server) apply(cmd Command) Status {
	switch cmd.Op {
	case "pause":
		s.surface.Pause()
	case "resume":
		s.surface.Resume()
	case "splat":
		s.surface.SplatAt(cmd.X, cmd.Y, cmd.DX, cmd.DY)
	case "burst":
		count := cmd.Count
		if count <= 0 {
			count = 5
		}
		s.surface.AddRandomSplats(count)
	case "status":
		// Reply below carries the state.
	default:
		return Status{OK: false, Paused: s.surface.IsPaused(), Error: "unknown op: " + cmd.Op}
	}
	return Status{OK: true, Paused: s.surface.IsPaused()}
}
