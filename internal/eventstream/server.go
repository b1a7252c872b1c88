// ABOUTME: WebSocket endpoint broadcasting build and token events to clients
// ABOUTME: Connections are tracked in a hub; failed writes drop the connection

package eventstream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/logger"
)

// Event is the wire format of the stream.
type Event struct {
	Type    string          `json:"type"`
	BuildID int             `json:"build_id,omitempty"`
	Status  api.BuildStatus `json:"status,omitempty"`
	Token   string          `json:"token,omitempty"`
}

const (
	EventTypeBuildStatus = "build_status"
	EventTypeToken       = "token"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the web UI origin
	},
}

type Server struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewServer() *Server {
	return &Server{conns: map[*websocket.Conn]struct{}{}}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	// The stream is one-way; the read loop only notices disconnects.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends an event to every connected client.
func (s *Server) Broadcast(ev Event) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(ev); err != nil {
			logger.Debug("dropping event stream client: %v", err)
			s.drop(conn)
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}
