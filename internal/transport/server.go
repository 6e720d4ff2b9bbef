/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package transport

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Seednode/trivia-party/internal/ratelimit"
	"github.com/Seednode/trivia-party/internal/registry"
	"github.com/Seednode/trivia-party/internal/trivia"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server fans room broadcasts out to every connected websocket and routes
// inbound frames back into the room they name, generalizing the teacher's
// single in-process Hub to the Registry's many concurrently-running rooms.
type Server struct {
	reg     *registry.Registry
	limiter *ratelimit.Limiter
	log     *zap.SugaredLogger

	mu      sync.Mutex
	clients map[string]map[*Client]bool // roomCode -> connected clients
	byConn  map[string]*Client
}

func New(reg *registry.Registry, limiter *ratelimit.Limiter, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		reg:     reg,
		limiter: limiter,
		log:     log,
		clients: make(map[string]map[*Client]bool),
		byConn:  make(map[string]*Client),
	}
	// Wired into the registry before any room is created, so every room
	// starts its actor goroutine with its Hooks already set instead of
	// having them assigned afterward from the HTTP goroutine (§5).
	reg.SetHooks(s.hooksFor())
	return s
}

// hooksFor builds the trivia.Hooks a freshly-created room wires itself to,
// routing every broadcast through this server's client set instead of a
// per-room channel (§4.1).
func (s *Server) hooksFor() trivia.Hooks {
	return trivia.Hooks{
		BroadcastPublic: func(roomCode string, payload trivia.PublicSnapshot) {
			s.broadcastRoom(roomCode, RoleHost, encode(outboundEvent{Type: "room:state", Payload: payload}), true)
		},
		SendHost: func(roomCode string, payload trivia.HostSnapshot) {
			s.sendToHost(roomCode, encode(outboundEvent{Type: "host:state", Payload: payload}))
		},
		SendPlayer: func(roomCode, playerID, event string, payload any) {
			s.sendToPlayer(roomCode, playerID, encode(outboundEvent{Type: event, Payload: payload}))
		},
		BroadcastEvent: func(roomCode, event string, payload any) {
			s.broadcastRoom(roomCode, "", encode(outboundEvent{Type: event, Payload: payload}), false)
		},
	}
}

// broadcastRoom sends frame to every client in roomCode. When
// excludeRoleFromPublic is true, host connections are skipped because
// BroadcastPublic's room:state omits host-only fields already delivered by
// the accompanying SendHost call.
func (s *Server) broadcastRoom(roomCode string, skipRole Role, frame []byte, excludeRoleFromPublic bool) {
	s.mu.Lock()
	set := s.clients[roomCode]
	targets := make([]*Client, 0, len(set))
	for c := range set {
		if excludeRoleFromPublic && c.Role == skipRole {
			continue
		}
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		c.enqueue(frame)
	}
}

func (s *Server) sendToHost(roomCode string, frame []byte) {
	s.mu.Lock()
	set := s.clients[roomCode]
	var host *Client
	for c := range set {
		if c.Role == RoleHost {
			host = c
			break
		}
	}
	s.mu.Unlock()

	if host != nil {
		host.enqueue(frame)
	}
}

func (s *Server) sendToPlayer(roomCode, playerID string, frame []byte) {
	s.mu.Lock()
	set := s.clients[roomCode]
	var target *Client
	for c := range set {
		if c.Role == RolePlayer && c.PlayerID == playerID {
			target = c
			break
		}
	}
	s.mu.Unlock()

	if target != nil {
		target.enqueue(frame)
	}
}

func (s *Server) addClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.clients[c.RoomCode]
	if !ok {
		set = make(map[*Client]bool)
		s.clients[c.RoomCode] = set
	}
	set[c] = true
	s.byConn[c.ConnID] = c
}

func (s *Server) removeClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.clients[c.RoomCode]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(s.clients, c.RoomCode)
		}
	}
	delete(s.byConn, c.ConnID)
}

const connCookieName = "trivia_conn_id"

func getOrSetConnID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(connCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     connCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// CreateRoom mints a new room through the registry, which wires the room's
// Hooks (set via reg.SetHooks in New) before starting its actor goroutine,
// and returns it to the HTTP layer for rendering the fresh room code / host
// key to whoever created it.
func (s *Server) CreateRoom(hostName, packID string) *trivia.Room {
	return s.reg.Create(hostName, packID)
}
