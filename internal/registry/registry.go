/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package registry holds every live Room keyed by its room code, generalizing
// the single-process GameManager pattern (a mutex-guarded map of sessions
// plus a periodic reaper goroutine) to rooms instead of hubs, and adding the
// connection-id -> room-code index the transport layer needs to route
// inbound frames without the caller tracking which room a socket belongs to.
package registry

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Seednode/trivia-party/internal/trivia"
)

// Registry is the process-wide set of live rooms.
type Registry struct {
	mu         sync.Mutex
	rooms      map[string]*trivia.Room
	connRoom   map[string]string
	catalogue  trivia.QuestionSource
	log        *zap.SugaredLogger
	defaultCfg trivia.RoomConfig
	hooks      trivia.Hooks
}

func New(catalogue trivia.QuestionSource, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		rooms:      make(map[string]*trivia.Room),
		connRoom:   make(map[string]string),
		catalogue:  catalogue,
		log:        log,
		defaultCfg: trivia.DefaultRoomConfig(),
	}
}

// SetHooks records the Hooks every subsequently-created room is wired to.
// Called once by the transport layer at startup, before any room exists,
// so Create can set a room's Hooks prior to starting its actor goroutine
// rather than have them assigned afterward from another goroutine (§5).
func (reg *Registry) SetHooks(h trivia.Hooks) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.hooks = h
}

// Create mints a fresh room code (retrying on collision, mirroring the
// teacher's newGameID loop) and starts the room's actor goroutine.
func (reg *Registry) Create(hostName, packID string) *trivia.Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var code string
	for {
		code = trivia.NewRoomCode()
		if _, exists := reg.rooms[code]; !exists {
			break
		}
	}

	room := trivia.NewRoom(code, packID, hostName, reg.defaultCfg, reg.catalogue, reg.log.With("room", code))
	room.Hooks = reg.hooks
	reg.rooms[code] = room
	go room.Run()
	return room
}

// Get looks up a room by code.
func (reg *Registry) Get(code string) (*trivia.Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[code]
	return r, ok
}

// Associate records that connID belongs to code, for routing inbound
// frames and for Drop on disconnect.
func (reg *Registry) Associate(connID, code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.connRoom[connID] = code
}

// RoomFor resolves a connection id back to its room, if any.
func (reg *Registry) RoomFor(connID string) (*trivia.Room, bool) {
	reg.mu.Lock()
	code, ok := reg.connRoom[connID]
	reg.mu.Unlock()
	if !ok {
		return nil, false
	}
	return reg.Get(code)
}

// DropConnection forgets a closed connection's room association.
func (reg *Registry) DropConnection(connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.connRoom, connID)
}

// Count reports the number of live rooms, for the health endpoint.
func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// ReapLoop periodically destroys rooms that are long-ended, globally idle,
// or abandoned by every connection (§4.2, §6.5), directly generalizing the
// teacher's reaperLoop from a single idleTimeout to the room's three
// distinct lifecycle checks.
func (reg *Registry) ReapLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		reg.sweep()
	}
}

func (reg *Registry) sweep() {
	now := time.Now()

	reg.mu.Lock()
	candidates := make(map[string]*trivia.Room, len(reg.rooms))
	for code, room := range reg.rooms {
		candidates[code] = room
	}
	reg.mu.Unlock()

	// ShouldReap blocks on each room's own actor goroutine, so it must run
	// outside reg.mu to avoid holding the registry lock for the sweep's
	// full duration.
	var dead []*trivia.Room
	for _, room := range candidates {
		if room.ShouldReap(now) {
			dead = append(dead, room)
		}
	}

	reg.mu.Lock()
	for _, room := range dead {
		delete(reg.rooms, room.Code)
	}
	for connID, code := range reg.connRoom {
		if _, exists := reg.rooms[code]; !exists {
			delete(reg.connRoom, connID)
		}
	}
	reg.mu.Unlock()

	for _, room := range dead {
		room.Stop()
		reg.log.Infow("reaped idle room", "room", room.Code)
	}
}
