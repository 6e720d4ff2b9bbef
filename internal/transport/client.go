/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package transport wires rooms to websocket connections: it generalizes
// the teacher's per-game Hub/Client pair (one connection set, one
// register/unregister channel pair, one readPump/writePump split) from a
// single in-process hub to many concurrently-running trivia.Room actors
// looked up through a Registry, and adds the request/acknowledgement
// envelope the teacher's fire-and-forget messages never needed.
package transport

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Role identifies what a connection is allowed to do in its room.
type Role string

const (
	RoleHost    Role = "host"
	RolePlayer  Role = "player"
	RoleWatcher Role = "watcher"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Client is one websocket connection, always associated with exactly one
// room for its lifetime (matching the teacher's Client/Hub pairing; unlike
// the teacher, a client outlives a single connection across reconnects by
// keeping the same ConnID in a cookie, see getOrSetConnID in server.go).
type Client struct {
	ConnID   string
	RoomCode string
	Role     Role
	PlayerID string

	conn *websocket.Conn
	send chan []byte
	log  *zap.SugaredLogger
}

func newClient(connID, roomCode string, role Role, playerID string, conn *websocket.Conn, log *zap.SugaredLogger) *Client {
	return &Client{
		ConnID:   connID,
		RoomCode: roomCode,
		Role:     role,
		PlayerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		log:      log,
	}
}

// enqueue drops the frame rather than blocking the caller (typically the
// room's own actor goroutine via Hooks) when a slow client's buffer is full.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.log.Warnw("dropping frame for slow client", "conn", c.ConnID)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// inboundEnvelope is the single flattened shape every client->server frame
// decodes into; unused fields for a given Type are simply left zero
// (SPEC_FULL.md §1, ack envelope design).
type inboundEnvelope struct {
	Type  string `json:"type"`
	ReqID string `json:"reqId"`

	Code     string `json:"code,omitempty"`
	Name     string `json:"name,omitempty"`
	HostKey  string `json:"hostKey,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	ActID    string `json:"actId,omitempty"`

	ChoiceIndex *int  `json:"answerIndex,omitempty"`
	Amount      *int  `json:"amount,omitempty"`
	ItemID      string `json:"itemId,omitempty"`
	Open        *bool `json:"open,omitempty"`

	Config json.RawMessage `json:"config,omitempty"`
}

// outboundAck is the reply to exactly one inbound envelope (SPEC_FULL.md §1).
type outboundAck struct {
	Type  string `json:"type"`
	ReqID string `json:"reqId"`
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// outboundEvent is every server->client push that isn't an ack reply.
type outboundEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"type":"error","error":"internal encode failure"}`)
	}
	return data
}
