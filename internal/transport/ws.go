/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package transport

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/trivia-party/internal/trivia"
)

// ServeWS upgrades the connection, resolves the room from the ?code= query
// parameter, and decides the connection's role: the bearer of a valid
// ?hostKey= is the host, a known ?playerId= resumes a player, a bare
// ?code= with neither joins nothing and becomes a watcher. Every role is
// added to the room's client set here, so a watcher receives room:state
// broadcasts without sending room:watch; becoming a player still needs
// room:join, which is lobby-only.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if code == "" {
		code = r.URL.Query().Get("code")
	}
	if code == "" {
		http.Error(w, "missing room code", http.StatusBadRequest)
		return
	}
	if err := trivia.ValidateRoomCode(code); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room, ok := s.reg.Get(code)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	connID := getOrSetConnID(w, r)
	if connID == "" {
		http.Error(w, "unable to assign connection id", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	role := RoleWatcher
	playerID := ""
	hostKey := r.URL.Query().Get("hostKey")
	resumePlayerID := r.URL.Query().Get("playerId")

	switch {
	case hostKey != "" && room.AuthorizeHost(hostKey) == nil:
		role = RoleHost
		room.Submit(func() { _ = room.ResumeHost(connID, hostKey) })
	case resumePlayerID != "":
		role = RolePlayer
		playerID = resumePlayerID
		room.Submit(func() { _, _ = room.ResumePlayer(connID, resumePlayerID) })
	default:
		room.Submit(func() { room.Watch(connID) })
	}

	s.reg.Associate(connID, code)

	client := newClient(connID, code, role, playerID, conn, s.log)
	s.addClient(client)

	go client.writePump()
	s.readPump(client)
}

func (s *Server) readPump(c *Client) {
	defer func() {
		s.removeClient(c)
		s.limiter.Drop(c.ConnID)
		s.reg.DropConnection(c.ConnID)
		if room, ok := s.reg.Get(c.RoomCode); ok {
			room.Submit(func() { room.Disconnect(c.ConnID) })
		}
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		if !s.limiter.Allow(c.ConnID) {
			// §5 rate limiting: the only violation that closes the
			// connection outright. Room state survives; the client may
			// reconnect and resume (§4.9).
			return
		}

		var env inboundEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.enqueue(encode(outboundAck{Type: "ack", OK: false, Error: "malformed frame"}))
			continue
		}

		s.dispatch(c, env)
	}
}

// dispatch routes one inbound frame to the named room's actor goroutine and
// replies with an ack envelope carrying the same reqId (SPEC_FULL.md §1).
func (s *Server) dispatch(c *Client, env inboundEnvelope) {
	room, ok := s.reg.Get(c.RoomCode)
	if !ok {
		s.ack(c, env.ReqID, nil, trivia.ErrRoomNotFound)
		return
	}

	var data any
	var err error

	room.Submit(func() {
		data, err = s.handle(room, c, env)
	})

	s.ack(c, env.ReqID, data, err)
}

func (s *Server) ack(c *Client, reqID string, data any, err error) {
	if err != nil {
		c.enqueue(encode(outboundAck{Type: "ack", ReqID: reqID, OK: false, Error: err.Error()}))
		return
	}
	c.enqueue(encode(outboundAck{Type: "ack", ReqID: reqID, OK: true, Data: data}))
}

// hostOnlyEvents names every inbound event that mutates host-authorized
// state (§4.1: "if mutating host state, a host token"). A connection must
// have authenticated as the room's host — at handshake via ?hostKey=, or
// mid-session via room:resume{hostKey} — before any of these succeed.
var hostOnlyEvents = map[string]bool{
	"game:configure":      true,
	"game:start":          true,
	"act:start":           true,
	"boss:start":          true,
	"question:reveal":     true,
	"question:next":       true,
	"shop:open":           true,
	"wager:lock":          true,
	"wager:spotlight_end": true,
	"revive:approve":      true,
	"revive:decline":      true,
}

// handle runs entirely on the room's actor goroutine (called from inside
// room.Submit), so every trivia.Room method it calls observes and mutates
// consistent state.
func (s *Server) handle(room *trivia.Room, c *Client, env inboundEnvelope) (any, error) {
	if hostOnlyEvents[env.Type] && c.Role != RoleHost {
		return nil, trivia.ErrNotAuthorized
	}

	switch env.Type {
	case "room:join":
		p, err := room.Join(c.ConnID, env.Name)
		if err != nil {
			return nil, err
		}
		c.Role = RolePlayer
		c.PlayerID = p.ID
		return map[string]string{"playerId": p.ID}, nil

	case "room:resume":
		if env.HostKey != "" {
			if err := room.ResumeHost(c.ConnID, env.HostKey); err != nil {
				return nil, err
			}
			c.Role = RoleHost
			return nil, nil
		}
		_, err := room.ResumePlayer(c.ConnID, env.PlayerID)
		if err == nil {
			c.Role = RolePlayer
			c.PlayerID = env.PlayerID
		}
		return nil, err

	case "room:watch":
		room.Watch(c.ConnID)
		return nil, nil

	case "room:leave":
		return nil, room.Leave(c.ConnID, env.PlayerID)

	case "game:configure":
		var patch trivia.RoomConfigPatch
		if len(env.Config) > 0 {
			if err := json.Unmarshal(env.Config, &patch); err != nil {
				return nil, trivia.DomainError("invalid config payload")
			}
		}
		return nil, room.Configure(patch)

	case "game:start":
		return nil, room.GameStart()

	case "act:start":
		return nil, room.StartAct(trivia.ActID(env.ActID))

	case "boss:start":
		return nil, room.StartBoss()

	case "question:reveal":
		return nil, room.Reveal()

	case "question:next":
		return nil, room.NextQuestion()

	case "player:answer":
		if env.ChoiceIndex == nil {
			return nil, trivia.ErrInvalidAnswerIndex
		}
		return nil, room.Answer(c.PlayerID, *env.ChoiceIndex)

	case "player:lockin":
		return nil, room.LockIn(c.PlayerID)

	case "wager:set":
		if env.Amount == nil {
			return nil, trivia.DomainError("missing amount")
		}
		return nil, room.WagerSet(c.PlayerID, *env.Amount)

	case "wager:lock":
		return nil, room.WagerLock()

	case "wager:spotlight_end":
		return nil, room.WagerSpotlightEnd()

	case "shop:open":
		open := env.Open != nil && *env.Open
		return nil, room.SetShopOpen(open)

	case "shop:buy":
		return nil, room.ShopBuy(c.PlayerID, env.ItemID)

	case "item:use":
		return nil, room.ItemUse(c.PlayerID, env.ItemID)

	case "revive:request":
		return nil, room.ReviveRequest(c.PlayerID)

	case "revive:approve":
		return nil, room.ReviveApprove()

	case "revive:decline":
		return nil, room.ReviveDecline()

	case "player:buyback":
		return nil, room.Buyback(c.PlayerID)

	default:
		return nil, trivia.DomainError("unknown event type")
	}
}
