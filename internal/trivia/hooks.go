package trivia

// Hooks is how a Room talks back to the transport layer without importing
// it: public/host broadcasts and per-player private envelopes (§4.1, §6.3).
// All four must be non-blocking from the room actor's point of view
// (§5 "snapshot fan-out is non-blocking send") — the implementation
// supplied by internal/transport is expected to buffer or drop-and-log
// rather than block the room's serial loop.
type Hooks struct {
	// BroadcastPublic sends the public room:state snapshot to every
	// connection joined to the room group.
	BroadcastPublic func(roomCode string, payload PublicSnapshot)

	// SendHost sends a host:state snapshot to the current host connection,
	// if any.
	SendHost func(roomCode string, payload HostSnapshot)

	// SendPlayer sends a named private event to one player's connection,
	// if currently connected. event is one of player:reveal,
	// wager:extra_hint, wager:fifty_fifty, item:freeze_time,
	// revive:pending, revive:result.
	SendPlayer func(roomCode, playerID, event string, payload any)

	// BroadcastEvent sends a named room-wide event with no snapshot
	// semantics (wager:spotlight, wager:siren).
	BroadcastEvent func(roomCode, event string, payload any)
}

func noopHooks() Hooks {
	return Hooks{
		BroadcastPublic: func(string, PublicSnapshot) {},
		SendHost:        func(string, HostSnapshot) {},
		SendPlayer:      func(string, string, string, any) {},
		BroadcastEvent:  func(string, string, any) {},
	}
}
