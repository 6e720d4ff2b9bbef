package trivia

import (
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Room is the unit of game state, owning all players, timers, the current
// phase, question, wager state, boss state and pending-revive ticket (§3).
// Every mutating method assumes it is called from within the room's single
// serial actor goroutine (Run/Submit below) — none of them take a lock,
// mirroring the teacher's per-Hub-goroutine ownership model generalized
// from a handful of typed channels to a single command queue (§5).
type Room struct {
	Code             string
	CreatedAt        time.Time
	LastActivityAt   time.Time
	HostToken        string
	HostConnectionID string
	HostName         string

	Phase  Phase
	Config RoomConfig
	PackID string

	Players            map[string]*Player
	ConnectionToPlayer map[string]string

	ActState        *ActState
	WagerState      *WagerState
	CurrentQuestion *CurrentQuestion
	ShopOpen        bool
	BossState       *BossState
	PendingRevive   *PendingRevive

	// shopReturnPhase remembers which phase shop:open{true} interrupted, so
	// shop:open{false} can resume it (§4.7).
	shopReturnPhase Phase
	// pendingWagerQuestion is the question the locked wager round is about
	// to start once the host sends wager:spotlight_end (§4.6).
	pendingWagerQuestion *QuestionRecord

	actConfigs map[ActID]ActConfig
	catalogue  QuestionSource
	rng        *rand.Rand
	log        *zap.SugaredLogger
	Hooks      Hooks

	cmds chan func()
	done chan struct{}
}

// NewRoom constructs a lobby-phase room. HostConnectionID starts empty and
// is set once the host connects its socket.
func NewRoom(code, packID, hostName string, cfg RoomConfig, catalogue QuestionSource, log *zap.SugaredLogger) *Room {
	now := time.Now()
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Room{
		Code:               code,
		CreatedAt:          now,
		LastActivityAt:     now,
		HostToken:          NewHostToken(),
		HostName:           hostName,
		Phase:              PhaseLobby,
		Config:             cfg,
		PackID:             packID,
		Players:            make(map[string]*Player),
		ConnectionToPlayer: make(map[string]string),
		actConfigs:         DefaultActConfigs(),
		catalogue:          catalogue,
		rng:                rand.New(rand.NewSource(now.UnixNano())),
		log:                log,
		Hooks:              noopHooks(),
		cmds:               make(chan func(), 64),
		done:               make(chan struct{}),
	}
}

// Run drives the room's serial command queue until Stop is called. Callers
// (the Room Registry) start this in its own goroutine per room.
func (r *Room) Run() {
	for {
		select {
		case fn := <-r.cmds:
			fn()
		case <-r.done:
			return
		}
	}
}

// Stop cancels the actor loop; any commands or timers still in flight are
// discarded (§5 cancellation, §9 fail-soft timers).
func (r *Room) Stop() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

// Submit runs fn on the room's actor goroutine and blocks until it
// completes. Safe to call concurrently from many connections; fn itself
// must not block on I/O (§5).
func (r *Room) Submit(fn func()) {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}
	select {
	case r.cmds <- wrapped:
		<-done
	case <-r.done:
	}
}

// schedule arranges for fn to run on the actor goroutine after d. Timer
// callbacks re-enter the serial queue exactly like inbound events (§5).
func (r *Room) schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		select {
		case r.cmds <- fn:
		case <-r.done:
		}
	})
}

// IsIdleEnded reports whether the reaper should destroy this room because
// it ended and has been idle past EndedRoomTTL (§4.2).
func (r *Room) IsIdleEnded(now time.Time) bool {
	return r.Phase == PhaseEnded && now.Sub(r.LastActivityAt) > EndedRoomTTL
}

// IsIdleTooLong reports the room-wide idle timeout (§4.2).
func (r *Room) IsIdleTooLong(now time.Time) bool {
	return now.Sub(r.LastActivityAt) > RoomIdleTimeout
}

// ShouldReap runs all three lifecycle checks from inside the actor
// goroutine via Submit, so the registry's reaper never reads Room fields
// concurrently with the room's own command processing.
func (r *Room) ShouldReap(now time.Time) bool {
	var dead bool
	r.Submit(func() {
		dead = r.IsIdleEnded(now) || r.IsIdleTooLong(now) || r.HasNoConnections(now)
	})
	return dead
}

// HasNoConnections reports whether every known connection has disconnected
// (host included) and it's been that way past NoConnectionTTL (§4.2). The
// caller is responsible for tracking "since when" — here we approximate
// using LastActivityAt since any (dis)connect touches it.
func (r *Room) HasNoConnections(now time.Time) bool {
	if now.Sub(r.LastActivityAt) <= NoConnectionTTL {
		return false
	}
	for _, p := range r.Players {
		if p.Connected {
			return false
		}
	}
	return r.HostConnectionID == ""
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateName(name string, existing map[string]*Player, excludePlayerID string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < PlayerNameMinLen || len(trimmed) > PlayerNameMaxLen {
		return ErrInvalidName
	}
	norm := normalizeName(trimmed)
	for id, p := range existing {
		if id == excludePlayerID {
			continue
		}
		if normalizeName(p.Name) == norm {
			return ErrNameTaken
		}
	}
	return nil
}

func (r *Room) activePlayerIDs() []string {
	out := make([]string, 0, len(r.Players))
	for id, p := range r.Players {
		if p.Active() {
			out = append(out, id)
		}
	}
	return out
}

func (r *Room) aliveCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Active() {
			n++
		}
	}
	return n
}
