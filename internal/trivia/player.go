package trivia

import "time"

// Player is identified by an opaque ID stable across reconnects (§3).
type Player struct {
	ID           string
	Name         string
	ConnectionID string
	Connected    bool
	JoinedAt     time.Time

	Lives      int
	Score      int
	Coins      int
	Eliminated bool
	LockedIn   bool

	Inventory map[string]int

	Wager          int
	WagerSubmitted bool
	WagerSwapUsed  bool

	Buffs PlayerBuffs
}

// PlayerBuffs are derived passive buffs, armed by a shop purchase and
// consumed at reveal time (§4.7).
type PlayerBuffs struct {
	DoublePoints bool
	Shield       bool
}

func NewPlayer(id, name, connectionID string, startingCoins int) *Player {
	return &Player{
		ID:           id,
		Name:         name,
		ConnectionID: connectionID,
		Connected:    true,
		JoinedAt:     time.Now(),
		Lives:        0, // set by room once maxLives is known
		Coins:        startingCoins,
		Inventory:    make(map[string]int),
	}
}

// Active returns true if the player can still act this round: connected
// state is irrelevant here, only elimination matters (§4.4, §5 disconnect
// handling: the room advances around disconnected-but-not-eliminated
// players via personal deadlines, not by treating them as inactive).
func (p *Player) Active() bool {
	return !p.Eliminated
}
