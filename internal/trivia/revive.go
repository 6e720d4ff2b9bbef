package trivia

import "time"

// PendingRevive is at most one per room at a time (§3).
type PendingRevive struct {
	PlayerID    string
	PlayerName  string
	RequestedAt time.Time
}
