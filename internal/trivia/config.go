package trivia

import "time"

// RoomConfig is a fixed-keys configuration structure. Partial host
// game:configure payloads are decoded onto a copy of this struct with
// unknown keys ignored; there is deliberately no map[string]any escape
// hatch here (see SPEC_FULL.md §1 on the fixed-keys config struct).
type RoomConfig struct {
	MaxLives         int `json:"maxLives"`
	CountdownMs      int `json:"countdownMs"`
	StartingCoins    int `json:"startingCoins"`
	BuybackCostCoins int `json:"buybackCostCoins"`
	BossHp           int `json:"bossHp"`
}

// RoomConfigPatch mirrors RoomConfig with pointer fields so a partial
// game:configure payload can express "leave unset fields alone."
type RoomConfigPatch struct {
	MaxLives         *int `json:"maxLives,omitempty"`
	CountdownMs      *int `json:"countdownMs,omitempty"`
	StartingCoins    *int `json:"startingCoins,omitempty"`
	BuybackCostCoins *int `json:"buybackCostCoins,omitempty"`
	BossHp           *int `json:"bossHp,omitempty"`
}

func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		MaxLives:         3,
		CountdownMs:      3000,
		StartingCoins:    150,
		BuybackCostCoins: 200,
		BossHp:           6,
	}
}

// Apply merges non-nil fields from p onto a copy of c.
func (c RoomConfig) Apply(p RoomConfigPatch) RoomConfig {
	out := c
	if p.MaxLives != nil {
		out.MaxLives = *p.MaxLives
	}
	if p.CountdownMs != nil {
		out.CountdownMs = *p.CountdownMs
	}
	if p.StartingCoins != nil {
		out.StartingCoins = *p.StartingCoins
	}
	if p.BuybackCostCoins != nil {
		out.BuybackCostCoins = *p.BuybackCostCoins
	}
	if p.BossHp != nil {
		out.BossHp = *p.BossHp
	}
	return out
}

// Lifecycle timeouts and scheduling constants, §6.5.
const (
	RoomIdleTimeout      = 2 * time.Hour
	EndedRoomTTL         = 10 * time.Minute
	NoConnectionTTL      = 15 * time.Minute
	CleanupInterval      = 5 * time.Minute
	WagerDuration        = 60 * time.Second
	FreezeBonusMs        = 10_000
	RoomCodeAlphabet     = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	RoomCodeLength       = 5
	MaxPlayersPerRoom    = 30
	RateLimitWindow      = 1 * time.Second
	RateLimitMaxEvents   = 20
	PlayerNameMinLen     = 2
	PlayerNameMaxLen     = 18
)

// WagerStageOffsets are offsets from WagerState.StartedAt, §3 and §4.6.
var WagerStageOffsets = map[WagerStage]time.Duration{
	WagerStageBlind:    0,
	WagerStageCategory: 15 * time.Second,
	WagerStageHint:     30 * time.Second,
	WagerStageRedline:  45 * time.Second,
	WagerStageClosing:  55 * time.Second,
	WagerStageLocked:   60 * time.Second,
}
