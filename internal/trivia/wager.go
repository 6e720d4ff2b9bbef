package trivia

import "time"

// WagerStage is the strict stage sequence of the 60s wager round, GLOSSARY.
type WagerStage string

const (
	WagerStageBlind    WagerStage = "blind"
	WagerStageCategory WagerStage = "category"
	WagerStageHint     WagerStage = "hint"
	WagerStageRedline  WagerStage = "redline"
	WagerStageClosing  WagerStage = "closing"
	WagerStageLocked   WagerStage = "locked"
)

var wagerStageOrder = []WagerStage{
	WagerStageBlind, WagerStageCategory, WagerStageHint,
	WagerStageRedline, WagerStageClosing, WagerStageLocked,
}

func wagerStageIndex(s WagerStage) int {
	for i, v := range wagerStageOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Tier classifies a player's locked wager relative to their score, GLOSSARY.
type Tier string

const (
	TierSafe       Tier = "SAFE"
	TierBold       Tier = "BOLD"
	TierHighRoller Tier = "HIGH_ROLLER"
	TierInsane     Tier = "INSANE"
	TierAllIn      Tier = "ALL_IN"
)

// ComputeTier implements the §4.6 tier ladder, with w=0 or score=0 as SAFE.
func ComputeTier(score, wager int) Tier {
	if wager >= score && score > 0 {
		return TierAllIn
	}
	if wager == 0 || score == 0 {
		return TierSafe
	}
	ratio := float64(wager) / float64(score)
	switch {
	case ratio >= 0.8:
		return TierInsane
	case ratio >= 0.5:
		return TierHighRoller
	case ratio >= 0.25:
		return TierBold
	default:
		return TierSafe
	}
}

func tierAtLeast(t, floor Tier) bool {
	order := map[Tier]int{TierSafe: 0, TierBold: 1, TierHighRoller: 2, TierInsane: 3, TierAllIn: 4}
	return order[t] >= order[floor]
}

// FiftyFiftyPerk is the pre-generated 50/50 removal for a wager player
// (§4.6 step 3) — computed once at lock time and stored so reconnects see
// the same removals rather than a fresh random draw (§4.9, §9 design notes).
type FiftyFiftyPerk struct {
	RemovedIndexes []int
}

// WagerState is present only during wager / locked-spotlight / wager-question
// (§3).
type WagerState struct {
	QuestionInstanceID string
	StartedAt          time.Time
	EndsAt             time.Time
	Stage              WagerStage
	Locked             bool

	Wagers         map[string]int
	RemovedIndexes map[string]FiftyFiftyPerk
	Tiers          map[string]Tier

	SpotlightSent bool
	QuestionStarted bool
}

func NewWagerState(instanceID string, startedAt time.Time) *WagerState {
	return &WagerState{
		QuestionInstanceID: instanceID,
		StartedAt:          startedAt,
		EndsAt:             startedAt.Add(WagerDuration),
		Stage:              WagerStageBlind,
		Wagers:             make(map[string]int),
		RemovedIndexes:     make(map[string]FiftyFiftyPerk),
		Tiers:              make(map[string]Tier),
	}
}

// StageAt returns the stage that should be active at instant now.
func (w *WagerState) StageAt(now time.Time) WagerStage {
	elapsed := now.Sub(w.StartedAt)
	stage := WagerStageBlind
	for _, s := range wagerStageOrder {
		if elapsed >= WagerStageOffsets[s] {
			stage = s
		}
	}
	return stage
}

// isRedlineOrLater reports whether s has reached the no-decrease window.
func isRedlineOrLater(s WagerStage) bool {
	return wagerStageIndex(s) >= wagerStageIndex(WagerStageRedline)
}

// SpotlightEntry is one row of the post-lock spotlight tableau (§4.6 step 4).
type SpotlightEntry struct {
	PlayerID string
	Name     string
	Score    int
	Wager    int
	Tier     Tier
	Ratio    float64
}

type SpotlightPayload struct {
	TotalWagered int
	AllInCount   int
	ZeroBetCount int
	Biggest      *SpotlightEntry
	Top3         []SpotlightEntry
}
