package trivia

import "math/rand"

// ActID names a stage of the game, GLOSSARY.
type ActID string

const (
	ActHomeroom  ActID = "homeroom"
	ActPopQuiz   ActID = "pop_quiz"
	ActFieldTrip ActID = "field_trip"
	ActWager     ActID = "wager_round"
	ActBossFight ActID = "boss_fight"
)

// ActOrder is the fixed forward order acts progress through, §4.3.
var ActOrder = []ActID{ActHomeroom, ActPopQuiz, ActFieldTrip, ActWager, ActBossFight}

func actIndex(id ActID) int {
	for i, a := range ActOrder {
		if a == id {
			return i
		}
	}
	return -1
}

// IsLaterAct reports whether next is strictly later than cur in ActOrder.
// A nil cur (lobby, no act yet) is satisfied by any valid act.
func IsLaterAct(cur *ActID, next ActID) bool {
	ni := actIndex(next)
	if ni < 0 {
		return false
	}
	if cur == nil {
		return true
	}
	ci := actIndex(*cur)
	return ni > ci
}

// ActConfig configures question timing, heart-loss policy, scoring and the
// allowed shop items for one act (§3 ActState).
type ActConfig struct {
	QuestionDurationMs int
	HeartsAtRisk       bool
	HeartsOnlyOnHard   bool
	ScoreMultiplier    float64
	CoinRewardBase     int
	SpeedBonusMax      int
	AllowedShopItems   map[string]bool
}

// DefaultActConfigs mirrors the fixed act roster, tuned so each act reads
// distinctly: homeroom is the gentle opener, pop_quiz tightens the clock,
// field_trip is where hearts start mattering, wager_round has its own
// scoring path entirely (see Adjudicator), boss_fight is the finale.
func DefaultActConfigs() map[ActID]ActConfig {
	allItems := map[string]bool{
		ItemDoublePoints: true,
		ItemShield:       true,
		ItemBuybackToken: true,
		ItemFiftyFifty:   true,
		ItemFreezeTime:   true,
	}
	return map[ActID]ActConfig{
		ActHomeroom: {
			QuestionDurationMs: 22_000,
			HeartsAtRisk:       false,
			ScoreMultiplier:    1.0,
			CoinRewardBase:     50,
			SpeedBonusMax:      20,
			AllowedShopItems:   allItems,
		},
		ActPopQuiz: {
			QuestionDurationMs: 18_000,
			HeartsAtRisk:       false,
			HeartsOnlyOnHard:   true,
			ScoreMultiplier:    1.25,
			CoinRewardBase:     60,
			SpeedBonusMax:      30,
			AllowedShopItems:   allItems,
		},
		ActFieldTrip: {
			QuestionDurationMs: 20_000,
			HeartsAtRisk:       true,
			ScoreMultiplier:    1.5,
			CoinRewardBase:     70,
			SpeedBonusMax:      25,
			AllowedShopItems:   allItems,
		},
		ActWager: {
			QuestionDurationMs: 25_000,
			HeartsAtRisk:       false,
			ScoreMultiplier:    1.0,
			CoinRewardBase:     0,
			SpeedBonusMax:      0,
			AllowedShopItems:   map[string]bool{},
		},
		ActBossFight: {
			QuestionDurationMs: 15_000,
			HeartsAtRisk:       true,
			ScoreMultiplier:    2.0,
			CoinRewardBase:     100,
			SpeedBonusMax:      15,
			AllowedShopItems: map[string]bool{
				ItemFiftyFifty: true,
				ItemFreezeTime: true,
			},
		},
	}
}

// QuestionRecord is the catalogue's read-only question shape (contract
// owned by the external Question Catalogue, §1/§2).
type QuestionRecord struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Choices  []string `json:"choices"`
	Correct  int      `json:"correct"`
	Value    int      `json:"value"`
	Hard     bool     `json:"hard"`
	Category string   `json:"category,omitempty"`
}

// ActState is the in-room instance of an act: its shuffled question order
// and cursor (§3).
type ActState struct {
	ActID         ActID
	Config        ActConfig
	Questions     []QuestionRecord
	QuestionIndex int
}

func NewActState(id ActID, cfg ActConfig, questions []QuestionRecord, rng *rand.Rand) *ActState {
	shuffled := make([]QuestionRecord, len(questions))
	copy(shuffled, questions)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &ActState{
		ActID:         id,
		Config:        cfg,
		Questions:     shuffled,
		QuestionIndex: -1,
	}
}

// NextQuestion advances the cursor and returns the next question, or false
// if the act is exhausted.
func (a *ActState) NextQuestion() (QuestionRecord, bool) {
	if a == nil {
		return QuestionRecord{}, false
	}
	next := a.QuestionIndex + 1
	if next >= len(a.Questions) {
		return QuestionRecord{}, false
	}
	a.QuestionIndex = next
	return a.Questions[next], true
}
