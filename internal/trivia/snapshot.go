package trivia

import "time"

// PublicPlayerView is what every connection in the room sees about a player.
type PublicPlayerView struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Connected  bool   `json:"connected"`
	Lives      int    `json:"lives"`
	Score      int    `json:"score"`
	Coins      int    `json:"coins"`
	Eliminated bool   `json:"eliminated"`
	LockedIn   bool   `json:"lockedIn"`
}

// PublicQuestionView strips the correct answer and other players' choices.
type PublicQuestionView struct {
	QuestionID      string    `json:"questionId"`
	Prompt          string    `json:"prompt"`
	Choices         []string  `json:"choices"`
	CountdownEndsAt time.Time `json:"countdownEndsAt"`
	EndsAt          time.Time `json:"endsAt"`
	Locked          bool      `json:"locked"`
}

// PublicSnapshot is the room:state broadcast (§6.3).
type PublicSnapshot struct {
	RoomCode        string                `json:"roomCode"`
	Phase           Phase                 `json:"phase"`
	Players         []PublicPlayerView    `json:"players"`
	ActID           *ActID                `json:"actId,omitempty"`
	QuestionIndex   int                   `json:"questionIndex,omitempty"`
	CurrentQuestion *PublicQuestionView   `json:"currentQuestion,omitempty"`
	ShopOpen        bool                  `json:"shopOpen"`
	BossHP          *int                  `json:"bossHp,omitempty"`
	BossMaxHP       *int                  `json:"bossMaxHp,omitempty"`
	WagerDeadline   *time.Time            `json:"wagerDeadline,omitempty"`
	WagerStage      *WagerStage           `json:"wagerStage,omitempty"`
}

// HostSnapshot adds host-only fields to the public view (§6.3).
type HostSnapshot struct {
	PublicSnapshot
	CorrectAnswerIndex *int           `json:"correctAnswerIndex,omitempty"`
	PendingRevive      *PendingRevive `json:"pendingRevive,omitempty"`
	AvailableActs      []ActID        `json:"availableActs"`
}

// PlayerRevealEnvelope summarises one player's outcome at reveal (§4.5).
type PlayerRevealEnvelope struct {
	QuestionID    string `json:"questionId"`
	CorrectIndex  int    `json:"correctIndex"`
	YourAnswer    *int   `json:"yourAnswer"`
	Correct       bool   `json:"correct"`
	ScoreDelta    int    `json:"scoreDelta"`
	CoinsDelta    int    `json:"coinsDelta"`
	LivesDelta    int    `json:"livesDelta"`
	ShieldUsed    bool   `json:"shieldUsed"`
	DoublePoints  bool   `json:"doublePoints"`
	BuybackUsed   bool   `json:"buybackUsed"`
	SpeedBonus    int    `json:"speedBonus"`
	Wager         *int   `json:"wager,omitempty"`
	Eliminated    bool   `json:"eliminated"`
}

func (r *Room) playerView(p *Player) PublicPlayerView {
	return PublicPlayerView{
		PlayerID:   p.ID,
		Name:       p.Name,
		Connected:  p.Connected,
		Lives:      p.Lives,
		Score:      p.Score,
		Coins:      p.Coins,
		Eliminated: p.Eliminated,
		LockedIn:   p.LockedIn,
	}
}

// BuildPublicSnapshot renders the current room state for broadcast.
func (r *Room) BuildPublicSnapshot() PublicSnapshot {
	players := make([]PublicPlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, r.playerView(p))
	}

	snap := PublicSnapshot{
		RoomCode: r.Code,
		Phase:    r.Phase,
		Players:  players,
		ShopOpen: r.ShopOpen,
	}

	if r.ActState != nil {
		id := r.ActState.ActID
		snap.ActID = &id
		snap.QuestionIndex = r.ActState.QuestionIndex
	}

	if r.CurrentQuestion != nil {
		q := r.CurrentQuestion
		snap.CurrentQuestion = &PublicQuestionView{
			QuestionID:      q.Question.ID,
			Prompt:          q.Question.Prompt,
			Choices:         q.Question.Choices,
			CountdownEndsAt: q.CountdownEndsAt,
			EndsAt:          q.EndsAt,
			Locked:          q.Locked,
		}
	}

	if r.BossState != nil {
		hp, maxHP := r.BossState.HP, r.BossState.MaxHP
		snap.BossHP = &hp
		snap.BossMaxHP = &maxHP
	}

	if r.WagerState != nil {
		snap.WagerDeadline = &r.WagerState.EndsAt
		stage := r.WagerState.Stage
		snap.WagerStage = &stage
	}

	return snap
}

// BuildHostSnapshot adds the host-only fields.
func (r *Room) BuildHostSnapshot() HostSnapshot {
	hs := HostSnapshot{PublicSnapshot: r.BuildPublicSnapshot()}

	if r.CurrentQuestion != nil && r.CurrentQuestion.Locked {
		idx := r.CurrentQuestion.Question.Correct
		hs.CorrectAnswerIndex = &idx
	}
	if r.PendingRevive != nil {
		pr := *r.PendingRevive
		hs.PendingRevive = &pr
	}

	hs.AvailableActs = r.availableActsLocked()

	return hs
}

func (r *Room) availableActsLocked() []ActID {
	out := make([]ActID, 0, len(ActOrder))
	var cur *ActID
	if r.ActState != nil {
		id := r.ActState.ActID
		cur = &id
	}
	for _, a := range ActOrder {
		if IsLaterAct(cur, a) {
			out = append(out, a)
		}
	}
	return out
}

// publish pushes the standard post-mutation broadcast pair: public snapshot
// to the room group, host-scoped snapshot to the host connection (§4.1).
func (r *Room) publish() {
	r.LastActivityAt = time.Now()
	r.Hooks.BroadcastPublic(r.Code, r.BuildPublicSnapshot())
	r.Hooks.SendHost(r.Code, r.BuildHostSnapshot())
}
