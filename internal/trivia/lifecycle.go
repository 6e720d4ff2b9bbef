package trivia

import "time"

// startQuestion implements §4.4 startQuestion(q, opts): reset lock-ins, set
// up CurrentQuestion, schedule the countdown timer, and enter PhaseCountdown.
func (r *Room) startQuestion(q QuestionRecord, durationMsOverride *int, isWager bool) {
	for _, p := range r.Players {
		p.LockedIn = false
	}

	durationMs := r.currentActConfig().QuestionDurationMs
	if durationMsOverride != nil {
		durationMs = *durationMsOverride
	}

	instanceID := NewQuestionInstanceID()
	countdownEndsAt := timeNow().Add(time.Duration(r.Config.CountdownMs) * time.Millisecond)
	r.CurrentQuestion = newCurrentQuestion(instanceID, q, countdownEndsAt, durationMs, isWager)
	r.Phase = PhaseCountdown

	r.schedule(time.Duration(r.Config.CountdownMs)*time.Millisecond, func() {
		r.onCountdownFired(instanceID)
	})

	r.publish()
}

// onCountdownFired is the countdown→question|boss auto-advance (§4.3). It
// re-validates that the room is still in countdown for the same question
// instance before acting, tolerating a racing host command (§5, §9).
func (r *Room) onCountdownFired(instanceID string) {
	if r.Phase != PhaseCountdown {
		return
	}
	if r.CurrentQuestion == nil || r.CurrentQuestion.InstanceID != instanceID {
		return
	}

	if r.BossState != nil && r.ActState != nil && r.ActState.ActID == ActBossFight {
		r.Phase = PhaseBoss
	} else {
		r.Phase = PhaseQuestion
	}
	r.publish()
}

// GameStart implements game:start — lobby→countdown, auto-selecting
// homeroom (§4.3).
func (r *Room) GameStart() error {
	if r.Phase != PhaseLobby {
		return ErrGameAlreadyInProgress
	}
	return r.StartAct(ActHomeroom)
}

// StartBoss implements boss:start, a dedicated entry point into the
// boss_fight act equivalent to act:start{actId:"boss_fight"} (§4.3, §6.2).
func (r *Room) StartBoss() error {
	return r.StartAct(ActBossFight)
}

// StartAct implements act:start {actId}: lobby|intermission→countdown, or
// →wager when the act is wager_round, enforcing the forward-only act
// ordering rule (§4.3). It is rejected from any other phase, shop included.
func (r *Room) StartAct(actID ActID) error {
	if r.Phase != PhaseLobby && r.Phase != PhaseIntermission {
		return ErrWrongPhase
	}

	var cur *ActID
	if r.ActState != nil {
		id := r.ActState.ActID
		cur = &id
	}
	if !IsLaterAct(cur, actID) {
		return ErrActOrderViolation
	}

	cfg, ok := r.actConfigs[actID]
	if !ok {
		return ErrNoQuestionsForAct
	}
	questions, err := r.catalogue.Questions(r.PackID, actID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return ErrNoQuestionsForAct
	}

	r.ActState = NewActState(actID, cfg, questions, r.rng)
	r.ShopOpen = false
	r.PendingRevive = nil

	if actID == ActBossFight {
		r.BossState = NewBossState(r.Config.BossHp)
	}

	q, ok := r.ActState.NextQuestion()
	if !ok {
		return ErrNoQuestionsForAct
	}

	if actID == ActWager {
		return r.startWager(q)
	}
	r.startQuestion(q, nil, false)
	return nil
}

// Reveal implements question:reveal — question|boss→reveal, gated on
// reaching the reveal instant (natural or forced) and runs adjudication
// (§4.3, §4.5).
func (r *Room) Reveal() error {
	if r.Phase != PhaseQuestion && r.Phase != PhaseBoss {
		return ErrWrongPhase
	}
	cq := r.CurrentQuestion
	if cq == nil || cq.Locked {
		return ErrWrongPhase
	}

	revealAt := cq.EffectiveRevealAt(r.activePlayerIDs())
	if timeNow().Before(revealAt) {
		return ErrRevealTooEarly
	}

	cq.Locked = true
	envelopes := r.adjudicate()
	ended := r.checkEndGame()
	if !ended {
		r.Phase = PhaseReveal
	}

	r.publish()

	for id, env := range envelopes {
		r.Hooks.SendPlayer(r.Code, id, "player:reveal", env)
	}
	return nil
}

// checkEndGame implements the terminal condition of §4.3/§4.5: all alive
// players at 0 lives, or (boss act) boss HP at 0.
func (r *Room) checkEndGame() bool {
	if r.aliveCount() == 0 {
		r.Phase = PhaseEnded
		return true
	}
	if r.BossState.Defeated() {
		r.Phase = PhaseEnded
		return true
	}
	return false
}

// checkAllDoneShortCircuit implements the §4.4 forced-reveal rule: once
// every active player is locked-in or past their personal deadline, set
// ForcedRevealAt so the host's question:reveal becomes immediately
// permissible.
func (r *Room) checkAllDoneShortCircuit() {
	cq := r.CurrentQuestion
	if cq == nil || cq.Locked || cq.ForcedRevealAt != nil {
		return
	}
	if r.Phase != PhaseQuestion && r.Phase != PhaseBoss {
		return
	}

	now := timeNow()
	for _, id := range r.activePlayerIDs() {
		p := r.Players[id]
		done := p.LockedIn || !now.Before(cq.PlayerEndsAt(id))
		if !done {
			return
		}
	}
	t := now
	cq.ForcedRevealAt = &t
}

// NextQuestion implements question:next — reveal→(question/countdown |
// wager | intermission | ended) (§4.3).
func (r *Room) NextQuestion() error {
	if r.Phase != PhaseReveal {
		return ErrWrongPhase
	}
	r.CurrentQuestion = nil

	if r.ActState == nil {
		r.Phase = PhaseEnded
		r.publish()
		return nil
	}

	q, ok := r.ActState.NextQuestion()
	if !ok {
		r.Phase = PhaseIntermission
		r.publish()
		return nil
	}

	if r.ActState.ActID == ActWager {
		return r.startWager(q)
	}
	r.startQuestion(q, nil, false)
	return nil
}

// SetShopOpen implements shop:open {open} (§4.7). Opening is permitted from
// reveal, shop, or intermission; the phase the shop interrupted is resumed
// when it closes.
func (r *Room) SetShopOpen(open bool) error {
	if open {
		if r.Phase != PhaseReveal && r.Phase != PhaseShop && r.Phase != PhaseIntermission {
			return ErrShopWrongPhase
		}
		if r.Phase != PhaseShop {
			r.shopReturnPhase = r.Phase
			r.Phase = PhaseShop
		}
		r.ShopOpen = true
	} else {
		if !r.ShopOpen {
			return ErrShopClosed
		}
		r.ShopOpen = false
		if r.Phase == PhaseShop {
			r.Phase = r.shopReturnPhase
		}
	}
	r.publish()
	return nil
}

// Answer implements player:answer {answerIndex} (§4.4): records or replaces
// a player's choice while the question is open and their personal deadline
// hasn't passed. Answering after lock-in is rejected, with one exception:
// an ALL_IN wager player may submit exactly one post-lockin "final swap"
// (§4.6 post-lock-in swap, testable property 5). Answering again before
// lock-in simply overwrites the previous choice.
func (r *Room) Answer(playerID string, choiceIndex int) error {
	if r.Phase != PhaseQuestion && r.Phase != PhaseBoss {
		return ErrWrongPhase
	}
	cq := r.CurrentQuestion
	if cq == nil || cq.Locked {
		return ErrQuestionLocked
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !p.Active() {
		return ErrEliminated
	}
	finalSwap := false
	if p.LockedIn {
		if !r.allowsFinalSwap(playerID) {
			return ErrAnswerLockedIn
		}
		finalSwap = true
	}
	if choiceIndex < 0 || choiceIndex >= len(cq.Question.Choices) {
		return ErrInvalidAnswerIndex
	}
	if !timeNow().Before(cq.EffectiveDeadline(playerID, r.activePlayerIDs())) {
		return ErrTimeIsUp
	}

	if finalSwap {
		p.WagerSwapUsed = true
	}
	cq.Answers[playerID] = choiceIndex
	r.publish()
	return nil
}

// allowsFinalSwap reports whether playerID is an ALL_IN wager player who
// hasn't yet used their one post-lockin swap on the live wager question
// (§4.6 post-lock-in swap).
func (r *Room) allowsFinalSwap(playerID string) bool {
	cq := r.CurrentQuestion
	ws := r.WagerState
	p, ok := r.Players[playerID]
	if !ok || cq == nil || !cq.IsWagerQuestion || ws == nil {
		return false
	}
	if p.WagerSwapUsed {
		return false
	}
	return ws.Tiers[playerID] == TierAllIn
}

// LockIn implements player:lockin, freezing a player's current answer
// ahead of their personal deadline and contributing to the all-done
// short-circuit that lets the host reveal early (§4.4).
func (r *Room) LockIn(playerID string) error {
	if r.Phase != PhaseQuestion && r.Phase != PhaseBoss {
		return ErrWrongPhase
	}
	cq := r.CurrentQuestion
	if cq == nil || cq.Locked {
		return ErrQuestionLocked
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !p.Active() {
		return ErrEliminated
	}
	if p.LockedIn {
		return ErrAnswerLockedIn
	}
	if _, hasAnswer := cq.Answers[playerID]; !hasAnswer {
		return ErrNoAnswerYet
	}
	if !timeNow().Before(cq.EffectiveDeadline(playerID, r.activePlayerIDs())) {
		return ErrTimeIsUp
	}

	p.LockedIn = true
	cq.LockinTime[playerID] = timeNow()
	r.checkAllDoneShortCircuit()
	r.publish()
	return nil
}
