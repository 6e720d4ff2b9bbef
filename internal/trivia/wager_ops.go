package trivia

// startWager implements entering the wager_round act (§4.6): the room sits
// in PhaseWager for the fixed 60s staged window before the actual wager
// question is revealed to anyone. q is held back in pendingWagerQuestion
// until WagerSpotlightEnd starts it.
func (r *Room) startWager(q QuestionRecord) error {
	instanceID := NewQuestionInstanceID()
	now := timeNow()

	r.pendingWagerQuestion = &q
	r.WagerState = NewWagerState(instanceID, now)
	r.Phase = PhaseWager

	for _, p := range r.Players {
		p.WagerSubmitted = false
		p.WagerSwapUsed = false
		p.Wager = 0
	}

	r.scheduleWagerTimers(instanceID)
	r.publish()
	return nil
}

// scheduleWagerTimers arranges one-shot timers for every stage after blind,
// including the terminal lock at WagerDuration (§4.6, §9 fail-soft timers).
func (r *Room) scheduleWagerTimers(instanceID string) {
	for _, stage := range wagerStageOrder[1:] {
		offset := WagerStageOffsets[stage]
		s := stage
		r.schedule(offset, func() {
			r.onWagerStageFired(instanceID, s)
		})
	}
}

// onWagerStageFired re-validates against the wager instance before
// advancing the stage, tolerating host actions that raced the timer.
func (r *Room) onWagerStageFired(instanceID string, stage WagerStage) {
	ws := r.WagerState
	if ws == nil || ws.QuestionInstanceID != instanceID || r.Phase != PhaseWager {
		return
	}
	if ws.Locked {
		return
	}

	ws.Stage = stage
	switch stage {
	case WagerStageRedline:
		r.sendRedlineHints(ws)
	case WagerStageClosing:
		r.Hooks.BroadcastEvent(r.Code, "wager:siren", nil)
	case WagerStageLocked:
		r.lockWagers()
	}
	r.publish()
}

// sendRedlineHints implements the §4.6 redline-stage private "extra hint"
// push to every non-eliminated player whose wager tier is at least BOLD.
func (r *Room) sendRedlineHints(ws *WagerState) {
	for _, id := range r.activePlayerIDs() {
		tier, ok := ws.Tiers[id]
		if !ok || !tierAtLeast(tier, TierBold) {
			continue
		}
		r.Hooks.SendPlayer(r.Code, id, "wager:extra_hint", map[string]any{"tier": tier})
	}
}

// WagerSet implements wager:set {amount} (§4.6 step 2). Once the round has
// reached the redline stage a player may only raise their wager, never
// lower it.
func (r *Room) WagerSet(playerID string, amount int) error {
	if r.Phase != PhaseWager {
		return ErrNotInWagerPhase
	}
	ws := r.WagerState
	if ws == nil || ws.Locked {
		return ErrWagersClosed
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !p.Active() {
		return ErrEliminated
	}

	clamped := clampWager(amount, p.Score)
	if prev, submitted := ws.Wagers[playerID]; submitted && isRedlineOrLater(ws.Stage) && clamped < prev {
		// §4.6 redline rule: a lower wager is clamped up to the previous
		// value rather than rejected — the call still succeeds.
		clamped = prev
	}

	ws.Wagers[playerID] = clamped
	p.Wager = clamped
	p.WagerSubmitted = true
	ws.Tiers[playerID] = ComputeTier(p.Score, clamped)

	r.publish()
	return nil
}

// WagerLock implements wager:lock (host): the host may force the wager
// round to lock immediately instead of waiting out the remaining staged
// timeline (§4.6, §6.2). Any player who never submitted a wager defaults
// to 0, same as a natural stage-timeout lock.
func (r *Room) WagerLock() error {
	if r.Phase != PhaseWager {
		return ErrNotInWagerPhase
	}
	ws := r.WagerState
	if ws == nil || ws.Locked {
		return ErrWagersClosed
	}
	ws.Stage = WagerStageLocked
	r.lockWagers()
	r.publish()
	return nil
}

// lockWagers finalizes every player's wager (defaulting to 0 for anyone who
// never submitted) and computes the spotlight tableau (§4.6 steps 3-4).
func (r *Room) lockWagers() {
	ws := r.WagerState
	if ws == nil || ws.Locked {
		return
	}
	ws.Locked = true

	for _, id := range r.activePlayerIDs() {
		p := r.Players[id]
		if _, ok := ws.Wagers[id]; !ok {
			ws.Wagers[id] = 0
			ws.Tiers[id] = ComputeTier(p.Score, 0)
		}
	}

	r.generateFiftyFiftyPerks(ws)

	payload := r.computeSpotlight()
	ws.SpotlightSent = true
	r.Hooks.BroadcastEvent(r.Code, "wager:spotlight", payload)
}

// generateFiftyFiftyPerks implements §4.6 step 3: for every tier at least
// HIGH_ROLLER, pick 2 random wrong-choice indices from the upcoming wager
// question and store them in the wager state so reconnects (§4.9) and the
// post-spotlight delivery (WagerSpotlightEnd) see the same removals rather
// than a fresh random draw each time.
func (r *Room) generateFiftyFiftyPerks(ws *WagerState) {
	if r.pendingWagerQuestion == nil {
		return
	}
	wrong := wrongIndices(r.pendingWagerQuestion)
	for id, tier := range ws.Tiers {
		if !tierAtLeast(tier, TierHighRoller) {
			continue
		}
		removed := pickTwoRandom(wrong, r.rng)
		ws.RemovedIndexes[id] = FiftyFiftyPerk{RemovedIndexes: removed}
	}
}

// computeSpotlight builds the post-lock tableau: total wagered, counts of
// all-in and zero-bet players, the single biggest bettor, and the top 3,
// ranked by wager/score ratio and then by wager (§4.6 step 4).
func (r *Room) computeSpotlight() SpotlightPayload {
	ws := r.WagerState
	entries := make([]SpotlightEntry, 0, len(ws.Wagers))
	total, allIn, zero := 0, 0, 0

	for id, wager := range ws.Wagers {
		p, ok := r.Players[id]
		if !ok {
			continue
		}
		total += wager
		if ws.Tiers[id] == TierAllIn {
			allIn++
		}
		if wager == 0 {
			zero++
		}
		ratio := 0.0
		if p.Score > 0 {
			ratio = float64(wager) / float64(p.Score)
		}
		entries = append(entries, SpotlightEntry{
			PlayerID: id,
			Name:     p.Name,
			Score:    p.Score,
			Wager:    wager,
			Tier:     ws.Tiers[id],
			Ratio:    ratio,
		})
	}

	// §4.6 step 4: sort by (ratio desc, wager desc).
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			swap := entries[j].Ratio > entries[i].Ratio ||
				(entries[j].Ratio == entries[i].Ratio && entries[j].Wager > entries[i].Wager)
			if swap {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}

	payload := SpotlightPayload{
		TotalWagered: total,
		AllInCount:   allIn,
		ZeroBetCount: zero,
	}
	if len(entries) > 0 {
		biggest := entries[0]
		payload.Biggest = &biggest
	}
	top := entries
	if len(top) > 3 {
		top = top[:3]
	}
	payload.Top3 = top
	return payload
}

// WagerSpotlightEnd implements wager:spotlight_end — the host-paced
// transition out of the spotlight tableau into the wager round's own
// question (§4.6 step 4→5).
func (r *Room) WagerSpotlightEnd() error {
	if r.Phase != PhaseWager {
		return ErrNotInWagerPhase
	}
	ws := r.WagerState
	if ws == nil || !ws.Locked || !ws.SpotlightSent {
		return ErrWrongPhase
	}
	if r.pendingWagerQuestion == nil {
		return ErrNoQuestionsForAct
	}

	q := *r.pendingWagerQuestion
	r.pendingWagerQuestion = nil
	ws.QuestionStarted = true
	durationMs := r.currentActConfig().QuestionDurationMs
	r.startQuestion(q, &durationMs, true)
	r.deliverWagerPerks(ws)
	return nil
}

// deliverWagerPerks sends the pre-computed 50/50 removals and, for tier
// BOLD and up, the extra-hint marker to every alive player once the wager
// question itself has started (§4.6 step 4→5, §4.9 reconnect-safe perks).
func (r *Room) deliverWagerPerks(ws *WagerState) {
	for _, id := range r.activePlayerIDs() {
		if perk, ok := ws.RemovedIndexes[id]; ok {
			r.Hooks.SendPlayer(r.Code, id, "wager:fifty_fifty", perk)
		}
		if tier, ok := ws.Tiers[id]; ok && tierAtLeast(tier, TierBold) {
			r.Hooks.SendPlayer(r.Code, id, "wager:extra_hint", map[string]any{"tier": tier})
		}
	}
}
