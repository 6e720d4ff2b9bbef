package trivia

// ReviveRequest implements revive:request — an eliminated player asking the
// host for a free revive. At most one request is pending at a time, and
// none may be raised while a question is in flight so the host isn't asked
// to judge mid-round (§4.8).
func (r *Room) ReviveRequest(playerID string) error {
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !p.Eliminated {
		return ErrNotEliminated
	}
	if r.PendingRevive != nil {
		return ErrRevivePending
	}
	if r.Phase == PhaseQuestion || r.Phase == PhaseBoss || r.Phase == PhaseCountdown {
		return ErrReviveDuringQuestion
	}
	if r.ActState != nil && r.ActState.ActID == ActBossFight {
		return ErrReviveDuringQuestion
	}

	r.PendingRevive = &PendingRevive{
		PlayerID:    playerID,
		PlayerName:  p.Name,
		RequestedAt: timeNow(),
	}
	r.Hooks.SendPlayer(r.Code, playerID, "revive:pending", map[string]any{
		"requestedAt": r.PendingRevive.RequestedAt,
	})
	r.publish()
	return nil
}

// ReviveApprove implements revive:approve, restoring the requesting player
// to full lives — unlike the coin-funded buyback paths (shop_buy-armed
// buyback_token, manual Buyback), which only grant one life (§4.7, §4.8).
func (r *Room) ReviveApprove() error {
	pr := r.PendingRevive
	if pr == nil {
		return ErrNoRevivePending
	}
	p, ok := r.Players[pr.PlayerID]
	if ok {
		p.Eliminated = false
		p.Lives = r.Config.MaxLives
	}
	r.PendingRevive = nil
	r.Hooks.SendPlayer(r.Code, pr.PlayerID, "revive:result", map[string]any{
		"playerId": pr.PlayerID,
		"approved": true,
	})
	r.publish()
	return nil
}

// ReviveDecline implements revive:decline (§4.8).
func (r *Room) ReviveDecline() error {
	pr := r.PendingRevive
	if pr == nil {
		return ErrNoRevivePending
	}
	r.PendingRevive = nil
	r.Hooks.SendPlayer(r.Code, pr.PlayerID, "revive:result", map[string]any{
		"playerId": pr.PlayerID,
		"approved": false,
	})
	r.publish()
	return nil
}
