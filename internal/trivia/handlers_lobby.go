package trivia

// Join implements room:join {code, name} — players are created only in
// lobby and never removed thereafter (§3, §4.1).
func (r *Room) Join(connID, name string) (*Player, error) {
	if r.Phase != PhaseLobby {
		return nil, ErrGameAlreadyInProgress
	}
	if len(r.Players) >= MaxPlayersPerRoom {
		return nil, ErrRoomFull
	}
	if err := validateName(name, r.Players, ""); err != nil {
		return nil, err
	}

	p := NewPlayer(NewPlayerID(), trimName(name), connID, r.Config.StartingCoins)
	p.Lives = r.Config.MaxLives
	r.Players[p.ID] = p
	r.ConnectionToPlayer[connID] = p.ID
	r.publish()
	return p, nil
}

func trimName(name string) string {
	// leading/trailing whitespace only; case and internal spacing are the
	// player's own, uniqueness is judged case-insensitively elsewhere.
	for len(name) > 0 && (name[0] == ' ' || name[0] == '\t') {
		name = name[1:]
	}
	for len(name) > 0 && (name[len(name)-1] == ' ' || name[len(name)-1] == '\t') {
		name = name[:len(name)-1]
	}
	return name
}

// AuthorizeHost validates a host key against this room's token.
func (r *Room) AuthorizeHost(hostKey string) error {
	if hostKey == "" || hostKey != r.HostToken {
		return ErrNotAuthorized
	}
	return nil
}

// ResumeHost implements room:resume {hostKey} — re-associates the host
// connection without touching any game state (§4.9).
func (r *Room) ResumeHost(connID, hostKey string) error {
	if err := r.AuthorizeHost(hostKey); err != nil {
		return err
	}
	r.HostConnectionID = connID
	r.LastActivityAt = timeNow()
	r.Hooks.SendHost(r.Code, r.BuildHostSnapshot())
	return nil
}

// ResumePlayer implements room:resume {playerId} — re-associates a player's
// connection and flips connected=true, then resends any still-applicable
// private wager perks (§4.9).
func (r *Room) ResumePlayer(connID, playerID string) (*Player, error) {
	p, ok := r.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	p.ConnectionID = connID
	p.Connected = true
	r.ConnectionToPlayer[connID] = p.ID
	r.LastActivityAt = timeNow()

	r.resendWagerPerks(p)
	r.publish()
	return p, nil
}

// resendWagerPerks re-delivers the pre-computed 50/50 removals and extra
// hint for an active wager question, without recomputing them (§4.9, §9).
func (r *Room) resendWagerPerks(p *Player) {
	if r.WagerState == nil || !r.WagerState.QuestionStarted || r.CurrentQuestion == nil {
		return
	}
	if p.Eliminated {
		return
	}
	if perk, ok := r.WagerState.RemovedIndexes[p.ID]; ok {
		r.Hooks.SendPlayer(r.Code, p.ID, "wager:fifty_fifty", perk)
	}
	if tier, ok := r.WagerState.Tiers[p.ID]; ok && tierAtLeast(tier, TierBold) {
		r.Hooks.SendPlayer(r.Code, p.ID, "wager:extra_hint", map[string]any{"tier": tier})
	}
}

// Watch implements room:watch {code} — a spectator connection joins the
// room's broadcast group at the transport layer and receives the next
// room:state broadcast; no initial snapshot is sent on watch. The room
// itself tracks no spectator state and only touches LastActivityAt.
func (r *Room) Watch(connID string) {
	r.LastActivityAt = timeNow()
}

// Leave implements room:leave {playerId?} — marks the player (or host)
// disconnected without removing them (§3: players are never removed).
func (r *Room) Leave(connID, playerID string) error {
	r.LastActivityAt = timeNow()

	if connID == r.HostConnectionID {
		r.HostConnectionID = ""
		delete(r.ConnectionToPlayer, connID)
		return nil
	}

	if playerID == "" {
		playerID = r.ConnectionToPlayer[connID]
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	p.Connected = false
	delete(r.ConnectionToPlayer, connID)
	r.publish()
	r.checkAllDoneShortCircuit()
	return nil
}

// Disconnect is called by the transport layer when a socket closes without
// an explicit room:leave (ordinary network drop).
func (r *Room) Disconnect(connID string) {
	r.LastActivityAt = timeNow()
	if connID == r.HostConnectionID {
		r.HostConnectionID = ""
		return
	}
	playerID, ok := r.ConnectionToPlayer[connID]
	if !ok {
		return
	}
	delete(r.ConnectionToPlayer, connID)
	if p, ok := r.Players[playerID]; ok {
		p.Connected = false
		r.publish()
		r.checkAllDoneShortCircuit()
	}
}

// Configure implements game:configure {config} — permitted only in lobby,
// since act/question timing derived from it would desync already-scheduled
// timers once the game is underway (SPEC_FULL.md §4).
func (r *Room) Configure(patch RoomConfigPatch) error {
	if r.Phase != PhaseLobby {
		return ErrGameAlreadyInProgress
	}
	r.Config = r.Config.Apply(patch)
	r.publish()
	return nil
}
