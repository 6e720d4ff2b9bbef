package trivia

import "time"

// ShopBuy implements shop:buy {itemId} (§4.7): the shop must be open, the
// item must be allowed in the current act, the player must afford it, and
// passive items are armed immediately while active items simply join
// inventory for a later item:use.
func (r *Room) ShopBuy(playerID, itemID string) error {
	if !r.ShopOpen {
		return ErrShopClosed
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !p.Active() {
		return ErrEliminated
	}
	item, ok := Catalogue[itemID]
	if !ok {
		return ErrNoItem
	}
	if !r.currentActConfig().AllowedShopItems[itemID] {
		return ErrItemNotAllowed
	}
	if p.Coins < item.Cost {
		return ErrNotEnoughCoins
	}

	p.Coins -= item.Cost
	p.Inventory[itemID]++

	if item.Kind == ItemKindPassive {
		armPassive(p, itemID)
	}

	r.publish()
	return nil
}

// ItemUse implements item:use {itemId} for the two active items. Both
// require an in-flight, unlocked, unexpired question, are rejected entirely
// during the wager_round act, and are rejected once the player has locked
// in unless they qualify for the ALL_IN final-swap exception (§4.7, §4.4,
// §4.6).
func (r *Room) ItemUse(playerID, itemID string) error {
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !p.Active() {
		return ErrEliminated
	}
	if p.Inventory[itemID] <= 0 {
		return ErrNoItem
	}
	if r.ActState != nil && r.ActState.ActID == ActWager {
		return ErrItemNotAllowed
	}
	cq := r.CurrentQuestion
	if cq == nil || cq.Locked {
		return ErrWrongPhase
	}
	if !timeNow().Before(cq.EffectiveDeadline(playerID, r.activePlayerIDs())) {
		return ErrTimeIsUp
	}
	if p.LockedIn && !r.allowsFinalSwap(playerID) {
		return ErrAnswerLockedIn
	}
	if !r.currentActConfig().AllowedShopItems[itemID] {
		return ErrItemNotAllowed
	}

	switch itemID {
	case ItemFiftyFifty:
		removed := pickTwoRandom(wrongIndices(&cq.Question), r.rng)
		p.Inventory[itemID]--
		if r.WagerState != nil {
			r.WagerState.RemovedIndexes[playerID] = FiftyFiftyPerk{RemovedIndexes: removed}
		}
		r.Hooks.SendPlayer(r.Code, playerID, "wager:fifty_fifty", FiftyFiftyPerk{RemovedIndexes: removed})
	case ItemFreezeTime:
		p.Inventory[itemID]--
		cq.FreezeBonus[playerID] += time.Duration(FreezeBonusMs) * time.Millisecond
		r.Hooks.SendPlayer(r.Code, playerID, "item:freeze_time", map[string]int64{
			"extraMs": FreezeBonusMs,
		})
	default:
		return ErrItemNotAllowed
	}

	r.publish()
	return nil
}

// Buyback implements player:buyback, a coin-funded self-service alternative
// to the host-approved revive:* flow: spending buybackCostCoins immediately
// restores one life without host involvement. Distinct from the passive
// buyback_token shop item, which auto-triggers for free at reveal instead of
// costing coins on demand (§4.7, §4.8).
func (r *Room) Buyback(playerID string) error {
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !p.Eliminated {
		return ErrNotEliminated
	}
	if p.Coins < r.Config.BuybackCostCoins {
		return ErrNotEnoughCoins
	}

	p.Coins -= r.Config.BuybackCostCoins
	p.Eliminated = false
	p.Lives = 1

	r.publish()
	return nil
}
