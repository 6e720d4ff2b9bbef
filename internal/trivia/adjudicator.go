package trivia

// adjudicate implements the §4.5 scoring pass run once per question:reveal.
// It mutates every active player's Score/Coins/Lives/Buffs/Inventory and
// returns the private per-player reveal envelope to be delivered after the
// public broadcast (§4.1 ordering: public snapshot, then private reveals).
func (r *Room) adjudicate() map[string]PlayerRevealEnvelope {
	cq := r.CurrentQuestion
	out := make(map[string]PlayerRevealEnvelope, len(r.Players))
	if cq == nil {
		return out
	}

	if cq.IsWagerQuestion {
		return r.adjudicateWager(cq)
	}
	return r.adjudicateNormal(cq)
}

func (r *Room) adjudicateNormal(cq *CurrentQuestion) map[string]PlayerRevealEnvelope {
	out := make(map[string]PlayerRevealEnvelope, len(r.Players))
	cfg := r.currentActConfig()
	correctIdx := cq.Question.Correct

	heartsAtRisk := cfg.HeartsAtRisk || (cfg.HeartsOnlyOnHard && cq.Question.Hard)

	for _, id := range r.activePlayerIDs() {
		p := r.Players[id]
		env := PlayerRevealEnvelope{
			QuestionID:   cq.Question.ID,
			CorrectIndex: correctIdx,
		}

		answered, hasAnswer := cq.Answers[id]
		if hasAnswer {
			a := answered
			env.YourAnswer = &a
		}
		correct := hasAnswer && answered == correctIdx
		env.Correct = correct

		if correct {
			base := float64(cq.Question.Value) * cfg.ScoreMultiplier
			scoreDelta := int(base)

			if lockAt, ok := cq.LockinTime[id]; ok && cfg.SpeedBonusMax > 0 {
				total := cq.EndsAt.Sub(cq.StartedAt)
				if total > 0 {
					remaining := cq.EndsAt.Sub(lockAt)
					if remaining < 0 {
						remaining = 0
					}
					frac := float64(remaining) / float64(total)
					env.SpeedBonus = int(float64(cfg.SpeedBonusMax) * frac)
				}
			}
			scoreDelta += env.SpeedBonus

			if p.Buffs.DoublePoints {
				scoreDelta *= 2
				env.DoublePoints = true
				p.Buffs.DoublePoints = false
				if p.Inventory[ItemDoublePoints] > 0 {
					p.Inventory[ItemDoublePoints]--
				}
			}

			env.ScoreDelta = scoreDelta
			p.Score += scoreDelta

			env.CoinsDelta = cfg.CoinRewardBase
			p.Coins += env.CoinsDelta
		} else if heartsAtRisk {
			if p.Buffs.Shield {
				env.ShieldUsed = true
				p.Buffs.Shield = false
				if p.Inventory[ItemShield] > 0 {
					p.Inventory[ItemShield]--
				}
			} else {
				env.LivesDelta = -1
				p.Lives--
			}
		}

		if p.Lives <= 0 {
			if p.Inventory[ItemBuybackToken] > 0 {
				p.Inventory[ItemBuybackToken]--
				p.Lives = 1
				env.BuybackUsed = true
			} else {
				p.Eliminated = true
				env.Eliminated = true
			}
		}

		if r.BossState != nil && r.ActState != nil && r.ActState.ActID == ActBossFight && correct {
			r.BossState.Damage(1)
		}

		out[id] = env
	}

	return out
}

func (r *Room) adjudicateWager(cq *CurrentQuestion) map[string]PlayerRevealEnvelope {
	out := make(map[string]PlayerRevealEnvelope, len(r.Players))
	ws := r.WagerState
	correctIdx := cq.Question.Correct

	for _, id := range r.activePlayerIDs() {
		p := r.Players[id]
		wager := 0
		if ws != nil {
			wager = ws.Wagers[id]
		}
		wagerCopy := wager
		env := PlayerRevealEnvelope{
			QuestionID:   cq.Question.ID,
			CorrectIndex: correctIdx,
			Wager:        &wagerCopy,
		}

		answered, hasAnswer := cq.Answers[id]
		if hasAnswer {
			a := answered
			env.YourAnswer = &a
		}
		correct := hasAnswer && answered == correctIdx
		env.Correct = correct

		// §4.5 wager round: no coin reward, no heart loss, no speed bonus.
		if correct {
			env.ScoreDelta = wager
			p.Score += wager
		} else {
			loss := wager
			if loss > p.Score {
				loss = p.Score
			}
			env.ScoreDelta = -loss
			p.Score -= loss
		}

		p.WagerSwapUsed = false

		out[id] = env
	}

	r.WagerState = nil
	return out
}
