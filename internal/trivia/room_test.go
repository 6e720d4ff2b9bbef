package trivia

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogue struct {
	questions map[ActID][]QuestionRecord
}

func (f *fakeCatalogue) Questions(packID string, act ActID) ([]QuestionRecord, error) {
	qs, ok := f.questions[act]
	if !ok || len(qs) == 0 {
		return nil, ErrNoQuestionsForAct
	}
	out := make([]QuestionRecord, len(qs))
	copy(out, qs)
	return out, nil
}

func newTestCatalogue() *fakeCatalogue {
	return &fakeCatalogue{questions: map[ActID][]QuestionRecord{
		ActHomeroom: {
			{ID: "q1", Prompt: "2+2?", Choices: []string{"3", "4", "5", "6"}, Correct: 1, Value: 100},
			{ID: "q2", Prompt: "3+3?", Choices: []string{"5", "6", "7", "8"}, Correct: 1, Value: 100},
		},
		ActPopQuiz: {
			{ID: "q3", Prompt: "capital of France?", Choices: []string{"Berlin", "Paris", "Rome", "Madrid"}, Correct: 1, Value: 150, Hard: true},
		},
		ActWager: {
			{ID: "w1", Prompt: "wager question", Choices: []string{"a", "b", "c", "d"}, Correct: 0, Value: 0},
		},
		ActBossFight: {
			{ID: "b1", Prompt: "boss question", Choices: []string{"a", "b", "c"}, Correct: 2, Value: 250},
		},
	}}
}

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	r := NewRoom("ABCDE", "starter", "Host", DefaultRoomConfig(), newTestCatalogue(), nil)
	return r
}

func TestJoin_LobbyOnly(t *testing.T) {
	r := newTestRoom(t)

	p, err := r.Join("conn-1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, r.Config.MaxLives, p.Lives)
	assert.Equal(t, r.Config.StartingCoins, p.Coins)

	r.Phase = PhaseCountdown
	_, err = r.Join("conn-2", "Bob")
	assert.ErrorIs(t, err, error(ErrGameAlreadyInProgress))
}

func TestJoin_DuplicateNameRejected(t *testing.T) {
	r := newTestRoom(t)
	_, err := r.Join("conn-1", "Alice")
	require.NoError(t, err)

	_, err = r.Join("conn-2", "alice")
	assert.ErrorIs(t, err, error(ErrNameTaken))
}

func TestJoin_RoomFull(t *testing.T) {
	r := newTestRoom(t)
	for i := 0; i < MaxPlayersPerRoom; i++ {
		_, err := r.Join(string(rune('a'+i)), "P"+string(rune('A'+i)))
		require.NoError(t, err)
	}

	_, err := r.Join("overflow", "Overflow")
	assert.ErrorIs(t, err, error(ErrRoomFull))
}

func TestActOrder_CannotStartEarlierAct(t *testing.T) {
	r := newTestRoom(t)
	_, _ = r.Join("conn-1", "Alice")

	require.NoError(t, r.StartAct(ActPopQuiz))
	// act:start is only accepted between acts, so move past the act first.
	r.Phase = PhaseIntermission
	err := r.StartAct(ActHomeroom)
	assert.ErrorIs(t, err, error(ErrActOrderViolation))
}

func TestGameStart_EntersCountdownThenQuestion(t *testing.T) {
	r := newTestRoom(t)
	_, _ = r.Join("conn-1", "Alice")

	require.NoError(t, r.GameStart())
	assert.Equal(t, PhaseCountdown, r.Phase)

	r.onCountdownFired(r.CurrentQuestion.InstanceID)
	assert.Equal(t, PhaseQuestion, r.Phase)
}

func TestAnswerAndReveal_CorrectAnswerScoresPoints(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")

	require.NoError(t, r.GameStart())
	r.onCountdownFired(r.CurrentQuestion.InstanceID)

	require.NoError(t, r.Answer(alice.ID, r.CurrentQuestion.Question.Correct))
	require.NoError(t, r.LockIn(alice.ID))

	// force the reveal instant into the past
	past := timeNow().Add(-time.Minute)
	r.CurrentQuestion.ForcedRevealAt = &past

	require.NoError(t, r.Reveal())
	assert.True(t, alice.Score > 0)
	assert.Equal(t, PhaseReveal, r.Phase)
}

func TestAnswer_RejectsAfterLockIn(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	require.NoError(t, r.GameStart())
	r.onCountdownFired(r.CurrentQuestion.InstanceID)

	require.NoError(t, r.Answer(alice.ID, 0))
	require.NoError(t, r.LockIn(alice.ID))

	err := r.Answer(alice.ID, 1)
	assert.ErrorIs(t, err, error(ErrAnswerLockedIn))
}

func TestWagerTierLadder(t *testing.T) {
	assert.Equal(t, TierSafe, ComputeTier(1000, 0))
	assert.Equal(t, TierBold, ComputeTier(1000, 300))
	assert.Equal(t, TierHighRoller, ComputeTier(1000, 600))
	assert.Equal(t, TierInsane, ComputeTier(1000, 900))
	assert.Equal(t, TierAllIn, ComputeTier(1000, 1000))
	assert.Equal(t, TierSafe, ComputeTier(0, 0))
}

func TestShopBuy_RequiresOpenShopAndFunds(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	require.NoError(t, r.GameStart())

	err := r.ShopBuy(alice.ID, ItemShield)
	assert.ErrorIs(t, err, error(ErrShopClosed))

	r.Phase = PhaseReveal
	require.NoError(t, r.SetShopOpen(true))

	alice.Coins = 10
	err = r.ShopBuy(alice.ID, ItemShield)
	assert.ErrorIs(t, err, error(ErrNotEnoughCoins))

	alice.Coins = 1000
	require.NoError(t, r.ShopBuy(alice.ID, ItemShield))
	assert.True(t, alice.Buffs.Shield)
	assert.Equal(t, 1, alice.Inventory[ItemShield])
}

func TestBuyback_RestoresEliminatedPlayer(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Eliminated = true
	alice.Coins = r.Config.BuybackCostCoins

	require.NoError(t, r.Buyback(alice.ID))
	assert.False(t, alice.Eliminated)
	assert.Equal(t, 1, alice.Lives)
	assert.Equal(t, 0, alice.Coins)
}

func TestBuyback_RejectsInsufficientCoins(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Eliminated = true
	alice.Coins = r.Config.BuybackCostCoins - 1

	err := r.Buyback(alice.ID)
	assert.ErrorIs(t, err, error(ErrNotEnoughCoins))
}

func TestReviveRequest_OnlyOnePending(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	bob, _ := r.Join("conn-2", "Bob")
	alice.Eliminated = true
	bob.Eliminated = true

	require.NoError(t, r.ReviveRequest(alice.ID))
	err := r.ReviveRequest(bob.ID)
	assert.ErrorIs(t, err, error(ErrRevivePending))

	require.NoError(t, r.ReviveApprove())
	assert.False(t, alice.Eliminated)
	assert.Nil(t, r.PendingRevive)
}

func TestBossFight_DamageEndsGameAtZeroHP(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")

	r.Config.BossHp = 1
	require.NoError(t, r.StartAct(ActBossFight))

	r.onCountdownFired(r.CurrentQuestion.InstanceID)
	require.NoError(t, r.Answer(alice.ID, r.CurrentQuestion.Question.Correct))
	require.NoError(t, r.LockIn(alice.ID))

	past := timeNow()
	r.CurrentQuestion.ForcedRevealAt = &past
	require.NoError(t, r.Reveal())

	assert.True(t, r.BossState.Defeated())
	assert.Equal(t, PhaseEnded, r.Phase)
}

func TestWagerLock_HostForcesEarlyLockAndComputesSpotlight(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Score = 1000

	require.NoError(t, r.StartAct(ActWager))
	assert.Equal(t, PhaseWager, r.Phase)

	require.NoError(t, r.WagerSet(alice.ID, 1000))
	require.NoError(t, r.WagerLock())

	assert.True(t, r.WagerState.Locked)
	assert.True(t, r.WagerState.SpotlightSent)
	assert.Equal(t, WagerStageLocked, r.WagerState.Stage)

	err := r.WagerLock()
	assert.ErrorIs(t, err, error(ErrWagersClosed))
}

func TestWagerLock_HighRollerGetsFiftyFiftyAtLockTime(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Score = 1000

	require.NoError(t, r.StartAct(ActWager))
	require.NoError(t, r.WagerSet(alice.ID, 600)) // ratio 0.6 -> HIGH_ROLLER
	require.NoError(t, r.WagerLock())

	perk, ok := r.WagerState.RemovedIndexes[alice.ID]
	require.True(t, ok)
	assert.Len(t, perk.RemovedIndexes, 2)
}

func TestAnswer_AllInPlayerGetsOneFinalSwapAfterLockIn(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Score = 1000
	// Bob never locks in, so Alice's lock-in does not trigger the all-done
	// forced reveal, which would close input for everyone.
	_, _ = r.Join("conn-2", "Bob")

	require.NoError(t, r.StartAct(ActWager))
	require.NoError(t, r.WagerSet(alice.ID, 1000)) // ratio 1.0 -> ALL_IN
	require.NoError(t, r.WagerLock())
	require.NoError(t, r.WagerSpotlightEnd())
	r.onCountdownFired(r.CurrentQuestion.InstanceID)

	require.NoError(t, r.Answer(alice.ID, 0))
	require.NoError(t, r.LockIn(alice.ID))

	// ALL_IN grants exactly one more submission after lock-in.
	require.NoError(t, r.Answer(alice.ID, 1))
	assert.True(t, alice.WagerSwapUsed)

	// The swap is single-use.
	err := r.Answer(alice.ID, 0)
	assert.ErrorIs(t, err, error(ErrAnswerLockedIn))
}

func TestAnswer_NonAllInPlayerRejectedAfterLockIn(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Score = 1000

	require.NoError(t, r.StartAct(ActWager))
	require.NoError(t, r.WagerSet(alice.ID, 100)) // ratio 0.1 -> SAFE
	require.NoError(t, r.WagerLock())
	require.NoError(t, r.WagerSpotlightEnd())
	r.onCountdownFired(r.CurrentQuestion.InstanceID)

	require.NoError(t, r.Answer(alice.ID, 0))
	require.NoError(t, r.LockIn(alice.ID))

	err := r.Answer(alice.ID, 1)
	assert.ErrorIs(t, err, error(ErrAnswerLockedIn))
}

func TestWagerSet_RedlineClampsDownwardChangesUp(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Score = 1000

	require.NoError(t, r.StartAct(ActWager))
	require.NoError(t, r.WagerSet(alice.ID, 50))

	r.WagerState.Stage = WagerStageRedline

	require.NoError(t, r.WagerSet(alice.ID, 20))
	assert.Equal(t, 50, r.WagerState.Wagers[alice.ID])

	require.NoError(t, r.WagerSet(alice.ID, 100))
	assert.Equal(t, 100, r.WagerState.Wagers[alice.ID])
}

func TestItemUse_RejectedDuringWagerRound(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Inventory[ItemFreezeTime] = 1

	require.NoError(t, r.StartAct(ActWager))
	require.NoError(t, r.WagerSet(alice.ID, 0))
	require.NoError(t, r.WagerLock())
	require.NoError(t, r.WagerSpotlightEnd())

	err := r.ItemUse(alice.ID, ItemFreezeTime)
	assert.ErrorIs(t, err, error(ErrItemNotAllowed))
	assert.Equal(t, 1, alice.Inventory[ItemFreezeTime])
}

func TestReviveApprove_RestoresFullLives(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Eliminated = true
	alice.Lives = 0

	require.NoError(t, r.ReviveRequest(alice.ID))
	require.NoError(t, r.ReviveApprove())

	assert.False(t, alice.Eliminated)
	assert.Equal(t, r.Config.MaxLives, alice.Lives)
}

func TestReviveRequest_RejectedDuringBossFightAct(t *testing.T) {
	r := newTestRoom(t)
	alice, _ := r.Join("conn-1", "Alice")
	alice.Eliminated = true

	r.Config.BossHp = 250
	require.NoError(t, r.StartAct(ActBossFight))
	// Boss fight begins in countdown, but the act-level gate must hold
	// even once the room returns to a between-question phase.
	r.Phase = PhaseReveal

	err := r.ReviveRequest(alice.ID)
	assert.ErrorIs(t, err, error(ErrReviveDuringQuestion))
}
