package trivia

// BossState tracks the boss fight's shared health pool, present only
// during the boss act (§3, §4.5).
type BossState struct {
	HP    int
	MaxHP int
}

func NewBossState(maxHP int) *BossState {
	return &BossState{HP: maxHP, MaxHP: maxHP}
}

func (b *BossState) Damage(n int) {
	b.HP -= n
	if b.HP < 0 {
		b.HP = 0
	}
}

func (b *BossState) Defeated() bool {
	return b != nil && b.HP <= 0
}
