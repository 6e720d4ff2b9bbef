package trivia

import "math/rand"

func clampWager(amount, score int) int {
	if amount < 0 {
		return 0
	}
	if amount > score {
		return score
	}
	return amount
}

func wrongIndices(q *QuestionRecord) []int {
	out := make([]int, 0, len(q.Choices)-1)
	for i := range q.Choices {
		if i != q.Correct {
			out = append(out, i)
		}
	}
	return out
}

// pickTwoRandom returns up to 2 distinct indices drawn from candidates.
func pickTwoRandom(candidates []int, rng *rand.Rand) []int {
	cp := append([]int(nil), candidates...)
	rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	n := 2
	if len(cp) < n {
		n = len(cp)
	}
	return append([]int(nil), cp[:n]...)
}

func (r *Room) currentActConfig() ActConfig {
	if r.ActState == nil {
		return ActConfig{}
	}
	return r.ActState.Config
}
