package search

import (
	"strings"

	"policy-chat-be/pkg/store"
)

// SelectDiverse greedily builds a diverse subset of the candidates using
// maximal-marginal-relevance: at each step it takes the remaining
// candidate maximizing weight*relevance - (1-weight)*maxSimToSelected.
// Relevance is the passage score; similarity is token-set Jaccard
// overlap. Ties keep first-seen order, so output is deterministic.
func SelectDiverse(candidates []store.Passage, k int, weight float64) []store.Passage {
	if k <= 0 || len(candidates) == 0 {
		return []store.Passage{}
	}
	if len(candidates) <= k {
		out := make([]store.Passage, len(candidates))
		copy(out, candidates)
		return out
	}

	tokens := make([]map[string]struct{}, len(candidates))
	for i, p := range candidates {
		tokens[i] = tokenSet(p.Text)
	}

	selected := make([]store.Passage, 0, k)
	selectedIdx := make([]int, 0, k)
	used := make([]bool, len(candidates))

	for len(selected) < k {
		best := -1
		bestScore := 0.0
		for i, p := range candidates {
			if used[i] {
				continue
			}
			maxSim := 0.0
			for _, j := range selectedIdx {
				if sim := jaccard(tokens[i], tokens[j]); sim > maxSim {
					maxSim = sim
				}
			}
			score := weight*p.Score - (1-weight)*maxSim
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		selected = append(selected, candidates[best])
		selectedIdx = append(selectedIdx, best)
	}

	return selected
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:()[]\"'")
		if len(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
