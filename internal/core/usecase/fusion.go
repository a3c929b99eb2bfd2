package usecase

import (
	"sort"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

// Rank fusion merges the per-variant ranked lists into one list. Both
// strategies are pure functions of their inputs: lists are keyed by slice
// index, not by map, so accumulation order and therefore float results are
// identical on every call.

type fusedCandidate struct {
	doc         domain.ScoredDocument
	score       float64
	appearances int
}

// fuseRRF applies Reciprocal Rank Fusion: a document at 1-based rank r in a
// list contributes 1/(k+r), accumulated over every list that retrieved it.
// With k=60 rank differences deep in a list barely matter, so one long
// low-quality list cannot dominate the consensus.
func fuseRRF(lists [][]domain.ScoredDocument, k int) []domain.ScoredDocument {
	if k <= 0 {
		k = 60
	}

	acc, order := accumulate(lists, func(rank int, _ domain.ScoredDocument) float64 {
		return 1.0 / float64(k+rank+1)
	})

	out := make([]domain.ScoredDocument, 0, len(order))
	for _, id := range order {
		c := acc[id]
		doc := c.doc
		doc.RRFScore = c.score
		doc.QueryAppearances = c.appearances
		out = append(out, doc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RRFScore != out[j].RRFScore {
			return out[i].RRFScore > out[j].RRFScore
		}
		if out[i].QueryAppearances != out[j].QueryAppearances {
			return out[i].QueryAppearances > out[j].QueryAppearances
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// fuseWeighted gives each variant list equal weight 1/N and accumulates
// weight*(1-distance) per appearance.
func fuseWeighted(lists [][]domain.ScoredDocument) []domain.ScoredDocument {
	if len(lists) == 0 {
		return nil
	}
	weight := 1.0 / float64(len(lists))

	acc, order := accumulate(lists, func(_ int, doc domain.ScoredDocument) float64 {
		return weight * (1 - doc.Distance)
	})

	out := make([]domain.ScoredDocument, 0, len(order))
	for _, id := range order {
		c := acc[id]
		doc := c.doc
		doc.WeightedScore = c.score
		doc.QueryAppearances = c.appearances
		out = append(out, doc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WeightedScore != out[j].WeightedScore {
			return out[i].WeightedScore > out[j].WeightedScore
		}
		if out[i].QueryAppearances != out[j].QueryAppearances {
			return out[i].QueryAppearances > out[j].QueryAppearances
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// accumulate folds every list into a per-document candidate. Duplicate ids
// across lists merge by keeping the maximum per-signal score seen and
// summing the fusion contributions.
func accumulate(
	lists [][]domain.ScoredDocument,
	contribution func(rank int, doc domain.ScoredDocument) float64,
) (map[string]*fusedCandidate, []string) {
	acc := make(map[string]*fusedCandidate)
	order := make([]string, 0)

	for _, list := range lists {
		for rank, doc := range list {
			c, ok := acc[doc.ID]
			if !ok {
				c = &fusedCandidate{doc: doc}
				acc[doc.ID] = c
				order = append(order, doc.ID)
			} else {
				c.doc = maxSignals(c.doc, doc)
			}
			c.score += contribution(rank, doc)
			c.appearances++
		}
	}
	return acc, order
}

func maxSignals(current, incoming domain.ScoredDocument) domain.ScoredDocument {
	if incoming.VectorScore > current.VectorScore {
		current.VectorScore = incoming.VectorScore
	}
	if incoming.TextScore > current.TextScore {
		current.TextScore = incoming.TextScore
	}
	if incoming.HybridScore > current.HybridScore {
		current.HybridScore = incoming.HybridScore
	}
	if incoming.Method == domain.MethodBoth {
		current.Method = domain.MethodBoth
	}
	return current
}
