package usecase

import (
	"sort"
	"strings"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

// rerankDocuments is the second-pass scorer: it blends the hybrid score with
// query-document keyword overlap and a length prior that penalizes chunks
// too small to carry context or too large to be precise. The sort is stable,
// so ties preserve the prior relative order.
func rerankDocuments(query string, docs []domain.ScoredDocument, params SearchParams) []domain.ScoredDocument {
	if len(docs) == 0 {
		return docs
	}
	params = params.normalize()

	queryKeywords := extractKeywords(query)

	out := make([]domain.ScoredDocument, len(docs))
	copy(out, docs)

	for i := range out {
		overlap := keywordOverlap(queryKeywords, extractKeywords(out[i].Text))
		penalty := lengthPenalty(out[i].Text, params)

		out[i].RerankScore = params.RerankHybridWeight*out[i].HybridScore +
			params.RerankOverlapWeight*overlap +
			params.RerankLengthWeight*penalty
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RerankScore > out[j].RerankScore
	})
	return out
}

func lengthPenalty(text string, params SearchParams) float64 {
	words := len(strings.Fields(text))
	switch {
	case words < params.RerankShortWords:
		return params.RerankShortPenalty
	case words > params.RerankLongWords:
		return params.RerankLongPenalty
	default:
		return 1.0
	}
}
