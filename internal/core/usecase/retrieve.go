package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/core/ports"
)

// RetrieveUseCase decides, per query, between plain vector search, hybrid
// search, and the full rewrite+fusion pipeline. It holds no mutable state
// between calls; every invocation is an independent data transformation over
// injected collaborators.
type RetrieveUseCase struct {
	embedder ports.Embedder
	index    ports.VectorIndex
	hybrid   *HybridSearcher
	rewriter *QueryRewriter
	params   SearchParams
}

// NewRetrieveUseCase wires the orchestrator. rewriter may be nil, in which
// case advanced mode falls back to single-query hybrid search.
func NewRetrieveUseCase(
	embedder ports.Embedder,
	index ports.VectorIndex,
	hybrid *HybridSearcher,
	rewriter *QueryRewriter,
	params SearchParams,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		index:    index,
		hybrid:   hybrid,
		rewriter: rewriter,
		params:   params.normalize(),
	}
}

// Retrieve returns the topK ranked documents for the query under the given
// mode. Only the semantic path propagates collaborator failures to the
// caller; degraded-but-partial results on the other paths return whatever
// was retrieved.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, query string, topK int, mode domain.RetrievalMode) ([]domain.ScoredDocument, error) {
	if topK <= 0 {
		topK = uc.params.DefaultTopK
	}

	switch mode {
	case domain.ModeHybrid:
		return uc.hybrid.Search(ctx, query, topK)
	case domain.ModeAdvanced:
		return uc.retrieveAdvanced(ctx, query, topK)
	default:
		return uc.retrieveSemantic(ctx, query, topK)
	}
}

// retrieveSemantic is the mandatory path: embed once, search once. Its
// failures are the only ones a caller ever sees.
func (uc *RetrieveUseCase) retrieveSemantic(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error) {
	vector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	docs, err := uc.index.QuerySimilar(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	out := make([]domain.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		similarity := 1 - doc.Distance
		out = append(out, domain.ScoredDocument{
			Document:    doc,
			VectorScore: similarity,
			HybridScore: similarity,
			Method:      domain.MethodVector,
		})
	}
	return out, nil
}

// retrieveAdvanced fans hybrid retrieval out over the query variants, fuses
// the ranked lists, and optionally reranks. A variant whose collaborators
// fail contributes zero documents instead of aborting the request, so this
// path never returns an error: total collaborator loss yields an empty list,
// which is a valid terminal state.
func (uc *RetrieveUseCase) retrieveAdvanced(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error) {
	if uc.rewriter == nil {
		return uc.hybrid.Search(ctx, query, topK)
	}

	rewrite := uc.rewriter.Rewrite(ctx, query)
	queries := rewrite.AllQueries
	if len(queries) == 0 {
		queries = []string{query}
	}

	// The per-variant searches are independent; fusion is order-independent
	// given the (variant, rank) pairs, so joining by index keeps the result
	// deterministic regardless of completion order.
	lists := make([][]domain.ScoredDocument, len(queries))
	failed := make([]bool, len(queries))
	var wg sync.WaitGroup
	for i, variant := range queries {
		wg.Add(1)
		go func(i int, variant string) {
			defer wg.Done()
			docs, err := uc.hybrid.Search(ctx, variant, topK)
			if err != nil {
				slog.Warn("variant_search_failed", "variant", variant, "error", err)
				failed[i] = true
				return
			}
			lists[i] = docs
		}(i, variant)
	}
	wg.Wait()

	usable := make([][]domain.ScoredDocument, 0, len(lists))
	for i, list := range lists {
		if failed[i] {
			continue
		}
		usable = append(usable, list)
	}
	if len(usable) == 0 {
		slog.Warn("all_variant_searches_failed", "query", query)
		return []domain.ScoredDocument{}, nil
	}

	var fused []domain.ScoredDocument
	if uc.params.FusionStrategy == FusionWeighted {
		fused = fuseWeighted(usable)
	} else {
		fused = fuseRRF(usable, uc.params.RRFK)
	}

	if uc.params.RerankEnabled {
		fused = rerankDocuments(query, fused, uc.params)
	}
	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused, nil
}
