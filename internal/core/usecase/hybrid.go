package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/core/ports"
)

// HybridSearcher combines dense vector similarity with lexical keyword
// scoring over a shared candidate pool and ranks by a weighted blend of
// both signals.
type HybridSearcher struct {
	embedder ports.Embedder
	index    ports.VectorIndex
	params   SearchParams
}

func NewHybridSearcher(embedder ports.Embedder, index ports.VectorIndex, params SearchParams) *HybridSearcher {
	return &HybridSearcher{
		embedder: embedder,
		index:    index,
		params:   params.normalize(),
	}
}

// Search retrieves vector and lexical candidates for the query, merges them
// per document id keeping the maximum score seen on each signal, and returns
// the topK documents by hybrid score. If keyword extraction yields no terms
// the ranking degrades to vector-only; if the vector search returns nothing
// the ranking degrades to text-only.
func (s *HybridSearcher) Search(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error) {
	if topK <= 0 {
		topK = 1
	}
	candidates := s.params.CandidateMultiplier * topK

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	vectorDocs, err := s.index.QuerySimilar(ctx, queryVector, candidates)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	textDocs, err := s.lexicalCandidates(ctx, query, candidates)
	if err != nil {
		// Lexical recall is best-effort; a failed pool probe must not kill
		// the vector path.
		slog.Warn("lexical_candidates_failed", "error", err)
		textDocs = nil
	}

	merged := mergeHybridSignals(vectorDocs, textDocs, s.params)
	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged, nil
}

// lexicalCandidates scans a broad candidate pool and keeps documents with a
// positive lexical score, best first. The pool comes from a degenerate
// vector probe with an empty-query embedding: the index has no full-text
// surface, so this trades recall for not maintaining a second index. Pool
// size is LexicalPoolMultiplier times the candidate count to soften that
// loss.
func (s *HybridSearcher) lexicalCandidates(ctx context.Context, query string, limit int) ([]domain.ScoredDocument, error) {
	keywords := extractKeywords(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	probeVector, err := s.embedder.EmbedQuery(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("embed pool probe: %w", err)
	}
	pool, err := s.index.QuerySimilar(ctx, probeVector, s.params.LexicalPoolMultiplier*limit)
	if err != nil {
		return nil, fmt.Errorf("query candidate pool: %w", err)
	}

	scored := make([]domain.ScoredDocument, 0, len(pool))
	for _, doc := range pool {
		score := lexicalScore(doc.Text, keywords)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredDocument{
			Document:  doc,
			TextScore: score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].TextScore != scored[j].TextScore {
			return scored[i].TextScore > scored[j].TextScore
		}
		return scored[i].ID < scored[j].ID
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

type hybridSignal struct {
	doc         domain.Document
	vectorScore float64
	textScore   float64
	inVector    bool
	inText      bool
}

// mergeHybridSignals joins the two candidate lists per document id. A
// document seen by both passes keeps the maximum score on each signal, not
// an average, rewarding documents found strongly by either method, and
// receives a flat consensus bonus on top of the weighted blend.
func mergeHybridSignals(vectorDocs []domain.Document, textDocs []domain.ScoredDocument, params SearchParams) []domain.ScoredDocument {
	signals := make(map[string]*hybridSignal, len(vectorDocs)+len(textDocs))
	order := make([]string, 0, len(vectorDocs)+len(textDocs))

	for _, doc := range vectorDocs {
		similarity := 1 - doc.Distance
		sig, ok := signals[doc.ID]
		if !ok {
			sig = &hybridSignal{doc: doc}
			signals[doc.ID] = sig
			order = append(order, doc.ID)
		}
		if similarity > sig.vectorScore || !sig.inVector {
			sig.vectorScore = similarity
		}
		sig.inVector = true
	}

	for _, scored := range textDocs {
		sig, ok := signals[scored.ID]
		if !ok {
			sig = &hybridSignal{doc: scored.Document}
			signals[scored.ID] = sig
			order = append(order, scored.ID)
		}
		if scored.TextScore > sig.textScore {
			sig.textScore = scored.TextScore
		}
		sig.inText = true
	}

	out := make([]domain.ScoredDocument, 0, len(order))
	for _, id := range order {
		sig := signals[id]
		hybrid := params.VectorWeight*sig.vectorScore + params.TextWeight*sig.textScore

		method := domain.MethodVector
		switch {
		case sig.inVector && sig.inText:
			method = domain.MethodBoth
			hybrid += params.BothBonus
		case sig.inText:
			method = domain.MethodText
		}

		out = append(out, domain.ScoredDocument{
			Document:    sig.doc,
			VectorScore: sig.vectorScore,
			TextScore:   sig.textScore,
			HybridScore: hybrid,
			Method:      method,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HybridScore != out[j].HybridScore {
			return out[i].HybridScore > out[j].HybridScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}
