package domain

// SearchMethod records which retrieval signal produced a candidate.
type SearchMethod string

const (
	MethodVector SearchMethod = "vector"
	MethodText   SearchMethod = "text"
	MethodBoth   SearchMethod = "both"
)

// RetrievalMode selects the retrieval strategy for a single query.
type RetrievalMode string

const (
	// ModeSemantic embeds the query once and searches the vector index directly.
	ModeSemantic RetrievalMode = "semantic"
	// ModeHybrid combines vector similarity with lexical keyword scoring.
	ModeHybrid RetrievalMode = "hybrid"
	// ModeAdvanced rewrites the query into variants, retrieves per variant
	// and fuses the ranked lists.
	ModeAdvanced RetrievalMode = "advanced"
)

// Document is a transcript chunk as returned by the vector index.
// Distance is the index-reported similarity distance, smaller is closer;
// the retrieval engine converts it to similarity as 1-Distance.
type Document struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Distance float64        `json:"distance"`
}

// ScoredDocument wraps a Document with per-stage retrieval scores.
// Instances are created fresh for every query and never persisted.
type ScoredDocument struct {
	Document

	VectorScore      float64      `json:"vector_score"`
	TextScore        float64      `json:"text_score"`
	HybridScore      float64      `json:"hybrid_score"`
	RerankScore      float64      `json:"rerank_score,omitempty"`
	RRFScore         float64      `json:"rrf_score,omitempty"`
	WeightedScore    float64      `json:"weighted_score,omitempty"`
	Method           SearchMethod `json:"search_method,omitempty"`
	QueryAppearances int          `json:"query_appearances,omitempty"`
}

// RewriteResult holds the outcome of query rewriting.
// AllQueries is [original] + RewrittenQueries, deduplicated case-insensitively
// with first-seen order preserved, and never contains blank entries.
type RewriteResult struct {
	OriginalQuery    string   `json:"original_query"`
	RewrittenQueries []string `json:"rewritten_queries"`
	AllQueries       []string `json:"all_queries"`
}

type Answer struct {
	Text    string           `json:"text"`
	Sources []ScoredDocument `json:"sources"`
}
