package usecase

// SearchParams collects the retrieval heuristics that materially affect
// ranking. Every value is overridable through config so the weights can be
// tuned and tested independently.
type SearchParams struct {
	// VectorWeight and TextWeight blend the two hybrid signals.
	VectorWeight float64
	TextWeight   float64
	// BothBonus is added to the hybrid score of a document found by both
	// the vector and the lexical pass, breaking ties in favor of consensus.
	BothBonus float64

	// DefaultTopK applies when a request does not specify a result count.
	DefaultTopK int

	// CandidateMultiplier controls how many candidates each pass fetches
	// relative to the requested topK.
	CandidateMultiplier int
	// LexicalPoolMultiplier controls the size of the candidate pool scanned
	// by the lexical scorer, relative to the candidate count.
	LexicalPoolMultiplier int

	// FusionStrategy is "rrf" or "weighted".
	FusionStrategy string
	// RRFK is the reciprocal-rank-fusion damping constant.
	RRFK int

	RerankEnabled       bool
	RerankShortWords    int
	RerankLongWords     int
	RerankShortPenalty  float64
	RerankLongPenalty   float64
	RerankHybridWeight  float64
	RerankOverlapWeight float64
	RerankLengthWeight  float64

	// RewriteVariants is the number of paraphrases requested from the LLM.
	RewriteVariants int
	// RuleVariantCap limits the combined number of rule-based variants.
	RuleVariantCap int
}

const (
	FusionRRF      = "rrf"
	FusionWeighted = "weighted"
)

func DefaultSearchParams() SearchParams {
	return SearchParams{
		VectorWeight: 0.7,
		TextWeight:   0.3,
		BothBonus:    0.1,

		DefaultTopK: 5,

		CandidateMultiplier:   2,
		LexicalPoolMultiplier: 5,

		FusionStrategy: FusionRRF,
		RRFK:           60,

		RerankEnabled:       true,
		RerankShortWords:    50,
		RerankLongWords:     300,
		RerankShortPenalty:  0.8,
		RerankLongPenalty:   0.9,
		RerankHybridWeight:  0.7,
		RerankOverlapWeight: 0.2,
		RerankLengthWeight:  0.1,

		RewriteVariants: 3,
		RuleVariantCap:  5,
	}
}

func (p SearchParams) normalize() SearchParams {
	out := p
	def := DefaultSearchParams()

	if out.VectorWeight < 0 {
		out.VectorWeight = def.VectorWeight
	}
	if out.TextWeight < 0 {
		out.TextWeight = def.TextWeight
	}
	if out.DefaultTopK <= 0 {
		out.DefaultTopK = def.DefaultTopK
	}
	if out.CandidateMultiplier <= 0 {
		out.CandidateMultiplier = def.CandidateMultiplier
	}
	if out.LexicalPoolMultiplier <= 0 {
		out.LexicalPoolMultiplier = def.LexicalPoolMultiplier
	}
	if out.FusionStrategy != FusionRRF && out.FusionStrategy != FusionWeighted {
		out.FusionStrategy = def.FusionStrategy
	}
	if out.RRFK <= 0 {
		out.RRFK = def.RRFK
	}
	if out.RerankShortWords <= 0 {
		out.RerankShortWords = def.RerankShortWords
	}
	if out.RerankLongWords <= out.RerankShortWords {
		out.RerankLongWords = def.RerankLongWords
	}
	if out.RerankShortPenalty <= 0 || out.RerankShortPenalty > 1 {
		out.RerankShortPenalty = def.RerankShortPenalty
	}
	if out.RerankLongPenalty <= 0 || out.RerankLongPenalty > 1 {
		out.RerankLongPenalty = def.RerankLongPenalty
	}
	if out.RerankHybridWeight <= 0 {
		out.RerankHybridWeight = def.RerankHybridWeight
	}
	if out.RerankOverlapWeight < 0 {
		out.RerankOverlapWeight = def.RerankOverlapWeight
	}
	if out.RerankLengthWeight < 0 {
		out.RerankLengthWeight = def.RerankLengthWeight
	}
	if out.RewriteVariants <= 0 {
		out.RewriteVariants = def.RewriteVariants
	}
	if out.RuleVariantCap <= 0 {
		out.RuleVariantCap = def.RuleVariantCap
	}
	return out
}
