package config

import "testing"

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("RAG_RETRIEVAL_MODE", "")
	t.Setenv("RAG_VECTOR_WEIGHT", "")
	t.Setenv("RAG_TEXT_WEIGHT", "")
	t.Setenv("RAG_FUSION_STRATEGY", "")
	t.Setenv("RAG_FUSION_RRF_K", "")
	t.Setenv("RAG_REWRITE_VARIANTS", "")

	cfg := Load()
	if cfg.RAGRetrievalMode != "semantic" {
		t.Fatalf("expected default retrieval mode semantic, got %q", cfg.RAGRetrievalMode)
	}
	if cfg.RAGVectorWeight != 0.7 || cfg.RAGTextWeight != 0.3 {
		t.Fatalf("expected default hybrid weights 0.7/0.3, got %v/%v", cfg.RAGVectorWeight, cfg.RAGTextWeight)
	}
	if cfg.RAGFusionStrategy != "rrf" {
		t.Fatalf("expected default fusion strategy rrf, got %q", cfg.RAGFusionStrategy)
	}
	if cfg.RAGFusionRRFK != 60 {
		t.Fatalf("expected default fusion rrf k 60, got %d", cfg.RAGFusionRRFK)
	}
	if cfg.RAGRewriteVariants != 3 {
		t.Fatalf("expected default rewrite variants 3, got %d", cfg.RAGRewriteVariants)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("RAG_RETRIEVAL_MODE", "advanced")
	t.Setenv("RAG_VECTOR_WEIGHT", "0.6")
	t.Setenv("RAG_FUSION_RRF_K", "75")
	t.Setenv("RAG_REWRITE_ENABLED", "false")
	t.Setenv("CHUNK_SIZE_WORDS", "120")

	cfg := Load()
	if cfg.RAGRetrievalMode != "advanced" {
		t.Fatalf("expected retrieval mode override, got %q", cfg.RAGRetrievalMode)
	}
	if cfg.RAGVectorWeight != 0.6 {
		t.Fatalf("expected vector weight 0.6, got %v", cfg.RAGVectorWeight)
	}
	if cfg.RAGFusionRRFK != 75 {
		t.Fatalf("expected fusion rrf k 75, got %d", cfg.RAGFusionRRFK)
	}
	if cfg.RAGRewriteEnabled {
		t.Fatalf("expected rewriting disabled")
	}
	if cfg.ChunkSizeWords != 120 {
		t.Fatalf("expected chunk size 120, got %d", cfg.ChunkSizeWords)
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("RAG_TOP_K", "not-a-number")
	t.Setenv("RAG_BOTH_BONUS", "garbage")
	t.Setenv("RAG_RERANK_ENABLED", "maybe")

	cfg := Load()
	if cfg.RAGTopK != 5 {
		t.Fatalf("expected fallback top k 5, got %d", cfg.RAGTopK)
	}
	if cfg.RAGBothBonus != 0.1 {
		t.Fatalf("expected fallback both bonus 0.1, got %v", cfg.RAGBothBonus)
	}
	if !cfg.RAGRerankEnabled {
		t.Fatalf("expected fallback rerank enabled")
	}
}
