package usecase

import (
	"strings"
	"testing"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

func wordText(n int, suffix string) string {
	text := strings.TrimSpace(strings.Repeat("слово ", n))
	if suffix != "" {
		text += " " + suffix
	}
	return text
}

func TestRerankOverlapLiftsMatchingDocument(t *testing.T) {
	matching := domain.ScoredDocument{
		Document:    domain.Document{ID: "match", Text: wordText(58, "машинное обучение")},
		HybridScore: 0.5,
	}
	other := domain.ScoredDocument{
		Document:    domain.Document{ID: "other", Text: wordText(60, "")},
		HybridScore: 0.5,
	}

	out := rerankDocuments("машинное обучение", []domain.ScoredDocument{other, matching}, DefaultSearchParams())
	if out[0].ID != "match" {
		t.Fatalf("expected keyword overlap to lift 'match' first, got %s", out[0].ID)
	}
	if out[0].RerankScore <= out[1].RerankScore {
		t.Fatalf("expected strictly higher rerank score, got %v <= %v", out[0].RerankScore, out[1].RerankScore)
	}
}

func TestRerankPenalizesShortAndLongChunks(t *testing.T) {
	short := domain.ScoredDocument{
		Document:    domain.Document{ID: "short", Text: wordText(10, "")},
		HybridScore: 0.5,
	}
	medium := domain.ScoredDocument{
		Document:    domain.Document{ID: "medium", Text: wordText(60, "")},
		HybridScore: 0.5,
	}
	long := domain.ScoredDocument{
		Document:    domain.Document{ID: "long", Text: wordText(301, "")},
		HybridScore: 0.5,
	}

	out := rerankDocuments("запрос без совпадений", []domain.ScoredDocument{short, long, medium}, DefaultSearchParams())
	if out[0].ID != "medium" {
		t.Fatalf("expected medium-length chunk first, got %s", out[0].ID)
	}
	if out[1].ID != "long" {
		t.Fatalf("expected long chunk before short, got %s", out[1].ID)
	}
}

func TestRerankStableOnTies(t *testing.T) {
	first := domain.ScoredDocument{
		Document:    domain.Document{ID: "first", Text: wordText(60, "")},
		HybridScore: 0.5,
	}
	second := domain.ScoredDocument{
		Document:    domain.Document{ID: "second", Text: wordText(60, "")},
		HybridScore: 0.5,
	}

	out := rerankDocuments("запрос", []domain.ScoredDocument{first, second}, DefaultSearchParams())
	if out[0].ID != "first" || out[1].ID != "second" {
		t.Fatalf("expected tie to preserve input order, got %s, %s", out[0].ID, out[1].ID)
	}
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	docs := []domain.ScoredDocument{
		{Document: domain.Document{ID: "a", Text: wordText(60, "")}, HybridScore: 0.2},
		{Document: domain.Document{ID: "b", Text: wordText(60, "")}, HybridScore: 0.9},
	}

	_ = rerankDocuments("запрос", docs, DefaultSearchParams())
	if docs[0].ID != "a" || docs[0].RerankScore != 0 {
		t.Fatalf("input slice was mutated: %+v", docs[0])
	}
}
