package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

type stubEmbedder struct {
	embedErr    error
	queryErrFor map[string]error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if err, ok := s.queryErrFor[text]; ok {
		return nil, err
	}
	return []float32{1}, nil
}

type stubIndex struct {
	docs     []domain.Document
	queryErr error
}

func (s *stubIndex) IndexChunks(context.Context, *domain.Episode, []string, [][]float32) error {
	return nil
}

func (s *stubIndex) QuerySimilar(_ context.Context, _ []float32, topK int) ([]domain.Document, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	docs := append([]domain.Document(nil), s.docs...)
	if len(docs) > topK {
		docs = docs[:topK]
	}
	return docs, nil
}

// Two-document corpus where A wins lexically and B wins on vector distance.
func crossoverIndex() *stubIndex {
	return &stubIndex{docs: []domain.Document{
		{ID: "A", Text: "герой видео зарабатывает миллион рублей в месяц", Distance: 0.2},
		{ID: "B", Text: "совсем другая тема без совпадений", Distance: 0.1},
	}}
}

const crossoverQuery = "сколько рублей зарабатывает герой"

func TestHybridSearchVectorOnlyWeights(t *testing.T) {
	params := DefaultSearchParams()
	params.VectorWeight = 1.0
	params.TextWeight = 0.0001
	params.BothBonus = 0.0001

	searcher := NewHybridSearcher(&stubEmbedder{}, crossoverIndex(), params)
	out, err := searcher.Search(context.Background(), crossoverQuery, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(out))
	}
	if out[0].ID != "B" {
		t.Fatalf("expected vector-dominant weights to rank B first, got %s", out[0].ID)
	}
}

func TestHybridSearchTextSignalFlipsOrder(t *testing.T) {
	searcher := NewHybridSearcher(&stubEmbedder{}, crossoverIndex(), DefaultSearchParams())
	out, err := searcher.Search(context.Background(), crossoverQuery, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out[0].ID != "A" {
		t.Fatalf("expected lexical signal to rank A first under default weights, got %s", out[0].ID)
	}
	if out[0].Method != domain.MethodBoth {
		t.Fatalf("expected A found by both signals, got %s", out[0].Method)
	}
	if out[1].Method != domain.MethodVector {
		t.Fatalf("expected B found by vector only, got %s", out[1].Method)
	}
	if out[0].TextScore <= 0 {
		t.Fatalf("expected positive text score for A, got %v", out[0].TextScore)
	}
}

func TestHybridSearchBothBonusBreaksTies(t *testing.T) {
	index := &stubIndex{docs: []domain.Document{
		{ID: "A", Text: "рублей", Distance: 0.5},
		{ID: "B", Text: "ничего общего", Distance: 0.5},
	}}
	params := DefaultSearchParams()
	params.TextWeight = 0

	searcher := NewHybridSearcher(&stubEmbedder{}, index, params)
	out, err := searcher.Search(context.Background(), "рублей", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out[0].ID != "A" {
		t.Fatalf("expected consensus bonus to rank A first, got %s", out[0].ID)
	}
}

func TestHybridSearchDegradesToVectorOnlyOnProbeFailure(t *testing.T) {
	embedder := &stubEmbedder{queryErrFor: map[string]error{"": errors.New("probe down")}}
	searcher := NewHybridSearcher(embedder, crossoverIndex(), DefaultSearchParams())

	out, err := searcher.Search(context.Background(), crossoverQuery, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected vector results to survive probe failure, got %d", len(out))
	}
	if out[0].ID != "B" {
		t.Fatalf("expected vector-only ranking, got %s first", out[0].ID)
	}
	for _, doc := range out {
		if doc.Method != domain.MethodVector {
			t.Fatalf("expected vector-only provenance, got %s for %s", doc.Method, doc.ID)
		}
	}
}

func TestHybridSearchVectorOnlyForStopWordQuery(t *testing.T) {
	// Keyword extraction yields nothing, so no lexical pool probe happens
	// and the probe error can never trigger.
	embedder := &stubEmbedder{queryErrFor: map[string]error{"": errors.New("probe down")}}
	searcher := NewHybridSearcher(embedder, crossoverIndex(), DefaultSearchParams())

	out, err := searcher.Search(context.Background(), "что как", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != "B" {
		t.Fatalf("expected vector-only results, got %+v", out)
	}
}

func TestHybridSearchEmbedErrorPropagates(t *testing.T) {
	embedder := &stubEmbedder{queryErrFor: map[string]error{crossoverQuery: errors.New("embedder down")}}
	searcher := NewHybridSearcher(embedder, crossoverIndex(), DefaultSearchParams())

	if _, err := searcher.Search(context.Background(), crossoverQuery, 2); err == nil {
		t.Fatalf("expected error when query embedding fails")
	}
}
