package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

func TestEmbedOrdersVectorsByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"embedding":[0.2],"index":1},
			{"embedding":[0.1],"index":0}
		]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "test-key", "chat", "embed"))
	vectors, err := embedder.Embed(context.Background(), []string{"первый", "второй"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 0.1 || vectors[1][0] != 0.2 {
		t.Fatalf("vectors not reordered by index: %v", vectors)
	}
}

func TestEmbedWrapsBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "", "chat", "embed"))
	_, err := embedder.Embed(context.Background(), []string{"текст"})
	if !domain.IsKind(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestEmbedEmptyInputIsNoop(t *testing.T) {
	embedder := NewEmbedder(New("http://unreachable.invalid", "", "chat", "embed"))
	vectors, err := embedder.Embed(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Fatalf("expected no-op for empty input, got %v, %v", vectors, err)
	}
}

func TestRewriterWrapsFailureAsRewriteUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	rewriter := NewRewriter(New(server.URL, "", "chat", "embed"))
	_, err := rewriter.Complete(context.Background(), "system", "user")
	if !domain.IsKind(err, domain.ErrRewriteUnavailable) {
		t.Fatalf("expected ErrRewriteUnavailable, got %v", err)
	}
}

func TestGeneratorReturnsTrimmedCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  ответ из контекста \n"}}]}`))
	}))
	defer server.Close()

	generator := NewGenerator(New(server.URL, "", "chat", "embed"))
	answer, err := generator.GenerateAnswer(context.Background(), "вопрос", []domain.ScoredDocument{
		{Document: domain.Document{ID: "A", Text: "контекст"}, HybridScore: 0.8},
	})
	if err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}
	if answer != "ответ из контекста" {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestChatCompletionNoChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	generator := NewGenerator(New(server.URL, "", "chat", "embed"))
	if _, err := generator.GenerateAnswer(context.Background(), "вопрос", nil); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}
