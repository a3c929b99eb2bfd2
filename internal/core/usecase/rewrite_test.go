package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

type stubCompletion struct {
	response string
	err      error
	calls    int
}

func (s *stubCompletion) Complete(context.Context, string, string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestRewriteWithoutLLMProducesRuleVariants(t *testing.T) {
	rewriter := NewQueryRewriter(nil, "", DefaultSearchParams())

	result := rewriter.Rewrite(context.Background(), "о чем говорят в видео")
	if result.OriginalQuery != "о чем говорят в видео" {
		t.Fatalf("unexpected original query: %s", result.OriginalQuery)
	}
	if result.AllQueries[0] != "о чем говорят в видео" {
		t.Fatalf("expected original query first, got %s", result.AllQueries[0])
	}
	if len(result.RewrittenQueries) != 5 {
		t.Fatalf("expected rule variant cap of 5, got %d: %v", len(result.RewrittenQueries), result.RewrittenQueries)
	}
}

func TestRewriteRecoversFromLLMFailure(t *testing.T) {
	llm := &stubCompletion{err: domain.WrapError(domain.ErrRewriteUnavailable, "rewrite", errors.New("backend down"))}
	rewriter := NewQueryRewriter(llm, "", DefaultSearchParams())

	result := rewriter.Rewrite(context.Background(), "о чем говорят в видео")
	if llm.calls != 1 {
		t.Fatalf("expected one completion attempt, got %d", llm.calls)
	}
	if len(result.AllQueries) == 0 || result.AllQueries[0] != "о чем говорят в видео" {
		t.Fatalf("expected original query to survive LLM failure, got %v", result.AllQueries)
	}
	if len(result.RewrittenQueries) == 0 {
		t.Fatalf("expected rule variants despite LLM failure")
	}
}

func TestRewriteTakesLimitedLLMVariantsInOrder(t *testing.T) {
	llm := &stubCompletion{response: "вариант один\nвариант два\nвариант три\nвариант четыре"}
	rewriter := NewQueryRewriter(llm, "", DefaultSearchParams())

	result := rewriter.Rewrite(context.Background(), "тестовый запрос")
	want := []string{"тестовый запрос", "вариант один", "вариант два", "вариант три"}
	for i, expected := range want {
		if result.AllQueries[i] != expected {
			t.Fatalf("AllQueries[%d] = %s, want %s", i, result.AllQueries[i], expected)
		}
	}
	for _, q := range result.AllQueries {
		if q == "вариант четыре" {
			t.Fatalf("expected LLM variants capped at 3, found fourth variant")
		}
	}
}

func TestRewriteDeduplicatesCaseInsensitively(t *testing.T) {
	llm := &stubCompletion{response: "тестовый запрос\nдругой вариант"}
	rewriter := NewQueryRewriter(llm, "", DefaultSearchParams())

	result := rewriter.Rewrite(context.Background(), "Тестовый запрос")

	matches := 0
	for _, q := range result.AllQueries {
		if strings.EqualFold(q, "тестовый запрос") {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("expected one case-insensitive copy of the original, got %d in %v", matches, result.AllQueries)
	}
	if result.AllQueries[0] != "Тестовый запрос" {
		t.Fatalf("expected the original casing to win, got %s", result.AllQueries[0])
	}
}

func TestReplaceWholeWordKeepsPunctuationAndCase(t *testing.T) {
	got := replaceWholeWord("про видео?", "видео", "контент")
	if got != "про контент?" {
		t.Fatalf("replaceWholeWord() = %q, want %q", got, "про контент?")
	}

	// Substrings inside longer words stay untouched.
	got = replaceWholeWord("видеозапись интересная", "видео", "контент")
	if got != "видеозапись интересная" {
		t.Fatalf("replaceWholeWord() = %q, want unchanged input", got)
	}
}

func TestIsolateKeyTermsStripsInterrogatives(t *testing.T) {
	got := isolateKeyTerms("что такое золото")
	if len(got) != 1 || got[0] != "такое золото" {
		t.Fatalf("isolateKeyTerms() = %v, want [такое золото]", got)
	}

	if got := isolateKeyTerms("золото"); got != nil {
		t.Fatalf("expected no variant when nothing is stripped, got %v", got)
	}
}

func TestExpandDomainTermsSkipsPresentTerms(t *testing.T) {
	variants := expandDomainTerms("что рассказывают в видео")
	if len(variants) != 2 {
		t.Fatalf("expected only the mention expansions, got %v", variants)
	}
	for _, v := range variants {
		if strings.Contains(v, "в видео в видео") {
			t.Fatalf("domain expansion duplicated present term: %q", v)
		}
	}

	if got := expandDomainTerms("что обсуждают в видео"); len(got) != 0 {
		t.Fatalf("expected no expansions when both term groups are present, got %v", got)
	}
}
