package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/core/ports"
)

// QueryUseCase answers a user question from retrieved transcript chunks.
type QueryUseCase struct {
	retriever   *RetrieveUseCase
	generator   ports.AnswerGenerator
	defaultMode domain.RetrievalMode
}

func NewQueryUseCase(
	retriever *RetrieveUseCase,
	generator ports.AnswerGenerator,
	defaultMode domain.RetrievalMode,
) *QueryUseCase {
	if defaultMode == "" {
		defaultMode = domain.ModeSemantic
	}
	return &QueryUseCase{
		retriever:   retriever,
		generator:   generator,
		defaultMode: defaultMode,
	}
}

func (uc *QueryUseCase) Ask(ctx context.Context, question string, topK int, mode domain.RetrievalMode) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("empty question"))
	}
	if mode == "" {
		mode = uc.defaultMode
	}

	sources, err := uc.retriever.Retrieve(ctx, question, topK, mode)
	if err != nil {
		return nil, fmt.Errorf("retrieve documents: %w", err)
	}

	// An empty candidate set is a valid terminal state; the generator is
	// still asked and answers that it does not know.
	answerText, err := uc.generator.GenerateAnswer(ctx, question, sources)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    answerText,
		Sources: sources,
	}, nil
}
