package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/core/ports"
)

// IngestTranscriptUseCase accepts a transcribed episode, stores the raw
// transcript, records episode metadata and hands processing off to the
// worker via the queue.
type IngestTranscriptUseCase struct {
	repo    ports.EpisodeRepository
	storage ports.TranscriptStorage
	queue   ports.MessageQueue
}

func NewIngestTranscriptUseCase(
	repo ports.EpisodeRepository,
	storage ports.TranscriptStorage,
	queue ports.MessageQueue,
) *IngestTranscriptUseCase {
	return &IngestTranscriptUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestTranscriptUseCase) Submit(
	ctx context.Context,
	url, title, language string,
	transcript io.Reader,
) (*domain.Episode, error) {
	if strings.TrimSpace(url) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit transcript", errors.New("empty episode url"))
	}

	id := uuid.NewString()
	storageKey := id + ".txt"
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, transcript); err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}

	ep := &domain.Episode{
		ID:             id,
		URL:            url,
		Title:          title,
		Language:       language,
		TranscriptPath: storageKey,
		Status:         domain.StatusSubmitted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.repo.Create(ctx, ep); err != nil {
		return nil, fmt.Errorf("create episode metadata: %w", err)
	}

	if err := uc.queue.PublishEpisodeSubmitted(ctx, ep.ID); err != nil {
		return nil, fmt.Errorf("publish episode event: %w", err)
	}

	return ep, nil
}
