package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/core/ports"
)

// ProcessEpisodeUseCase runs the indexing pipeline for one submitted
// episode: load transcript, normalize, chunk, embed, index.
type ProcessEpisodeUseCase struct {
	repo     ports.EpisodeRepository
	storage  ports.TranscriptStorage
	chunker  ports.Chunker
	embedder ports.Embedder
	index    ports.VectorIndex
}

func NewProcessEpisodeUseCase(
	repo ports.EpisodeRepository,
	storage ports.TranscriptStorage,
	chunker ports.Chunker,
	embedder ports.Embedder,
	index ports.VectorIndex,
) *ProcessEpisodeUseCase {
	return &ProcessEpisodeUseCase{
		repo:     repo,
		storage:  storage,
		chunker:  chunker,
		embedder: embedder,
		index:    index,
	}
}

func (uc *ProcessEpisodeUseCase) ProcessByID(ctx context.Context, episodeID string) error {
	if err := uc.repo.UpdateStatus(ctx, episodeID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	chunkCount, err := uc.runPipeline(ctx, episodeID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, episodeID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SetChunkCount(ctx, episodeID, chunkCount); err != nil {
		return fmt.Errorf("save chunk count: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, episodeID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessEpisodeUseCase) runPipeline(ctx context.Context, episodeID string) (int, error) {
	ep, err := uc.repo.GetByID(ctx, episodeID)
	if err != nil {
		return 0, fmt.Errorf("fetch episode by id: %w", err)
	}

	text, err := uc.loadTranscript(ctx, ep)
	if err != nil {
		return 0, err
	}

	chunks := uc.chunker.Split(normalizeTranscript(text))
	if len(chunks) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "chunk transcript", errors.New("chunking produced zero chunks"))
	}

	vectors, err := uc.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}

	if err := uc.index.IndexChunks(ctx, ep, chunks, vectors); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	return len(chunks), nil
}

func (uc *ProcessEpisodeUseCase) loadTranscript(ctx context.Context, ep *domain.Episode) (string, error) {
	reader, err := uc.storage.Open(ctx, ep.TranscriptPath)
	if err != nil {
		return "", fmt.Errorf("open transcript: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	text := string(raw)
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "read transcript", errors.New("empty transcript"))
	}
	return text, nil
}

// ASR output arrives with erratic spacing and line breaks; collapse it to
// single-spaced text before chunking.
func normalizeTranscript(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
