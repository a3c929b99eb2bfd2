package ports

import (
	"context"
	"io"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

// QueryService is the inbound contract for retrieval-augmented answering.
type QueryService interface {
	Ask(ctx context.Context, question string, topK int, mode domain.RetrievalMode) (*domain.Answer, error)
}

// TranscriptIngestor accepts a transcribed episode for indexing.
type TranscriptIngestor interface {
	Submit(ctx context.Context, url, title, language string, transcript io.Reader) (*domain.Episode, error)
}

// EpisodeProcessor is the inbound contract for asynchronous episode processing.
type EpisodeProcessor interface {
	ProcessByID(ctx context.Context, episodeID string) error
}

// EpisodeReader is the inbound read model for episode state.
type EpisodeReader interface {
	GetByID(ctx context.Context, id string) (*domain.Episode, error)
}
