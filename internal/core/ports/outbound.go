package ports

import (
	"context"
	"io"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

// Embedder builds vectors for transcript chunks and query text.
// Implementations report backend outages as domain.ErrModelUnavailable.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores chunk vectors and performs nearest-neighbour search.
// QuerySimilar returns an empty slice, not an error, when the index holds
// no points.
type VectorIndex interface {
	IndexChunks(ctx context.Context, ep *domain.Episode, chunks []string, vectors [][]float32) error
	QuerySimilar(ctx context.Context, vector []float32, topK int) ([]domain.Document, error)
}

// CompletionClient is the optional LLM backend used for query rewriting.
// Implementations report transport/auth/rate-limit failures as
// domain.ErrRewriteUnavailable.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AnswerGenerator creates the final user-facing answer from retrieved chunks.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, sources []domain.ScoredDocument) (string, error)
}

// EpisodeRepository persists and reads episode state.
type EpisodeRepository interface {
	Create(ctx context.Context, ep *domain.Episode) error
	GetByID(ctx context.Context, id string) (*domain.Episode, error)
	UpdateStatus(ctx context.Context, id string, status domain.EpisodeStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, count int) error
}

// TranscriptStorage stores raw transcript artifacts.
type TranscriptStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes episode processing events.
type MessageQueue interface {
	PublishEpisodeSubmitted(ctx context.Context, episodeID string) error
	SubscribeEpisodeSubmitted(ctx context.Context, handler func(context.Context, string) error) error
}

// Chunker splits normalized transcript text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}
