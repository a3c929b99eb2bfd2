package memindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

type entry struct {
	id       string
	text     string
	metadata map[string]any
	vector   []float32
}

// Index is an in-process vector index for local runs and tests. It ranks by
// cosine similarity and reports distance as 1-similarity, matching the
// qdrant client.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	nextID  int
}

func New() *Index {
	return &Index{}
}

func (x *Index) IndexChunks(_ context.Context, ep *domain.Episode, chunks []string, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for i := range chunks {
		x.nextID++
		x.entries = append(x.entries, entry{
			id:     fmt.Sprintf("%s-%d", ep.ID, x.nextID),
			text:   chunks[i],
			vector: vectors[i],
			metadata: map[string]any{
				"episode_id":  ep.ID,
				"title":       ep.Title,
				"url":         ep.URL,
				"chunk_index": i,
			},
		})
	}
	return nil
}

func (x *Index) QuerySimilar(_ context.Context, vector []float32, topK int) ([]domain.Document, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) == 0 || topK <= 0 {
		return []domain.Document{}, nil
	}

	out := make([]domain.Document, 0, len(x.entries))
	for _, e := range x.entries {
		out = append(out, domain.Document{
			ID:       e.id,
			Text:     e.text,
			Metadata: e.metadata,
			Distance: 1 - cosine(vector, e.vector),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
