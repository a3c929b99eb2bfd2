package domain

import "time"

type EpisodeStatus string

const (
	StatusSubmitted  EpisodeStatus = "submitted"
	StatusProcessing EpisodeStatus = "processing"
	StatusReady      EpisodeStatus = "ready"
	StatusFailed     EpisodeStatus = "failed"
)

// Episode is a single transcribed recording tracked through the
// ingestion pipeline: submitted -> processing -> ready|failed.
type Episode struct {
	ID             string        `json:"id"`
	URL            string        `json:"url"`
	Title          string        `json:"title"`
	Language       string        `json:"language,omitempty"`
	TranscriptPath string        `json:"transcript_path"`
	Status         EpisodeStatus `json:"status"`
	ChunkCount     int           `json:"chunk_count,omitempty"`
	Error          string        `json:"error,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
