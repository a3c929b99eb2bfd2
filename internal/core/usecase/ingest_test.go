package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

type ingestRepoFake struct {
	created   *domain.Episode
	createErr error
}

func (f *ingestRepoFake) Create(_ context.Context, ep *domain.Episode) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = ep
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.Episode, error) {
	return nil, errors.New("not implemented")
}

func (f *ingestRepoFake) UpdateStatus(context.Context, string, domain.EpisodeStatus, string) error {
	return nil
}

func (f *ingestRepoFake) SetChunkCount(context.Context, string, int) error { return nil }

type transcriptStoreFake struct {
	saved   map[string]string
	saveErr error
	content string
	openErr error
}

func (f *transcriptStoreFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[key] = string(raw)
	return nil
}

func (f *transcriptStoreFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishEpisodeSubmitted(_ context.Context, episodeID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, episodeID)
	return nil
}

func (f *queueFake) SubscribeEpisodeSubmitted(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestSubmitStoresTranscriptAndPublishes(t *testing.T) {
	repo := &ingestRepoFake{}
	store := &transcriptStoreFake{}
	queue := &queueFake{}
	uc := NewIngestTranscriptUseCase(repo, store, queue)

	ep, err := uc.Submit(
		context.Background(),
		"https://youtube.com/watch?v=abc",
		"Выпуск 1",
		"ru",
		strings.NewReader("текст расшифровки"),
	)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ep.Status != domain.StatusSubmitted {
		t.Fatalf("expected submitted status, got %s", ep.Status)
	}
	if ep.TranscriptPath != ep.ID+".txt" {
		t.Fatalf("unexpected transcript path: %s", ep.TranscriptPath)
	}
	if got := store.saved[ep.TranscriptPath]; got != "текст расшифровки" {
		t.Fatalf("transcript not stored, got %q", got)
	}
	if repo.created == nil || repo.created.ID != ep.ID {
		t.Fatalf("episode metadata not persisted")
	}
	if len(queue.published) != 1 || queue.published[0] != ep.ID {
		t.Fatalf("expected one published event for %s, got %v", ep.ID, queue.published)
	}
}

func TestSubmitRejectsEmptyURL(t *testing.T) {
	uc := NewIngestTranscriptUseCase(&ingestRepoFake{}, &transcriptStoreFake{}, &queueFake{})

	_, err := uc.Submit(context.Background(), "  ", "", "", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmitPropagatesStorageFailure(t *testing.T) {
	store := &transcriptStoreFake{saveErr: errors.New("disk full")}
	queue := &queueFake{}
	uc := NewIngestTranscriptUseCase(&ingestRepoFake{}, store, queue)

	_, err := uc.Submit(context.Background(), "https://example.com", "", "", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(queue.published) != 0 {
		t.Fatalf("must not publish after storage failure")
	}
}
