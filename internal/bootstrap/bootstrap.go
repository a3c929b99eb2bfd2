package bootstrap

import (
	"context"
	"fmt"

	"github.com/dataengy/llm-rag-from-yt/internal/config"
	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/core/ports"
	"github.com/dataengy/llm-rag-from-yt/internal/core/usecase"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/chunking"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/llm/openai"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/queue/nats"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/repository/postgres"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/resilience"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/storage/localfs"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/vector/memindex"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.EpisodeRepository
	IngestUC  ports.TranscriptIngestor
	ProcessUC ports.EpisodeProcessor
	QueryUC   ports.QueryService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewEpisodeRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init transcript storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	llmClient := openai.NewWithOptions(
		cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIChatModel, cfg.OpenAIEmbedModel,
		openai.Options{Executor: executor},
	)
	embedder := openai.NewEmbedder(llmClient)
	generator := openai.NewGenerator(llmClient)

	index := buildVectorIndex(cfg)
	chunker := chunking.NewSplitter(cfg.ChunkSizeWords, cfg.ChunkOverlapWords)

	params := searchParams(cfg)
	hybrid := usecase.NewHybridSearcher(embedder, index, params)

	var rewriter *usecase.QueryRewriter
	if cfg.RAGRewriteEnabled {
		rewriter = usecase.NewQueryRewriter(openai.NewRewriter(llmClient), cfg.RewriteDomain, params)
	}

	retrieveUC := usecase.NewRetrieveUseCase(embedder, index, hybrid, rewriter, params)
	queryUC := usecase.NewQueryUseCase(retrieveUC, generator, domain.RetrievalMode(cfg.RAGRetrievalMode))
	ingestUC := usecase.NewIngestTranscriptUseCase(repo, storage, queue)
	processUC := usecase.NewProcessEpisodeUseCase(repo, storage, chunker, embedder, index)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func buildVectorIndex(cfg config.Config) ports.VectorIndex {
	if cfg.VectorBackend == "memory" {
		return memindex.New()
	}
	return qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
}

func searchParams(cfg config.Config) usecase.SearchParams {
	params := usecase.DefaultSearchParams()
	params.DefaultTopK = cfg.RAGTopK
	params.VectorWeight = cfg.RAGVectorWeight
	params.TextWeight = cfg.RAGTextWeight
	params.BothBonus = cfg.RAGBothBonus
	params.FusionStrategy = cfg.RAGFusionStrategy
	params.RRFK = cfg.RAGFusionRRFK
	params.RerankEnabled = cfg.RAGRerankEnabled
	params.RewriteVariants = cfg.RAGRewriteVariants
	return params
}
