package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/infrastructure/resilience"
)

// Client talks to an OpenAI-compatible API. The same client backs the
// embedder, the rewrite completion client and the answer generator.
type Client struct {
	baseURL    string
	apiKey     string
	chatModel  string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout  time.Duration
	Executor *resilience.Executor
}

func New(baseURL, apiKey, chatModel, embedModel string) *Client {
	return NewWithOptions(baseURL, apiKey, chatModel, embedModel, Options{})
}

func NewWithOptions(baseURL, apiKey, chatModel, embedModel string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		chatModel:  chatModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.Executor,
	}
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	err := e.client.call(ctx, "openai.embed", func(ctx context.Context) error {
		return e.client.postJSON(ctx, "/v1/embeddings", request, &response, "embed")
	})
	if err != nil {
		return nil, wrapModelUnavailable("embed", err)
	}

	vectors := make([][]float32, len(texts))
	for _, item := range response.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index out of range: %d", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || vectors[0] == nil {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "embed query", fmt.Errorf("empty embedding result"))
	}
	return vectors[0], nil
}

// Rewriter produces paraphrase completions for query expansion. Its
// failures are wrapped as ErrRewriteUnavailable, which the rewriting
// pipeline recovers from without surfacing to the caller.
type Rewriter struct {
	client *Client
}

func NewRewriter(client *Client) *Rewriter {
	return &Rewriter{client: client}
}

func (r *Rewriter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	text, err := r.client.chatCompletion(ctx, "openai.rewrite", systemPrompt, userPrompt, 0.7, 200)
	if err != nil {
		return "", wrapRewriteUnavailable("rewrite completion", err)
	}
	return text, nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateAnswer(ctx context.Context, question string, sources []domain.ScoredDocument) (string, error) {
	text, err := g.client.chatCompletion(
		ctx,
		"openai.answer",
		answerSystemPrompt,
		buildAnswerPrompt(question, sources),
		0.3,
		256,
	)
	if err != nil {
		return "", wrapModelUnavailable("generate answer", err)
	}
	return text, nil
}

func (c *Client) chatCompletion(
	ctx context.Context,
	operation, systemPrompt, userPrompt string,
	temperature float64,
	maxTokens int,
) (string, error) {
	request := map[string]any{
		"model": c.chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	err := c.call(ctx, operation, func(ctx context.Context) error {
		return c.postJSON(ctx, "/v1/chat/completions", request, &response, "chat")
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	return c.executor.Run(ctx, operation, fn, classifyOpenAIError)
}
