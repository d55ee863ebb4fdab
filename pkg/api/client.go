package api

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/httpclient"
)

// DefaultTopK is the service-side default for retrieval depth.
const DefaultTopK = 6

// MaxTopK is the largest retrieval depth the service accepts.
const MaxTopK = 20

// Client calls the RAG service's HTTP endpoints. It is a thin consumer: no
// retries, one blocking call at a time.
type Client struct {
	// BaseURL is the service root, e.g. http://localhost:8000.
	BaseURL string
	// TopK is the retrieval depth sent with answer/agent/search requests
	// when the caller does not choose one.
	TopK int

	logger *zap.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, loggers ...*zap.Logger) (*Client, error) {
	var logger *zap.Logger
	if len(loggers) > 0 && loggers[0] != nil {
		logger = loggers[0]
	} else {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		TopK:    DefaultTopK,
		logger:  logger,
	}, nil
}

// ClampTopK normalizes a requested retrieval depth to the service's accepted
// range, substituting the default for zero or negative values.
func ClampTopK(k int) int {
	if k < 1 {
		return DefaultTopK
	}
	if k > MaxTopK {
		return MaxTopK
	}
	return k
}

// Answer asks the plain RAG endpoint for an answer to query.
func (c *Client) Answer(ctx context.Context, query string) (*AnswerResponse, error) {
	req := AnswerRequest{Query: query, TopK: ClampTopK(c.TopK)}
	var resp AnswerResponse
	if err := c.post(ctx, "/answer", req, &resp, chatTimeout); err != nil {
		return nil, fmt.Errorf("answer request failed: %w", err)
	}
	return &resp, nil
}

// Agent asks the agentic endpoint, carrying any chat history in req. A zero
// TopK takes the client's configured depth; the result is clamped into the
// accepted range.
func (c *Client) Agent(ctx context.Context, req AgentRequest) (*AgentResponse, error) {
	req.TopK = ClampTopK(cmp.Or(req.TopK, c.TopK))
	var resp AgentResponse
	if err := c.post(ctx, "/agent", req, &resp, chatTimeout); err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	return &resp, nil
}

// Search returns the chunks most similar to query, ranked by similarity. A
// zero topK takes the client's configured depth.
func (c *Client) Search(ctx context.Context, query string, topK int) (*SearchResponse, error) {
	req := SearchRequest{Query: query, TopK: ClampTopK(cmp.Or(topK, c.TopK))}
	var resp SearchResponse
	if err := c.post(ctx, "/search", req, &resp, defaultTimeout); err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	return &resp, nil
}

// Health calls the service's health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Stats fetches knowledge-base counts from the service.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.get(ctx, "/stats", &resp); err != nil {
		return nil, fmt.Errorf("stats request failed: %w", err)
	}
	return &resp, nil
}

// Seed asks the service to (re)seed its knowledge base. A nil docs seeds the
// server-side defaults.
func (c *Client) Seed(ctx context.Context, docs []DocumentChunk) (*SeedResponse, error) {
	req := SeedRequest{Docs: docs}
	var resp SeedResponse
	if err := c.post(ctx, "/seed", req, &resp, seedTimeout); err != nil {
		return nil, fmt.Errorf("seed request failed: %w", err)
	}
	return &resp, nil
}

const (
	defaultTimeout = 10 * time.Second
	// Generation endpoints wait on an LLM round trip.
	chatTimeout = 60 * time.Second
	// Seeding embeds the whole corpus before returning.
	seedTimeout = 120 * time.Second
)

func (c *Client) post(ctx context.Context, path string, in, out interface{}, timeout time.Duration) error {
	config := httpclient.DefaultRequestConfig(http.MethodPost, c.BaseURL+path)
	config.Timeout = timeout
	config.Headers = map[string][]string{
		"X-Request-ID": {uuid.NewString()},
	}

	start := time.Now()
	err := httpclient.RequestJSON(ctx, config, in, out)
	c.logger.Debug("api request",
		zap.String("method", http.MethodPost),
		zap.String("path", path),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
	return err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	config := httpclient.DefaultRequestConfig(http.MethodGet, c.BaseURL+path)
	config.Headers = map[string][]string{
		"X-Request-ID": {uuid.NewString()},
	}

	start := time.Now()
	err := httpclient.RequestJSON(ctx, config, nil, out)
	c.logger.Debug("api request",
		zap.String("method", http.MethodGet),
		zap.String("path", path),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
	return err
}
