package rag

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"go.uber.org/zap"
)

// errNoDatabase is returned by store operations on a client built without a
// connection (API-only use, e.g. fetching embeddings while the database is
// down).
var errNoDatabase = errors.New("no database connection")

// Config holds the configuration for the RAG Client
type Config struct {
	// TableName is the chunk table, optionally schema-qualified.
	TableName string
	// ModelID names the embedding model.
	ModelID string
	// APIURL and APIKey locate the embeddings API.
	APIURL string
	APIKey string
	// EmbeddingsPath is the embeddings endpoint path on APIURL.
	EmbeddingsPath string
	// Dimensions is the vector width the store is expected to hold.
	Dimensions int
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		ModelID:        "text-embedding-3-small",
		APIKey:         cmp.Or(os.Getenv("LLM_API_KEY"), ""),
		TableName:      "rag_chunks",
		Dimensions:     1536, // text-embedding-3-small
		APIURL:         cmp.Or(os.Getenv("LLM_API_URL"), "https://api.openai.com"),
		EmbeddingsPath: "/v1/embeddings",
	}
}

// Client reads the service's vector store and talks to its embeddings API.
// All database access is read-only: the tools inspect the store, they never
// create or alter it.
type Client struct {
	conn   *pgx.Conn
	logger *zap.Logger
	Config Config

	// codecErr records why pgvector types could not be registered, so
	// schema problems surface in the check that inspects them rather than
	// at connect time.
	codecErr error
}

// NewClient creates a new RAG client. conn may be nil for API-only use;
// store operations then return an error.
func NewClient(conn *pgx.Conn, config Config, loggers ...*zap.Logger) (*Client, error) {
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

	client := &Client{
		conn:   conn,
		Config: config,
		logger: logger,
	}

	// Registering the vector codec fails when the extension is missing;
	// that is a finding for CheckSchema, not a construction error.
	if conn != nil {
		if err := pgxvector.RegisterTypes(context.Background(), conn); err != nil {
			client.codecErr = err
			logger.Warn("pgvector types not registered", zap.Error(err))
		}
	}

	return client, nil
}

// Connect opens a connection to connString and returns a client on it.
func Connect(ctx context.Context, connString string, config Config, loggers ...*zap.Logger) (*Client, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewClient(conn, config, loggers...)
}

// Close releases the underlying connection.
func (c *Client) Close(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close(ctx)
}

// Ping verifies the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return errNoDatabase
	}
	if err := c.conn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// HasDatabase reports whether the client was built with a connection.
func (c *Client) HasDatabase() bool {
	return c.conn != nil
}

// CountChunks returns the number of rows in the chunk table.
func (c *Client) CountChunks(ctx context.Context) (int64, error) {
	if c.conn == nil {
		return 0, errNoDatabase
	}
	var count int64
	query := fmt.Sprintf("SELECT count(*) FROM %s", c.Config.TableName)
	if err := c.conn.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// ScoredChunk is a stored chunk with its cosine similarity to a query vector.
type ScoredChunk struct {
	ChunkID    string
	Source     string
	Content    string
	Similarity float64
}

// SearchSimilar retrieves the rows nearest to the query vector, most similar
// first. Similarity is 1 minus the cosine distance reported by pgvector.
func (c *Client) SearchSimilar(ctx context.Context, query []float32, limit int) ([]ScoredChunk, error) {
	if c.conn == nil {
		return nil, errNoDatabase
	}
	if c.codecErr != nil {
		return nil, fmt.Errorf("vector type unavailable: %w", c.codecErr)
	}

	queryStr := fmt.Sprintf(
		"SELECT chunk_id, source, content, 1 - (embedding <=> $1) FROM %s ORDER BY embedding <=> $1 LIMIT $2",
		c.Config.TableName,
	)

	rows, err := c.conn.Query(ctx, queryStr, pgvector.NewVector(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var results []ScoredChunk
	for rows.Next() {
		var chunk ScoredChunk
		if err := rows.Scan(&chunk.ChunkID, &chunk.Source, &chunk.Content, &chunk.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return results, nil
}
