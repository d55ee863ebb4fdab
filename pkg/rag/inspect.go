package rag

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingSample is a read-only view of one stored vector.
type EmbeddingSample struct {
	ChunkID string
	Values  []float32
}

// Dimension returns the sample's vector length.
func (s EmbeddingSample) Dimension() int { return len(s.Values) }

// LeadingValues returns up to n leading values for display.
func (s EmbeddingSample) LeadingValues(n int) []float32 {
	if n > len(s.Values) {
		n = len(s.Values)
	}
	return s.Values[:n]
}

// SampleEmbeddings reads up to limit stored vectors with their chunk ids.
func (c *Client) SampleEmbeddings(ctx context.Context, limit int) ([]EmbeddingSample, error) {
	if c.conn == nil {
		return nil, errNoDatabase
	}
	if c.codecErr != nil {
		return nil, fmt.Errorf("vector type unavailable: %w", c.codecErr)
	}

	query := fmt.Sprintf(
		"SELECT chunk_id, embedding FROM %s WHERE embedding IS NOT NULL LIMIT $1",
		c.Config.TableName,
	)
	rows, err := c.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	var samples []EmbeddingSample
	for rows.Next() {
		var chunkID string
		var vec pgvector.Vector
		if err := rows.Scan(&chunkID, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		samples = append(samples, EmbeddingSample{ChunkID: chunkID, Values: vec.Slice()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return samples, nil
}

// DimensionReport summarises the vector dimensions seen across a set of
// samples. Dimension is taken from the first sample; Mismatched lists the
// chunk ids whose vectors deviate from it.
type DimensionReport struct {
	Expected   int
	Dimension  int
	Consistent bool
	Mismatched []string
}

// MatchesExpected reports whether all samples share the expected dimension.
func (r DimensionReport) MatchesExpected() bool {
	return r.Consistent && r.Dimension == r.Expected
}

// InspectDimensions summarises sampled vectors against an expected dimension.
func InspectDimensions(samples []EmbeddingSample, expected int) DimensionReport {
	report := DimensionReport{Expected: expected, Consistent: true}
	if len(samples) == 0 {
		return report
	}

	report.Dimension = samples[0].Dimension()
	for _, s := range samples[1:] {
		if s.Dimension() != report.Dimension {
			report.Consistent = false
			report.Mismatched = append(report.Mismatched, s.ChunkID)
		}
	}
	return report
}
