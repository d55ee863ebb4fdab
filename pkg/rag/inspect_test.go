package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspectDimensions(t *testing.T) {
	tests := []struct {
		name           string
		samples        []EmbeddingSample
		expected       int
		wantDimension  int
		wantConsistent bool
		wantMismatched []string
		wantMatches    bool
	}{
		{
			name: "consistent and expected",
			samples: []EmbeddingSample{
				{ChunkID: "docs-001", Values: []float32{1, 2, 3}},
				{ChunkID: "docs-002", Values: []float32{4, 5, 6}},
			},
			expected:       3,
			wantDimension:  3,
			wantConsistent: true,
			wantMatches:    true,
		},
		{
			name: "consistent but unexpected",
			samples: []EmbeddingSample{
				{ChunkID: "docs-001", Values: []float32{1, 2}},
				{ChunkID: "docs-002", Values: []float32{3, 4}},
			},
			expected:       3,
			wantDimension:  2,
			wantConsistent: true,
			wantMatches:    false,
		},
		{
			name: "mismatched sample",
			samples: []EmbeddingSample{
				{ChunkID: "docs-001", Values: []float32{1, 2, 3}},
				{ChunkID: "docs-002", Values: []float32{4, 5}},
				{ChunkID: "docs-003", Values: []float32{6, 7, 8}},
			},
			expected:       3,
			wantDimension:  3,
			wantConsistent: false,
			wantMismatched: []string{"docs-002"},
			wantMatches:    false,
		},
		{
			name:           "no samples",
			samples:        nil,
			expected:       3,
			wantDimension:  0,
			wantConsistent: true,
			wantMatches:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := InspectDimensions(tt.samples, tt.expected)

			assert.Equal(t, tt.expected, report.Expected)
			assert.Equal(t, tt.wantDimension, report.Dimension)
			assert.Equal(t, tt.wantConsistent, report.Consistent)
			assert.Equal(t, tt.wantMismatched, report.Mismatched)
			assert.Equal(t, tt.wantMatches, report.MatchesExpected())
		})
	}
}

func TestEmbeddingSampleLeadingValues(t *testing.T) {
	s := EmbeddingSample{ChunkID: "docs-001", Values: []float32{1, 2, 3}}

	assert.Equal(t, 3, s.Dimension())
	assert.Equal(t, []float32{1, 2}, s.LeadingValues(2))
	assert.Equal(t, []float32{1, 2, 3}, s.LeadingValues(8))
}
