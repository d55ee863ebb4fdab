package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShenSeanChen/yt-agentic-rag/internal/testutil/pgtest"
)

func TestSchemaReport(t *testing.T) {
	tests := []struct {
		name         string
		report       SchemaReport
		wantOK       bool
		wantProblems int
	}{
		{
			name:   "all present",
			report: SchemaReport{VectorExtension: true, TableExists: true},
			wantOK: true,
		},
		{
			name:         "extension missing",
			report:       SchemaReport{VectorExtension: false, TableExists: true},
			wantOK:       false,
			wantProblems: 1,
		},
		{
			name:         "table missing",
			report:       SchemaReport{VectorExtension: true, TableExists: false},
			wantOK:       false,
			wantProblems: 1,
		},
		{
			name: "columns missing",
			report: SchemaReport{
				VectorExtension: true,
				TableExists:     true,
				MissingColumns:  []string{"chunk_id", "embedding"},
			},
			wantOK:       false,
			wantProblems: 1,
		},
		{
			name:         "everything missing",
			report:       SchemaReport{},
			wantOK:       false,
			wantProblems: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, tt.report.OK())
			assert.Len(t, tt.report.Problems(), tt.wantProblems)
		})
	}
}

func TestSplitSchemaTableName(t *testing.T) {
	tests := []struct {
		input      string
		wantSchema string
		wantTable  string
	}{
		{"rag_chunks", "public", "rag_chunks"},
		{"app.rag_chunks", "app", "rag_chunks"},
	}

	for _, tt := range tests {
		schema, table := splitSchemaTableName(tt.input)
		assert.Equal(t, tt.wantSchema, schema)
		assert.Equal(t, tt.wantTable, table)
	}
}

func TestCheckSchema(t *testing.T) {
	ctx := context.Background()
	conn := pgtest.Connect(ctx, t)

	config := DefaultConfig()
	config.TableName = "ragdev_schema_test"
	config.Dimensions = 3

	pgtest.CreateChunkTable(ctx, t, conn, config.TableName, config.Dimensions)

	c, err := NewClient(conn, config)
	require.NoError(t, err)

	t.Run("TablePresent", func(t *testing.T) {
		report, err := c.CheckSchema(ctx)
		require.NoError(t, err)

		assert.True(t, report.VectorExtension)
		assert.True(t, report.TableExists)
		assert.Empty(t, report.MissingColumns)
		assert.True(t, report.OK())
	})

	t.Run("TableAbsent", func(t *testing.T) {
		missing := *c
		missing.Config.TableName = "ragdev_no_such_table"

		report, err := missing.CheckSchema(ctx)
		require.NoError(t, err)

		assert.True(t, report.VectorExtension)
		assert.False(t, report.TableExists)
		assert.False(t, report.OK())
	})
}
