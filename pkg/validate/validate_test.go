package validate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShenSeanChen/yt-agentic-rag/internal/testutil/pgtest"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/config"
)

func newTestService(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(api.HealthResponse{
			Status: "ok", Provider: "openai", Model: "gpt-4o-mini", Version: "0.1.0",
		})
		require.NoError(t, err)
	})
	mux.HandleFunc("POST /answer", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(api.AnswerResponse{
			Text: "Returns are accepted within 30 days.", Citations: []string{"docs-001"},
		})
		require.NoError(t, err)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRunReportsEveryCheck(t *testing.T) {
	server := newTestService(t)

	t.Setenv(config.EnvDatabaseURL, "postgres://ragdev@localhost/ragdev")
	t.Setenv(config.EnvLLMAPIKey, "test-key")

	cfg := config.Default()
	cfg.Database.URL = "" // database check fails without connecting

	apiClient, err := api.NewClient(server.URL)
	require.NoError(t, err)

	v := New(cfg, apiClient)
	ctx := context.Background()
	defer v.Close(ctx)

	results := Run(ctx, v.Checks())
	require.Len(t, results, 6)

	wantNames := []string{"service", "environment", "database", "schema", "documents", "query"}
	for i, r := range results {
		assert.Equal(t, wantNames[i], r.Name)
		assert.NotEmpty(t, r.Message)
	}

	// The service, environment and query checks pass; the database check
	// fails and the checks that need the store are reported failed too,
	// never skipped.
	assert.True(t, results[0].Passed)
	assert.True(t, results[1].Passed)
	assert.False(t, results[2].Passed)
	assert.False(t, results[3].Passed)
	assert.False(t, results[4].Passed)
	assert.True(t, results[5].Passed)

	assert.Equal(t, 3, Failed(results))
}

func TestOneMissingEnvFailsOnlyThatCheck(t *testing.T) {
	server := newTestService(t)

	t.Setenv(config.EnvDatabaseURL, "postgres://ragdev@localhost/ragdev")
	t.Setenv(config.EnvLLMAPIKey, "test-key")

	cfg := config.Default()
	cfg.Database.URL = ""

	apiClient, err := api.NewClient(server.URL)
	require.NoError(t, err)

	ctx := context.Background()

	baselineV := New(cfg, apiClient)
	baseline := Run(ctx, baselineV.Checks())
	baselineV.Close(ctx)

	t.Setenv(config.EnvLLMAPIKey, "")

	v := New(cfg, apiClient)
	defer v.Close(ctx)

	results := Run(ctx, v.Checks())
	require.Len(t, results, 6)

	for i, r := range results {
		if r.Name == "environment" {
			assert.True(t, baseline[i].Passed)
			assert.False(t, r.Passed)
			assert.Contains(t, r.Message, config.EnvLLMAPIKey)
			assert.NotContains(t, r.Message, config.EnvDatabaseURL)
			continue
		}
		assert.Equal(t, baseline[i].Passed, r.Passed, "check %s changed outcome", r.Name)
	}
}

func TestEnvironmentCheckListsAllMissing(t *testing.T) {
	for _, name := range config.RequiredEnv {
		t.Setenv(name, "")
	}

	v := New(config.Default(), nil)
	_, err := v.checkEnvironment(context.Background())
	require.Error(t, err)

	for _, name := range config.RequiredEnv {
		assert.Contains(t, err.Error(), name)
	}
}

func TestQueryCheckRejectsEmptyAnswer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /answer", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(api.AnswerResponse{Text: "   "}))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	apiClient, err := api.NewClient(server.URL)
	require.NoError(t, err)

	v := New(config.Default(), apiClient)
	_, err = v.checkQuery(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty answer")
}

func TestValidatorAllChecksPass(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE")
	if dsn == "" {
		t.Skip("TEST_DATABASE not set")
	}

	ctx := context.Background()
	conn := pgtest.Connect(ctx, t)

	table := "ragdev_validate_test"
	pgtest.CreateChunkTable(ctx, t, conn, table, 3)
	pgtest.InsertChunk(ctx, t, conn, table, "docs-001", "faq.md", "returns accepted within 30 days", []float32{1, 0, 0})

	server := newTestService(t)

	t.Setenv(config.EnvDatabaseURL, dsn)
	t.Setenv(config.EnvLLMAPIKey, "test-key")

	cfg := config.Default()
	cfg.Database.URL = dsn
	cfg.Database.Table = table

	apiClient, err := api.NewClient(server.URL)
	require.NoError(t, err)

	v := New(cfg, apiClient)
	defer v.Close(ctx)

	results := Run(ctx, v.Checks())
	require.Len(t, results, 6)

	for _, r := range results {
		assert.True(t, r.Passed, "check %s failed: %s", r.Name, r.Message)
	}
	assert.Equal(t, 0, Failed(results))
}
