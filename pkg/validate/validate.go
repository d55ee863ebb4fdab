// Package validate runs the setup checks for the RAG service: service
// reachability, environment, database, schema, seeded documents and a sample
// query. Checks run in a fixed order and every check is reported, even when
// an earlier one failed.
package validate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/config"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/rag"
)

// SampleQuery is answerable from the default seed corpus.
const SampleQuery = "What is your return policy?"

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// Check is a named validation step. Run returns a human-readable success
// message, or an error describing the failure.
type Check struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

// Validator holds the collaborators the checks run against.
type Validator struct {
	api    *api.Client
	cfg    config.Config
	logger *zap.Logger

	// store is established by the database check and reused by the schema
	// and documents checks.
	store *rag.Client
}

// New creates a Validator for the given configuration.
func New(cfg config.Config, apiClient *api.Client, loggers ...*zap.Logger) *Validator {
	var logger *zap.Logger
	if len(loggers) > 0 && loggers[0] != nil {
		logger = loggers[0]
	} else {
		logger = zap.NewNop()
	}

	return &Validator{
		api:    apiClient,
		cfg:    cfg,
		logger: logger,
	}
}

// Close releases the database connection if the database check opened one.
func (v *Validator) Close(ctx context.Context) {
	if v.store != nil {
		if err := v.store.Close(ctx); err != nil {
			v.logger.Warn("failed to close database connection", zap.Error(err))
		}
	}
}

// Checks returns the six checks in their fixed execution order.
func (v *Validator) Checks() []Check {
	return []Check{
		{Name: "service", Run: v.checkService},
		{Name: "environment", Run: v.checkEnvironment},
		{Name: "database", Run: v.checkDatabase},
		{Name: "schema", Run: v.checkSchema},
		{Name: "documents", Run: v.checkDocuments},
		{Name: "query", Run: v.checkQuery},
	}
}

// Run executes every check in order. A failing check never stops the scan.
func Run(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		message, err := check.Run(ctx)
		result := CheckResult{Name: check.Name, Passed: err == nil, Message: message}
		if err != nil {
			result.Message = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// Failed counts the checks that did not pass.
func Failed(results []CheckResult) int {
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	return failed
}

func (v *Validator) checkService(ctx context.Context) (string, error) {
	health, err := v.api.Health(ctx)
	if err != nil {
		return "", fmt.Errorf("service unreachable at %s: %w", v.api.BaseURL, err)
	}
	return fmt.Sprintf("service %s (provider %s, model %s)", health.Status, health.Provider, health.Model), nil
}

func (v *Validator) checkEnvironment(_ context.Context) (string, error) {
	missing := config.MissingEnv()
	if len(missing) > 0 {
		return "", fmt.Errorf("missing: %s", strings.Join(missing, ", "))
	}
	return "all required variables set", nil
}

func (v *Validator) checkDatabase(ctx context.Context) (string, error) {
	if v.cfg.Database.URL == "" {
		return "", fmt.Errorf("%s is not set", config.EnvDatabaseURL)
	}

	storeCfg := rag.DefaultConfig()
	storeCfg.TableName = v.cfg.Database.Table
	storeCfg.ModelID = v.cfg.LLM.EmbedModel
	storeCfg.APIURL = v.cfg.LLM.APIURL
	storeCfg.APIKey = v.cfg.LLM.APIKey
	storeCfg.Dimensions = v.cfg.LLM.Dimensions

	store, err := rag.Connect(ctx, v.cfg.Database.URL, storeCfg, v.logger)
	if err != nil {
		return "", err
	}
	v.store = store

	if err := store.Ping(ctx); err != nil {
		return "", err
	}
	return "connected", nil
}

func (v *Validator) checkSchema(ctx context.Context) (string, error) {
	if v.store == nil {
		return "", fmt.Errorf("database unavailable")
	}

	report, err := v.store.CheckSchema(ctx)
	if err != nil {
		return "", err
	}
	if !report.OK() {
		return "", fmt.Errorf("%s", strings.Join(report.Problems(), "; "))
	}
	return "vector extension, table and columns present", nil
}

func (v *Validator) checkDocuments(ctx context.Context) (string, error) {
	if v.store == nil {
		return "", fmt.Errorf("database unavailable")
	}

	count, err := v.store.CountChunks(ctx)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", fmt.Errorf("no documents seeded")
	}
	return fmt.Sprintf("%d chunks stored", count), nil
}

func (v *Validator) checkQuery(ctx context.Context) (string, error) {
	answer, err := v.api.Answer(ctx, SampleQuery)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer.Text) == "" {
		return "", fmt.Errorf("empty answer for %q", SampleQuery)
	}
	return fmt.Sprintf("answered with %d citations", len(answer.Citations)), nil
}
