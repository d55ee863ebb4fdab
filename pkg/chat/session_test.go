package chat

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
)

type fakeAPI struct {
	agentCalls  int
	agentErrs   []error
	lastAgent   api.AgentRequest
	seedCalls   int
	healthCalls int
	statsCalls  int
}

func (f *fakeAPI) Agent(_ context.Context, req api.AgentRequest) (*api.AgentResponse, error) {
	f.agentCalls++
	f.lastAgent = req
	if len(f.agentErrs) > 0 {
		err := f.agentErrs[0]
		f.agentErrs = f.agentErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &api.AgentResponse{
		Text:      fmt.Sprintf("answer %d", f.agentCalls),
		Citations: []string{"policy_returns_v1"},
		Model:     "gpt-4o-mini",
	}, nil
}

func (f *fakeAPI) Seed(_ context.Context, _ []api.DocumentChunk) (*api.SeedResponse, error) {
	f.seedCalls++
	return &api.SeedResponse{Seeded: 8}, nil
}

func (f *fakeAPI) Health(_ context.Context) (*api.HealthResponse, error) {
	f.healthCalls++
	return &api.HealthResponse{Status: "ok", Provider: "openai", Model: "gpt-4o-mini", Version: "0.1.0"}, nil
}

func (f *fakeAPI) Stats(_ context.Context) (*api.StatsResponse, error) {
	f.statsCalls++
	return &api.StatsResponse{Documents: 8, Chunks: 8, EmbeddingDimensions: 1536, Model: "text-embedding-3-small"}, nil
}

func runSession(t *testing.T, f *fakeAPI, input string) string {
	t.Helper()

	var out bytes.Buffer
	s := NewSession(f, strings.NewReader(input), &out)
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"/help", cmdHelp},
		{"/seed", cmdSeed},
		{"/health", cmdHealth},
		{"/stats", cmdStats},
		{"/quit", cmdQuit},
		{"/QUIT", cmdQuit},
		{"/Help", cmdHelp},
		{"/stats now", cmdStats},
		{"/frobnicate", cmdUnknown},
		{"/", cmdUnknown},
		{"hello there", cmdMessage},
		{"what is your return policy", cmdMessage},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCommand(tt.line))
		})
	}
}

func TestQuitSendsNoChatRequest(t *testing.T) {
	f := &fakeAPI{}
	out := runSession(t, f, "/quit\n")

	assert.Equal(t, 0, f.agentCalls)
	assert.Contains(t, out, "bye")
}

func TestEndOfInputTerminates(t *testing.T) {
	f := &fakeAPI{}
	_ = runSession(t, f, "")

	assert.Equal(t, 0, f.agentCalls)
}

func TestMessageRendersAnswerCitationsAndLatency(t *testing.T) {
	f := &fakeAPI{}
	out := runSession(t, f, "what is your return policy\n/quit\n")

	assert.Equal(t, 1, f.agentCalls)
	assert.Contains(t, out, "answer 1")
	assert.Contains(t, out, "sources: policy_returns_v1")
	assert.Contains(t, out, "s)")
	assert.Equal(t, "what is your return policy", f.lastAgent.Query)
	assert.NotEmpty(t, f.lastAgent.UserID)
	// Retrieval depth is the API client's concern; the session leaves it unset.
	assert.Zero(t, f.lastAgent.TopK)
}

func TestNetworkFailureKeepsLoopInteractive(t *testing.T) {
	f := &fakeAPI{agentErrs: []error{fmt.Errorf("connection refused")}}
	out := runSession(t, f, "first\nsecond\n/quit\n")

	assert.Equal(t, 2, f.agentCalls)
	assert.Equal(t, 1, strings.Count(out, "error:"))
	assert.Contains(t, out, "answer 2")
}

func TestFailedTurnLeavesHistoryUnchanged(t *testing.T) {
	f := &fakeAPI{agentErrs: []error{fmt.Errorf("boom")}}
	_ = runSession(t, f, "first\nsecond\n/quit\n")

	// The failed first turn contributes nothing, so the second request
	// carries an empty history.
	assert.Empty(t, f.lastAgent.ChatHistory)
}

func TestHistoryCapped(t *testing.T) {
	f := &fakeAPI{}

	var input strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&input, "message %d\n", i)
	}
	input.WriteString("/quit\n")

	_ = runSession(t, f, input.String())

	require.Equal(t, 12, f.agentCalls)
	assert.Len(t, f.lastAgent.ChatHistory, historyLimit)
	// The oldest messages have been dropped.
	assert.Equal(t, "user", f.lastAgent.ChatHistory[0].Role)
	assert.Equal(t, "message 1", f.lastAgent.ChatHistory[0].Content)
}

func TestLongPastedLineStaysInteractive(t *testing.T) {
	f := &fakeAPI{}
	long := strings.Repeat("policy ", 12*1024) // well past the default 64KB scanner limit
	out := runSession(t, f, long+"\n/quit\n")

	assert.Equal(t, 1, f.agentCalls)
	assert.Equal(t, strings.TrimSpace(long), f.lastAgent.Query)
	assert.Contains(t, out, "bye")
}

func TestUnknownCommandNotSentAsChat(t *testing.T) {
	f := &fakeAPI{}
	out := runSession(t, f, "/frobnicate\n/quit\n")

	assert.Equal(t, 0, f.agentCalls)
	assert.Contains(t, out, "unknown command /frobnicate")
}

func TestSlashCommandsCallTheirEndpoints(t *testing.T) {
	f := &fakeAPI{}
	out := runSession(t, f, "/seed\n/health\n/stats\n/help\n/quit\n")

	assert.Equal(t, 1, f.seedCalls)
	assert.Equal(t, 1, f.healthCalls)
	assert.Equal(t, 1, f.statsCalls)
	assert.Equal(t, 0, f.agentCalls)

	assert.Contains(t, out, "seeded 8 documents")
	assert.Contains(t, out, "status ok")
	assert.Contains(t, out, "1536 dimensions")
	assert.Contains(t, out, "commands:")
}
