// Package chat implements the interactive terminal client for the RAG
// service. Input lines starting with a slash are dispatched as commands;
// everything else is sent to the agent endpoint with the running history.
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/metrics"
)

// historyLimit caps the chat history sent with each request to the most
// recent messages.
const historyLimit = 20

type command int

const (
	cmdMessage command = iota // not a slash command, send as chat
	cmdHelp
	cmdSeed
	cmdHealth
	cmdStats
	cmdQuit
	cmdUnknown
)

// parseCommand classifies one input line. The command word is matched
// case-insensitively; unrecognized slash input is cmdUnknown and is never
// sent as a chat message.
func parseCommand(line string) command {
	if !strings.HasPrefix(line, "/") {
		return cmdMessage
	}

	word, _, _ := strings.Cut(line, " ")
	switch strings.ToLower(word) {
	case "/help":
		return cmdHelp
	case "/seed":
		return cmdSeed
	case "/health":
		return cmdHealth
	case "/stats":
		return cmdStats
	case "/quit":
		return cmdQuit
	default:
		return cmdUnknown
	}
}

// API is the service surface the session uses.
type API interface {
	Agent(ctx context.Context, req api.AgentRequest) (*api.AgentResponse, error)
	Seed(ctx context.Context, docs []api.DocumentChunk) (*api.SeedResponse, error)
	Health(ctx context.Context) (*api.HealthResponse, error)
	Stats(ctx context.Context) (*api.StatsResponse, error)
}

// Turn is one completed exchange.
type Turn struct {
	Input     string
	Response  string
	Citations []string
	Latency   time.Duration
}

// Session is one interactive chat session. It owns the running history and a
// session-scoped user id.
type Session struct {
	api     API
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
	userID  string
	history []api.ChatMessage
}

// NewSession creates a session reading from in and rendering to out.
func NewSession(client API, in io.Reader, out io.Writer, loggers ...*zap.Logger) *Session {
	var logger *zap.Logger
	if len(loggers) > 0 && loggers[0] != nil {
		logger = loggers[0]
	} else {
		logger = zap.NewNop()
	}

	return &Session{
		api:    client,
		in:     in,
		out:    out,
		logger: logger,
		userID: uuid.NewString(),
	}
}

// Run reads input lines until /quit or end of input. Network failures are
// rendered as a single error line and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "RAG chat. Type /help for commands, /quit to exit.")

	scanner := bufio.NewScanner(s.in)
	// Pasted input can far exceed the scanner's default 64KB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			// End of input behaves like /quit.
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch parseCommand(line) {
		case cmdQuit:
			fmt.Fprintln(s.out, "bye")
			return nil
		case cmdHelp:
			s.printHelp()
		case cmdSeed:
			s.runSeed(ctx)
		case cmdHealth:
			s.runHealth(ctx)
		case cmdStats:
			s.runStats(ctx)
		case cmdUnknown:
			word, _, _ := strings.Cut(line, " ")
			fmt.Fprintf(s.out, "unknown command %s, type /help for the list\n", word)
		case cmdMessage:
			s.sendMessage(ctx, line)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "commands:")
	fmt.Fprintln(s.out, "  /help    show this help")
	fmt.Fprintln(s.out, "  /seed    seed the default documents")
	fmt.Fprintln(s.out, "  /health  service health")
	fmt.Fprintln(s.out, "  /stats   knowledge base stats")
	fmt.Fprintln(s.out, "  /quit    exit")
	fmt.Fprintln(s.out, "anything else is sent as a chat message")
}

func (s *Session) runSeed(ctx context.Context) {
	resp, err := s.api.Seed(ctx, nil)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "seeded %d documents\n", resp.Seeded)
}

func (s *Session) runHealth(ctx context.Context) {
	resp, err := s.api.Health(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "status %s, provider %s, model %s, version %s\n",
		resp.Status, resp.Provider, resp.Model, resp.Version)
}

func (s *Session) runStats(ctx context.Context) {
	resp, err := s.api.Stats(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%d documents, %d chunks, %d dimensions, model %s\n",
		resp.Documents, resp.Chunks, resp.EmbeddingDimensions, resp.Model)
}

// sendMessage sends one chat message with the running history and renders
// the answer, citations, tool calls and round-trip latency.
func (s *Session) sendMessage(ctx context.Context, line string) {
	// TopK is left unset; the API client fills in its configured depth.
	start := time.Now()
	resp, err := s.api.Agent(ctx, api.AgentRequest{
		Query:       line,
		ChatHistory: s.history,
		UserID:      s.userID,
	})
	latency := time.Since(start)

	if err != nil {
		metrics.ChatRequests.WithLabelValues("error").Inc()
		fmt.Fprintf(s.out, "error: %v\n", err)
		s.logger.Debug("chat request failed", zap.Error(err))
		return
	}
	metrics.ChatRequests.WithLabelValues("ok").Inc()
	metrics.ChatRequestDuration.Observe(latency.Seconds())

	s.remember(api.ChatMessage{Role: "user", Content: line})
	s.remember(api.ChatMessage{Role: "assistant", Content: resp.Text})

	s.render(Turn{
		Input:     line,
		Response:  resp.Text,
		Citations: resp.Citations,
		Latency:   latency,
	}, resp.ToolCalls)
}

func (s *Session) remember(msg api.ChatMessage) {
	s.history = append(s.history, msg)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
}

func (s *Session) render(turn Turn, toolCalls []api.ToolCallInfo) {
	fmt.Fprintln(s.out, turn.Response)
	if len(turn.Citations) > 0 {
		fmt.Fprintf(s.out, "sources: %s\n", strings.Join(turn.Citations, ", "))
	}
	for _, tc := range toolCalls {
		args, err := json.Marshal(tc.Arguments)
		if err != nil {
			fmt.Fprintf(s.out, "tool call: %s\n", tc.ToolName)
			continue
		}
		fmt.Fprintf(s.out, "tool call: %s %s\n", tc.ToolName, args)
	}
	fmt.Fprintf(s.out, "(%.2fs)\n", turn.Latency.Seconds())
}
