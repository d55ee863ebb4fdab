package api

// Request and response shapes of the RAG service endpoints. These mirror the
// service's published schemas; the tools only consume them.

// ChatMessage is a single message in a multi-turn conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// DocumentChunk is one unit of seed content in the knowledge base.
type DocumentChunk struct {
	ChunkID string `json:"chunk_id"`
	Source  string `json:"source"`
	Text    string `json:"text"`
}

// SeedRequest triggers (re)seeding. A nil Docs seeds the server-side default
// corpus.
type SeedRequest struct {
	Docs []DocumentChunk `json:"docs,omitempty"`
}

// SeedResponse reports how many chunks the service stored.
type SeedResponse struct {
	Seeded int `json:"seeded"`
}

// AnswerRequest asks for a plain RAG answer without tool execution.
type AnswerRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// AnswerResponse carries the generated answer and the chunk IDs it cites.
type AnswerResponse struct {
	Text      string   `json:"text"`
	Citations []string `json:"citations,omitempty"`
}

// AgentRequest asks the agentic endpoint, optionally continuing a
// conversation.
type AgentRequest struct {
	Query       string        `json:"query"`
	ChatHistory []ChatMessage `json:"chat_history,omitempty"`
	UserID      string        `json:"user_id,omitempty"`
	TopK        int           `json:"top_k,omitempty"`
}

// ToolCallInfo describes one tool invocation the agent made while answering.
type ToolCallInfo struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// AgentResponse carries the agent's answer, citations, and any tool activity.
type AgentResponse struct {
	Text      string         `json:"text"`
	Citations []string       `json:"citations,omitempty"`
	ToolCalls []ToolCallInfo `json:"tool_calls,omitempty"`
	Model     string         `json:"model,omitempty"`
}

// SearchRequest asks for the chunks most similar to a query text.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchMatch is one ranked chunk with its cosine similarity to the query.
type SearchMatch struct {
	ChunkID    string  `json:"chunk_id"`
	Source     string  `json:"source"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// SearchResponse lists matches in descending similarity order.
type SearchResponse struct {
	Matches []SearchMatch `json:"matches"`
}

// HealthResponse reports service liveness and its configured provider.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Version  string `json:"version,omitempty"`
}

// StatsResponse reports knowledge-base counts.
type StatsResponse struct {
	Documents           int    `json:"documents"`
	Chunks              int    `json:"chunks"`
	EmbeddingDimensions int    `json:"embedding_dimensions"`
	Model               string `json:"model,omitempty"`
}
