// Package llm provides the language-model backends for the cover-letter crew.
// A hosted Anthropic backend is used when an API key is configured, with an
// OpenAI-compatible local backend (Ollama) as the keyless default.
package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser is a message from the user or the crew engine.
	RoleUser Role = "user"
	// RoleAssistant is a message produced by the model.
	RoleAssistant Role = "assistant"
	// RoleTool is a tool execution result fed back to the model.
	RoleTool Role = "tool"
)

// Message is one turn in a conversation, backend-neutral.
type Message struct {
	Role    Role
	Content string
	// ToolCalls holds tool invocations requested in an assistant turn.
	ToolCalls []ToolCall
	// ToolCallID links a RoleTool message to the call it answers.
	ToolCallID string
	// IsError marks a RoleTool message as a failed tool execution.
	IsError bool
}

// ToolDef describes a tool the model may call.
type ToolDef struct {
	Name        string
	Description string
	// Properties is the JSON-schema properties object for the tool input.
	Properties map[string]any
	Required   []string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// ChatRequest is a single chat completion request.
type ChatRequest struct {
	System    string
	Messages  []Message
	Tools     []ToolDef
	MaxTokens int
}

// ChatResponse is the model's reply. An empty ToolCalls slice means the
// model finished its turn.
type ChatResponse struct {
	Text      string
	ToolCalls []ToolCall
	TokensIn  int64
	TokensOut int64
}

// Backend executes chat completions against one model provider.
type Backend interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Model() string
	Tracker() *TokenTracker
}

// Options selects and configures a backend. Credentials travel by value
// here and are never written to the process environment.
type Options struct {
	// APIKey selects the hosted Anthropic backend when non-empty.
	APIKey string
	// Model overrides the backend's default model name.
	Model string
	// UseBedrock routes Anthropic calls through AWS Bedrock.
	UseBedrock bool
	AWSRegion  string
	AWSProfile string
	// OllamaBaseURL and OllamaModel configure the local backend.
	OllamaBaseURL string
	OllamaModel   string
}

// NewBackend selects a backend from the options: hosted when an API key (or
// Bedrock) is configured, local Ollama otherwise.
func NewBackend(opts Options) (Backend, error) {
	if opts.APIKey != "" || opts.UseBedrock {
		return NewAnthropicBackend(opts)
	}
	return NewOpenAIBackend(opts.OllamaBaseURL, opts.OllamaModel, ""), nil
}

// TokenTracker tracks token usage across API calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Reset clears all tracked token usage.
func (t *TokenTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok = 0
	t.outputTok = 0
	t.calls = 0
}
