package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint.
// It is the keyless default, pointed at a local Ollama server.
type OpenAIBackend struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	tracker    *TokenTracker
}

// NewOpenAIBackend creates a backend for the given base URL and model.
// apiKey may be empty for local servers.
func NewOpenAIBackend(baseURL, model, apiKey string) *OpenAIBackend {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	if model == "" {
		model = "qwen3:latest"
	}
	return &OpenAIBackend{
		httpClient: &http.Client{Timeout: 300 * time.Second},
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
		tracker:    NewTokenTracker(),
	}
}

// Model returns the configured model name.
func (b *OpenAIBackend) Model() string {
	return b.model
}

// Tracker returns the token tracker for this backend.
func (b *OpenAIBackend) Tracker() *TokenTracker {
	return b.tracker
}

type openAIMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []openAIToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openAIToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// Chat executes one chat completion against /chat/completions.
func (b *OpenAIBackend) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := make([]openAIMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, toOpenAIMessage(m))
	}

	reqBody := map[string]interface{}{
		"model":    b.model,
		"messages": messages,
		"stream":   false,
	}
	if req.MaxTokens > 0 {
		reqBody["max_tokens"] = req.MaxTokens
	}
	if len(req.Tools) > 0 {
		reqBody["tools"] = openAITools(req.Tools)
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(b.baseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build llm request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message openAIMessage `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int64 `json:"prompt_tokens"`
			CompletionTokens int64 `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty llm choices")
	}

	b.tracker.Add(parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)

	msg := parsed.Choices[0].Message
	out := &ChatResponse{
		Text:      msg.Content,
		TokensIn:  parsed.Usage.PromptTokens,
		TokensOut: parsed.Usage.CompletionTokens,
	}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:    call.ID,
			Name:  call.Function.Name,
			Input: json.RawMessage(call.Function.Arguments),
		})
	}

	return out, nil
}

func toOpenAIMessage(m Message) openAIMessage {
	out := openAIMessage{Content: m.Content}
	switch m.Role {
	case RoleAssistant:
		out.Role = "assistant"
		for _, call := range m.ToolCalls {
			tc := openAIToolCall{ID: call.ID, Type: "function"}
			tc.Function.Name = call.Name
			tc.Function.Arguments = string(call.Input)
			out.ToolCalls = append(out.ToolCalls, tc)
		}
	case RoleTool:
		out.Role = "tool"
		out.ToolCallID = m.ToolCallID
	default:
		out.Role = "user"
	}
	return out
}

func openAITools(tools []ToolDef) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		params := map[string]interface{}{
			"type":       "object",
			"properties": t.Properties,
		}
		if len(t.Required) > 0 {
			params["required"] = t.Required
		}
		out = append(out, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  params,
			},
		})
	}
	return out
}
