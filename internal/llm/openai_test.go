package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIBackendChat(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "Dear hiring manager,"}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 45}
		}`))
	}))
	defer srv.Close()

	b := NewOpenAIBackend(srv.URL, "test-model", "")
	resp, err := b.Chat(context.Background(), ChatRequest{
		System: "You write cover letters.",
		Messages: []Message{
			{Role: RoleUser, Content: "Write one."},
		},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.Text != "Dear hiring manager," {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if len(resp.ToolCalls) != 0 {
		t.Errorf("expected no tool calls, got %d", len(resp.ToolCalls))
	}
	if resp.TokensIn != 120 || resp.TokensOut != 45 {
		t.Errorf("unexpected usage: in=%d out=%d", resp.TokensIn, resp.TokensOut)
	}

	in, out := b.Tracker().Total()
	if in != 120 || out != 45 {
		t.Errorf("tracker not updated: in=%d out=%d", in, out)
	}

	if gotBody["model"] != "test-model" {
		t.Errorf("expected model 'test-model', got %v", gotBody["model"])
	}
	msgs, ok := gotBody["messages"].([]interface{})
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected 2 messages (system + user), got %v", gotBody["messages"])
	}
	first := msgs[0].(map[string]interface{})
	if first["role"] != "system" {
		t.Errorf("expected first message role 'system', got %v", first["role"])
	}
}

func TestOpenAIBackendChatToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["tools"]; !ok {
			t.Error("expected tools in request body")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "scrape_website", "arguments": "{\"url\":\"https://example.com/job\"}"}
				}]
			}}],
			"usage": {"prompt_tokens": 80, "completion_tokens": 12}
		}`))
	}))
	defer srv.Close()

	b := NewOpenAIBackend(srv.URL, "test-model", "")
	resp, err := b.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "Research this posting."}},
		Tools: []ToolDef{{
			Name:        "scrape_website",
			Description: "Fetch a web page as text",
			Properties: map[string]any{
				"url": map[string]any{"type": "string"},
			},
			Required: []string{"url"},
		}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	call := resp.ToolCalls[0]
	if call.Name != "scrape_website" || call.ID != "call_1" {
		t.Errorf("unexpected tool call %+v", call)
	}

	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(call.Input, &args); err != nil {
		t.Fatalf("unmarshaling tool input: %v", err)
	}
	if args.URL != "https://example.com/job" {
		t.Errorf("unexpected url %q", args.URL)
	}
}

func TestOpenAIBackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewOpenAIBackend(srv.URL, "missing-model", "")
	_, err := b.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestNewBackendSelection(t *testing.T) {
	b, err := NewBackend(Options{OllamaBaseURL: "http://localhost:11434/v1", OllamaModel: "qwen3:latest"})
	if err != nil {
		t.Fatalf("NewBackend (local) failed: %v", err)
	}
	if _, ok := b.(*OpenAIBackend); !ok {
		t.Errorf("expected OpenAIBackend without key, got %T", b)
	}

	b, err = NewBackend(Options{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewBackend (hosted) failed: %v", err)
	}
	if _, ok := b.(*AnthropicBackend); !ok {
		t.Errorf("expected AnthropicBackend with key, got %T", b)
	}
	if b.Model() != string("claude-sonnet-4-20250514") {
		t.Errorf("expected default hosted model, got %q", b.Model())
	}
}

func TestOpenAIEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2, 0.3]}]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(srv.URL, "test-embed", "")
	vec, err := e.Embed(context.Background(), "some resume text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3-dim vector, got %d", len(vec))
	}
}

func TestOpenAIEmbedderEmptyInput(t *testing.T) {
	e := NewOpenAIEmbedder("http://localhost:11434/v1", "test-embed", "")
	if _, err := e.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := e.EmbedBatch(context.Background(), []string{" ", ""}); err == nil {
		t.Fatal("expected error for all-empty batch")
	}
}
