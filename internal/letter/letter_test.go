package letter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"lettersmith/internal/llm"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests []llm.ChatRequest
	respond  func(req llm.ChatRequest) (*llm.ChatResponse, error)
}

func (f *fakeBackend) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.respond(req)
}

func (f *fakeBackend) Model() string { return "fake-model" }

func (f *fakeBackend) Tracker() *llm.TokenTracker { return llm.NewTokenTracker() }

// respondByRole answers each agent based on its system prompt.
func respondByRole(req llm.ChatRequest) (*llm.ChatResponse, error) {
	switch {
	case strings.Contains(req.System, "Job Analyst"):
		return &llm.ChatResponse{Text: "REQUIREMENTS"}, nil
	case strings.Contains(req.System, "Profiler"):
		return &llm.ChatResponse{Text: "PROFILE"}, nil
	default:
		return &llm.ChatResponse{Text: "Dear Hiring Manager, ..."}, nil
	}
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestGenerateWithURL(t *testing.T) {
	backend := &fakeBackend{respond: respondByRole}
	gen := NewGenerator(backend)

	resume := writeFixture(t, "resume.txt", "Jane Doe, Go engineer")
	out, err := gen.Generate(context.Background(), Request{
		ResumePath:      resume,
		JobPostingURL:   "https://example.com/jobs/7",
		PersonalWriteup: "I enjoy building reliable backend systems.",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "Dear Hiring Manager, ..." {
		t.Errorf("unexpected letter %q", out)
	}

	var researchPrompt, profilePrompt, writePrompt string
	for _, req := range backend.requests {
		prompt := req.Messages[0].Content
		switch {
		case strings.Contains(req.System, "Job Analyst"):
			researchPrompt = prompt
		case strings.Contains(req.System, "Profiler"):
			profilePrompt = prompt
		default:
			writePrompt = prompt
		}
	}

	if !strings.Contains(researchPrompt, "https://example.com/jobs/7") {
		t.Errorf("research prompt missing URL:\n%s", researchPrompt)
	}
	if !strings.Contains(profilePrompt, "I enjoy building reliable backend systems.") {
		t.Errorf("profile prompt missing writeup:\n%s", profilePrompt)
	}
	if !strings.Contains(writePrompt, "REQUIREMENTS") || !strings.Contains(writePrompt, "PROFILE") {
		t.Errorf("write prompt missing context outputs:\n%s", writePrompt)
	}
}

func TestGenerateWithPastedDescription(t *testing.T) {
	backend := &fakeBackend{respond: respondByRole}
	gen := NewGenerator(backend)

	resume := writeFixture(t, "resume.txt", "Jane Doe")
	posting := writeFixture(t, "job_description.txt", "We need a Go engineer.")

	if _, err := gen.Generate(context.Background(), Request{
		ResumePath:      resume,
		JobPostingPath:  posting,
		PersonalWriteup: "writeup text",
	}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, req := range backend.requests {
		if !strings.Contains(req.System, "Job Analyst") {
			continue
		}
		prompt := req.Messages[0].Content
		if strings.Contains(prompt, "{job_posting_url}") || strings.Contains(prompt, "job posting URL") {
			t.Errorf("pasted-description prompt should not reference a URL:\n%s", prompt)
		}
		names := make([]string, 0, len(req.Tools))
		for _, def := range req.Tools {
			names = append(names, def.Name)
		}
		joined := strings.Join(names, ",")
		if !strings.Contains(joined, "read_job_posting") || !strings.Contains(joined, "search_job_posting") {
			t.Errorf("researcher should get posting file tools, got %v", names)
		}
		if strings.Contains(joined, "scrape_website") {
			t.Errorf("researcher should not scrape in pasted mode, got %v", names)
		}
	}
}

func TestGenerateURLTakesPrecedence(t *testing.T) {
	backend := &fakeBackend{respond: respondByRole}
	gen := NewGenerator(backend)

	resume := writeFixture(t, "resume.txt", "Jane Doe")
	posting := writeFixture(t, "job_description.txt", "pasted text")

	if _, err := gen.Generate(context.Background(), Request{
		ResumePath:      resume,
		JobPostingURL:   "https://example.com/jobs/9",
		JobPostingPath:  posting,
		PersonalWriteup: "writeup",
	}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, req := range backend.requests {
		if !strings.Contains(req.System, "Job Analyst") {
			continue
		}
		if !strings.Contains(req.Messages[0].Content, "https://example.com/jobs/9") {
			t.Errorf("URL should win when both sources are set:\n%s", req.Messages[0].Content)
		}
	}
}

func TestGenerateValidatesRequest(t *testing.T) {
	gen := NewGenerator(&fakeBackend{respond: respondByRole})

	cases := []struct {
		name string
		req  Request
	}{
		{"missing resume", Request{PersonalWriteup: "w", JobPostingURL: "https://x.test"}},
		{"missing writeup", Request{ResumePath: "r.txt", JobPostingURL: "https://x.test"}},
		{"missing posting", Request{ResumePath: "r.txt", PersonalWriteup: "w"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := gen.Generate(context.Background(), tc.req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestGeneratePropagatesBackendError(t *testing.T) {
	backend := &fakeBackend{
		respond: func(llm.ChatRequest) (*llm.ChatResponse, error) {
			return nil, fmt.Errorf("model unavailable")
		},
	}
	gen := NewGenerator(backend)

	resume := writeFixture(t, "resume.txt", "Jane Doe")
	_, err := gen.Generate(context.Background(), Request{
		ResumePath:      resume,
		JobPostingURL:   "https://example.com/jobs/7",
		PersonalWriteup: "writeup",
	})
	if err == nil || !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected backend error, got %v", err)
	}
}
