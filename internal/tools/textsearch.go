package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"lettersmith/internal/llm"
)

const (
	chunkWords   = 180
	chunkOverlap = 30
	topChunks    = 4
)

// TextSearchTool performs semantic search over one text file. Chunks are
// embedded lazily on first use; with no embedder configured it falls back
// to keyword scoring.
type TextSearchTool struct {
	name        string
	description string
	path        string
	embedder    llm.Embedder

	once    sync.Once
	initErr error
	chunks  []string
	vectors [][]float32
}

// NewTextSearchTool creates a search tool over the file at path. embedder
// may be nil.
func NewTextSearchTool(name, description, path string, embedder llm.Embedder) *TextSearchTool {
	return &TextSearchTool{
		name:        name,
		description: description,
		path:        path,
		embedder:    embedder,
	}
}

// Definition implements Tool.
func (t *TextSearchTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        t.name,
		Description: t.description,
		Properties: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "What to look for in the document",
			},
		},
		Required: []string{"query"},
	}
}

// Run implements Tool.
func (t *TextSearchTool) Run(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return "", fmt.Errorf("invalid search parameters: %w", err)
	}
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return "", fmt.Errorf("search query is empty")
	}

	if err := t.ensureIndex(ctx); err != nil {
		return "", err
	}
	if len(t.chunks) == 0 {
		return "", fmt.Errorf("document %s has no searchable text", t.path)
	}

	var ranked []string
	var err error
	if t.vectors != nil {
		ranked, err = t.searchSemantic(ctx, query)
	} else {
		ranked = t.searchKeyword(query)
	}
	if err != nil {
		return "", err
	}
	if len(ranked) == 0 {
		return "No relevant passages found.", nil
	}

	return truncate(strings.Join(ranked, "\n---\n")), nil
}

// ensureIndex loads and chunks the document, and embeds the chunks when an
// embedder is available. Runs once per tool instance.
func (t *TextSearchTool) ensureIndex(ctx context.Context) error {
	t.once.Do(func() {
		content, err := os.ReadFile(t.path)
		if err != nil {
			t.initErr = fmt.Errorf("read %s: %w", t.path, err)
			return
		}
		t.chunks = chunkText(string(content))

		if t.embedder == nil || len(t.chunks) == 0 {
			return
		}
		vectors, err := t.embedder.EmbedBatch(ctx, t.chunks)
		if err != nil {
			t.initErr = fmt.Errorf("embed %s: %w", t.path, err)
			return
		}
		if len(vectors) == len(t.chunks) {
			t.vectors = vectors
		}
	})
	return t.initErr
}

func (t *TextSearchTool) searchSemantic(ctx context.Context, query string) ([]string, error) {
	queryVec, err := t.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, 0, len(t.vectors))
	for i, vec := range t.vectors {
		scores = append(scores, scored{idx: i, score: cosineSimilarity(queryVec, vec)})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := min(topChunks, len(scores))
	out := make([]string, 0, n)
	for _, s := range scores[:n] {
		out = append(out, t.chunks[s.idx])
	}
	return out, nil
}

// searchKeyword scores chunks by query-term frequency. Used when no
// embedder is configured.
func (t *TextSearchTool) searchKeyword(query string) []string {
	terms := strings.Fields(strings.ToLower(query))

	type scored struct {
		idx   int
		score int
	}
	var scores []scored
	for i, chunk := range t.chunks {
		lower := strings.ToLower(chunk)
		score := 0
		for _, term := range terms {
			score += strings.Count(lower, term)
		}
		if score > 0 {
			scores = append(scores, scored{idx: i, score: score})
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := min(topChunks, len(scores))
	out := make([]string, 0, n)
	for _, s := range scores[:n] {
		out = append(out, t.chunks[s.idx])
	}
	return out
}

// chunkText splits text into overlapping word windows.
func chunkText(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= chunkWords {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	step := chunkWords - chunkOverlap
	for start := 0; start < len(words); start += step {
		end := min(start+chunkWords, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
