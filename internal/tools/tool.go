// Package tools provides the capabilities exposed to crew agents: reading
// extracted artifacts, scraping job postings, and semantic search over text.
package tools

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"lettersmith/internal/llm"
)

// Tool is a capability an agent can invoke during its loop.
type Tool interface {
	// Definition returns the schema advertised to the model.
	Definition() llm.ToolDef
	// Run executes the tool with the model-provided JSON input.
	Run(ctx context.Context, input json.RawMessage) (string, error)
}

// Definitions collects the schemas for a tool set.
func Definitions(ts []Tool) []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(ts))
	for _, t := range ts {
		defs = append(defs, t.Definition())
	}
	return defs
}

// ByName returns the tool with the given name, or nil.
func ByName(ts []Tool, name string) Tool {
	for _, t := range ts {
		if t.Definition().Name == name {
			return t
		}
	}
	return nil
}

const maxToolOutput = 30000

// truncate caps tool output so a single result cannot blow out the context.
// The cut backs up to a rune boundary so multi-byte text is never split.
func truncate(s string) string {
	if len(s) <= maxToolOutput {
		return s
	}
	cut := maxToolOutput
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (output truncated)"
}
