package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"lettersmith/internal/llm"
)

// FileReadTool returns the full contents of one fixed file, such as the
// extracted resume artifact. The file is chosen at construction time; the
// model cannot read arbitrary paths.
type FileReadTool struct {
	name        string
	description string
	path        string
}

// NewFileReadTool creates a read tool bound to path.
func NewFileReadTool(name, description, path string) *FileReadTool {
	return &FileReadTool{name: name, description: description, path: path}
}

// Definition implements Tool.
func (t *FileReadTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        t.name,
		Description: t.description,
		Properties:  map[string]any{},
	}
}

// Run implements Tool.
func (t *FileReadTool) Run(ctx context.Context, _ json.RawMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := os.ReadFile(t.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", t.name, err)
	}
	return truncate(string(content)), nil
}
