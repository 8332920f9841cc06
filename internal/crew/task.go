package crew

import (
	"strings"

	"lettersmith/internal/tools"
)

// Task is a unit of work assigned to one agent.
type Task struct {
	// Name identifies the task in events and errors.
	Name string
	// Description is the work instruction. It may contain {placeholder}
	// references resolved from the kickoff inputs.
	Description string
	// ExpectedOutput tells the agent what a complete answer looks like.
	ExpectedOutput string
	// Agent performs the task.
	Agent *Agent
	// Tools, when non-empty, override the agent's own tool set for this task.
	Tools []tools.Tool
	// Context lists tasks whose outputs are prepended to this task's prompt.
	// Every context task must appear earlier in the crew's task list.
	Context []*Task
	// Async marks the task as eligible to run concurrently with other
	// consecutive async tasks.
	Async bool
}

// tools returns the effective tool set for the task.
func (t *Task) tools() []tools.Tool {
	if len(t.Tools) > 0 {
		return t.Tools
	}
	if t.Agent != nil {
		return t.Agent.Tools
	}
	return nil
}

// interpolate resolves {placeholder} references from the kickoff inputs.
func interpolate(template string, inputs map[string]string) string {
	out := template
	for key, value := range inputs {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}
