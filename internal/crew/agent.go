// Package crew runs role-based agents and their tasks against a language
// model backend, threading task outputs into dependent tasks and executing
// tool calls until each task produces a final answer.
package crew

import (
	"fmt"

	"lettersmith/internal/tools"
)

// Agent is a role/goal/backstory descriptor bound to zero or more tools.
type Agent struct {
	// Role is the agent's job title, used in its system prompt.
	Role string
	// Goal states what the agent is trying to achieve.
	Goal string
	// Backstory gives the agent its working persona.
	Backstory string
	// Tools are the capabilities available to this agent.
	Tools []tools.Tool
}

// SystemPrompt renders the agent descriptor as a system prompt.
func (a *Agent) SystemPrompt() string {
	return fmt.Sprintf("You are %s.\n\nYour goal: %s\n\n%s", a.Role, a.Goal, a.Backstory)
}
