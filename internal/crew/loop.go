package crew

import (
	"context"
	"fmt"
	"strings"

	"lettersmith/internal/llm"
	"lettersmith/internal/tools"
)

// runLoop drives the conversation for one task: send the prompt, execute any
// requested tool calls, feed the results back, and repeat until the model
// answers without tool calls or the iteration cap is hit.
func (c *Crew) runLoop(ctx context.Context, task *Task, prompt string) (string, error) {
	if task.Agent == nil {
		return "", fmt.Errorf("task has no agent")
	}

	taskTools := task.tools()
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}

	for iteration := 0; iteration < c.maxIterations; iteration++ {
		resp, err := c.backend.Chat(ctx, llm.ChatRequest{
			System:   task.Agent.SystemPrompt(),
			Messages: messages,
			Tools:    tools.Definitions(taskTools),
		})
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			text := strings.TrimSpace(resp.Text)
			if text == "" {
				return "", fmt.Errorf("model returned an empty response")
			}
			return text, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			messages = append(messages, c.executeTool(ctx, task, taskTools, call))
		}
	}

	return "", fmt.Errorf("max iterations (%d) reached without a final answer", c.maxIterations)
}

// executeTool runs one tool call and wraps the result as a tool message.
// Tool failures are reported back to the model rather than aborting the task.
func (c *Crew) executeTool(ctx context.Context, task *Task, taskTools []tools.Tool, call llm.ToolCall) llm.Message {
	c.emit(Event{Type: "tool_use", Task: task.Name, Detail: call.Name})

	tool := tools.ByName(taskTools, call.Name)
	if tool == nil {
		return llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("unknown tool: %s", call.Name),
			IsError:    true,
		}
	}

	output, err := tool.Run(ctx, call.Input)
	if err != nil {
		return llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("tool %s failed: %v", call.Name, err),
			IsError:    true,
		}
	}
	return llm.Message{
		Role:       llm.RoleTool,
		ToolCallID: call.ID,
		Content:    output,
	}
}
