package crew

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"lettersmith/internal/llm"
)

// Event reports crew progress for display in the UI.
type Event struct {
	// Type is "task_start", "tool_use", "task_done", or "error".
	Type string
	// Task is the name of the task the event belongs to.
	Task string
	// Detail carries the tool name or error text.
	Detail string
}

// Crew groups agents and their tasks into one executable pipeline.
type Crew struct {
	backend llm.Backend
	tasks   []*Task

	// maxIterations caps the tool-use round trips per task.
	maxIterations int
	onEvent       func(Event)

	mu      sync.Mutex
	outputs map[*Task]string
}

// Option configures a Crew.
type Option func(*Crew)

// WithMaxIterations overrides the per-task tool-loop cap.
func WithMaxIterations(n int) Option {
	return func(c *Crew) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithEventHandler sets a callback for progress events. The callback may be
// invoked from multiple goroutines.
func WithEventHandler(fn func(Event)) Option {
	return func(c *Crew) {
		c.onEvent = fn
	}
}

// New creates a crew that runs tasks in order against the backend.
// Consecutive Async tasks run concurrently; a non-async task waits for all
// tasks before it to complete.
func New(backend llm.Backend, tasks []*Task, opts ...Option) *Crew {
	c := &Crew{
		backend:       backend,
		tasks:         tasks,
		maxIterations: 10,
		outputs:       make(map[*Task]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kickoff runs all tasks and returns the final task's output.
func (c *Crew) Kickoff(ctx context.Context, inputs map[string]string) (string, error) {
	if len(c.tasks) == 0 {
		return "", fmt.Errorf("crew has no tasks")
	}

	i := 0
	for i < len(c.tasks) {
		if c.tasks[i].Async {
			// Collect the run of consecutive async tasks and fan out.
			batch := []*Task{c.tasks[i]}
			for i+1 < len(c.tasks) && c.tasks[i+1].Async {
				i++
				batch = append(batch, c.tasks[i])
			}
			g, gctx := errgroup.WithContext(ctx)
			for _, task := range batch {
				g.Go(func() error {
					return c.runTask(gctx, task, inputs)
				})
			}
			if err := g.Wait(); err != nil {
				return "", err
			}
		} else {
			if err := c.runTask(ctx, c.tasks[i], inputs); err != nil {
				return "", err
			}
		}
		i++
	}

	final := c.tasks[len(c.tasks)-1]
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputs[final], nil
}

// Output returns the stored output of a completed task.
func (c *Crew) Output(task *Task) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, ok := c.outputs[task]
	return out, ok
}

// runTask executes one task's tool loop and stores its output.
func (c *Crew) runTask(ctx context.Context, task *Task, inputs map[string]string) error {
	c.emit(Event{Type: "task_start", Task: task.Name})

	prompt, err := c.buildPrompt(task, inputs)
	if err != nil {
		return err
	}

	output, err := c.runLoop(ctx, task, prompt)
	if err != nil {
		c.emit(Event{Type: "error", Task: task.Name, Detail: err.Error()})
		return fmt.Errorf("task %s: %w", task.Name, err)
	}

	c.mu.Lock()
	c.outputs[task] = output
	c.mu.Unlock()

	c.emit(Event{Type: "task_done", Task: task.Name})
	return nil
}

// buildPrompt assembles the user prompt: context task outputs, the
// interpolated description, and the expected output.
func (c *Crew) buildPrompt(task *Task, inputs map[string]string) (string, error) {
	var b strings.Builder

	for _, dep := range task.Context {
		c.mu.Lock()
		out, ok := c.outputs[dep]
		c.mu.Unlock()
		if !ok {
			return "", fmt.Errorf("task %s: context task %s has not completed", task.Name, dep.Name)
		}
		fmt.Fprintf(&b, "## Output of %s\n%s\n\n", dep.Name, out)
	}

	b.WriteString(interpolate(task.Description, inputs))

	if task.ExpectedOutput != "" {
		fmt.Fprintf(&b, "\n\nExpected output: %s", interpolate(task.ExpectedOutput, inputs))
	}

	return b.String(), nil
}

func (c *Crew) emit(event Event) {
	if c.onEvent != nil {
		c.onEvent(event)
	}
}
