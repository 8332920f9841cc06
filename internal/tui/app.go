// Package tui implements the interactive cover-letter form: input fields for
// the resume, job posting, and personal writeup, async generation with live
// crew status, and a scrollable result view.
package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lettersmith/internal/crew"
	"lettersmith/internal/writeup"
)

// GenerateRequest carries the validated form state plus credentials into the
// generation callback. Credentials travel by value and are never validated.
type GenerateRequest struct {
	FormInput
	APIKey string
	Model  string
}

// GenerateFunc produces a cover letter from the submitted form.
type GenerateFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Focus order of the form fields.
const (
	focusResume = iota
	focusJobURL
	focusJobDescription
	focusWriteup
	focusSaveToggle
	focusAPIKey
	focusModel
	focusCount
)

type generateDoneMsg struct {
	letter string
	err    error
}

type crewEventMsg crew.Event

// App is the Bubble Tea model for the generation form.
type App struct {
	resume    textinput.Model
	jobURL    textinput.Model
	jobDesc   textarea.Model
	writeupTA textarea.Model
	apiKey    textinput.Model
	model     textinput.Model

	saveWriteup bool
	focus       int

	spin       spinner.Model
	result     viewport.Model
	generating bool
	letter     string
	status     string
	errMsg     string

	width  int
	height int

	gen    GenerateFunc
	store  *writeup.Store
	events chan crew.Event

	quitting bool
}

// NewApp creates the form. store may be nil to disable writeup persistence.
func NewApp(gen GenerateFunc, store *writeup.Store) *App {
	resume := textinput.New()
	resume.Placeholder = "/path/to/resume.pdf"
	resume.CharLimit = 500
	resume.Focus()

	jobURL := textinput.New()
	jobURL.Placeholder = "https://example.com/jobs/123 (or paste a description below)"
	jobURL.CharLimit = 500

	jobDesc := textarea.New()
	jobDesc.Placeholder = "Paste the job description text here if you don't have a URL"
	jobDesc.SetHeight(4)
	jobDesc.CharLimit = 0

	writeupTA := textarea.New()
	writeupTA.Placeholder = "Describe your career goals, motivations, and relevant background"
	writeupTA.SetHeight(4)
	writeupTA.CharLimit = 0

	apiKey := textinput.New()
	apiKey.Placeholder = "optional, uses local Ollama when empty"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '*'
	apiKey.CharLimit = 200

	model := textinput.New()
	model.Placeholder = "optional model override"
	model.CharLimit = 100

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	a := &App{
		resume:    resume,
		jobURL:    jobURL,
		jobDesc:   jobDesc,
		writeupTA: writeupTA,
		apiKey:    apiKey,
		model:     model,
		spin:      spin,
		result:    viewport.New(80, 10),
		status:    "Ready",
		gen:       gen,
		store:     store,
		events:    make(chan crew.Event, 64),
	}

	// Repopulate the saved writeup and pre-check the toggle.
	if store != nil {
		if text, found, err := store.Load(); err == nil && found {
			a.writeupTA.SetValue(text)
			a.saveWriteup = true
		}
	}

	return a
}

// EventSink returns a callback that forwards crew events into the UI. It
// never blocks; events are dropped when the UI falls behind.
func (a *App) EventSink() func(crew.Event) {
	return func(e crew.Event) {
		select {
		case a.events <- e:
		default:
		}
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case spinner.TickMsg:
		if !a.generating {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case crewEventMsg:
		// An empty event is the wake-up sent on completion, not crew status.
		if msg.Type == "" {
			return a, nil
		}
		a.status = describeEvent(crew.Event(msg))
		if a.generating {
			return a, a.waitForEvent()
		}
		return a, nil

	case generateDoneMsg:
		a.generating = false
		// Release the receiver left behind by the last waitForEvent so it
		// doesn't linger into the next run.
		select {
		case a.events <- crew.Event{}:
		default:
		}
		if msg.err != nil {
			a.errMsg = "Error generating cover letter: " + msg.err.Error()
			a.status = "Error generating cover letter"
			return a, nil
		}
		a.letter = msg.letter
		a.result.SetContent(msg.letter)
		a.result.GotoTop()
		a.status = "Cover letter generated successfully"
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	return a.updateFocused(msg)
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.persistWriteupOnExit()
		a.quitting = true
		return a, tea.Quit

	case "esc":
		// Generation cannot be cancelled in place; esc abandons the run.
		if a.generating {
			a.persistWriteupOnExit()
			a.quitting = true
			return a, tea.Quit
		}
	}

	// The form is otherwise read-only while the crew runs.
	if a.generating {
		return a, nil
	}

	switch msg.String() {
	case "tab":
		return a, a.setFocus((a.focus + 1) % focusCount)

	case "shift+tab":
		return a, a.setFocus((a.focus - 1 + focusCount) % focusCount)

	case "enter":
		// Textareas take enter as a newline; single-line fields advance.
		if a.focus != focusJobDescription && a.focus != focusWriteup {
			if a.focus == focusSaveToggle {
				a.saveWriteup = !a.saveWriteup
				return a, nil
			}
			return a, a.setFocus((a.focus + 1) % focusCount)
		}

	case " ":
		if a.focus == focusSaveToggle {
			a.saveWriteup = !a.saveWriteup
			return a, nil
		}

	case "ctrl+g":
		return a, a.startGenerate()

	case "ctrl+l":
		a.clearForm()
		return a, nil

	case "ctrl+y":
		a.copyLetter()
		return a, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.result, cmd = a.result.Update(msg)
		return a, cmd
	}

	return a.updateFocused(msg)
}

// updateFocused routes a message to the focused field.
func (a *App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focus {
	case focusResume:
		a.resume, cmd = a.resume.Update(msg)
	case focusJobURL:
		a.jobURL, cmd = a.jobURL.Update(msg)
	case focusJobDescription:
		a.jobDesc, cmd = a.jobDesc.Update(msg)
	case focusWriteup:
		a.writeupTA, cmd = a.writeupTA.Update(msg)
	case focusAPIKey:
		a.apiKey, cmd = a.apiKey.Update(msg)
	case focusModel:
		a.model, cmd = a.model.Update(msg)
	}
	return a, cmd
}

func (a *App) setFocus(focus int) tea.Cmd {
	a.resume.Blur()
	a.jobURL.Blur()
	a.jobDesc.Blur()
	a.writeupTA.Blur()
	a.apiKey.Blur()
	a.model.Blur()

	a.focus = focus
	switch focus {
	case focusResume:
		return a.resume.Focus()
	case focusJobURL:
		return a.jobURL.Focus()
	case focusJobDescription:
		return a.jobDesc.Focus()
	case focusWriteup:
		return a.writeupTA.Focus()
	case focusAPIKey:
		return a.apiKey.Focus()
	case focusModel:
		return a.model.Focus()
	}
	return nil
}

// formInput snapshots the current field values.
func (a *App) formInput() FormInput {
	return FormInput{
		ResumePath:     a.resume.Value(),
		JobURL:         a.jobURL.Value(),
		JobDescription: a.jobDesc.Value(),
		Writeup:        a.writeupTA.Value(),
	}
}

// startGenerate validates the form and launches generation off the update
// loop. Returns nil when validation fails.
func (a *App) startGenerate() tea.Cmd {
	in := a.formInput()
	if msg := Validate(in); msg != "" {
		a.errMsg = msg
		return nil
	}
	a.errMsg = ""

	if a.saveWriteup && a.store != nil {
		if err := a.store.Save(strings.TrimSpace(in.Writeup)); err != nil {
			a.status = "Error saving description"
		}
	}

	req := GenerateRequest{
		FormInput: in,
		APIKey:    strings.TrimSpace(a.apiKey.Value()),
		Model:     strings.TrimSpace(a.model.Value()),
	}

	a.generating = true
	a.status = "Generating cover letter..."
	a.drainEvents()

	return tea.Batch(
		a.spin.Tick,
		a.waitForEvent(),
		func() tea.Msg {
			letter, err := a.gen(context.Background(), req)
			return generateDoneMsg{letter: letter, err: err}
		},
	)
}

func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return crewEventMsg(<-a.events)
	}
}

// drainEvents discards anything left in the event buffer so a fresh run
// never shows status from an earlier one.
func (a *App) drainEvents() {
	for {
		select {
		case <-a.events:
		default:
			return
		}
	}
}

// clearForm resets every field and the result area.
func (a *App) clearForm() {
	a.resume.Reset()
	a.jobURL.Reset()
	a.jobDesc.Reset()
	a.writeupTA.Reset()
	a.apiKey.Reset()
	a.model.Reset()
	a.saveWriteup = false
	a.letter = ""
	a.result.SetContent("")
	a.errMsg = ""
	a.status = "Form cleared"
}

func (a *App) copyLetter() {
	if strings.TrimSpace(a.letter) == "" {
		a.status = "Nothing to copy"
		return
	}
	if err := clipboard.WriteAll(a.letter); err != nil {
		a.status = "Error copying to clipboard"
		return
	}
	a.status = "Cover letter copied to clipboard"
}

func (a *App) persistWriteupOnExit() {
	if a.saveWriteup && a.store != nil {
		if text := strings.TrimSpace(a.writeupTA.Value()); text != "" {
			a.store.Save(text)
		}
	}
}

func (a *App) updateSizes() {
	fieldWidth := a.width - 4
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	a.resume.Width = fieldWidth
	a.jobURL.Width = fieldWidth
	a.apiKey.Width = fieldWidth
	a.model.Width = fieldWidth
	a.jobDesc.SetWidth(fieldWidth)
	a.writeupTA.SetWidth(fieldWidth)

	a.result.Width = a.width - 4
	resultHeight := a.height - 28
	if resultHeight < 5 {
		resultHeight = 5
	}
	a.result.Height = resultHeight
}

func describeEvent(e crew.Event) string {
	switch e.Type {
	case "task_start":
		return "Running " + e.Task + " task..."
	case "tool_use":
		return e.Task + ": using " + e.Detail
	case "task_done":
		return "Finished " + e.Task + " task"
	case "error":
		return e.Task + " failed: " + e.Detail
	default:
		return e.Type
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Cover Letter Generator"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Resume File (PDF)*"))
	b.WriteString("\n" + a.resume.View() + "\n\n")

	b.WriteString(labelStyle.Render("Job Posting URL"))
	b.WriteString("\n" + a.jobURL.View() + "\n\n")

	b.WriteString(labelStyle.Render("OR Job Description"))
	b.WriteString("\n" + a.jobDesc.View() + "\n\n")

	b.WriteString(labelStyle.Render("Personal Description*"))
	b.WriteString("\n" + a.writeupTA.View() + "\n")
	b.WriteString(a.checkboxView() + "\n\n")

	b.WriteString(labelStyle.Render("API Key (optional)"))
	b.WriteString("\n" + a.apiKey.View() + "\n")
	b.WriteString(labelStyle.Render("Model (optional)"))
	b.WriteString("\n" + a.model.View() + "\n\n")

	if a.errMsg != "" {
		b.WriteString(errorStyle.Render(a.errMsg) + "\n")
	}
	if a.generating {
		b.WriteString(a.spin.View() + statusStyle.Render(a.status) + "\n")
	} else {
		b.WriteString(statusStyle.Render(a.status) + "\n")
	}

	if a.letter != "" {
		b.WriteString("\n" + labelStyle.Render("Generated Cover Letter") + "\n")
		b.WriteString(resultStyle.Render(a.result.View()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(
		"tab: next field • ctrl+g: generate • ctrl+y: copy • ctrl+l: clear • ctrl+c: quit"))
	b.WriteString("\n")

	return b.String()
}

func (a *App) checkboxView() string {
	box := "[ ]"
	if a.saveWriteup {
		box = "[x]"
	}
	line := box + " Save description for future use"
	if a.focus == focusSaveToggle {
		return titleStyle.Render(line)
	}
	return helpStyle.Render(line)
}

// NewProgram wraps the app in a Bubble Tea program.
func NewProgram(app *App) *tea.Program {
	return tea.NewProgram(app, tea.WithAltScreen())
}
