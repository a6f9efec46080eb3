package ui

import (
	"strings"

	"gradegen/internal/collector"
	"gradegen/internal/grading"
	"gradegen/internal/logging"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// entryKind classifies a transcript line.
type entryKind int

const (
	entryAnswer entryKind = iota
	entryRejected
	entryAdded
)

type entry struct {
	kind entryKind
	text string
}

// Form is a bubbletea model that feeds a collector.Machine from a text input.
type Form struct {
	machine *collector.Machine
	input   textinput.Model
	styles  Styles
	history []entry
	logger  *zap.Logger

	err     error
	aborted bool
}

// NewForm creates a form driving m.
func NewForm(m *collector.Machine, styles Styles) Form {
	ti := textinput.New()
	ti.Placeholder = "type a value and press Enter"
	ti.Focus()
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Width = 60
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	return Form{
		machine: m,
		input:   ti,
		styles:  styles,
		logger:  logging.Get(logging.CategoryUI),
	}
}

func (f Form) Init() tea.Cmd {
	return textinput.Blink
}

func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			f.aborted = true
			return f, tea.Quit

		case tea.KeyCtrlD:
			// End of input, same as the line protocol
			f.machine.Finish()
			return f, tea.Quit

		case tea.KeyEnter:
			return f.submit()
		}

	case tea.WindowSizeMsg:
		if msg.Width > 8 {
			f.input.Width = msg.Width - 8
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f Form) submit() (tea.Model, tea.Cmd) {
	value := f.input.Value()
	f.input.Reset()

	prompt := f.machine.Prompt()
	f.history = append(f.history, entry{kind: entryAnswer, text: prompt + value})

	fb, err := f.machine.Feed(value)
	if fb.Rejected != nil {
		f.logger.Debug("input rejected", zap.String("kind", fb.Rejected.Kind.String()))
		f.history = append(f.history, entry{kind: entryRejected, text: fb.Message()})
	}
	if fb.Added != nil {
		f.history = append(f.history, entry{kind: entryAdded, text: "Added " + fb.Added.Name()})
	}
	if err != nil {
		f.err = err
		return f, tea.Quit
	}
	if f.machine.Done() {
		return f, tea.Quit
	}
	return f, nil
}

func (f Form) View() string {
	var sb strings.Builder

	sb.WriteString(f.styles.Title.Render("Grade Generator Calculator"))
	sb.WriteString("\n")

	for _, e := range f.history {
		switch e.kind {
		case entryRejected:
			sb.WriteString(f.styles.Warning.Render(e.text))
		case entryAdded:
			sb.WriteString(f.styles.Success.Render(e.text))
		default:
			sb.WriteString(f.styles.Muted.Render(e.text))
		}
		sb.WriteString("\n")
	}

	if f.err != nil {
		sb.WriteString(f.styles.Error.Render("Stopped: " + f.err.Error()))
		sb.WriteString("\n")
		return sb.String()
	}
	if f.machine.Done() || f.aborted {
		return sb.String()
	}

	field := f.styles.Bold.Render(f.machine.Prompt()) + "\n" + f.input.View()
	sb.WriteString(f.styles.Panel.Render(field))
	sb.WriteString("\n")
	sb.WriteString(f.styles.Muted.Render("Enter to submit · Ctrl+D to finish · Esc to quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Assignments returns what has been collected so far.
func (f Form) Assignments() grading.AssignmentList {
	return f.machine.Assignments()
}

// Err returns the error that ended the form, if any.
func (f Form) Err() error { return f.err }

// Aborted reports whether the user quit with Esc or Ctrl+C.
func (f Form) Aborted() bool { return f.aborted }
