// Package collector builds an AssignmentList from line-oriented user input.
//
// Machine holds the field-by-field validation state and knows nothing about
// I/O; Session drives a Machine over a reader/writer pair. The TUI feeds the
// same Machine from a text input.
package collector

import (
	"errors"
	"fmt"

	"gradegen/internal/grading"
)

// State is the field the machine is waiting for.
type State int

const (
	AwaitingName State = iota
	AwaitingCategory
	AwaitingWeight
	AwaitingGrade
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingName:
		return "awaiting_name"
	case AwaitingCategory:
		return "awaiting_category"
	case AwaitingWeight:
		return "awaiting_weight"
	case AwaitingGrade:
		return "awaiting_grade"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Prompts, one per input state.
const (
	PromptName     = "Enter assignment name (or 'done' to finish): "
	PromptCategory = "Enter category (FA/SA): "
	PromptWeight   = "Enter weight (as a percentage): "
	PromptGrade    = "Enter grade (out of 100): "
)

var (
	// ErrTooManyAttempts is returned when one field is rejected more times
	// in a row than the configured limit.
	ErrTooManyAttempts = errors.New("too many invalid attempts")

	// ErrFinished is returned when input is fed after collection ended.
	ErrFinished = errors.New("collection already finished")
)

// Feedback describes the outcome of one Feed call.
type Feedback struct {
	// Rejected is set when the line failed validation; the state is unchanged.
	Rejected *grading.ValidationError
	// Added is set when the line completed an assignment.
	Added *grading.Assignment
}

// Message returns the user-facing text for this step, or "".
func (f Feedback) Message() string {
	if f.Rejected == nil {
		return ""
	}
	return f.Rejected.Message()
}

// draft accumulates the fields of the assignment being entered.
type draft struct {
	name     string
	category grading.Category
	weight   float64
}

// Option configures a Machine.
type Option func(*Machine)

// WithMaxAttempts bounds consecutive rejections of one field. n <= 0 means unbounded.
func WithMaxAttempts(n int) Option {
	return func(m *Machine) {
		if n < 0 {
			n = 0
		}
		m.maxAttempts = n
	}
}

// Machine is the validation state machine for assignment entry.
type Machine struct {
	state       State
	draft       draft
	list        grading.AssignmentList
	attempts    int
	maxAttempts int
}

// NewMachine returns a machine waiting for the first name.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{state: AwaitingName}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Done reports whether the termination token was entered.
func (m *Machine) Done() bool { return m.state == Finished }

// Assignments returns the assignments collected so far, in entry order.
func (m *Machine) Assignments() grading.AssignmentList {
	out := make(grading.AssignmentList, len(m.list))
	copy(out, m.list)
	return out
}

// Prompt returns the prompt for the current state.
func (m *Machine) Prompt() string {
	switch m.state {
	case AwaitingName:
		return PromptName
	case AwaitingCategory:
		return PromptCategory
	case AwaitingWeight:
		return PromptWeight
	case AwaitingGrade:
		return PromptGrade
	default:
		return ""
	}
}

// Finish ends collection as if the termination token had been entered.
// A partially entered assignment is discarded.
func (m *Machine) Finish() {
	m.state = Finished
	m.draft = draft{}
	m.attempts = 0
}

// Feed consumes one line of input for the current state.
// Validation failures are reported in Feedback, not as errors; the returned
// error is ErrTooManyAttempts or ErrFinished.
func (m *Machine) Feed(line string) (Feedback, error) {
	var err error
	switch m.state {
	case AwaitingName:
		if grading.IsDone(line) {
			m.Finish()
			return Feedback{}, nil
		}
		m.draft.name, err = grading.ParseName(line)
		if err == nil {
			m.advance(AwaitingCategory)
		}

	case AwaitingCategory:
		m.draft.category, err = grading.ParseCategory(line)
		if err == nil {
			m.advance(AwaitingWeight)
		}

	case AwaitingWeight:
		m.draft.weight, err = grading.ParseScore(grading.FieldWeight, line)
		if err == nil {
			m.advance(AwaitingGrade)
		}

	case AwaitingGrade:
		var grade float64
		grade, err = grading.ParseScore(grading.FieldGrade, line)
		if err == nil {
			return m.commit(grade)
		}

	default:
		return Feedback{}, ErrFinished
	}

	if err != nil {
		return m.reject(err)
	}
	return Feedback{}, nil
}

func (m *Machine) advance(next State) {
	m.state = next
	m.attempts = 0
}

func (m *Machine) commit(grade float64) (Feedback, error) {
	a, err := grading.NewAssignment(m.draft.name, m.draft.category, m.draft.weight, grade)
	if err != nil {
		// Every field was already validated on entry.
		return m.reject(err)
	}
	m.list = append(m.list, a)
	m.draft = draft{}
	m.advance(AwaitingName)
	return Feedback{Added: &a}, nil
}

func (m *Machine) reject(err error) (Feedback, error) {
	var verr *grading.ValidationError
	if !errors.As(err, &verr) {
		return Feedback{}, err
	}

	m.attempts++
	fb := Feedback{Rejected: verr}
	if m.maxAttempts > 0 && m.attempts >= m.maxAttempts {
		return fb, fmt.Errorf("%w: %s rejected %d times", ErrTooManyAttempts, verr.Field, m.attempts)
	}
	return fb, nil
}
