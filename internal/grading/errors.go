package grading

import (
	"errors"
	"fmt"
	"strconv"
)

// Field names an input field of an assignment.
type Field string

const (
	FieldName     Field = "name"
	FieldCategory Field = "category"
	FieldWeight   Field = "weight"
	FieldGrade    Field = "grade"
)

// ErrorKind classifies why a field value was rejected.
type ErrorKind int

const (
	EmptyName ErrorKind = iota + 1
	InvalidCategory
	NotNumeric
	OutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyName:
		return "empty_name"
	case InvalidCategory:
		return "invalid_category"
	case NotNumeric:
		return "not_numeric"
	case OutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per ErrorKind. Match with errors.Is.
var (
	ErrEmptyName       = errors.New("assignment name is empty")
	ErrInvalidCategory = errors.New("category must be FA or SA")
	ErrNotNumeric      = errors.New("value is not numeric")
	ErrOutOfRange      = errors.New("value must be between 0 and 100")

	// ErrNoAssignments is returned by Compute for an empty list.
	ErrNoAssignments = errors.New("no assignments entered")
)

// ValidationError reports a rejected field value.
type ValidationError struct {
	Field Field
	Kind  ErrorKind
	Input string
	Err   error
}

func newValidationError(field Field, kind ErrorKind, input string) *ValidationError {
	return &ValidationError{Field: field, Kind: kind, Input: input, Err: sentinelFor(kind)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Message returns the user-facing text printed before a re-prompt.
func (e *ValidationError) Message() string {
	switch e.Kind {
	case EmptyName:
		return "Assignment name cannot be empty. Please enter a valid name."
	case InvalidCategory:
		return "Invalid category. Please enter 'FA' (Formative) or 'SA' (Summative)."
	case NotNumeric:
		return "Invalid input. Please enter a numeric value."
	case OutOfRange:
		return fmt.Sprintf("Invalid %s. Please enter a value between 0 and 100.", e.Field)
	default:
		return e.Error()
	}
}

func sentinelFor(kind ErrorKind) error {
	switch kind {
	case EmptyName:
		return ErrEmptyName
	case InvalidCategory:
		return ErrInvalidCategory
	case NotNumeric:
		return ErrNotNumeric
	case OutOfRange:
		return ErrOutOfRange
	default:
		return errors.New("invalid value")
	}
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
