// Package grading holds the assignment model and the grade arithmetic.
// Aggregation and evaluation are pure functions over an AssignmentList.
package grading

import "strings"

// Category tags an assignment as formative or summative work.
type Category string

const (
	Formative Category = "FA" // ongoing/practice work
	Summative Category = "SA" // final/cumulative evaluation
)

// Weight and grade bounds, inclusive.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// String returns the short tag.
func (c Category) String() string { return string(c) }

// Label returns the long form used in reports.
func (c Category) Label() string {
	switch c {
	case Formative:
		return "Formative"
	case Summative:
		return "Summative"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the two known tags.
func (c Category) Valid() bool {
	return c == Formative || c == Summative
}

// Assignment is one graded piece of work. It is immutable once created.
type Assignment struct {
	name     string
	category Category
	weight   float64
	grade    float64
}

// NewAssignment validates every field and builds an Assignment.
func NewAssignment(name string, category Category, weight, grade float64) (Assignment, error) {
	if strings.TrimSpace(name) == "" {
		return Assignment{}, newValidationError(FieldName, EmptyName, name)
	}
	if !category.Valid() {
		return Assignment{}, newValidationError(FieldCategory, InvalidCategory, string(category))
	}
	if !inRange(weight) {
		return Assignment{}, newValidationError(FieldWeight, OutOfRange, formatInput(weight))
	}
	if !inRange(grade) {
		return Assignment{}, newValidationError(FieldGrade, OutOfRange, formatInput(grade))
	}
	return Assignment{
		name:     name,
		category: category,
		weight:   weight,
		grade:    grade,
	}, nil
}

func (a Assignment) Name() string       { return a.name }
func (a Assignment) Category() Category { return a.category }
func (a Assignment) Weight() float64    { return a.weight }
func (a Assignment) Grade() float64     { return a.grade }

// Weighted returns the assignment's contribution to its category total.
func (a Assignment) Weighted() float64 {
	return a.grade * (a.weight / 100)
}

// AssignmentList is an ordered sequence of assignments in entry order.
type AssignmentList []Assignment

// Len returns the number of assignments.
func (l AssignmentList) Len() int { return len(l) }

// Empty reports whether no assignment was entered.
func (l AssignmentList) Empty() bool { return len(l) == 0 }

// ByCategory returns the assignments tagged c, preserving order.
func (l AssignmentList) ByCategory(c Category) AssignmentList {
	var out AssignmentList
	for _, a := range l {
		if a.category == c {
			out = append(out, a)
		}
	}
	return out
}

// Count returns how many assignments are tagged c.
func (l AssignmentList) Count(c Category) int {
	n := 0
	for _, a := range l {
		if a.category == c {
			n++
		}
	}
	return n
}

func inRange(v float64) bool {
	// NaN fails both comparisons.
	return v >= MinScore && v <= MaxScore
}
