// Package report renders grading results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gradegen/internal/grading"
)

// Fixed protocol lines.
const (
	Banner         = "Welcome to the Grade Generator Calculator!"
	ResultsHeading = "Results:"
	EmptyMessage   = "No assignments entered. Exiting."
)

// FormatNumber renders v as the shortest decimal that round-trips, always
// with a fractional part ("80.0", "0.1"). Magnitudes below 1e-4 or from
// 1e16 use exponent form ("1e-05").
func FormatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	if math.IsNaN(v) {
		return "nan"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// CategoryTotal renders the total for c. A category nobody entered an
// assignment for prints as a bare "0".
func CategoryTotal(res grading.Result, c grading.Category) string {
	if res.Assignments.Count(c) == 0 {
		return "0"
	}
	total := res.Totals.Formative
	if c == grading.Summative {
		total = res.Totals.Summative
	}
	return FormatNumber(total)
}

// WriteText writes the results block: a blank line, the heading and four
// "Label: value" lines.
func WriteText(w io.Writer, res grading.Result) error {
	_, err := fmt.Fprintf(w, "\n%s\nFormative Total: %s\nSummative Total: %s\nGPA: %s\nStatus: %s\n",
		ResultsHeading,
		CategoryTotal(res, grading.Formative),
		CategoryTotal(res, grading.Summative),
		FormatNumber(res.Totals.GPA),
		res.Verdict.Status,
	)
	return err
}

// WriteEmpty writes the message shown when nothing was entered.
func WriteEmpty(w io.Writer) error {
	_, err := fmt.Fprintln(w, EmptyMessage)
	return err
}

type assignmentJSON struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
	Grade    float64 `json:"grade"`
	Weighted float64 `json:"weighted"`
}

type resultJSON struct {
	Assignments []assignmentJSON `json:"assignments"`
	grading.Totals
	grading.Verdict
}

// WriteJSON writes the full result as one indented JSON document.
func WriteJSON(w io.Writer, res grading.Result) error {
	doc := resultJSON{
		Assignments: make([]assignmentJSON, 0, res.Assignments.Len()),
		Totals:      res.Totals,
		Verdict:     res.Verdict,
	}
	for _, a := range res.Assignments {
		doc.Assignments = append(doc.Assignments, assignmentJSON{
			Name:     a.Name(),
			Category: a.Category().String(),
			Weight:   a.Weight(),
			Grade:    a.Grade(),
			Weighted: a.Weighted(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
