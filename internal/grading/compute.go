package grading

// Status is the pass/fail verdict.
type Status string

const (
	StatusPass Status = "Pass"
	StatusFail Status = "Fail and Repeat"
)

// GPAScale is the top of the GPA scale.
const GPAScale = 5.0

// Totals are the weighted category sums and the derived GPA.
type Totals struct {
	Formative float64 `json:"formative_total"`
	Summative float64 `json:"summative_total"`
	Total     float64 `json:"total"`
	GPA       float64 `json:"gpa"`
}

// Verdict is the evaluator's output.
type Verdict struct {
	Status       Status  `json:"status"`
	AvgFormative float64 `json:"avg_formative"`
	AvgSummative float64 `json:"avg_summative"`
}

// Result bundles everything the presenter needs.
type Result struct {
	Assignments AssignmentList
	Totals      Totals
	Verdict     Verdict
}

// Aggregate sums grade*(weight/100) per category and derives the GPA.
//
// Weights are not normalized within a category, so totals are plain sums of
// per-assignment contributions and the GPA can exceed GPAScale when a
// category holds several assignments.
func Aggregate(list AssignmentList) Totals {
	var formative, summative float64
	for _, a := range list {
		weighted := a.Weighted()
		if a.category == Formative {
			formative += weighted
		} else {
			summative += weighted
		}
	}

	total := formative + summative
	return Totals{
		Formative: formative,
		Summative: summative,
		Total:     total,
		GPA:       (total / 100) * GPAScale,
	}
}

// Evaluate compares each category total against that category's average
// contribution. An empty category averages to 0.
//
// A non-negative sum is never below its own average, so with valid input the
// verdict is Pass. The rule is kept as-is until the intended policy is known.
func Evaluate(totals Totals, list AssignmentList) Verdict {
	var avgFormative, avgSummative float64
	if n := list.Count(Formative); n > 0 {
		avgFormative = totals.Formative / float64(n)
	}
	if n := list.Count(Summative); n > 0 {
		avgSummative = totals.Summative / float64(n)
	}

	status := StatusFail
	if totals.Formative >= avgFormative && totals.Summative >= avgSummative {
		status = StatusPass
	}
	return Verdict{
		Status:       status,
		AvgFormative: avgFormative,
		AvgSummative: avgSummative,
	}
}

// Compute runs Aggregate then Evaluate. An empty list yields ErrNoAssignments
// and no computation.
func Compute(list AssignmentList) (Result, error) {
	if list.Empty() {
		return Result{}, ErrNoAssignments
	}
	totals := Aggregate(list)
	return Result{
		Assignments: list,
		Totals:      totals,
		Verdict:     Evaluate(totals, list),
	}, nil
}
