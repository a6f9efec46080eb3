package ui

import (
	"strings"

	"gradegen/internal/grading"
	"gradegen/internal/report"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows under a title and header line.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// RightAlign marks columns rendered flush right (numbers).
	RightAlign map[int]bool
}

// NewTable creates a Table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:      title,
		Headers:    headers,
		Rows:       make([][]string, 0),
		RightAlign: make(map[int]bool),
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	// Width() includes the one-cell padding on each side
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("│")

	cells := make([]string, 0, len(t.Headers))
	for i, h := range t.Headers {
		cells = append(cells, t.align(headerStyle, i).Width(colWidths[i]).Render(h))
	}
	sb.WriteString(strings.Join(cells, sep))
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(styles.RenderDivider(totalWidth))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		cells = cells[:0]
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells = append(cells, t.align(rowStyle, i).Width(colWidths[i]).Render(cell))
		}
		sb.WriteString(strings.Join(cells, sep))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (t *Table) align(s lipgloss.Style, col int) lipgloss.Style {
	if t.RightAlign[col] {
		return s.Align(lipgloss.Right)
	}
	return s.Align(lipgloss.Left)
}

// SummaryTable renders every assignment followed by the totals and verdict.
func SummaryTable(res grading.Result, styles Styles) string {
	table := NewTable("Results", "Assignment", "Category", "Weight", "Grade", "Weighted")
	for _, col := range []int{2, 3, 4} {
		table.RightAlign[col] = true
	}
	for _, a := range res.Assignments {
		table.AddRow(
			a.Name(),
			a.Category().Label(),
			report.FormatNumber(a.Weight()),
			report.FormatNumber(a.Grade()),
			report.FormatNumber(a.Weighted()),
		)
	}

	var sb strings.Builder
	sb.WriteString(table.View(styles))

	totals := NewTable("", "Formative Total", "Summative Total", "GPA", "Status")
	totals.AddRow(
		report.CategoryTotal(res, grading.Formative),
		report.CategoryTotal(res, grading.Summative),
		report.FormatNumber(res.Totals.GPA),
		styles.Status(res.Verdict.Status == grading.StatusPass, string(res.Verdict.Status)),
	)
	sb.WriteString("\n")
	sb.WriteString(totals.View(styles))

	return sb.String()
}
