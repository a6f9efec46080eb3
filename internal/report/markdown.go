package report

import (
	"fmt"
	"strings"

	"gradegen/internal/grading"

	"github.com/charmbracelet/glamour"
)

// Markdown returns the result as a markdown document.
func Markdown(res grading.Result) string {
	var sb strings.Builder

	sb.WriteString("# Results\n\n")
	sb.WriteString("| Assignment | Category | Weight | Grade | Weighted |\n")
	sb.WriteString("|---|---|---:|---:|---:|\n")
	for _, a := range res.Assignments {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			escapeCell(a.Name()),
			a.Category().Label(),
			FormatNumber(a.Weight()),
			FormatNumber(a.Grade()),
			FormatNumber(a.Weighted()),
		)
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- **Formative Total:** %s\n", CategoryTotal(res, grading.Formative))
	fmt.Fprintf(&sb, "- **Summative Total:** %s\n", CategoryTotal(res, grading.Summative))
	fmt.Fprintf(&sb, "- **GPA:** %s\n", FormatNumber(res.Totals.GPA))
	fmt.Fprintf(&sb, "- **Status:** %s\n", res.Verdict.Status)

	return sb.String()
}

// RenderMarkdown renders Markdown(res) for a terminal using the named glamour
// style ("dark", "light", "notty", ...).
func RenderMarkdown(res grading.Result, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(Markdown(res))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
