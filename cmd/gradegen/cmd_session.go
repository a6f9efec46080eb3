package main

import (
	"context"
	"errors"
	"fmt"
	"gradegen/cmd/gradegen/ui"
	"gradegen/internal/collector"
	"gradegen/internal/config"
	"gradegen/internal/grading"
	"gradegen/internal/logging"
	"gradegen/internal/report"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runSession runs the line protocol on the command's stdin/stdout.
func runSession(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if cfg.Output.Banner {
		if _, err := fmt.Fprintln(out, report.Banner); err != nil {
			return fmt.Errorf("failed to write banner: %w", err)
		}
	}

	session := collector.NewSession(cmd.InOrStdin(), out,
		collector.WithMaxAttempts(cfg.Session.MaxAttempts))
	sessionLog := logging.Get(logging.CategorySession).With(zap.String("session", session.ID()))
	sessionLog.Info("session started", zap.String("mode", "line"))

	list, err := session.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	return present(out, session.ID(), list)
}

// present computes the result for list and writes it in the configured format.
func present(out io.Writer, sessionID string, list grading.AssignmentList) error {
	sessionLog := logging.Get(logging.CategorySession).With(zap.String("session", sessionID))

	timer := logging.StartTimer(logging.CategoryGrading, "compute")
	res, err := grading.Compute(list)
	if errors.Is(err, grading.ErrNoAssignments) {
		sessionLog.Info("session ended without assignments")
		return report.WriteEmpty(out)
	}
	if err != nil {
		return err
	}
	timer.Stop(
		zap.String("session", sessionID),
		zap.Float64("formative_total", res.Totals.Formative),
		zap.Float64("summative_total", res.Totals.Summative),
		zap.Float64("gpa", res.Totals.GPA),
		zap.String("status", string(res.Verdict.Status)),
	)

	reportLog := logging.Get(logging.CategoryReport).With(zap.String("session", sessionID))
	reportLog.Debug("rendering result", zap.String("format", cfg.Output.Format))

	switch cfg.Output.Format {
	case config.FormatJSON:
		return report.WriteJSON(out, res)

	case config.FormatTable:
		styles := ui.NewStyles(ui.ThemeFor(cfg.Output.Theme))
		_, err := io.WriteString(out, "\n"+ui.SummaryTable(res, styles))
		return err

	case config.FormatMarkdown:
		style := "light"
		if ui.ThemeFor(cfg.Output.Theme).IsDark {
			style = "dark"
		}
		rendered, err := report.RenderMarkdown(res, style, 80)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, rendered)
		return err

	default:
		return report.WriteText(out, res)
	}
}
