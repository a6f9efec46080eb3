package main

import (
	"errors"
	"fmt"
	"gradegen/cmd/gradegen/ui"
	"gradegen/internal/collector"
	"gradegen/internal/logging"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrAborted is returned when the user quits the form before finishing.
var ErrAborted = errors.New("session aborted")

// runTUI collects assignments through the bubbletea form, then prints the
// result the same way the line session does.
func runTUI(cmd *cobra.Command, args []string) error {
	sessionID := logging.NewSessionID()
	sessionLog := logging.Get(logging.CategorySession).With(zap.String("session", sessionID))
	sessionLog.Info("session started", zap.String("mode", "tui"))

	machine := collector.NewMachine(collector.WithMaxAttempts(cfg.Session.MaxAttempts))
	form := ui.NewForm(machine, ui.NewStyles(ui.ThemeFor(cfg.Output.Theme)))

	opts := []tea.ProgramOption{
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	}
	if ctx := cmd.Context(); ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}

	final, err := tea.NewProgram(form, opts...).Run()
	if err != nil {
		return fmt.Errorf("terminal form failed: %w", err)
	}

	result, ok := final.(ui.Form)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}
	return finishTUI(cmd.OutOrStdout(), sessionID, result)
}

// finishTUI presents what the form collected, or reports why it stopped.
func finishTUI(out io.Writer, sessionID string, form ui.Form) error {
	if form.Aborted() {
		logging.Get(logging.CategorySession).Info("session aborted", zap.String("session", sessionID))
		return ErrAborted
	}
	if err := form.Err(); err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}
	return present(out, sessionID, form.Assignments())
}
