package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gradegen/internal/grading"
	"gradegen/internal/logging"

	"go.uber.org/zap"
)

// Session drives a Machine over line-oriented input, writing prompts and
// validation messages to out.
type Session struct {
	id      string
	in      *bufio.Reader
	out     io.Writer
	machine *Machine
	logger  *zap.Logger
}

// NewSession creates a session reading from in and writing to out.
func NewSession(in io.Reader, out io.Writer, opts ...Option) *Session {
	id := logging.NewSessionID()
	return &Session{
		id:      id,
		in:      bufio.NewReader(in),
		out:     out,
		machine: NewMachine(opts...),
		logger:  logging.Get(logging.CategoryCollector).With(zap.String("session", id)),
	}
}

// ID returns the session's correlation ID.
func (s *Session) ID() string { return s.id }

// Collect prompts until the termination token or end of input and returns
// the assignments entered. The list may be empty. Canceling ctx interrupts
// a pending read; the session must not be used after that.
func (s *Session) Collect(ctx context.Context) (grading.AssignmentList, error) {
	s.logger.Debug("collection started")

	for !s.machine.Done() {
		if err := ctx.Err(); err != nil {
			return s.machine.Assignments(), err
		}

		if _, err := io.WriteString(s.out, s.machine.Prompt()); err != nil {
			return s.machine.Assignments(), fmt.Errorf("failed to write prompt: %w", err)
		}

		line, readErr := s.readLine(ctx)
		if ctx.Err() != nil {
			return s.machine.Assignments(), ctx.Err()
		}
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return s.machine.Assignments(), fmt.Errorf("failed to read input: %w", readErr)
		}
		if errors.Is(readErr, io.EOF) && line == "" {
			// Input closed without the termination token.
			s.logger.Debug("input closed", zap.Stringer("state", s.machine.State()))
			if _, err := fmt.Fprintln(s.out); err != nil {
				return s.machine.Assignments(), fmt.Errorf("failed to write newline: %w", err)
			}
			s.machine.Finish()
			break
		}
		line = strings.TrimRight(line, "\r\n")

		state := s.machine.State()
		fb, err := s.machine.Feed(line)
		if fb.Rejected != nil {
			s.logger.Debug("input rejected",
				zap.Stringer("state", state),
				zap.String("kind", fb.Rejected.Kind.String()),
				zap.String("input", line),
			)
			if _, werr := fmt.Fprintln(s.out, fb.Message()); werr != nil {
				return s.machine.Assignments(), fmt.Errorf("failed to write message: %w", werr)
			}
		}
		if fb.Added != nil {
			s.logger.Info("assignment added",
				zap.String("name", fb.Added.Name()),
				zap.String("category", fb.Added.Category().String()),
				zap.Float64("weight", fb.Added.Weight()),
				zap.Float64("grade", fb.Added.Grade()),
			)
		}
		if err != nil {
			s.logger.Warn("collection aborted", zap.Error(err))
			return s.machine.Assignments(), err
		}
	}

	list := s.machine.Assignments()
	s.logger.Debug("collection finished", zap.Int("assignments", list.Len()))
	return list, nil
}

type lineResult struct {
	line string
	err  error
}

// readLine reads one line, returning early when ctx is canceled. The reader
// goroutine then finishes on the next line or when the input closes.
func (s *Session) readLine(ctx context.Context) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := s.in.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}
