package collector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"gradegen/internal/grading"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustAssignment(t *testing.T, name string, c grading.Category, weight, grade float64) grading.Assignment {
	t.Helper()
	a, err := grading.NewAssignment(name, c, weight, grade)
	require.NoError(t, err)
	return a
}

func collect(t *testing.T, input string, opts ...Option) (grading.AssignmentList, string, error) {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(strings.NewReader(input), &out, opts...)
	list, err := s.Collect(context.Background())
	return list, out.String(), err
}

// =============================================================================
// MACHINE
// =============================================================================

func TestMachine_Transitions(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, AwaitingName, m.State())
	assert.Equal(t, PromptName, m.Prompt())

	steps := []struct {
		line string
		want State
	}{
		{"Quiz", AwaitingCategory},
		{"fa", AwaitingWeight},
		{"20", AwaitingGrade},
		{"90", AwaitingName},
		{"done", Finished},
	}
	for _, step := range steps {
		fb, err := m.Feed(step.line)
		require.NoError(t, err, step.line)
		assert.Nil(t, fb.Rejected, step.line)
		assert.Equal(t, step.want, m.State(), step.line)
	}

	assert.True(t, m.Done())
	assert.Equal(t, "", m.Prompt())

	_, err := m.Feed("more")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestMachine_ReentryKeepsEarlierFields(t *testing.T) {
	m := NewMachine()
	for _, line := range []string{"Essay", "sa"} {
		_, err := m.Feed(line)
		require.NoError(t, err)
	}

	fb, err := m.Feed("abc")
	require.NoError(t, err)
	require.NotNil(t, fb.Rejected)
	assert.Equal(t, grading.NotNumeric, fb.Rejected.Kind)
	assert.Equal(t, AwaitingWeight, m.State())

	fb, err = m.Feed("150")
	require.NoError(t, err)
	require.NotNil(t, fb.Rejected)
	assert.Equal(t, grading.OutOfRange, fb.Rejected.Kind)
	assert.Equal(t, AwaitingWeight, m.State())
	assert.Empty(t, m.Assignments())

	_, err = m.Feed("40")
	require.NoError(t, err)
	fb, err = m.Feed("75")
	require.NoError(t, err)
	require.NotNil(t, fb.Added)

	want := grading.AssignmentList{mustAssignment(t, "Essay", grading.Summative, 40, 75)}
	if diff := cmp.Diff(want, m.Assignments(), cmp.AllowUnexported(grading.Assignment{})); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_DoneOnlyAsName(t *testing.T) {
	m := NewMachine()
	_, err := m.Feed("Project")
	require.NoError(t, err)

	fb, err := m.Feed("done")
	require.NoError(t, err)
	require.NotNil(t, fb.Rejected, "done is not a category")
	assert.Equal(t, AwaitingCategory, m.State())
}

func TestMachine_MaxAttempts(t *testing.T) {
	m := NewMachine(WithMaxAttempts(2))
	_, err := m.Feed("Lab")
	require.NoError(t, err)

	_, err = m.Feed("XX")
	require.NoError(t, err)
	fb, err := m.Feed("YY")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.NotNil(t, fb.Rejected)
}

func TestMachine_MaxAttemptsResetsPerField(t *testing.T) {
	m := NewMachine(WithMaxAttempts(2))
	for _, line := range []string{"Lab", "XX", "FA", "x", "50"} {
		_, err := m.Feed(line)
		require.NoError(t, err, line)
	}
	assert.Equal(t, AwaitingGrade, m.State())
}

func TestMachine_AssignmentsIsACopy(t *testing.T) {
	m := NewMachine()
	for _, line := range []string{"A", "FA", "10", "10"} {
		_, err := m.Feed(line)
		require.NoError(t, err)
	}
	got := m.Assignments()
	got[0] = grading.Assignment{}
	assert.Equal(t, "A", m.Assignments()[0].Name())
}

// =============================================================================
// SESSION
// =============================================================================

func TestSession_DoneImmediately(t *testing.T) {
	list, out, err := collect(t, "done\n")
	require.NoError(t, err)
	assert.True(t, list.Empty())
	assert.Equal(t, PromptName, out)
}

func TestSession_DoneIsCaseInsensitive(t *testing.T) {
	list, _, err := collect(t, "  DoNe \n")
	require.NoError(t, err)
	assert.True(t, list.Empty())
}

func TestSession_FullTranscript(t *testing.T) {
	input := strings.Join([]string{
		"",         // empty name
		"Homework", //
		"xa",       // bad category
		"Fa",       //
		"abc",      // not numeric
		"150",      // out of range
		"100",      //
		"80",       //
		"Final",    //
		"sa",       //
		"100",      //
		"-5",       // grade out of range
		"60",       //
		"done",
	}, "\n") + "\n"

	list, out, err := collect(t, input)
	require.NoError(t, err)

	want := grading.AssignmentList{
		mustAssignment(t, "Homework", grading.Formative, 100, 80),
		mustAssignment(t, "Final", grading.Summative, 100, 60),
	}
	if diff := cmp.Diff(want, list, cmp.AllowUnexported(grading.Assignment{})); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}

	wantOut := PromptName +
		"Assignment name cannot be empty. Please enter a valid name.\n" +
		PromptName +
		PromptCategory +
		"Invalid category. Please enter 'FA' (Formative) or 'SA' (Summative).\n" +
		PromptCategory +
		PromptWeight +
		"Invalid input. Please enter a numeric value.\n" +
		PromptWeight +
		"Invalid weight. Please enter a value between 0 and 100.\n" +
		PromptWeight +
		PromptGrade +
		PromptName +
		PromptCategory +
		PromptWeight +
		PromptGrade +
		"Invalid grade. Please enter a value between 0 and 100.\n" +
		PromptGrade +
		PromptName
	assert.Equal(t, wantOut, out)
}

func TestSession_CRLFInput(t *testing.T) {
	list, _, err := collect(t, "Quiz\r\nSA\r\n50\r\n50\r\ndone\r\n")
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, grading.Summative, list[0].Category())
	assert.Equal(t, 25.0, list[0].Weighted())
}

func TestSession_EOFEndsCollection(t *testing.T) {
	t.Run("after complete assignment", func(t *testing.T) {
		list, out, err := collect(t, "Quiz\nFA\n10\n100\n")
		require.NoError(t, err)
		assert.Equal(t, 1, list.Len())
		assert.True(t, strings.HasSuffix(out, PromptName+"\n"))
	})

	t.Run("mid assignment drops the draft", func(t *testing.T) {
		list, _, err := collect(t, "Quiz\nFA\n")
		require.NoError(t, err)
		assert.True(t, list.Empty())
	})

	t.Run("last line without newline", func(t *testing.T) {
		list, _, err := collect(t, "Quiz\nFA\n10\n100\ndone")
		require.NoError(t, err)
		assert.Equal(t, 1, list.Len())
	})
}

func TestSession_TooManyAttempts(t *testing.T) {
	list, out, err := collect(t, "Quiz\nFA\nx\ny\nz\n", WithMaxAttempts(3))
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.True(t, list.Empty())
	assert.Equal(t, 3, strings.Count(out, "Invalid input. Please enter a numeric value."))
}

func TestSession_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewSession(strings.NewReader("Quiz\n"), &out)
	_, err := s.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
	assert.NotEmpty(t, s.ID())
}

// promptWatcher records output and closes reached once want has been written.
type promptWatcher struct {
	buf     bytes.Buffer
	want    string
	reached chan struct{}
}

func (w *promptWatcher) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	if string(p) == w.want {
		close(w.reached)
	}
	return n, err
}

func TestSession_CancelInterruptsPendingRead(t *testing.T) {
	pr, pw := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &promptWatcher{want: PromptCategory, reached: make(chan struct{})}
	s := NewSession(pr, out)

	go func() {
		_, _ = io.WriteString(pw, "Quiz\n")
		<-out.reached
		cancel()
	}()

	list, err := s.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, list.Empty())
	assert.Equal(t, PromptName+PromptCategory, out.buf.String())

	// Release the reader goroutine before the leak check runs.
	require.NoError(t, pw.CloseWithError(io.EOF))
}

type failingWriter struct {
	after int
	n     int
}

var errWriteFailed = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n >= w.after {
		return 0, errWriteFailed
	}
	w.n++
	return len(p), nil
}

func TestSession_WriteErrors(t *testing.T) {
	t.Run("prompt", func(t *testing.T) {
		s := NewSession(strings.NewReader("Quiz\n"), &failingWriter{after: 0})
		_, err := s.Collect(context.Background())
		assert.ErrorIs(t, err, errWriteFailed)
	})

	t.Run("newline at end of input", func(t *testing.T) {
		s := NewSession(strings.NewReader(""), &failingWriter{after: 1})
		_, err := s.Collect(context.Background())
		assert.ErrorIs(t, err, errWriteFailed)
		assert.ErrorContains(t, err, "newline")
	})
}
