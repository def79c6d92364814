package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	lterrors "github.com/lepinkainen/ltsync/internal/errors"
	"github.com/lepinkainen/ltsync/internal/testutil"
	"github.com/lepinkainen/ltsync/internal/tui"
)

func stubPause(t *testing.T, fn func(message string) (tui.PauseAction, error)) {
	t.Helper()
	orig := pause
	pause = fn
	t.Cleanup(func() { pause = orig })
}

func testData() map[string]bookdata.Record {
	return map[string]bookdata.Record{
		"101": {"title": "First"},
		"102": {"title": "Second"},
		"103": {"title": "Third"},
	}
}

func TestRunProcessesAllBooksInOrder(t *testing.T) {
	var seen []string
	opts := Options{Verb: "import", Interval: time.Millisecond}

	err := Run(context.Background(), testData(), opts, func(bookID string, rec bookdata.Record) error {
		seen = append(seen, bookID)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "103"}, seen)
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	env := testutil.NewTestEnv(t)
	errorsFile := env.Path("errors.txt")
	opts := Options{Verb: "import", ErrorsFile: errorsFile, Interval: time.Millisecond}

	var seen []string
	err := Run(context.Background(), testData(), opts, func(bookID string, rec bookdata.Record) error {
		seen = append(seen, bookID)
		if bookID == "102" {
			return errors.New("field mismatch")
		}
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 books failed")
	assert.Equal(t, []string{"101", "102", "103"}, seen, "a failed book should not stop the run")

	content := env.ReadFileString("errors.txt")
	assert.Equal(t, "102\n", content)
}

func TestRunAbortsOnWindowClosed(t *testing.T) {
	var seen []string
	opts := Options{Verb: "scrape", Interval: time.Millisecond}

	err := Run(context.Background(), testData(), opts, func(bookID string, rec bookdata.Record) error {
		seen = append(seen, bookID)
		if bookID == "102" {
			return lterrors.NewWindowClosedError(errors.New("websocket: close 1006"))
		}
		return nil
	})

	require.Error(t, err)
	assert.True(t, lterrors.IsWindowClosedError(err))
	assert.Equal(t, []string{"101", "102"}, seen)
}

func TestRunDebugPausesOnErrorAndAtExit(t *testing.T) {
	var pausedFor []string
	stubPause(t, func(message string) (tui.PauseAction, error) {
		pausedFor = append(pausedFor, message)
		return tui.ActionContinue, nil
	})

	opts := Options{Verb: "import", DebugMode: true, Interval: time.Millisecond}
	err := Run(context.Background(), testData(), opts, func(bookID string, rec bookdata.Record) error {
		if bookID == "102" {
			return errors.New("field mismatch")
		}
		return nil
	})

	require.Error(t, err)
	require.Len(t, pausedFor, 2, "pause on the failed book and once at exit")
	assert.True(t, strings.Contains(pausedFor[0], "102"))
}

func TestRunDebugPauseAbortStopsRun(t *testing.T) {
	stubPause(t, func(message string) (tui.PauseAction, error) {
		return tui.ActionAbort, nil
	})

	var seen []string
	opts := Options{Verb: "import", DebugMode: true, Interval: time.Millisecond}
	err := Run(context.Background(), testData(), opts, func(bookID string, rec bookdata.Record) error {
		seen = append(seen, bookID)
		if bookID == "101" {
			return errors.New("field mismatch")
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, []string{"101"}, seen, "abort at the error pause skips the rest")
}

func TestRunExplicitBookIDs(t *testing.T) {
	var seen []string
	opts := Options{Verb: "import", BookIDs: []string{"103", "101"}, Interval: time.Millisecond}

	err := Run(context.Background(), testData(), opts, func(bookID string, rec bookdata.Record) error {
		seen = append(seen, bookID)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"103", "101"}, seen)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{Verb: "import", Interval: time.Millisecond}
	err := Run(ctx, testData(), opts, func(bookID string, rec bookdata.Record) error {
		return nil
	})

	assert.Error(t, err)
}
