package ltbrowser

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lterrors "github.com/lepinkainen/ltsync/internal/errors"
)

// stubSession builds a session without launching a browser.
func stubSession(t *testing.T) *Session {
	t.Helper()
	s := &Session{
		opts: Options{BaseURL: "https://www.librarything.com"},
		host: "www.librarything.com",
		ctx:  context.Background(),
	}
	return s
}

func stubRunner(t *testing.T, fn func(ctx context.Context, actions ...chromedp.Action) error) {
	t.Helper()
	orig := chromedpRunner
	chromedpRunner = fn
	t.Cleanup(func() { chromedpRunner = orig })
}

func TestRunClassifiesLostWebsocket(t *testing.T) {
	s := stubSession(t)
	stubRunner(t, func(ctx context.Context, actions ...chromedp.Action) error {
		return fmt.Errorf("websocket: close 1006 (abnormal closure)")
	})

	err := s.Run(context.Background(), chromedp.Navigate("about:blank"))
	require.Error(t, err)
	assert.True(t, lterrors.IsWindowClosedError(err))
}

func TestRunClassifiesDeadSessionContext(t *testing.T) {
	s := stubSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	s.ctx = ctx
	cancel()

	stubRunner(t, func(ctx context.Context, actions ...chromedp.Action) error {
		return context.Canceled
	})

	err := s.Run(context.Background(), chromedp.Navigate("about:blank"))
	require.Error(t, err)
	assert.True(t, lterrors.IsWindowClosedError(err))
}

func TestRunKeepsOrdinaryErrors(t *testing.T) {
	s := stubSession(t)
	sentinel := errors.New("element not found")
	stubRunner(t, func(ctx context.Context, actions ...chromedp.Action) error {
		return sentinel
	})

	err := s.Run(context.Background(), chromedp.Navigate("about:blank"))
	require.Error(t, err)
	assert.False(t, lterrors.IsWindowClosedError(err))
}

func TestRunPassesThroughSuccess(t *testing.T) {
	s := stubSession(t)
	stubRunner(t, func(ctx context.Context, actions ...chromedp.Action) error {
		return nil
	})

	assert.NoError(t, s.Run(context.Background(), chromedp.Navigate("about:blank")))
}

func TestNewSessionRejectsBadBaseURL(t *testing.T) {
	_, err := NewSession(context.Background(), Options{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestBaseURLTrimsTrailingSlash(t *testing.T) {
	s := &Session{opts: Options{BaseURL: "https://www.librarything.com/"}}
	assert.Equal(t, "https://www.librarything.com", s.BaseURL())
}

func TestPollWithTimeoutReturnsResult(t *testing.T) {
	calls := 0
	result, err := PollWithTimeout(context.Background(), time.Millisecond, time.Second, "test condition", func() (string, bool, error) {
		calls++
		if calls < 3 {
			return "", false, nil
		}
		return "done", true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 3, calls)
}

func TestPollWithTimeoutTimesOut(t *testing.T) {
	_, err := PollWithTimeout(context.Background(), time.Millisecond, 10*time.Millisecond, "never true", func() (struct{}, bool, error) {
		return struct{}{}, false, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for never true")
}

func TestPollWithTimeoutStopsOnError(t *testing.T) {
	sentinel := errors.New("check failed")
	_, err := PollWithTimeout(context.Background(), time.Millisecond, time.Second, "condition", func() (struct{}, bool, error) {
		return struct{}{}, false, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestPollWithTimeoutRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PollWithTimeout(ctx, time.Millisecond, time.Second, "condition", func() (struct{}, bool, error) {
		return struct{}{}, false, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polling canceled")
}
