package errors

import "errors"

// WindowClosedError indicates the browser window or DevTools connection was
// lost. Unlike per-book failures this aborts the whole run.
type WindowClosedError struct {
	Err error
}

func (e *WindowClosedError) Error() string {
	if e.Err != nil {
		return "browser window closed: " + e.Err.Error()
	}
	return "browser window closed"
}

func (e *WindowClosedError) Unwrap() error {
	return e.Err
}

// NewWindowClosedError wraps err as a fatal window-closed condition.
func NewWindowClosedError(err error) *WindowClosedError {
	return &WindowClosedError{Err: err}
}

// IsWindowClosedError reports whether err is a WindowClosedError (even when wrapped).
func IsWindowClosedError(err error) bool {
	var wce *WindowClosedError
	return errors.As(err, &wce)
}
