package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowClosedError(t *testing.T) {
	inner := fmt.Errorf("websocket: close 1006")
	err := NewWindowClosedError(inner)

	assert.Contains(t, err.Error(), "browser window closed")
	assert.Contains(t, err.Error(), "1006")
	assert.True(t, IsWindowClosedError(err))
	assert.True(t, IsWindowClosedError(fmt.Errorf("processing book: %w", err)))
	assert.False(t, IsWindowClosedError(inner))
}

func TestWindowClosedErrorWithoutCause(t *testing.T) {
	err := &WindowClosedError{}
	assert.Equal(t, "browser window closed", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestParseError(t *testing.T) {
	err := NewParseError("secondary author", "unexpected span count %d", 3)

	assert.Contains(t, err.Error(), "secondary author")
	assert.Contains(t, err.Error(), "span count 3")
	assert.True(t, IsParseError(fmt.Errorf("book 123: %w", err)))
	assert.False(t, IsParseError(fmt.Errorf("plain")))
}
