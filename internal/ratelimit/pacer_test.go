package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerEnforcesInterval(t *testing.T) {
	p := New("test", 50*time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond, "second wait should be paced")
}

func TestPacerRespectsContextCancellation(t *testing.T) {
	p := New("test", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Wait(ctx))
	err := p.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pacing wait for test")
}

func TestPacerName(t *testing.T) {
	assert.Equal(t, "books", New("books", time.Second).Name())
}
