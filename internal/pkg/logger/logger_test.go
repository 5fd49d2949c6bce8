package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		err := Init()
		assert.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("with valid level", func(t *testing.T) {
		err := Init(WithLevel("debug"))
		assert.NoError(t, err)
	})

	t.Run("with invalid level", func(t *testing.T) {
		err := Init(WithLevel("not-a-level"))
		assert.Error(t, err)
	})
}

func TestLoggingFunctions(t *testing.T) {
	require.NoError(t, Init(WithLevel("debug")))

	ctx := context.Background()

	// These must not panic once Init has run.
	assert.NotPanics(t, func() { Debug(ctx, "debug message", "key", "value") })
	assert.NotPanics(t, func() { Info(ctx, "info message", "key", "value") })
	assert.NotPanics(t, func() { Warn(ctx, "warn message", "key", "value") })
	assert.NotPanics(t, func() { Error(ctx, "error message", "key", "value") })
}
