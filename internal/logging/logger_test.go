package logging

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("defaults to info on bad level", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Level: "chatty"})
		assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())
		assert.False(t, result.UsingFile)
		require.NoError(t, result.Close())
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "footprint.log")
		result := NewLoggerWithPath(Config{Level: "debug", Output: OutputFile, File: path})
		defer func() { _ = result.Close() }()

		assert.True(t, result.UsingFile)
		assert.Equal(t, path, result.FilePath)
		assert.Equal(t, zerolog.DebugLevel, result.Logger.GetLevel())
	})

	t.Run("file output without path falls back", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Output: OutputFile})
		assert.False(t, result.UsingFile)
		assert.True(t, result.FallbackUsed)
		assert.NotEmpty(t, result.FallbackReason)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("missing logger is disabled", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		assert.Equal(t, zerolog.Disabled, l.GetLevel())
	})

	t.Run("returns attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := ComponentLogger(base, "engine").WithContext(context.Background())

		FromContext(ctx).Info().Msg("hello")
		assert.Contains(t, buf.String(), `"component":"engine"`)
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	require.Len(t, id, 26)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
}
