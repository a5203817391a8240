package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	got := FromContext(ctx)
	require.Same(t, logger, got)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	got := FromContext(context.Background())
	assert.Same(t, slog.Default(), got)
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := With(WithLogger(context.Background(), logger), "run_id", "abc")
	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "run_id=abc")
}
