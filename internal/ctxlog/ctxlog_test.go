package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("returns embedded logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := WithLogger(context.Background(), logger)

		assert.Same(t, logger, FromContext(ctx))
		FromContext(ctx).Info("hello", "node", "capture")
		assert.Contains(t, buf.String(), "node=capture")
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		ctx := WithLogger(context.Background(), nil)
		assert.Same(t, slog.Default(), FromContext(ctx))
	})
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	tagged := With(ctx, "usecase", "surround_view")
	FromContext(tagged).Info("compiled")
	FromContext(ctx).Info("untagged")

	assert.Contains(t, buf.String(), `msg=compiled usecase=surround_view`)
	assert.NotContains(t, buf.String(), `msg=untagged usecase`)
}
