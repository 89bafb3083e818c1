// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func newRecord(level slog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC), level, msg, 0)
	r.AddAttrs(attrs...)

	return r
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, WithDestinationWriter(&buf))

	err := h.Handle(context.Background(), newRecord(slog.LevelInfo, "worker started", slog.Int("worker", 2)))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[03:04:05.006]")
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "worker started")
	assert.Contains(t, out, `"worker": 2`)
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestPrettyHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(nil, WithDestinationWriter(&buf))
	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelWarn, "plain")))
	assert.NotContains(t, buf.String(), "{")

	buf.Reset()

	h = NewPrettyHandler(nil, WithDestinationWriter(&buf), WithOutputEmptyAttrs())
	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelWarn, "plain")))
	assert.Contains(t, buf.String(), "{}")
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(&buf))).
		With("job", "echo a").
		WithGroup("result")

	logger.Warn("job failed", "exitCode", 1)

	out := buf.String()
	assert.Contains(t, out, `"job": "echo a"`)
	assert.Contains(t, out, `"result"`)
	assert.Contains(t, out, `"exitCode": 1`)
}

func TestPrettyHandler_ReplaceAttrDropsTime(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelError, "boom")))
	assert.NotContains(t, buf.String(), "[03:04:05.006]")
	assert.Contains(t, buf.String(), "ERROR:")
}

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))

	err := h.Handle(context.Background(), newRecord(slog.LevelError, "boom"))
	require.ErrorIs(t, err, ErrIoWrite)
}

func TestSuppressDefaults(t *testing.T) {
	f := suppressDefaults(nil)

	for _, key := range []string{slog.TimeKey, slog.LevelKey, slog.MessageKey} {
		assert.True(t, f(nil, slog.String(key, "x")).Equal(slog.Attr{}), key)
	}

	kept := f(nil, slog.String("job", "x"))
	assert.Equal(t, "job", kept.Key)
}
