package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "session", "user_id", 7).Info(context.Background(), "restored", "view", "home")

	out := buf.String()
	for _, want := range []string{"msg=restored", "component=session", "user_id=7", "view=home"} {
		assert.Contains(t, out, want)
	}
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: "text", want: []string{"level=INFO", "msg=hello", "k=v"}},
		{format: "json", want: []string{`"level":"INFO"`, `"msg":"hello"`, `"k":"v"`}},
		{format: "console", want: []string{"INF", "hello", "k=v"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(tt.format, "info", &buf)
			require.NoError(t, err)

			l.Info(context.Background(), "hello", "k", "v")
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestNew_LevelFilters(t *testing.T) {
	for _, format := range []string{"text", "json", "console"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(format, "warn", &buf)
			require.NoError(t, err)

			l.Info(context.Background(), "quiet")
			l.Warn(context.Background(), "loud")

			out := buf.String()
			assert.False(t, strings.Contains(out, "quiet"), "info must be filtered at warn level: %s", out)
			assert.Contains(t, out, "loud")
		})
	}
}

func TestNew_Errors(t *testing.T) {
	var buf bytes.Buffer

	_, err := New("text", "loud", &buf)
	require.ErrorIs(t, err, ErrUnknownLevel)

	_, err = New("xml", "info", &buf)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNopLogger_DoesNotPanic(t *testing.T) {
	var l Logger = NewNopLogger()
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
	l.With("a", 1).Info(ctx, "y")
}
