package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// newBufferLogger returns a logger writing through a TruncatingHandler into buf.
func newBufferLogger(buf *bytes.Buffer, maxLen int) *slog.Logger {
	textHandler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewTruncatingHandler(textHandler, maxLen))
}

// TestTruncatingHandlerHandle tests value truncation on log records.
func TestTruncatingHandlerHandle(t *testing.T) {
	t.Parallel()

	t.Run("long string values are cut and marked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newBufferLogger(&buf, 16)

		logger.Info("scan finished", "output", strings.Repeat("a", 100))

		got := buf.String()
		if !strings.Contains(got, strings.Repeat("a", 16)+TruncationMarker) {
			t.Errorf("expected truncated value with marker, got %q", got)
		}
		if strings.Contains(got, strings.Repeat("a", 17)) {
			t.Errorf("expected value cut at 16 characters, got %q", got)
		}
	})

	t.Run("short string values pass through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newBufferLogger(&buf, 16)

		logger.Info("scan finished", "target", "10.10.10.5")

		got := buf.String()
		if !strings.Contains(got, "target=10.10.10.5") {
			t.Errorf("expected untouched value, got %q", got)
		}
		if strings.Contains(got, TruncationMarker) {
			t.Errorf("expected no marker, got %q", got)
		}
	})

	t.Run("non-string values are never touched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newBufferLogger(&buf, 4)

		logger.Info("scan finished", "ports", 65535)

		got := buf.String()
		if !strings.Contains(got, "ports=65535") {
			t.Errorf("expected numeric value intact, got %q", got)
		}
	})

	t.Run("group attributes are truncated recursively", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newBufferLogger(&buf, 8)

		logger.Info("request sent",
			slog.Group("backend",
				"prompt", strings.Repeat("b", 50),
				"model", "llama3",
			),
		)

		got := buf.String()
		if !strings.Contains(got, strings.Repeat("b", 8)+TruncationMarker) {
			t.Errorf("expected truncated group value, got %q", got)
		}
		if !strings.Contains(got, "backend.model=llama3") {
			t.Errorf("expected short group value intact, got %q", got)
		}
	})
}

// TestTruncatingHandlerWithAttrs tests truncation of pre-bound attributes.
func TestTruncatingHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newBufferLogger(&buf, 8)

	bound := logger.With("raw", strings.Repeat("c", 64))
	bound.Info("hello")

	got := buf.String()
	if !strings.Contains(got, strings.Repeat("c", 8)+TruncationMarker) {
		t.Errorf("expected truncated bound attribute, got %q", got)
	}
}

// TestNewTruncatingHandlerDefaults tests the constructor fallbacks.
func TestNewTruncatingHandlerDefaults(t *testing.T) {
	t.Parallel()

	t.Run("non-positive maxLen uses the default", func(t *testing.T) {
		t.Parallel()

		h := NewTruncatingHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), 0)
		if h.maxLen != DefaultMaxValueLen {
			t.Errorf("expected %d, got %d", DefaultMaxValueLen, h.maxLen)
		}
	})

	t.Run("nil handler falls back to the default handler", func(t *testing.T) {
		t.Parallel()

		h := NewTruncatingHandler(nil, 128)
		if h.handler == nil {
			t.Error("expected a non-nil underlying handler")
		}
	})
}

// TestNewLogger tests the level selection of the convenience constructor.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("expected debug level to be enabled")
		}
	})

	t.Run("quiet mode logs warnings and above", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		if logger.Enabled(context.Background(), slog.LevelInfo) {
			t.Error("expected info level to be disabled")
		}
		if !logger.Enabled(context.Background(), slog.LevelWarn) {
			t.Error("expected warn level to be enabled")
		}
	})
}
