package slogutil

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "human")

	logger.Info("Resolved module", "module", "lodash", "attempts", 2)

	output := buf.String()
	for _, want := range []string{"[info]", "Resolved module", " | ", "module=lodash", "attempts=2"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("each record should end with a newline")
	}
}

func TestLineHandler_Levels(t *testing.T) {
	tests := []struct {
		logFunc  func(*slog.Logger)
		expected string
	}{
		{func(l *slog.Logger) { l.Debug("debug") }, "[debug]"},
		{func(l *slog.Logger) { l.Info("info") }, "[info]"},
		{func(l *slog.Logger) { l.Warn("warn") }, "[warn]"},
		{func(l *slog.Logger) { l.Error("error") }, "[error]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(NewLogger(&buf, slog.LevelDebug, ""))
			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("expected %s in output, got: %s", tt.expected, buf.String())
			}
		})
	}
}

func TestLineHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn, "")

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record should be written")
	}
}

func TestLineHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "").With("component", "registry").WithGroup("req")

	logger.Info("fetch", "name", "react")

	output := buf.String()
	if !strings.Contains(output, "component=registry") {
		t.Errorf("missing pre-set attr in %q", output)
	}
	if !strings.Contains(output, "req.name=react") {
		t.Errorf("missing grouped attr in %q", output)
	}
}

func TestLineHandler_QuotesAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "")

	logger.Info("request",
		"error", errors.New("connection refused by peer"),
		"empty", "",
		slog.Group("resp", "status", 404, "url", "https://registry.npmjs.org/a"),
	)

	output := buf.String()
	for _, want := range []string{
		`error="connection refused by peer"`,
		`empty=""`,
		"resp.status=404",
		"resp.url=https://registry.npmjs.org/a",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLineHandler_SilentLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewLineHandler(&buf, &slog.HandlerOptions{Level: LevelSilent})

	for _, level := range []slog.Level{slog.LevelError, slog.LevelError + 50, LevelSilent + 1} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true at silent threshold", level)
		}
	}
	slog.New(h).Log(context.Background(), LevelSilent+1, "never")
	if buf.Len() != 0 {
		t.Errorf("silent handler wrote %q", buf.String())
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "json").Info("hello", "k", "v")

	if !strings.Contains(buf.String(), `"msg":"hello"`) || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Errorf("expected JSON record, got %s", buf.String())
	}
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		want      slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{5, false, slog.LevelDebug},
		{2, true, LevelSilent},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity, tt.quiet, slog.LevelWarn); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.want)
		}
	}
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	logger.Error("nothing should happen")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled for any standard level")
	}
}
