package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tickbridge/tickbridge/pkg/logger"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("debug", &buf)

	log.Debug("drain started")
	log.Info("tick complete")
	log.Warn("queue backlog")
	log.Error("continuation failed")

	out := buf.String()
	for _, want := range []string{"DEBUG", "INFO", "WARN", "ERROR", "tick complete", "continuation failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("warn", &buf)

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info suppressed at warn level, got:\n%s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected warn entry present, got:\n%s", out)
	}
}

func TestLogger_WithScope(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.WithScope("timer").Info("expired")

	out := buf.String()
	if !strings.Contains(out, "[timer]") {
		t.Errorf("expected scope prefix, got:\n%s", out)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Info("watch fired", logger.WithField("handle", "abc"), logger.WithField("tick", 42))

	out := buf.String()
	if !strings.Contains(out, "handle=abc") {
		t.Errorf("expected handle field, got:\n%s", out)
	}
	if !strings.Contains(out, "tick=42") {
		t.Errorf("expected tick field, got:\n%s", out)
	}
}

func TestLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("nonsense", &buf)

	log.Debug("hidden")
	log.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug suppressed at default level, got:\n%s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected info entry present, got:\n%s", out)
	}
}
