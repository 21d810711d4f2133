package logs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New(Options{Writer: buf, Level: slog.LevelWarn})
	logger.Info("hidden")
	logger.Warn("shown", "generation", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "generation=3") {
		t.Fatalf("got %q", out)
	}
}

func TestLoggerWithoutOutputs(t *testing.T) {
	logger := New(Options{})
	logger.Error("dropped")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	if err != nil {
		t.Fatal(err)
	}
	if l != slog.LevelDebug {
		t.Fatalf("got %v", l)
	}
	l, err = ParseLevel("WARN")
	if err != nil || l != slog.LevelWarn {
		t.Fatalf("got %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("session.id-2"); got != "SESSION_ID_2" {
		t.Fatalf("got %q", got)
	}
}
