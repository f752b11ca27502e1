package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "test", LevelInfo)

	l.Debug("hidden")
	l.Info("shown", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "[test] ") || !strings.Contains(out, "[INFO] shown count=3") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "overlay", LevelDebug)
	l := base.With("pass", "abc").With("stage", "ocr")

	l.Warn("slow", "ms", 1200)
	base.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "[overlay] ") {
		t.Errorf("prefix should lead the line: %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], "[WARN] slow pass=abc stage=ocr ms=1200") {
		t.Errorf("bound pairs should follow the message: %q", lines[0])
	}
	if strings.Contains(lines[1], "pass=") {
		t.Errorf("With must not change the parent logger: %q", lines[1])
	}
}

func TestLogger_OddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "", LevelDebug).Error("boom", "orphan")

	if out := buf.String(); !strings.Contains(out, "orphan=<missing>") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l.Enabled(LevelError) {
		t.Error("Nop logger should discard errors too")
	}
	l.Error("ignored")
}
