package util

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func logAll(l *Logger) {
	l.Error("e")
	l.Warn("w")
	l.Info("i")
	l.Verbose("v")
	l.Debug("d")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		verbosity int
		want      []string
	}{
		{0, []string{"[ERR] e"}},
		{1, []string{"[ERR] e", "[WRN] w", "[INF] i"}},
		{2, []string{"[ERR] e", "[WRN] w", "[INF] i", "[VRB] v"}},
		{3, []string{"[ERR] e", "[WRN] w", "[INF] i", "[VRB] v", "[DBG] d"}},
	}
	for _, tt := range tests {
		t.Run(strings.Repeat("v", tt.verbosity), func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(tt.verbosity)
			l.SetOutput(&buf)
			l.SetTimestamps(false)

			logAll(l)

			got := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_DebugTimestamps(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(3)
	l.SetOutput(&buf)

	l.Debug("accepted")

	if !regexp.MustCompile(`^\d\d:\d\d:\d\d\.\d{3} \[DBG\] accepted\n$`).MatchString(buf.String()) {
		t.Errorf("line = %q, want a timestamp prefix", buf.String())
	}
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(2)
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Named("match 1f2e").Named("session").Verbose("listening on %s", ":7777")
	l.Verbose("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "[VRB] match 1f2e/session: listening on :7777" {
		t.Errorf("named line = %q", lines[0])
	}
	if lines[1] != "[VRB] plain" {
		t.Errorf("parent line = %q", lines[1])
	}
}
