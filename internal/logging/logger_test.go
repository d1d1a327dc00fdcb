package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{" WARN ", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"info", INFO},
		{"garbage", INFO},
		{"", INFO},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: WARN, output: &buf, fields: map[string]interface{}{}}

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-threshold lines were written: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("WARN line missing from output: %q", out)
	}
}

func TestWithFieldSortedOutput(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: DEBUG, output: &buf, fields: map[string]interface{}{}}

	l.WithField("zeta", 1).WithField("alpha", "x").Info("fields")

	out := buf.String()
	ai, zi := strings.Index(out, "alpha=x"), strings.Index(out, "zeta=1")
	if ai == -1 || zi == -1 {
		t.Fatalf("fields missing from output: %q", out)
	}
	if ai > zi {
		t.Errorf("fields not sorted by key: %q", out)
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := &Logger{level: DEBUG, output: &buf, fields: map[string]interface{}{}}
	_ = parent.WithField("component", "api")

	parent.Info("bare")
	if strings.Contains(buf.String(), "component=api") {
		t.Errorf("child field leaked into parent logger: %q", buf.String())
	}
}
