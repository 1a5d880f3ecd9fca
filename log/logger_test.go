package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	specs := []struct {
		in     string
		exp    Level
		expErr bool
	}{
		{"", Notice, false},
		{"debug", Debug, false},
		{" INFO ", Info, false},
		{"Warning", Warning, false},
		{"error", Error, false},
		{"verbose", Notice, true},
	}

	for idx, spec := range specs {
		level, err := ParseLevel(spec.in)
		if spec.expErr {
			if err == nil {
				t.Errorf("[spec %d] expected an error parsing %q", idx, spec.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("[spec %d] unexpected error: %v", idx, err)
			continue
		}
		if level != spec.exp {
			t.Errorf("[spec %d] expected level %s; got %s", idx, spec.exp, level)
		}
	}
}

func TestSinkAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetLevel(Notice)
	defer SetLevel(Notice)

	logger := New("logger-test")
	logger.Debug("hidden message")
	logger.Notice("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("expected debug message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "[logger-test]") {
		t.Fatalf("expected notice message tagged with module name; got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Fatalf("expected debug message after raising verbosity; got %q", buf.String())
	}
}
