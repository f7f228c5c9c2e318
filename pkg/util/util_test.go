package util

import (
	"bytes"
	"os"
	"testing"
)

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	Stderr, Color, Verbose = &buf, false, false
	t.Cleanup(func() { Stderr, Verbose = os.Stderr, false })

	Info("hidden %d", 1)
	Warn("careful")
	Error("file %s", "x.c")
	Verbose = true
	Info("shown")

	want := "aycc: warning: careful\naycc: error: file x.c\naycc: info: shown\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
