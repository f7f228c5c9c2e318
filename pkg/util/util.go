package util

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	// Stderr receives every driver message.
	Stderr io.Writer = os.Stderr
	// Verbose enables Info messages.
	Verbose bool
	// Color enables ANSI colors in driver messages.
	Color = ColorEnabled(os.Stderr)
)

// ColorEnabled reports whether output to f should be colored: f must be a
// terminal and NO_COLOR must be unset.
func ColorEnabled(f *os.File) bool {
	return os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(f.Fd()))
}

func emit(color, label, format string, args ...any) {
	if Color {
		label = color + label + "\033[0m"
	}
	fmt.Fprintf(Stderr, "aycc: %s ", label)
	fmt.Fprintf(Stderr, format, args...)
	fmt.Fprintln(Stderr)
}

// Info prints a progress message when Verbose is set.
func Info(format string, args ...any) {
	if Verbose {
		emit("\033[36m", "info:", format, args...)
	}
}

func Warn(format string, args ...any) { emit("\033[33m", "warning:", format, args...) }

func Error(format string, args ...any) { emit("\033[31m", "error:", format, args...) }

// Fatal prints an error message and exits the program.
func Fatal(format string, args ...any) {
	Error(format, args...)
	os.Exit(1)
}
