package diag

import (
	"fmt"
	"io"
	"strings"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorNone   = "\033[0m"
)

// Printer renders diagnostics followed by the offending source line and a
// caret underline.
type Printer struct {
	W     io.Writer
	Color bool
}

func (p *Printer) paint(color, s string) string {
	if !p.Color {
		return s
	}
	return color + s + colorNone
}

func (p *Printer) Print(d Diagnostic) {
	color := colorRed
	if d.Warning {
		color = colorYellow
	}
	label := p.paint(color, d.Severity()+":")
	if d.Range == nil {
		fmt.Fprintf(p.W, "%s %s\n", label, d.Message)
		return
	}
	fmt.Fprintf(p.W, "%s: %s %s\n", d.Range.Begin, label, d.Message)
	p.printLine(d)
}

func (p *Printer) PrintAll(l *List) {
	for _, d := range l.items {
		p.Print(d)
	}
}

func (p *Printer) printLine(d Diagnostic) {
	begin := d.Range.Begin
	if begin.Line == 0 || begin.Column == 0 {
		return
	}
	fmt.Fprintf(p.W, "  %s\n", begin.FullLine)

	// Keep tabs so the caret lines up with the source line above it.
	var pad strings.Builder
	for i := 0; i < begin.Column-1; i++ {
		if i < len(begin.FullLine) && begin.FullLine[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	marker := "^" + strings.Repeat("~", d.Range.Width()-1)
	fmt.Fprintf(p.W, "  %s%s\n", pad.String(), p.paint(colorGreen, marker))
}
