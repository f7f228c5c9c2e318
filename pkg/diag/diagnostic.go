// Package diag holds compiler diagnostics and the accumulator they are
// collected into while a translation unit is processed.
package diag

import (
	"fmt"
	"sort"

	"github.com/aycc/aycc/pkg/source"
)

// Diagnostic is an error or warning about the source being compiled. Range is
// nil for diagnostics that are not tied to a location, such as a file that
// cannot be opened.
type Diagnostic struct {
	Message string
	Range   *source.Range
	Warning bool
}

func Errorf(r *source.Range, format string, args ...any) *Diagnostic {
	return &Diagnostic{Message: fmt.Sprintf(format, args...), Range: r}
}

func Warnf(r *source.Range, format string, args ...any) *Diagnostic {
	return &Diagnostic{Message: fmt.Sprintf(format, args...), Range: r, Warning: true}
}

// At returns a pointer to a copy of r, for use as a Diagnostic range.
func At(r source.Range) *source.Range { return &r }

func (d Diagnostic) Severity() string {
	if d.Warning {
		return "warning"
	}
	return "error"
}

func (d Diagnostic) Error() string {
	if d.Range == nil {
		return fmt.Sprintf("%s: %s", d.Severity(), d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Range.Begin, d.Severity(), d.Message)
}

// Less orders diagnostics for display: those without a range come first,
// the rest by the line and column they begin at.
func Less(a, b Diagnostic) bool {
	if a.Range == nil {
		return b.Range != nil
	}
	if b.Range == nil {
		return false
	}
	return a.Range.Begin.Before(b.Range.Begin)
}

// List accumulates diagnostics in the order they are reported. A List is
// owned by a single call tree and is not safe for concurrent use; independent
// files each get their own List and are merged with Append afterwards.
type List struct {
	items []Diagnostic
}

func (l *List) Add(d Diagnostic) { l.items = append(l.items, d) }

func (l *List) Errorf(r *source.Range, format string, args ...any) {
	l.Add(*Errorf(r, format, args...))
}

func (l *List) Warnf(r *source.Range, format string, args ...any) {
	l.Add(*Warnf(r, format, args...))
}

// Append adds every diagnostic of o to l, keeping their order.
func (l *List) Append(o *List) {
	if o == nil {
		return
	}
	l.items = append(l.items, o.items...)
}

func (l *List) Len() int { return len(l.items) }

// Items returns a copy of the collected diagnostics.
func (l *List) Items() []Diagnostic {
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// Passes reports whether every diagnostic in the list is a warning.
func (l *List) Passes() bool { return l.Errors() == 0 }

func (l *List) Errors() int {
	n := 0
	for _, d := range l.items {
		if !d.Warning {
			n++
		}
	}
	return n
}

func (l *List) Warnings() int { return len(l.items) - l.Errors() }

// Sort orders the list with Less. Diagnostics that compare equal keep the
// order they were reported in.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool { return Less(l.items[i], l.items[j]) })
}
