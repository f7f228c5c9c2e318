package diag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aycc/aycc/pkg/source"
)

func at(line, col int) *source.Range {
	return At(source.Point(source.NewPosition("t.c", line, col, "")))
}

func messages(l *List) []string {
	var out []string
	for _, d := range l.Items() {
		out = append(out, d.Message)
	}
	return out
}

func TestLess(t *testing.T) {
	tests := []struct {
		name string
		a, b Diagnostic
		want bool
	}{
		{"no range first", Diagnostic{}, Diagnostic{Range: at(1, 1)}, true},
		{"ranged after no range", Diagnostic{Range: at(1, 1)}, Diagnostic{}, false},
		{"both without range", Diagnostic{}, Diagnostic{}, false},
		{"earlier line", Diagnostic{Range: at(1, 9)}, Diagnostic{Range: at(2, 1)}, true},
		{"earlier column", Diagnostic{Range: at(3, 2)}, Diagnostic{Range: at(3, 5)}, true},
		{"equal", Diagnostic{Range: at(3, 2)}, Diagnostic{Range: at(3, 2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Less(tt.a, tt.b); got != tt.want {
				t.Errorf("Less() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListSortIsStable(t *testing.T) {
	var l List
	l.Errorf(at(5, 1), "e")
	l.Warnf(at(2, 3), "b")
	l.Errorf(nil, "a")
	l.Errorf(at(2, 3), "c")
	l.Errorf(at(2, 4), "d")
	l.Sort()

	want := []string{"a", "b", "c", "d", "e"}
	if diff := cmp.Diff(want, messages(&l)); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestListPasses(t *testing.T) {
	var l List
	if !l.Passes() {
		t.Fatal("empty list does not pass")
	}
	l.Warnf(at(1, 1), "w")
	if !l.Passes() {
		t.Fatal("list with only warnings does not pass")
	}
	l.Errorf(at(1, 2), "e")
	if l.Passes() {
		t.Fatal("list with an error passes")
	}
	if l.Errors() != 1 || l.Warnings() != 1 {
		t.Errorf("Errors() = %d, Warnings() = %d, want 1 and 1", l.Errors(), l.Warnings())
	}
}

func TestListAppend(t *testing.T) {
	var a, b List
	a.Errorf(nil, "one")
	b.Errorf(nil, "two")
	b.Warnf(nil, "three")
	a.Append(&b)
	a.Append(nil)

	if diff := cmp.Diff([]string{"one", "two", "three"}, messages(&a)); diff != "" {
		t.Errorf("Append() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnosticAsError(t *testing.T) {
	var err error = Errorf(at(4, 7), "unrecognized token at %s", "$")
	if got, want := err.Error(), "t.c:4:7: error: unrecognized token at $"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var d *Diagnostic
	if !errors.As(err, &d) || d.Warning {
		t.Fatalf("errors.As did not recover an error diagnostic from %v", err)
	}
	if got, want := Warnf(nil, "w").Error(), "warning: w"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPrinter(t *testing.T) {
	const text = "\tint 9x;"
	begin := source.NewPosition("p.c", 3, 6, text)
	end := source.NewPosition("p.c", 3, 7, text)

	var l List
	l.Errorf(nil, "file can't open [q.c]")
	l.Warnf(At(source.NewRange(begin, end)), "bad")

	var buf bytes.Buffer
	p := &Printer{W: &buf}
	p.PrintAll(&l)

	want := "error: file can't open [q.c]\n" +
		"p.c:3:6: warning: bad\n" +
		"  \tint 9x;\n" +
		"  \t    ^~\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("PrintAll() mismatch (-want +got):\n%s", diff)
	}
}
