package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aycc/aycc/pkg/source"
)

func line(text string) source.Line {
	l := make(source.Line, len(text))
	for i := range text {
		l[i] = source.Tagged{C: text[i], Pos: source.NewPosition("t.c", 1, i+1, text)}
	}
	return l
}

func TestTablesAreConsistent(t *testing.T) {
	for _, p := range Keywords {
		if !p.Type.IsKeyword() {
			t.Errorf("%q has non-keyword type %v", p.Text, p.Type)
		}
		if TypeStrings[p.Type] != p.Text {
			t.Errorf("TypeStrings[%v] = %q, want %q", p.Type, TypeStrings[p.Type], p.Text)
		}
	}
	seen := make(map[Type]bool)
	for _, p := range Symbols {
		if !p.Type.IsSymbol() {
			t.Errorf("%q has non-symbol type %v", p.Text, p.Type)
		}
		if seen[p.Type] {
			t.Errorf("type %v appears twice in Symbols", p.Type)
		}
		seen[p.Type] = true
	}
	for typ := Plus; typ <= Arrow; typ++ {
		if !seen[typ] {
			t.Errorf("symbol type %v has no spelling", typ)
		}
	}
}

func TestConstructors(t *testing.T) {
	r := &source.Range{}
	tests := []struct {
		name string
		got  Token
		want Token
	}{
		{"keyword by type", FromType(While, r), Token{Type: While, Value: "while", Range: r}},
		{"symbol by type", FromType(ShlEq, r), Token{Type: ShlEq, Value: "<<=", Range: r}},
		{"data type has no value", FromType(Ident, r), Token{Type: Ident, Range: r}},
		{"keyword by value", FromValue("sizeof", r), Token{Type: Sizeof, Value: "sizeof", Range: r}},
		{"symbol by value", FromValue("->", r), Token{Type: Arrow, Value: "->", Range: r}},
		{"unknown value", FromValue("@", r), Token{Type: NoType, Value: "@", Range: r}},
		{"literal", Literal(String, "a\n", `"a\n"`, r), Token{Type: String, Value: "a\n", Rep: `"a\n"`, Range: r}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindSymbolLongestMatch(t *testing.T) {
	tests := []struct {
		text  string
		start int
		want  Pair
		ok    bool
	}{
		{"<=", 0, Pair{Lte, "<="}, true},
		{"<<=", 0, Pair{ShlEq, "<<="}, true},
		{"<<x", 0, Pair{Shl, "<<"}, true},
		{"a->b", 1, Pair{Arrow, "->"}, true},
		{"--", 0, Pair{Dec, "--"}, true},
		{"...", 0, Pair{Dots, "..."}, true},
		{"..", 0, Pair{Dot, "."}, true},
		{"x<", 1, Pair{Lt, "<"}, true},
		{"abc", 0, Pair{}, false},
		{"$", 0, Pair{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := FindSymbol(line(tt.text), tt.start)
			if ok != tt.ok {
				t.Fatalf("FindSymbol(%q, %d) ok = %v, want %v", tt.text, tt.start, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindSymbol(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.start, diff)
			}
		})
	}
}

func TestFindChunks(t *testing.T) {
	l := line("int intx 42 4a _a9 9")

	if kw, ok := FindKeyword(l, 0, 3); !ok || kw.Type != Int {
		t.Errorf("FindKeyword(int) = %v, %v", kw, ok)
	}
	if _, ok := FindKeyword(l, 4, 8); ok {
		t.Error("FindKeyword(intx) matched a keyword")
	}
	if got := FindNumber(l, 9, 11); got != "42" {
		t.Errorf("FindNumber(42) = %q", got)
	}
	if got := FindNumber(l, 12, 14); got != "" {
		t.Errorf("FindNumber(4a) = %q, want empty", got)
	}
	if got := FindIdentifier(l, 15, 18); got != "_a9" {
		t.Errorf("FindIdentifier(_a9) = %q", got)
	}
	if got := FindIdentifier(l, 12, 14); got != "" {
		t.Errorf("FindIdentifier(4a) = %q, want empty", got)
	}
	if got := FindIdentifier(l, 19, 20); got != "" {
		t.Errorf("FindIdentifier(9) = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{FromType(Int, nil), "[KEY_INT] [int] []"},
		{FromType(Arrow, nil), "[SB_ARROW] [->] []"},
		{Literal(Ident, "main", "", nil), "[IDENTIFIER] [main] []"},
		{Literal(Char, "a", "'a'", nil), "[CHAR] [a] ['a']"},
		{Literal(Include, `"f.h"`, "", nil), `[INCLUDE] ["f.h"] []`},
	}
	for _, tt := range tests {
		if got := Format(tt.tok); got != tt.want {
			t.Errorf("Format() = %q, want %q", got, tt.want)
		}
	}
}
