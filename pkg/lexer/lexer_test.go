package lexer

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/diag"
	"github.com/aycc/aycc/pkg/token"
)

type tok struct {
	Type  token.Type
	Value string
	Rep   string
}

func sym(t token.Type) tok   { return tok{Type: t, Value: token.TypeStrings[t]} }
func ident(v string) tok     { return tok{Type: token.Ident, Value: v} }
func num(v string) tok       { return tok{Type: token.Number, Value: v} }
func str(v, rep string) tok  { return tok{Type: token.String, Value: v, Rep: rep} }
func char(v, rep string) tok { return tok{Type: token.Char, Value: v, Rep: rep} }
func include(v string) tok   { return tok{Type: token.Include, Value: v} }

func stripTokens(toks []token.Token) []tok {
	var out []tok
	for _, t := range toks {
		out = append(out, tok{Type: t.Type, Value: t.Value, Rep: t.Rep})
	}
	return out
}

func errorStrings(l *diag.List) []string {
	var out []string
	for _, d := range l.Items() {
		out = append(out, d.Error())
	}
	return out
}

func lex(src string, cfg *config.Config) ([]token.Token, *diag.List) {
	var diags diag.List
	toks := NewLexer([]byte(src), "t.c", cfg).Tokenize(&diags)
	return toks, &diags
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantToks  []tok
		wantDiags []string
	}{
		{
			name:     "declaration",
			src:      "int x = 42;\n",
			wantToks: []tok{sym(token.Int), ident("x"), sym(token.Eq), num("42"), sym(token.Semi)},
		},
		{
			name: "maximal munch",
			src:  "a<<=b->c...d!=e",
			wantToks: []tok{
				ident("a"), sym(token.ShlEq), ident("b"), sym(token.Arrow), ident("c"),
				sym(token.Dots), ident("d"), sym(token.Neq), ident("e"),
			},
		},
		{
			name:     "keyword needs whole chunk",
			src:      "integer int",
			wantToks: []tok{ident("integer"), sym(token.Int)},
		},
		{
			name:     "line continuation inside a word",
			src:      "in\\\nt x;",
			wantToks: []tok{sym(token.Int), ident("x"), sym(token.Semi)},
		},
		{
			name:     "backslash on last line",
			src:      "int x\\",
			wantToks: []tok{sym(token.Int), ident("x")},
		},
		{
			name:     "block comment across lines",
			src:      "a /* one\ntwo */ b",
			wantToks: []tok{ident("a"), ident("b")},
		},
		{
			name:     "comment opener is not a closer",
			src:      "/*/ x */ c",
			wantToks: []tok{ident("c")},
		},
		{
			name:     "line comment",
			src:      "a // b c\nd",
			wantToks: []tok{ident("a"), ident("d")},
		},
		{
			name:     "carriage returns",
			src:      "a\r\nb\r\n",
			wantToks: []tok{ident("a"), ident("b")},
		},
		{
			name:     "chunk before literal",
			src:      `x"a"`,
			wantToks: []tok{ident("x"), str("a", `"a"`)},
		},
		{
			name: "escapes",
			src:  `"\n" '\101' '\x41' "a\"b" '\0'`,
			wantToks: []tok{
				str("\n", `"\n"`), char("A", `'\101'`), char("A", `'\x41'`),
				str(`a"b`, `"a\"b"`), char("\x00", `'\0'`),
			},
		},
		{
			name:      "hex escape keeps the low byte",
			src:       `s = "\x141";`,
			wantToks:  []tok{ident("s"), sym(token.Eq), str("A", `"\x141"`), sym(token.Semi)},
			wantDiags: []string{"t.c:1:6: warning: hex escape sequence out of range"},
		},
		{
			name:      "octal escape takes three digits",
			src:       `"\1011" "\777"`,
			wantToks:  []tok{str("A1", `"\1011"`), str("\xff", `"\777"`)},
			wantDiags: []string{"t.c:1:10: warning: octal escape sequence out of range"},
		},
		{
			name:      "unknown escape",
			src:       `"\q"`,
			wantToks:  []tok{str(`\q`, `"\q"`)},
			wantDiags: []string{`t.c:1:2: warning: unknown escape sequence: '\q'`},
		},
		{
			name:      "empty character constant",
			src:       "c = '';",
			wantToks:  []tok{ident("c"), sym(token.Eq), char("", "''"), sym(token.Semi)},
			wantDiags: []string{"t.c:1:5: error: empty character constant"},
		},
		{
			name:      "multi-character constant",
			src:       "'ab'",
			wantToks:  []tok{char("ab", "'ab'")},
			wantDiags: []string{"t.c:1:1: warning: multiple characters in character constant"},
		},
		{
			name:      "unterminated string drops the line",
			src:       "x = \"abc;\ny;",
			wantToks:  []tok{ident("y"), sym(token.Semi)},
			wantDiags: []string{`t.c:1:5: error: missing terminating " character`},
		},
		{
			name:      "unrecognized token drops the line",
			src:       "int $x;\nint y;",
			wantToks:  []tok{sym(token.Int), ident("y"), sym(token.Semi)},
			wantDiags: []string{"t.c:1:5: error: unrecognized token at $x"},
		},
		{
			name:      "unterminated comment",
			src:       "a /* b\nc",
			wantToks:  []tok{ident("a")},
			wantDiags: []string{"t.c:1:3: error: unterminated comment"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := lex(tt.src, nil)
			if diff := cmp.Diff(tt.wantToks, stripTokens(toks)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantDiags, errorStrings(diags)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIncludeDirective(t *testing.T) {
	directive := []tok{sym(token.Pound), ident("include")}
	tests := []struct {
		name      string
		src       string
		wantToks  []tok
		wantDiags []string
	}{
		{
			name:     "quoted",
			src:      `#include "f.h"`,
			wantToks: append(directive, include(`"f.h"`)),
		},
		{
			name:     "angle",
			src:      "# include <sys/types.h>",
			wantToks: append(directive, include("<sys/types.h>")),
		},
		{
			name:     "no blank before filename",
			src:      `#include"f.h"`,
			wantToks: append(directive, include(`"f.h"`)),
		},
		{
			name:     "comment after filename",
			src:      "#include <a.h> /* x */",
			wantToks: append(directive, include("<a.h>")),
		},
		{
			name:      "missing filename",
			src:       "#include",
			wantDiags: []string{`t.c:1:8: error: expected "FILENAME" or <FILENAME> after include directive`},
		},
		{
			name:      "bad filename",
			src:       "#include f.h",
			wantDiags: []string{`t.c:1:10: error: expected "FILENAME" or <FILENAME> after include directive`},
		},
		{
			name:      "unterminated filename",
			src:       "#include <f.h",
			wantDiags: []string{"t.c:1:10: error: missing terminating > character for include filename"},
		},
		{
			name:      "extra tokens",
			src:       `#include "a.h" "b.h"`,
			wantDiags: []string{"t.c:1:16: error: extra tokens at end of include directive"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := lex(tt.src, nil)
			if diff := cmp.Diff(tt.wantToks, stripTokens(toks)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantDiags, errorStrings(diags)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigGatesBehavior(t *testing.T) {
	cfg := config.NewConfig()
	if err := cfg.ApplyStd("c89"); err != nil {
		t.Fatal(err)
	}
	cfg.SetWarning(config.WarnMultiChar, false)

	toks, diags := lex("a // b\n'xy'", cfg)
	want := []tok{ident("a"), sym(token.Slash), sym(token.Slash), ident("b"), char("xy", "'xy'")}
	if diff := cmp.Diff(want, stripTokens(toks)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", errorStrings(diags))
	}
}

func TestTokenPositions(t *testing.T) {
	toks, diags := lex("int \\\n  x;", nil)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", errorStrings(diags))
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	x := toks[1]
	if got, want := x.Range.Begin.String(), "t.c:2:3"; got != want {
		t.Errorf("x begins at %s, want %s", got, want)
	}
	if got, want := x.Range.Begin.FullLine, "  x;"; got != want {
		t.Errorf("x full line = %q, want %q", got, want)
	}
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	var diags diag.List
	lx := NewLexer([]byte("int x;\n$;\ny"), "d.c", nil)
	lx.SetDump(&out)
	lx.Tokenize(&diags)

	want := "----- ----- < d.c tokens > ----- -----\n" +
		"    [0][KEY_INT] [int] []\n" +
		"    [1][IDENTIFIER] [x] []\n" +
		"    [2][SB_SEMI] [;] []\n" +
		"    [0][IDENTIFIER] [y] []\n" +
		"----- ----- ----- <  > ----- ----- -----\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}
