package lexer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/diag"
	"github.com/aycc/aycc/pkg/source"
	"github.com/aycc/aycc/pkg/token"
)

type Lexer struct {
	buffer   []byte
	filename string
	cfg      *config.Config
	dump     io.Writer
}

func NewLexer(buffer []byte, filename string, cfg *config.Config) *Lexer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Lexer{buffer: buffer, filename: filename, cfg: cfg}
}

// SetDump makes Tokenize print every token it produces to w, one logical
// line at a time. A nil writer disables the dump.
func (l *Lexer) SetDump(w io.Writer) { l.dump = w }

// scanState carries block comment state from one logical line to the next.
type scanState struct {
	inComment    bool
	commentStart source.Position
}

// Tokenize lexes the whole buffer. A diagnostic that aborts a line drops the
// tokens of that line only; the remaining lines are still lexed.
func (l *Lexer) Tokenize(diags *diag.List) []token.Token {
	lines := joinExtendedLines(l.splitToTagged())

	if l.dump != nil {
		fmt.Fprintf(l.dump, "----- ----- < %s tokens > ----- -----\n", l.filename)
	}

	var tokens []token.Token
	var st scanState
	for _, line := range lines {
		lineTokens, err := l.tokenizeLine(line, &st, diags)
		if err != nil {
			var d *diag.Diagnostic
			if errors.As(err, &d) {
				diags.Add(*d)
			} else {
				diags.Errorf(nil, "%v", err)
			}
			continue
		}
		if l.dump != nil {
			for i, tok := range lineTokens {
				fmt.Fprintf(l.dump, "    [%d]%s\n", i, token.Format(tok))
			}
		}
		tokens = append(tokens, lineTokens...)
	}

	if st.inComment {
		diags.Errorf(diag.At(source.Point(st.commentStart)), "unterminated comment")
	}
	if l.dump != nil {
		fmt.Fprintln(l.dump, "----- ----- ----- <  > ----- ----- -----")
	}
	return tokens
}

// splitToTagged splits the buffer into physical lines of tagged characters.
// A final newline does not start another line, and a trailing carriage
// return is dropped from every line.
func (l *Lexer) splitToTagged() []source.Line {
	var lines []source.Line
	rest := l.buffer
	for len(rest) > 0 {
		raw := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			raw, rest = rest[:i], rest[i+1:]
		} else {
			rest = nil
		}
		raw = bytes.TrimSuffix(raw, []byte{'\r'})

		text := string(raw)
		lineNo := len(lines) + 1
		line := make(source.Line, len(raw))
		for i, c := range raw {
			line[i] = source.Tagged{C: c, Pos: source.NewPosition(l.filename, lineNo, i+1, text)}
		}
		lines = append(lines, line)
	}
	return lines
}

// joinExtendedLines splices every line ending in a backslash with the line
// that follows it. Characters keep the positions of their physical line. A
// backslash on the last line continues into nothing and is removed.
func joinExtendedLines(lines []source.Line) []source.Line {
	out := make([]source.Line, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		for len(line) > 0 && line[len(line)-1].C == '\\' {
			line = line[:len(line)-1]
			if i+1 >= len(lines) {
				break
			}
			i++
			joined := make(source.Line, 0, len(line)+len(lines[i]))
			joined = append(joined, line...)
			line = append(joined, lines[i]...)
		}
		out = append(out, line)
	}
	return out
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

func hasPrefixAt(line source.Line, i int, s string) bool {
	if i+len(s) > len(line) {
		return false
	}
	for j := 0; j < len(s); j++ {
		if line[i+j].C != s[j] {
			return false
		}
	}
	return true
}

// isIncludeDirective reports whether the tokens read so far are `#` followed
// by the identifier `include`.
func isIncludeDirective(toks []token.Token) bool {
	return len(toks) == 2 && toks[0].Type == token.Pound && toks[1].Is(token.Ident, "include")
}

func (l *Lexer) tokenizeLine(line source.Line, st *scanState, diags *diag.List) ([]token.Token, error) {
	var toks []token.Token
	start, end := 0, 0
	includeLine, seenFilename := false, false
	lineComments := l.cfg.IsFeatureEnabled(config.FeatLineComments)

	flush := func() error {
		tok, ok, err := chunkToToken(line, start, end)
		if err != nil {
			return err
		}
		if ok {
			toks = append(toks, tok)
		}
		start = end
		return nil
	}

scan:
	for end < len(line) {
		c := line[end].C

		// `#include"f.h"` has no blank to end the directive name.
		if !includeLine && !st.inComment && (c == '"' || c == '<') && len(toks) == 1 &&
			toks[0].Type == token.Pound && line.Text(start, end) == "include" {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		if isIncludeDirective(toks) {
			includeLine = true
		}

		switch {
		case st.inComment:
			if hasPrefixAt(line, end, "*/") {
				st.inComment = false
				end += 2
			} else {
				end++
			}
			start = end

		case hasPrefixAt(line, end, "/*"):
			if err := flush(); err != nil {
				return nil, err
			}
			st.inComment = true
			st.commentStart = line[end].Pos
			end += 2
			start = end

		case lineComments && hasPrefixAt(line, end, "//"):
			break scan

		case isBlank(c):
			if err := flush(); err != nil {
				return nil, err
			}
			end++
			start = end

		case includeLine:
			if seenFilename {
				return nil, diag.Errorf(diag.At(line[end].Range()), "extra tokens at end of include directive")
			}
			name, stop, err := readIncludeFilename(line, end)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token.Literal(token.Include, name, "", diag.At(line.Span(end, stop))))
			seenFilename = true
			end = stop + 1
			start = end

		case c == '"' || c == '\'':
			if err := flush(); err != nil {
				return nil, err
			}
			tok, stop, err := l.readLiteral(line, end, diags)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			end = stop + 1
			start = end

		default:
			sym, ok := token.FindSymbol(line, end)
			if !ok {
				end++
				continue
			}
			if err := flush(); err != nil {
				return nil, err
			}
			last := end + len(sym.Text) - 1
			toks = append(toks, token.FromType(sym.Type, diag.At(line.Span(end, last))))
			end = last + 1
			start = end
		}
	}
	if err := l.finishLine(line, &toks, start, end, includeLine, seenFilename); err != nil {
		return nil, err
	}
	return toks, nil
}

// finishLine flushes the pending chunk and reports an include directive that
// never named a file.
func (l *Lexer) finishLine(line source.Line, toks *[]token.Token, start, end int, includeLine, seenFilename bool) error {
	tok, ok, err := chunkToToken(line, start, end)
	if err != nil {
		return err
	}
	if ok {
		*toks = append(*toks, tok)
	}
	if (includeLine || isIncludeDirective(*toks)) && !seenFilename {
		_, _, err := readIncludeFilename(line, end)
		return err
	}
	return nil
}

// chunkToToken classifies line[start:end] as a keyword, a number or an
// identifier. An empty chunk yields no token.
func chunkToToken(line source.Line, start, end int) (token.Token, bool, error) {
	if start >= end {
		return token.Token{}, false, nil
	}
	r := diag.At(line.Span(start, end-1))
	if kw, ok := token.FindKeyword(line, start, end); ok {
		return token.FromType(kw.Type, r), true, nil
	}
	if num := token.FindNumber(line, start, end); num != "" {
		return token.Literal(token.Number, num, "", r), true, nil
	}
	if id := token.FindIdentifier(line, start, end); id != "" {
		return token.Literal(token.Ident, id, "", r), true, nil
	}
	return token.Token{}, false, diag.Errorf(r, "unrecognized token at %s", line.Text(start, end))
}

// readIncludeFilename reads a "name" or <name> starting at line[start]. It
// returns the name with its delimiters and the index of the closing one.
func readIncludeFilename(line source.Line, start int) (string, int, error) {
	if len(line) == 0 {
		return "", 0, diag.Errorf(nil, "expected \"FILENAME\" or <FILENAME> after include directive")
	}
	var term byte
	switch {
	case start < len(line) && line[start].C == '"':
		term = '"'
	case start < len(line) && line[start].C == '<':
		term = '>'
	default:
		at := min(start, len(line)-1)
		return "", 0, diag.Errorf(diag.At(line[at].Range()), "expected \"FILENAME\" or <FILENAME> after include directive")
	}

	i := start + 1
	for i < len(line) && line[i].C != term {
		i++
	}
	if i >= len(line) {
		return "", 0, diag.Errorf(diag.At(line[start].Range()), "missing terminating %c character for include filename", term)
	}
	return line.Text(start, i+1), i, nil
}
