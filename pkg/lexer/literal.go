package lexer

import (
	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/diag"
	"github.com/aycc/aycc/pkg/source"
	"github.com/aycc/aycc/pkg/token"
)

var namedEscapes = map[byte]byte{
	'\'': '\'', '"': '"', '?': '?', '\\': '\\',
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

func hexValue(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}

// readLiteral reads the string or character literal whose opening quote is
// line[open]. It returns the token and the index of the closing quote.
func (l *Lexer) readLiteral(line source.Line, open int, diags *diag.List) (token.Token, int, error) {
	delim := line[open].C
	typ := token.String
	if delim == '\'' {
		typ = token.Char
	}

	value, stop, err := l.readString(line, open+1, delim, diags)
	if err != nil {
		return token.Token{}, 0, err
	}
	r := diag.At(line.Span(open, stop))
	if typ == token.Char {
		switch {
		case len(value) == 0:
			diags.Errorf(r, "empty character constant")
		case len(value) > 1 && l.cfg.IsWarningEnabled(config.WarnMultiChar):
			diags.Warnf(r, "multiple characters in character constant")
		}
	}
	return token.Literal(typ, value, line.Text(open, stop+1), r), stop, nil
}

// readString decodes the literal body starting at line[start] up to the
// first unescaped delim. Octal escapes take at most three digits; hex
// escapes take every hex digit that follows and keep the low byte.
func (l *Lexer) readString(line source.Line, start int, delim byte, diags *diag.List) (string, int, error) {
	var out []byte
	i := start
	for {
		if i >= len(line) {
			return "", 0, diag.Errorf(diag.At(line[start-1].Range()), "missing terminating %c character", delim)
		}
		c := line[i].C
		if c == delim {
			return string(out), i, nil
		}
		if c != '\\' || i+1 >= len(line) {
			out = append(out, c)
			i++
			continue
		}

		next := line[i+1].C
		if v, ok := namedEscapes[next]; ok {
			out = append(out, v)
			i += 2
			continue
		}

		if isOctalDigit(next) {
			j, val := i+1, 0
			for j < len(line) && j < i+4 && isOctalDigit(line[j].C) {
				val = val*8 + int(line[j].C-'0')
				j++
			}
			if val > 0xFF && l.cfg.IsWarningEnabled(config.WarnEscapeRange) {
				diags.Warnf(diag.At(line.Span(i, j-1)), "octal escape sequence out of range")
			}
			out = append(out, byte(val))
			i = j
			continue
		}

		if next == 'x' && i+2 < len(line) {
			if _, ok := hexValue(line[i+2].C); ok {
				j, val, overflow := i+2, uint64(0), false
				for j < len(line) {
					d, ok := hexValue(line[j].C)
					if !ok {
						break
					}
					val = val*16 + d
					if val > 0xFF {
						overflow = true
					}
					j++
				}
				if overflow && l.cfg.IsWarningEnabled(config.WarnEscapeRange) {
					diags.Warnf(diag.At(line.Span(i, j-1)), "hex escape sequence out of range")
				}
				out = append(out, byte(val))
				i = j
				continue
			}
		}

		if l.cfg.IsWarningEnabled(config.WarnUnknownEscape) {
			diags.Warnf(diag.At(line.Span(i, i+1)), "unknown escape sequence: '\\%c'", next)
		}
		out = append(out, c)
		i++
	}
}
