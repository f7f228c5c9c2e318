package token

import (
	"fmt"
	"regexp"

	"github.com/aycc/aycc/pkg/source"
)

type Type int

const (
	NoType Type = iota
	Ident
	Number
	String
	Char
	Include
	// Keywords
	Bool
	CharKeyword
	Short
	Int
	Long
	Signed
	Unsigned
	Void
	Return
	If
	Else
	While
	For
	Break
	Continue
	Auto
	Static
	Extern
	Struct
	Union
	Const
	Typedef
	Sizeof
	// Symbols
	Plus
	Minus
	Star
	Slash
	Rem
	Inc
	Dec
	Eq
	PlusEq
	MinusEq
	StarEq
	SlashEq
	RemEq
	AndEq
	OrEq
	XorEq
	ShlEq
	ShrEq
	EqEq
	Neq
	AndAnd
	OrOr
	Not
	Lt
	Gt
	Lte
	Gte
	And
	Or
	Xor
	Pound
	Shl
	Shr
	Complement
	DQuote
	SQuote
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semi
	Colon
	Question
	Dot
	Dots
	Arrow
)

// Pair binds a token type to its canonical spelling.
type Pair struct {
	Type Type
	Text string
}

// Keywords is matched exactly against a whole chunk.
var Keywords = []Pair{
	{Bool, "_Bool"}, {CharKeyword, "char"}, {Short, "short"}, {Int, "int"},
	{Long, "long"}, {Signed, "signed"}, {Unsigned, "unsigned"}, {Void, "void"},
	{Return, "return"}, {If, "if"}, {Else, "else"}, {While, "while"},
	{For, "for"}, {Break, "break"}, {Continue, "continue"}, {Auto, "auto"},
	{Static, "static"}, {Extern, "extern"}, {Struct, "struct"}, {Union, "union"},
	{Const, "const"}, {Typedef, "typedef"}, {Sizeof, "sizeof"},
}

// Symbols is searched for the longest entry matching at a position, so the
// order of entries does not matter.
var Symbols = []Pair{
	{Plus, "+"}, {Minus, "-"}, {Star, "*"}, {Slash, "/"}, {Rem, "%"},
	{Inc, "++"}, {Dec, "--"}, {Eq, "="},
	{PlusEq, "+="}, {MinusEq, "-="}, {StarEq, "*="}, {SlashEq, "/="}, {RemEq, "%="},
	{AndEq, "&="}, {OrEq, "|="}, {XorEq, "^="}, {ShlEq, "<<="}, {ShrEq, ">>="},
	{EqEq, "=="}, {Neq, "!="}, {AndAnd, "&&"}, {OrOr, "||"}, {Not, "!"},
	{Lt, "<"}, {Gt, ">"}, {Lte, "<="}, {Gte, ">="},
	{And, "&"}, {Or, "|"}, {Xor, "^"}, {Pound, "#"}, {Shl, "<<"}, {Shr, ">>"},
	{Complement, "~"}, {DQuote, "\""}, {SQuote, "'"},
	{LParen, "("}, {RParen, ")"}, {LBrace, "{"}, {RBrace, "}"},
	{LBracket, "["}, {RBracket, "]"},
	{Comma, ","}, {Semi, ";"}, {Colon, ":"}, {Question, "?"},
	{Dot, "."}, {Dots, "..."}, {Arrow, "->"},
}

var (
	KeywordMap = make(map[string]Type)
	SymbolMap  = make(map[string]Type)
	// Reverse mapping from Type to its canonical spelling
	TypeStrings = make(map[Type]string)
)

func init() {
	for _, p := range Keywords {
		KeywordMap[p.Text] = p.Type
		TypeStrings[p.Type] = p.Text
	}
	for _, p := range Symbols {
		SymbolMap[p.Text] = p.Type
		TypeStrings[p.Type] = p.Text
	}
}

var typeNames = map[Type]string{
	NoType: "NOT_A_KIND", Ident: "IDENTIFIER", Number: "NUMBER", String: "STRING",
	Char: "CHAR", Include: "INCLUDE",
	Bool: "KEY_BOOL", CharKeyword: "KEY_CHAR", Short: "KEY_SHORT", Int: "KEY_INT",
	Long: "KEY_LONG", Signed: "KEY_SIGNED", Unsigned: "KEY_UNSIGNED", Void: "KEY_VOID",
	Return: "KEY_RETURN", If: "KEY_IF", Else: "KEY_ELSE", While: "KEY_WHILE",
	For: "KEY_FOR", Break: "KEY_BREAK", Continue: "KEY_CONTINUE", Auto: "KEY_AUTO",
	Static: "KEY_STATIC", Extern: "KEY_EXTERN", Struct: "KEY_STRUCT", Union: "KEY_UNION",
	Const: "KEY_CONST", Typedef: "KEY_TYPEDEF", Sizeof: "KEY_SIZEOF",
	Plus: "SB_ADD", Minus: "SB_MIN", Star: "SB_MUL", Slash: "SB_DIV", Rem: "SB_MOD",
	Inc: "SB_INC", Dec: "SB_DEC", Eq: "SB_EQU",
	PlusEq: "SB_EQUADD", MinusEq: "SB_EQUMIN", StarEq: "SB_EQUMUL", SlashEq: "SB_EQUDIV",
	RemEq: "SB_EQUMOD", AndEq: "SB_EQUAND", OrEq: "SB_EQUOR", XorEq: "SB_EQUXOR",
	ShlEq: "SB_EQUSAL", ShrEq: "SB_EQUSAR",
	EqEq: "SB_EQ", Neq: "SB_NE", AndAnd: "SB_LOGAND", OrOr: "SB_LOGOR", Not: "SB_NOT",
	Lt: "SB_LT", Gt: "SB_GT", Lte: "SB_LE", Gte: "SB_GE",
	And: "SB_AND", Or: "SB_OR", Xor: "SB_XOR", Pound: "SB_POUND", Shl: "SB_SAL", Shr: "SB_SAR",
	Complement: "SB_NEG", DQuote: "SB_DQUOTE", SQuote: "SB_SQUOTE",
	LParen: "SB_LL_BCT", RParen: "SB_RL_BCT", LBrace: "SB_LB_BCT", RBrace: "SB_RB_BCT",
	LBracket: "SB_LM_BCT", RBracket: "SB_RM_BCT",
	Comma: "SB_COMMA", Semi: "SB_SEMI", Colon: "SB_COLON", Question: "SB_QUESTION",
	Dot: "SB_DOT", Dots: "SB_ELLIPSIS", Arrow: "SB_ARROW",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// HasData reports whether tokens of type t carry their own value instead of
// a spelling derived from the tables.
func (t Type) HasData() bool { return t >= Ident && t <= Include }

func (t Type) IsKeyword() bool { return t >= Bool && t <= Sizeof }

func (t Type) IsSymbol() bool { return t >= Plus && t <= Arrow }

// Token is a classified lexical unit. Rep holds the source spelling of
// string and character literals, quotes included. Range is nil for tokens
// that were not read from a file.
type Token struct {
	Type  Type
	Value string
	Rep   string
	Range *source.Range
}

// FromType builds a keyword or symbol token, filling Value with the
// canonical spelling of t.
func FromType(t Type, r *source.Range) Token {
	tok := Token{Type: t, Range: r}
	if !t.HasData() {
		tok.Value = TypeStrings[t]
	}
	return tok
}

// FromValue builds a token from a keyword or symbol spelling. Spellings that
// are in neither table yield a token of type NoType.
func FromValue(v string, r *source.Range) Token {
	tok := Token{Value: v, Range: r}
	if t, ok := KeywordMap[v]; ok {
		tok.Type = t
	} else if t, ok := SymbolMap[v]; ok {
		tok.Type = t
	}
	return tok
}

// Literal builds a data-bearing token.
func Literal(t Type, value, rep string, r *source.Range) Token {
	return Token{Type: t, Value: value, Rep: rep, Range: r}
}

// Is reports whether tok has type t and, when value is not empty, that value.
func (tok Token) Is(t Type, value string) bool {
	return tok.Type == t && (value == "" || tok.Value == value)
}

// Format renders tok for the verbose token dump.
func Format(tok Token) string {
	return fmt.Sprintf("[%s] [%s] [%s]", tok.Type, tok.Value, tok.Rep)
}

func (tok Token) String() string { return Format(tok) }

// FindSymbol returns the longest symbol spelled at line[start:].
func FindSymbol(line source.Line, start int) (Pair, bool) {
	best := Pair{}
	for _, sym := range Symbols {
		if len(sym.Text) <= len(best.Text) || start+len(sym.Text) > len(line) {
			continue
		}
		matched := true
		for i := 0; i < len(sym.Text); i++ {
			if line[start+i].C != sym.Text[i] {
				matched = false
				break
			}
		}
		if matched {
			best = sym
		}
	}
	return best, best.Type != NoType
}

// FindKeyword matches line[start:end] exactly against the keyword table.
func FindKeyword(line source.Line, start, end int) (Pair, bool) {
	if t, ok := KeywordMap[line.Text(start, end)]; ok {
		return Pair{Type: t, Text: TypeStrings[t]}, true
	}
	return Pair{}, false
}

// FindNumber returns line[start:end] if it consists of decimal digits only.
func FindNumber(line source.Line, start, end int) string {
	if start >= end {
		return ""
	}
	for i := start; i < end; i++ {
		if c := line[i].C; c < '0' || c > '9' {
			return ""
		}
	}
	return line.Text(start, end)
}

var identRe = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)

// FindIdentifier returns line[start:end] if the whole chunk is an identifier.
func FindIdentifier(line source.Line, start, end int) string {
	id := line.Text(start, end)
	if !identRe.MatchString(id) {
		return ""
	}
	return id
}
