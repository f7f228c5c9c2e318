package preproc

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/diag"
	"github.com/aycc/aycc/pkg/lexer"
	"github.com/aycc/aycc/pkg/token"
)

const DefaultCacheSize = 256

// lexedUnit is the lexer output for one included file, before its own
// includes are expanded.
type lexedUnit struct {
	tokens []token.Token
	diags  diag.List
}

// Cache remembers the lexer output of included files, keyed by path and
// content, so a header included from many places is lexed once. It is safe
// for concurrent use by preprocessors running on different input files.
type Cache struct {
	units *lru.Cache[uint64, *lexedUnit]
}

func NewCache(size int) (*Cache, error) {
	units, err := lru.New[uint64, *lexedUnit](size)
	if err != nil {
		return nil, err
	}
	return &Cache{units: units}, nil
}

func unitKey(path string, data []byte) uint64 {
	d := xxhash.New()
	d.WriteString(path)
	d.Write([]byte{0})
	d.Write(data)
	return d.Sum64()
}

// lex returns the tokens of data, lexing it only on a cache miss. The
// diagnostics of the unit are replayed into diags on every call.
func (c *Cache) lex(data []byte, path string, cfg *config.Config, diags *diag.List) []token.Token {
	key := unitKey(path, data)
	if u, ok := c.units.Get(key); ok {
		diags.Append(&u.diags)
		return u.tokens
	}

	u := &lexedUnit{}
	u.tokens = lexer.NewLexer(data, path, cfg).Tokenize(&u.diags)
	c.units.Add(key, u)
	diags.Append(&u.diags)
	return u.tokens
}

func (c *Cache) Len() int { return c.units.Len() }
