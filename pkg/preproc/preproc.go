// Package preproc expands #include directives in a token stream by lexing
// and preprocessing the named files and splicing their tokens in place.
package preproc

import (
	"io"
	"path/filepath"
	"slices"

	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/diag"
	"github.com/aycc/aycc/pkg/lexer"
	"github.com/aycc/aycc/pkg/token"
)

type Preprocessor struct {
	filename string
	cfg      *config.Config
	resolver Resolver
	cache    *Cache
	dump     io.Writer
	// stack holds the cleaned paths of the files being expanded, outermost
	// first and ending with filename.
	stack []string
}

type Option func(*Preprocessor)

func WithResolver(r Resolver) Option { return func(p *Preprocessor) { p.resolver = r } }

func WithCache(c *Cache) Option { return func(p *Preprocessor) { p.cache = c } }

// WithDump prints the tokens of every included file as it is lexed.
func WithDump(w io.Writer) Option { return func(p *Preprocessor) { p.dump = w } }

// New returns a preprocessor for the file at filename. Quoted includes are
// resolved relative to it.
func New(filename string, cfg *config.Config, opts ...Option) *Preprocessor {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	p := &Preprocessor{
		filename: filename,
		cfg:      cfg,
		stack:    []string{filepath.Clean(filename)},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = NewFileResolver(cfg)
	}
	return p
}

func isDirective(toks []token.Token) bool {
	return toks[0].Type == token.Pound && toks[1].Is(token.Ident, "include") && toks[2].Type == token.Include
}

// Retokenize returns tokens with every `# include "file"` triple replaced by
// the fully expanded tokens of that file. A directive that cannot be
// expanded is reported and dropped.
func (p *Preprocessor) Retokenize(tokens []token.Token, diags *diag.List) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if i+2 < len(tokens) && isDirective(tokens[i:i+3]) {
			out = append(out, p.expand(tokens[i+2], diags)...)
			i += 3
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func (p *Preprocessor) expand(inc token.Token, diags *diag.List) []token.Token {
	data, path, err := p.resolver.Resolve(inc.Value, p.filename)
	if err != nil {
		diags.Errorf(inc.Range, "unable to read included file %s", inc.Value)
		return nil
	}

	clean := filepath.Clean(path)
	if slices.Contains(p.stack, clean) {
		diags.Errorf(inc.Range, "include cycle detected: %s", path)
		return nil
	}
	if p.cfg.MaxIncludeDepth > 0 && len(p.stack) >= p.cfg.MaxIncludeDepth {
		diags.Errorf(inc.Range, "#include nested too deeply")
		return nil
	}

	child := &Preprocessor{
		filename: path,
		cfg:      p.cfg,
		resolver: p.resolver,
		cache:    p.cache,
		dump:     p.dump,
		stack:    append(slices.Clip(p.stack), clean),
	}
	return child.Retokenize(p.lex(data, path, diags), diags)
}

func (p *Preprocessor) lex(data []byte, path string, diags *diag.List) []token.Token {
	if p.cache != nil && p.dump == nil && p.cfg.IsFeatureEnabled(config.FeatIncludeCache) {
		return p.cache.lex(data, path, p.cfg, diags)
	}
	lx := lexer.NewLexer(data, path, p.cfg)
	lx.SetDump(p.dump)
	return lx.Tokenize(diags)
}
