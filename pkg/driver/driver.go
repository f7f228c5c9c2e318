// Package driver runs the front end over a list of input files: C sources
// are lexed and preprocessed into an object name, objects pass through.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/diag"
	"github.com/aycc/aycc/pkg/lexer"
	"github.com/aycc/aycc/pkg/preproc"
	"github.com/aycc/aycc/pkg/token"
	"github.com/aycc/aycc/pkg/util"
)

var ErrNotEnoughObjects = errors.New("not enough number of properly processed files to link")

// Result is the outcome of processing one input file.
type Result struct {
	File   string
	Object string
	Tokens []token.Token
	Diags  diag.List
	// Output holds the lexer dump and the -E listing of the file.
	Output bytes.Buffer
}

func (r *Result) OK() bool { return r.Object != "" }

type Driver struct {
	cfg      *config.Config
	cache    *preproc.Cache
	resolver preproc.Resolver

	// DumpLexer prints the per-line token dump of every lexed file.
	DumpLexer bool
	// PrintTokens prints the final token stream of every C source.
	PrintTokens bool

	Out     io.Writer
	Printer *diag.Printer
}

type Option func(*Driver)

func WithResolver(r preproc.Resolver) Option { return func(d *Driver) { d.resolver = r } }

func New(cfg *config.Config, opts ...Option) (*Driver, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	cache, err := preproc.NewCache(preproc.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating include cache: %w", err)
	}
	d := &Driver{
		cfg:     cfg,
		cache:   cache,
		Out:     os.Stdout,
		Printer: &diag.Printer{W: os.Stderr, Color: util.Color},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Process handles a single input file. It never fails; problems are
// recorded in the diagnostics of the result.
func (d *Driver) Process(file string) *Result {
	res := &Result{File: file}
	switch filepath.Ext(file) {
	case ".o":
		res.Object = file
	case ".c":
		d.compile(res)
	default:
		res.Diags.Errorf(nil, "unknown file type [%s]", file)
	}
	return res
}

func (d *Driver) compile(res *Result) {
	data, err := os.ReadFile(res.File)
	if err != nil {
		res.Diags.Errorf(nil, "file can't open [%s]", res.File)
		return
	}

	util.Info("lexing %s", res.File)
	lx := lexer.NewLexer(data, res.File, d.cfg)
	opts := []preproc.Option{preproc.WithCache(d.cache)}
	if d.DumpLexer {
		lx.SetDump(&res.Output)
		opts = append(opts, preproc.WithDump(&res.Output))
	}
	if d.resolver != nil {
		opts = append(opts, preproc.WithResolver(d.resolver))
	}
	tokens := lx.Tokenize(&res.Diags)
	if !res.Diags.Passes() {
		return
	}

	util.Info("preprocessing %s", res.File)
	tokens = preproc.New(res.File, d.cfg, opts...).Retokenize(tokens, &res.Diags)
	if !res.Diags.Passes() {
		return
	}

	res.Tokens = tokens
	res.Object = res.File + d.cfg.ObjSuffix
	if d.PrintTokens {
		for _, tok := range tokens {
			fmt.Fprintln(&res.Output, token.Format(tok))
		}
	}
}

// Run processes files in parallel, at most cfg.Jobs at a time, then writes
// their output and diagnostics in input order. It returns the object names
// of the files that were processed successfully and ErrNotEnoughObjects
// if any file failed.
func (d *Driver) Run(ctx context.Context, files []string) ([]string, error) {
	results := make([]*Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if d.cfg.Jobs > 0 {
		g.SetLimit(d.cfg.Jobs)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = d.Process(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var objects []string
	for _, res := range results {
		if _, err := res.Output.WriteTo(d.Out); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}
		res.Diags.Sort()
		d.Printer.PrintAll(&res.Diags)
		if res.OK() {
			objects = append(objects, res.Object)
		}
	}

	if len(objects) < len(files) {
		return objects, ErrNotEnoughObjects
	}
	return objects, nil
}

// CacheLen reports how many included files are held in the lexing cache.
func (d *Driver) CacheLen() int { return d.cache.Len() }
