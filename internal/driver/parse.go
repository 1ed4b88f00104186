package driver

import (
	"context"
	"fmt"
	"strconv"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/parser"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
	"plsqldoc/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Script  *ast.Script
	Bag     *diag.Bag
	// Err joins the failures of the units replaced by ast.ErrorUnit.
	Err error
}

// ParseFile loads and parses one script. Only loading errors are returned;
// syntax errors end up in the bag and in Result.Err.
func ParseFile(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return parseLoaded(ctx, fs, fs.Get(fileID), &opts), nil
}

// ParseSource parses in-memory text registered under name.
func ParseSource(ctx context.Context, name string, content []byte, opts Options) *ParseResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return parseLoaded(ctx, fs, fs.Get(fileID), &opts)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, file *source.File, opts *Options) *ParseResult {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	bag := diag.NewBag(opts.MaxDiagnostics)
	toks := tokenizeFile(file, bag, opts)
	script, err := parseTokens(ctx, toks, bag, opts)
	span.WithExtra("units", strconv.Itoa(len(script.Units))).
		WithExtra("diagnostics", strconv.Itoa(bag.Len())).
		End("")
	return &ParseResult{FileSet: fs, File: file, Script: script, Bag: bag, Err: err}
}

func parseTokens(ctx context.Context, toks []token.Token, bag *diag.Bag, opts *Options) (*ast.Script, error) {
	defer opts.track("parse")()
	script, err := parser.ParseScript(toks, parser.Options{
		Reporter:      opts.reporter(bag),
		MaxErrors:     opts.maxErrors(),
		CommentParser: opts.CommentParser,
	})
	for _, u := range script.Units {
		n := u.Base()
		trace.Point(ctx, trace.ScopeUnit, "unit:"+n.Kind().String(), n.Span().Start.String())
	}
	return script, err
}
