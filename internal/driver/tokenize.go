package driver

import (
	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file from disk. Tokens are grouped: trivia hangs off
// the significant token it belongs to.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokenizeFile(file, bag, &opts),
		Bag:     bag,
	}, nil
}

func tokenizeFile(file *source.File, bag *diag.Bag, opts *Options) []token.Token {
	defer opts.track("lex")()
	return lexer.Tokenize(file, lexer.Options{
		Reporter:  opts.reporter(bag),
		NoSQLPlus: opts.NoSQLPlus,
	})
}
