package lexer

import (
	"plsqldoc/internal/diag"
	"plsqldoc/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки игнорируем и продолжаем лексить
	// NoSQLPlus disables REM/PROMPT line handling.
	NoSQLPlus bool
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
