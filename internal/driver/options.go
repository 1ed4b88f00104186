// Package driver runs the front end over files and directories: loading,
// lexing, parsing, pragma resolution and outline extraction, one session per
// file, files in parallel.
package driver

import (
	"fmt"
	"runtime"

	"fortio.org/safecast"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/observ"
)

// Options configure a driver run. The zero value is usable.
type Options struct {
	// MaxDiagnostics caps each file's bag; 0 means unlimited.
	MaxDiagnostics int
	// Jobs limits parallel sessions; <= 0 means GOMAXPROCS.
	Jobs int
	// Extensions filters directory walks; empty means DefaultExtensions.
	Extensions []string
	// Reporter additionally receives every diagnostic (e.g. diag.LogReporter).
	Reporter diag.Reporter
	// CommentParser is handed to the parser for doc comments.
	CommentParser ast.CommentParser
	// Cache stores outlines by content hash. nil disables caching.
	Cache *DiskCache
	// Progress receives per-file events.
	Progress ProgressSink
	// Timer aggregates phase timings across files.
	Timer *observ.Timer
	// NoSQLPlus disables REM/PROMPT line handling in the lexer.
	NoSQLPlus bool
}

// DefaultExtensions are the script suffixes picked up from directories.
var DefaultExtensions = []string{".sql", ".pks", ".pkb", ".pls", ".plb", ".tps", ".tpb", ".fnc", ".prc", ".typ", ".pck"}

func (o *Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

func (o *Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

func (o *Options) maxErrors() uint {
	if o.MaxDiagnostics <= 0 {
		return 0
	}
	n, err := safecast.Conv[uint](o.MaxDiagnostics)
	if err != nil {
		panic(fmt.Errorf("maxDiagnostics overflow: %w", err))
	}
	return n
}

func (o *Options) reporter(bag *diag.Bag) diag.Reporter {
	var r diag.Reporter = diag.BagReporter{Bag: bag}
	if o.Reporter != nil {
		r = diag.MultiReporter{r, o.Reporter}
	}
	return r
}

func (o *Options) track(name string) func() { return o.Timer.Track(name) }
