package diag

import "plsqldoc/internal/source"

type dedupKey struct {
	code  Code
	sev   Severity
	file  source.FileID
	start int
	end   int
	msg   string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, severity, primary span and message. One instance lives
// for one parse session.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
	once map[string]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
		once: make(map[string]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{
		code:  code,
		sev:   sev,
		file:  primary.File,
		start: primary.Start.Offset,
		end:   primary.End.Offset,
		msg:   msg,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Once reports whether key is seen for the first time in this session and
// records it. Used for "log once per unit type" style diagnostics.
func (r *DedupReporter) Once(key string) bool {
	if r == nil {
		return true
	}
	if _, ok := r.once[key]; ok {
		return false
	}
	r.once[key] = struct{}{}
	return true
}

// OnceReporter is implemented by reporters that keep a session "seen" set.
type OnceReporter interface {
	Reporter
	Once(key string) bool
}
