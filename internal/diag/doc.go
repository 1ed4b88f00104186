// Package diag defines the diagnostic model shared by the lexer, the parser
// and the annotation resolver, together with the structured errors the parser
// returns.
//
// Diagnostics describe recoverable anomalies: the producing phase reports them
// through a Reporter and keeps going. Errors (SyntaxError, NotImplementedError,
// InvalidArgumentError) abort the current unit and travel up as error values.
//
// Reporter implementations:
//
//   - BagReporter stores into a Bag (bounded, sortable).
//   - DedupReporter drops repeated diagnostics and owns the per-session "seen"
//     set used for once-only reports.
//   - LogReporter mirrors diagnostics to a commonlog logger.
//   - MultiReporter fans out, NopReporter discards.
//
// Package diag performs no formatting beyond the one-line golden form;
// rendering lives in internal/diagfmt.
package diag
