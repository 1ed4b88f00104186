// Package trace records what the pipeline is doing: spans for the run, each
// phase (lex, parse, resolve, outline), each file and each unit.
//
// Enable it from the command line:
//
//	plsqldoc parse --trace=- --trace-level=detail src/
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:pkg.pks")
//	defer span.End("")
//
// StreamTracer writes events as they happen (text or NDJSON), RingTracer
// keeps the last N in memory for a dump on failure, MultiTracer fans out.
package trace
