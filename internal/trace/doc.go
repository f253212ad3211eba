// Package trace is the structured logging layer of arbor.
//
// Every pipeline stage reports what it does as trace events: spans that
// bracket a unit of work and instant points inside them. A tracer decides
// which events to keep based on its Level and the event Scope.
//
// # Levels
//
//   - LevelOff: nothing is recorded
//   - LevelError: reserved for crash dumps from the ring buffer
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: adds one span per module
//   - LevelDebug: adds per-definition events
//
// # Tracers
//
//   - Nop: disabled tracing
//   - StreamTracer: writes each event as text or NDJSON
//   - RingTracer: keeps the last N events in memory
//   - MultiTracer: fans out to several tracers
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "resolve", 0)
//	defer span.End("")
package trace
