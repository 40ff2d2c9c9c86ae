// Package events defines the diagnostic event sink used by background
// subsystems.
//
// Components that run off the request path (the registry refresh scheduler,
// the update coordinator) report recoverable failures and lifecycle
// milestones through the Sink interface instead of logging directly. This
// keeps the subsystems testable (inject a recording sink) and lets the host
// application decide how events are surfaced.
//
// # Sink Interface
//
//	type Sink interface {
//	    Emit(level Level, code int, message string, cause error)
//	}
//
// Event codes are small integers owned by the emitting package; see
// feature/vendor/registry for the registry code space.
//
// # Implementations
//
//   - ZapSink: forwards events to a zap logger, mapping levels 1:1.
//     Fatal is deliberately downgraded to an error log entry because a
//     background subsystem must never terminate the host process.
//   - Nop: discards everything (default for library use without a logger).
package events
