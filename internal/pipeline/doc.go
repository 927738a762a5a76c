// Package pipeline orchestrates a decompilation job: it sequences the
// whole-program analyses over a shared Context, re-runs dataflow once after
// signature reconstruction, fans per-function passes out over a worker pool,
// and polls cooperative cancellation between passes and between functions.
//
// The Context is single-writer-per-pass: only the orchestrator and the pass
// it is currently delegating to mutate it, each artifact field is written
// exactly once, and nothing is mutated after the pass producing it returns.
package pipeline
