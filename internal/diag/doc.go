// Package diag defines the diagnostic model shared by all analysis passes.
//
//   - Diagnostic is the central record: severity, stable code, message, and
//     an optional function/address location (decompilation jobs have no
//     source text to point at).
//   - Reporter lets producers emit findings without coupling to storage or
//     formatting; Bag, WriterReporter, NopReporter and MultiReporter are the
//     provided sinks.
//
// Pass status messages travel through the same channel at SevInfo, so a host
// gets a uniform log stream for the whole job.
package diag
