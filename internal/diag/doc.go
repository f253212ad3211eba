// Package diag defines the diagnostic model used by the tree checks and the
// driver.
//
// Diagnostic is the central record: a severity, a stable numeric Code, a short
// message, the module it belongs to, the primary span and optional notes.
// Producers emit through a Reporter so they never depend on storage; the
// usual sink is BagReporter, which collects into a Bag that can be sorted and
// deduplicated before rendering.
//
// Format and Write render diagnostics as text; the package opens no files.
package diag
