// Package bus implements the suppressible change-notification bus that
// connects editable surfaces to the synchronizer.
//
// # Design
//
// Suppression is a counter-guarded enter/exit pair rather than a boolean
// flag: [Bus.WithSuppressed] scopes nest safely, and the exit is executed on
// every path including panics. There is deliberately no dependency graph —
// convergence comes from disabling delivery during a cycle, not from ordering
// edges.
//
// # What this package must NOT do
//
//   - Synchronize internally. The owning session serializes all access.
//   - Know anything about surfaces, tokens, or verdicts. Topics are opaque.
package bus
