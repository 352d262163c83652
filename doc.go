// Package jwtlens is the reconciliation core of a JWT inspection and editing
// tool: an encoded token, its decoded header and payload, the key material,
// and an algorithm selector are kept mutually consistent while the user edits
// any of them, and a signature-validity verdict is maintained throughout.
//
// # Design
//
// Every editable surface raises a change notification on an internal bus.
// Exactly one handler per surface runs a reconciliation cycle: token edits
// decode outward, decomposed edits re-sign inward, selector changes either
// swap in a fresh sample or patch and re-sign the current token. Each cycle
// runs with bus delivery suppressed, so surface writes made by a cycle never
// start another cycle. One edit, at most one cycle.
//
// All cycles for one Session serialize on an internal lock. The only
// background work is public key resolution (embedded jwk, x5c, local JWKS),
// which re-enters through the same lock and is discarded when the token has
// changed in the meantime.
//
// # Architecture boundaries
//
//   - jwtlens owns the state machine; packages bus, surface, alg, token,
//     sample, store and jwks stay independent of it.
//   - The verdict flows one way, into the Indicator. Display components
//     never write back.
//   - Persistence is best-effort and asynchronous failure is never fatal.
//
// # What this package must NOT do
//
//   - Validate claims. Expiry, audience and issuer are the consumer's
//     business; only the signature is judged here.
//   - Fetch keys over the network. Resolution uses material already present
//     in the token or a locally supplied JWKS document.
//   - Treat alg "none" as verifiable. Unsigned tokens are displayed, decoded
//     and editable, but the verdict stays invalid.
package jwtlens
