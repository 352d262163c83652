// Package token is the sign/verify/decode boundary between the surface
// synchronizer and golang-jwt.
//
// # Design
//
// Decode never verifies; Verify never validates claims. The two concerns are
// split so the synchronizer can show a decomposed token whose signature is
// wrong, and report a verdict about the signature alone regardless of exp or
// nbf. Sign emits the header map exactly as the user wrote it — the codec
// does not inject alg or typ.
//
// # What this package must NOT do
//
//   - Touch surfaces, the bus, or any session state.
//   - Cache parsed keys between calls. Key material is user-editable text
//     and may change on every cycle.
package token
