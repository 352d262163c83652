// Package jwks resolves verification public keys from material already
// present in a token (embedded jwk, x5c chain) or from a locally supplied
// JWKS document matched by kid.
//
// # What this package must NOT do
//
//   - Fetch anything over the network. Remote JWKS retrieval is outside the
//     reconciliation core; a caller who wants it supplies the fetched
//     document to [NewWithKeySet].
//   - Trust the resolved key for anything beyond display and signature
//     verification of the token it came from.
package jwks
