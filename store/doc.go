// Package store persists the last-edited token and public key so a new
// session can restore where the previous one left off.
//
// Persistence is strictly best-effort: the session logs and continues on any
// store failure, and a missing or corrupt record simply falls back to the
// default sample at bootstrap. Nothing in the reconciliation core ever waits
// on the store.
package store
