// Package sample holds the built-in demonstration token and key set for each
// selectable algorithm.
//
// The catalog is read-only and built once per process: shared-secret entries
// are fully deterministic (fixed secret, deterministic HMAC), key-pair
// entries sign the same claims with keys generated at first use. Either way
// every entry verifies against its own material, which is what the
// algorithm-change path relies on when it swaps the whole demo set.
package sample
