// Package alg classifies JWT algorithm identifiers into the shared-secret
// and key-pair families and carries their display labels.
//
// All functions are pure and total: an unknown identifier still classifies
// (as key-pair) so that key-material display logic never fails; whether to
// reject the identifier is decided by the synchronizer, not here.
package alg
