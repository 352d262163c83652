// Package jsonutil provides the deterministic JSON parsing and
// pretty-printing used by the surface synchronizer.
//
// Determinism matters: the header and payload surfaces are rewritten on every
// decode cycle, and unstable rendering would make identical tokens produce
// different surface text across cycles.
package jsonutil
