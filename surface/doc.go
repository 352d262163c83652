// Package surface provides the concrete editable surfaces: text fields, a
// checkbox, and a fixed-option selector.
//
// Surfaces are deliberately dumb. They hold a value, a visibility flag, and
// an error marker, and they notify the bus on every write. All reconciliation
// logic lives in the session; a surface never inspects what it holds.
package surface
