// Package pemutil encodes crypto keys to the PEM text forms shown on the
// key-material surfaces. Parsing PEM back into keys is handled by the token
// codec via golang-jwt's parse helpers; this package only goes the other way.
package pemutil
