package jwtlens

import "errors"

var (
	// ErrMalformedToken reports an encoded token whose compact structure is
	// broken. The decomposed surfaces keep their previous content.
	ErrMalformedToken = errors.New("malformed encoded token")
	// ErrSemanticDecode reports a token that parsed structurally but whose
	// segments are not valid claim objects. This is the one decode failure
	// that clears the token surface.
	ErrSemanticDecode = errors.New("token decoded with claim errors")
	// ErrHeaderSyntax reports invalid JSON on the header surface. Expected
	// while the user is mid-edit; never logged.
	ErrHeaderSyntax = errors.New("header is not valid JSON")
	// ErrPayloadSyntax reports invalid JSON on the payload surface.
	ErrPayloadSyntax = errors.New("payload is not valid JSON")
	// ErrSigningFailed reports that the current key material cannot sign
	// with the selected algorithm.
	ErrSigningFailed = errors.New("signing failed for current key material")
	// ErrUnknownAlgorithm reports an algorithm identifier outside the known
	// set. Informational: the selector is left unchanged.
	ErrUnknownAlgorithm = errors.New("algorithm outside the known set")
	// ErrUnsignedToken reports the policy that alg "none" or a missing alg
	// never verifies as valid.
	ErrUnsignedToken = errors.New("unsigned tokens are never valid")
	// ErrSampleUnavailable reports that the built-in sample catalog could
	// not be constructed.
	ErrSampleUnavailable = errors.New("sample catalog unavailable")
	// ErrSessionClosed reports use of a session after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrBuilderReused reports a second Build on the same Builder.
	ErrBuilderReused = errors.New("builder already used")
)
