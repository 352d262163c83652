package jwtlens

import (
	"context"

	"github.com/MrEthical07/jwtlens/bus"
	"github.com/MrEthical07/jwtlens/store"
)

// SurfaceID names one of the editable surfaces a session reconciles.
type SurfaceID uint8

const (
	// SurfaceToken is the encoded token text.
	SurfaceToken SurfaceID = iota
	// SurfaceHeader is the decoded header JSON text.
	SurfaceHeader
	// SurfacePayload is the decoded payload JSON text.
	SurfacePayload
	// SurfaceSecret is the shared-secret text.
	SurfaceSecret
	// SurfacePrivateKey is the signing key PEM text.
	SurfacePrivateKey
	// SurfacePublicKey is the verification key PEM text.
	SurfacePublicKey
	// SurfaceAlgorithm is the algorithm selector.
	SurfaceAlgorithm
	// SurfaceBase64 is the "secret is base64 encoded" toggle.
	SurfaceBase64

	surfaceIDCount
)

var surfaceNames = [surfaceIDCount]string{
	"token", "header", "payload", "secret",
	"private_key", "public_key", "algorithm", "base64_toggle",
}

func (id SurfaceID) String() string {
	if id >= surfaceIDCount {
		return "unknown"
	}
	return surfaceNames[id]
}

func (id SurfaceID) topic() bus.Topic {
	return bus.Topic(id)
}

// FailureCause distinguishes why a verdict is invalid.
type FailureCause uint8

const (
	// CauseNone means the verdict is valid.
	CauseNone FailureCause = iota
	// CauseSyntax means a surface holds text that does not parse.
	CauseSyntax
	// CauseSignature means everything parsed but the signature does not
	// verify against the active key material.
	CauseSignature
)

// Verdict is the signature-validity result displayed by the indicator.
// When invalid, Surface points at the surface that caused the failure.
type Verdict struct {
	Valid   bool
	Cause   FailureCause
	Surface SurfaceID
}

// Label returns the display text for the status indicator.
func (v Verdict) Label() string {
	if v.Valid {
		return "Signature Verified"
	}
	return "Invalid Signature"
}

// Indicator receives every settled verdict. Implementations are plain
// display components; they must not write back to any surface.
type Indicator interface {
	SetVerdict(Verdict)
}

// PublicKeyResolver derives a verification key from a decoded token, e.g.
// from an embedded jwk header or a JWKS document. Returning ("", nil) means
// no key could be derived, which is not an error.
type PublicKeyResolver interface {
	Resolve(ctx context.Context, header, payload map[string]any) (string, error)
}

// LayoutHook is called after key-material visibility changes so a host UI
// can resize dependent layout. The hook runs under the session lock and must
// not edit surfaces.
type LayoutHook func()

// Store persists the last-edited session state. See [store.Store].
type Store = store.Store

// LastSession is the persisted record restored at bootstrap.
type LastSession = store.LastSession
