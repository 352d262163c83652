package jwks

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/MrEthical07/jwtlens/internal/pemutil"
)

// ErrBadKeySource is returned when a key source is present in the token but
// cannot be turned into a public key.
var ErrBadKeySource = errors.New("unusable key source in token")

// Resolver derives a verification public key from a decoded token without
// any network access. Sources, in order of preference:
//
//  1. an embedded "jwk" header parameter,
//  2. the first certificate of an "x5c" header chain,
//  3. a locally configured JWKS document matched by the "kid" header.
//
// When no source applies, Resolve reports ("", nil): absence of a key is not
// an error, only a broken source is.
type Resolver struct {
	keySet *jose.JSONWebKeySet
}

// New creates a resolver with no local key set. Only embedded jwk and x5c
// sources will resolve.
func New() *Resolver {
	return &Resolver{}
}

// NewWithKeySet creates a resolver that additionally matches kid headers
// against the given JWKS document.
func NewWithKeySet(document []byte) (*Resolver, error) {
	var set jose.JSONWebKeySet
	if err := json.Unmarshal(document, &set); err != nil {
		return nil, fmt.Errorf("parse jwks document: %w", err)
	}
	return &Resolver{keySet: &set}, nil
}

// Resolve returns the PEM text of a verification key for the decoded token,
// or "" when no source yields one. The payload is accepted for interface
// compatibility; all current sources live in the header.
func (r *Resolver) Resolve(ctx context.Context, header, payload map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if raw, ok := header["jwk"]; ok {
		return resolveEmbedded(raw)
	}
	if raw, ok := header["x5c"]; ok {
		return resolveCertChain(raw)
	}
	if kid, ok := header["kid"].(string); ok && kid != "" && r.keySet != nil {
		return r.resolveByKeyID(kid)
	}
	return "", nil
}

func resolveEmbedded(raw any) (string, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("%w: jwk header: %v", ErrBadKeySource, err)
	}
	var key jose.JSONWebKey
	if err := key.UnmarshalJSON(data); err != nil {
		return "", fmt.Errorf("%w: jwk header: %v", ErrBadKeySource, err)
	}
	if !key.Valid() {
		return "", fmt.Errorf("%w: jwk header fails validation", ErrBadKeySource)
	}
	if !key.IsPublic() {
		key = key.Public()
	}
	return pemFromJWK(key)
}

func resolveCertChain(raw any) (string, error) {
	chain, ok := raw.([]any)
	if !ok || len(chain) == 0 {
		return "", fmt.Errorf("%w: x5c is not a certificate list", ErrBadKeySource)
	}
	first, ok := chain[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: x5c entry is not a string", ErrBadKeySource)
	}
	der, err := base64.StdEncoding.DecodeString(first)
	if err != nil {
		return "", fmt.Errorf("%w: x5c entry: %v", ErrBadKeySource, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return "", fmt.Errorf("%w: x5c certificate: %v", ErrBadKeySource, err)
	}
	return pemutil.EncodePublicKey(cert.PublicKey)
}

func (r *Resolver) resolveByKeyID(kid string) (string, error) {
	matches := r.keySet.Key(kid)
	if len(matches) == 0 {
		return "", nil
	}
	key := matches[0]
	if !key.IsPublic() {
		key = key.Public()
	}
	return pemFromJWK(key)
}

func pemFromJWK(key jose.JSONWebKey) (string, error) {
	pem, err := pemutil.EncodePublicKey(key.Key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadKeySource, err)
	}
	return pem, nil
}
