package token

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Key carries the key material gathered from the editable surfaces. Exactly
// one variant is in use for a given algorithm: Secret for the shared-secret
// family, the PEM pair for everything else. The unused fields are ignored.
type Key struct {
	// Algorithm is the identifier the material is intended for, e.g. "HS256".
	Algorithm string

	// Secret is the shared-secret text. When SecretIsBase64 is set it is
	// decoded as standard base64 before use.
	Secret         []byte
	SecretIsBase64 bool

	// PrivateKeyPEM signs, PublicKeyPEM verifies, for key-pair algorithms.
	PrivateKeyPEM []byte
	PublicKeyPEM  []byte
}

func (k Key) secretBytes() ([]byte, error) {
	if !k.SecretIsBase64 {
		return k.Secret, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(k.Secret)))
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid base64", ErrBadKey)
	}
	return decoded, nil
}

func (k Key) signingKey(method jwt.SigningMethod) (any, error) {
	if method.Alg() == "none" {
		return jwt.UnsafeAllowNoneSignatureType, nil
	}

	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		return k.secretBytes()
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		parsed, err := jwt.ParseRSAPrivateKeyFromPEM(k.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("%w: rsa private key: %v", ErrBadKey, err)
		}
		return parsed, nil
	case *jwt.SigningMethodECDSA:
		parsed, err := jwt.ParseECPrivateKeyFromPEM(k.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("%w: ec private key: %v", ErrBadKey, err)
		}
		return parsed, nil
	case *jwt.SigningMethodEd25519:
		parsed, err := jwt.ParseEdPrivateKeyFromPEM(k.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("%w: ed25519 private key: %v", ErrBadKey, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, method.Alg())
	}
}

func (k Key) verifyKey(method jwt.SigningMethod) (any, error) {
	if method.Alg() == "none" {
		return jwt.UnsafeAllowNoneSignatureType, nil
	}

	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		return k.secretBytes()
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		parsed, err := jwt.ParseRSAPublicKeyFromPEM(k.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("%w: rsa public key: %v", ErrBadKey, err)
		}
		return parsed, nil
	case *jwt.SigningMethodECDSA:
		parsed, err := jwt.ParseECPublicKeyFromPEM(k.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("%w: ec public key: %v", ErrBadKey, err)
		}
		return parsed, nil
	case *jwt.SigningMethodEd25519:
		parsed, err := jwt.ParseEdPublicKeyFromPEM(k.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("%w: ed25519 public key: %v", ErrBadKey, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, method.Alg())
	}
}
