package pemutil

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
)

// ErrNilKey is returned when a nil key is passed to an encoder.
var ErrNilKey = errors.New("nil key")

// EncodePrivateKey renders a private key as a PKCS#8 PEM block, the form the
// private-key surface displays and the codec parses back.
func EncodePrivateKey(key any) (string, error) {
	if key == nil {
		return "", ErrNilKey
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", err
	}
	block := &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// EncodePublicKey renders a public key as a PKIX PEM block.
func EncodePublicKey(key any) (string, error) {
	if key == nil {
		return "", ErrNilKey
	}
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", err
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}
