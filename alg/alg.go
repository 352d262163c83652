package alg

import "strings"

// KeyKind partitions algorithms by the key material they require.
type KeyKind uint8

const (
	// SharedSecret algorithms sign and verify with one symmetric value.
	SharedSecret KeyKind = iota
	// KeyPair algorithms sign with a private key and verify with a public key.
	KeyPair
)

func (k KeyKind) String() string {
	if k == SharedSecret {
		return "shared_secret"
	}
	return "key_pair"
}

// Info is the classification result for one algorithm identifier.
type Info struct {
	KeyKind     KeyKind
	SignerLabel string
}

// known is the closed set of selectable algorithm identifiers, in selector
// display order.
var known = []string{
	"HS256", "HS384", "HS512",
	"RS256", "RS384", "RS512",
	"ES256", "ES384", "ES512",
	"PS256", "PS384", "PS512",
	"EdDSA",
}

var signerLabels = map[string]string{
	"HS256": "HMACSHA256",
	"HS384": "HMACSHA384",
	"HS512": "HMACSHA512",
	"RS256": "RSASHA256",
	"RS384": "RSASHA384",
	"RS512": "RSASHA512",
	"ES256": "ECDSASHA256",
	"ES384": "ECDSASHA384",
	"ES512": "ECDSASHA512",
	"PS256": "RSAPSSSHA256",
	"PS384": "RSAPSSSHA384",
	"PS512": "RSAPSSSHA512",
	"EdDSA": "Ed25519",
}

// sharedSecretPrefixes identifies the shared-secret family. Everything
// outside these prefixes classifies as key-pair.
var sharedSecretPrefixes = []string{"HS"}

// Known returns the closed identifier set in selector order. The returned
// slice is a copy.
func Known() []string {
	out := make([]string, len(known))
	copy(out, known)
	return out
}

// IsKnown reports whether id belongs to the closed identifier set.
func IsKnown(id string) bool {
	_, ok := signerLabels[id]
	return ok
}

// IsSharedSecret reports whether id belongs to the shared-secret family,
// decided by prefix so the check stays total for unknown ids.
func IsSharedSecret(id string) bool {
	for _, p := range sharedSecretPrefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}

// IsKeyPair reports whether id requires an asymmetric key pair. Unknown ids
// classify as key-pair; rejecting them is the caller's decision.
func IsKeyPair(id string) bool {
	return !IsSharedSecret(id)
}

// Classify maps an algorithm identifier to its key kind and signer label.
// Classification is total: unknown ids get KeyPair and an empty label so that
// display logic never has to special-case them.
func Classify(id string) Info {
	info := Info{KeyKind: KeyPair}
	if IsSharedSecret(id) {
		info.KeyKind = SharedSecret
	}
	info.SignerLabel = signerLabels[id]
	return info
}
