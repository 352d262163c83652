package sample

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/MrEthical07/jwtlens/alg"
	"github.com/MrEthical07/jwtlens/internal/pemutil"
	"github.com/MrEthical07/jwtlens/token"
)

// Entry is the canonical demonstration token and key material for one
// algorithm. Entries are internally consistent: the token verifies against
// the entry's own key material.
type Entry struct {
	Algorithm      string
	Token          string
	Secret         string
	SecretIsBase64 bool
	PrivateKeyPEM  string
	PublicKeyPEM   string
}

// Secret used by all shared-secret sample entries.
const demoSecret = "a-string-secret-at-least-256-bits-long"

var (
	once     sync.Once
	table    map[string]Entry
	byToken  map[string]string
	buildErr error
)

func demoHeader(algID string) map[string]any {
	return map[string]any{"alg": algID, "typ": "JWT"}
}

func demoPayload() map[string]any {
	return map[string]any{
		"sub":  "1234567890",
		"name": "John Doe",
		"iat":  json.Number("1516239022"),
	}
}

// The key-pair entries use per-process generated keys so the catalog never
// ships a private key anyone could reuse; within one process the table is
// fixed after the first build.
func build() {
	table = make(map[string]Entry)
	byToken = make(map[string]string)

	var pairs []keyPair
	pairs, buildErr = generateKeyPairs()
	if buildErr != nil {
		log.Print("jwtlens: sample key generation failed")
		return
	}
	pairByAlg := make(map[string]keyPair)
	for _, p := range pairs {
		for _, id := range p.algIDs {
			pairByAlg[id] = p
		}
	}

	for _, id := range alg.Known() {
		key := token.Key{Algorithm: id}
		entry := Entry{Algorithm: id}
		if alg.IsSharedSecret(id) {
			key.Secret = []byte(demoSecret)
			entry.Secret = demoSecret
		} else {
			p, ok := pairByAlg[id]
			if !ok {
				buildErr = fmt.Errorf("no sample key pair for %s", id)
				log.Print("jwtlens: sample catalog incomplete")
				return
			}
			key.PrivateKeyPEM = []byte(p.privPEM)
			key.PublicKeyPEM = []byte(p.pubPEM)
			entry.PrivateKeyPEM = p.privPEM
			entry.PublicKeyPEM = p.pubPEM
		}

		encoded, err := token.Sign(demoHeader(id), demoPayload(), key)
		if err != nil {
			buildErr = fmt.Errorf("sample for %s: %w", id, err)
			log.Print("jwtlens: sample signing failed")
			return
		}
		entry.Token = encoded
		table[id] = entry
		byToken[encoded] = id
	}
}

type keyPair struct {
	algIDs  []string
	privPEM string
	pubPEM  string
}

func generateKeyPairs() ([]keyPair, error) {
	var pairs []keyPair

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	p, err := encodePair(rsaKey, &rsaKey.PublicKey)
	if err != nil {
		return nil, err
	}
	p.algIDs = []string{"RS256", "RS384", "RS512", "PS256", "PS384", "PS512"}
	pairs = append(pairs, p)

	curves := map[string]elliptic.Curve{
		"ES256": elliptic.P256(),
		"ES384": elliptic.P384(),
		"ES512": elliptic.P521(),
	}
	for id, curve := range curves {
		ecKey, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			return nil, err
		}
		p, err := encodePair(ecKey, &ecKey.PublicKey)
		if err != nil {
			return nil, err
		}
		p.algIDs = []string{id}
		pairs = append(pairs, p)
	}

	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	p, err = encodePair(edPriv, edPub)
	if err != nil {
		return nil, err
	}
	p.algIDs = []string{"EdDSA"}
	pairs = append(pairs, p)

	return pairs, nil
}

func encodePair(priv, pub any) (keyPair, error) {
	privPEM, err := pemutil.EncodePrivateKey(priv)
	if err != nil {
		return keyPair{}, err
	}
	pubPEM, err := pemutil.EncodePublicKey(pub)
	if err != nil {
		return keyPair{}, err
	}
	return keyPair{privPEM: privPEM, pubPEM: pubPEM}, nil
}

// Get returns the sample entry for an algorithm identifier.
func Get(algID string) (Entry, bool) {
	once.Do(build)
	if buildErr != nil {
		return Entry{}, false
	}
	entry, ok := table[algID]
	return entry, ok
}

// IsDefault reports whether the encoded text is one of the built-in sample
// tokens. The synchronizer uses this to decide between re-populating the
// whole demo set and patching only the header algorithm.
func IsDefault(encoded string) bool {
	once.Do(build)
	if buildErr != nil {
		return false
	}
	_, ok := byToken[strings.TrimSpace(encoded)]
	return ok
}
