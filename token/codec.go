package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/jwtlens/internal/jsonutil"
)

var (
	// ErrMalformed is returned by Decode when the text is not a three-part
	// base64url structure. The caller keeps its current header and payload.
	ErrMalformed = errors.New("malformed token structure")
	// ErrSemantic is returned by Decode when the structure parses but a
	// segment is not a valid JSON object.
	ErrSemantic = errors.New("token segment is not a JSON object")
	// ErrUnknownAlgorithm is returned when the header algorithm has no
	// registered signing method.
	ErrUnknownAlgorithm = errors.New("unknown signing algorithm")
	// ErrBadKey is returned when key material cannot be parsed for the
	// selected algorithm.
	ErrBadKey = errors.New("invalid key material")
)

// Decoded is the decomposed form of an encoded token.
type Decoded struct {
	Header    map[string]any
	Payload   map[string]any
	Signature []byte
}

// Algorithm returns the header alg value, or "" when absent or not a string.
func (d *Decoded) Algorithm() string {
	if d == nil {
		return ""
	}
	id, _ := d.Header["alg"].(string)
	return id
}

// Decode splits an encoded token into header, payload, and signature bytes
// without verifying the signature.
//
// Failure modes are distinct on purpose: ErrMalformed means the compact
// structure itself is broken (wrong part count, bad base64) and the caller
// should leave its decomposed surfaces alone; ErrSemantic means the structure
// decoded but a segment is not the JSON object a token requires.
func Decode(encoded string) (*Decoded, error) {
	parts := strings.Split(encoded, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	headerRaw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrMalformed
	}
	payloadRaw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrMalformed
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, ErrMalformed
	}

	header, err := jsonutil.ParseObjectBytes(headerRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrSemantic, err)
	}
	payload, err := jsonutil.ParseObjectBytes(payloadRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrSemantic, err)
	}

	return &Decoded{
		Header:    header,
		Payload:   payload,
		Signature: signature,
	}, nil
}

// Sign serializes header and payload and signs them with the key material
// matching the header algorithm. The header is emitted exactly as given; the
// algorithm is read from header["alg"], never injected here.
func Sign(header, payload map[string]any, key Key) (string, error) {
	algID, _ := header["alg"].(string)
	method := jwt.GetSigningMethod(algID)
	if method == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algID)
	}

	signKey, err := key.signingKey(method)
	if err != nil {
		return "", err
	}

	tok := &jwt.Token{
		Header: header,
		Claims: jwt.MapClaims(payload),
		Method: method,
	}
	return tok.SignedString(signKey)
}

// Verify checks the signature of an encoded token against the key material
// for the expected algorithm. Claim validation (exp, nbf, iss) is skipped:
// the verdict is about the signature, not about token freshness.
func Verify(encoded string, key Key) (bool, error) {
	if key.Algorithm == "" {
		return false, fmt.Errorf("%w: empty identifier", ErrUnknownAlgorithm)
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{key.Algorithm}),
		jwt.WithoutClaimsValidation(),
	)

	tok, err := parser.Parse(encoded, func(t *jwt.Token) (any, error) {
		return key.verifyKey(t.Method)
	})
	if err != nil {
		if errors.Is(err, ErrBadKey) || errors.Is(err, ErrUnknownAlgorithm) {
			return false, err
		}
		return false, nil
	}
	return tok.Valid, nil
}
