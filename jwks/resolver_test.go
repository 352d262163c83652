package jwks

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/jwtlens/internal/pemutil"
)

func headerWithJWK(t *testing.T, key any, kid string) map[string]any {
	t.Helper()
	jwk := jose.JSONWebKey{Key: key, KeyID: kid}
	data, err := jwk.MarshalJSON()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	return map[string]any{"alg": "ES256", "typ": "JWT", "jwk": raw}
}

func TestResolveEmbeddedJWK(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	header := headerWithJWK(t, &priv.PublicKey, "k1")
	pem, err := New().Resolve(context.Background(), header, nil)
	require.NoError(t, err)

	expected, err := pemutil.EncodePublicKey(&priv.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, expected, pem)
}

func TestResolveEmbeddedPrivateJWKReturnsPublicHalf(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	header := headerWithJWK(t, priv, "k1")
	pem, err := New().Resolve(context.Background(), header, nil)
	require.NoError(t, err)

	expected, err := pemutil.EncodePublicKey(&priv.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, expected, pem, "private jwk must resolve to its public half")
}

func TestResolveX5CChain(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "jwtlens test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	require.NoError(t, err)

	header := map[string]any{
		"alg": "RS256",
		"x5c": []any{base64.StdEncoding.EncodeToString(der)},
	}
	pem, err := New().Resolve(context.Background(), header, nil)
	require.NoError(t, err)

	expected, err := pemutil.EncodePublicKey(&priv.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, expected, pem)
}

func TestResolveByKeyIDFromLocalSet(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &priv.PublicKey, KeyID: "signer-1"},
	}}
	doc, err := json.Marshal(set)
	require.NoError(t, err)

	r, err := NewWithKeySet(doc)
	require.NoError(t, err)

	pem, err := r.Resolve(context.Background(), map[string]any{"kid": "signer-1"}, nil)
	require.NoError(t, err)

	expected, err := pemutil.EncodePublicKey(&priv.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, expected, pem)

	pem, err = r.Resolve(context.Background(), map[string]any{"kid": "unknown"}, nil)
	require.NoError(t, err)
	assert.Empty(t, pem, "unknown kid must resolve to nothing, not an error")
}

func TestResolveNoSourceIsNotAnError(t *testing.T) {
	pem, err := New().Resolve(context.Background(), map[string]any{"alg": "RS256"}, nil)
	require.NoError(t, err)
	assert.Empty(t, pem)
}

func TestResolveBrokenSourcesError(t *testing.T) {
	cases := []map[string]any{
		{"jwk": map[string]any{"kty": "nonsense"}},
		{"x5c": "not-a-list"},
		{"x5c": []any{"%%%not-base64%%%"}},
		{"x5c": []any{base64.StdEncoding.EncodeToString([]byte("not a cert"))}},
	}
	for _, header := range cases {
		_, err := New().Resolve(context.Background(), header, nil)
		assert.ErrorIs(t, err, ErrBadKeySource, "header: %v", header)
	}
}

func TestResolveHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Resolve(ctx, map[string]any{}, nil)
	assert.Error(t, err)
}

func TestNewWithKeySetRejectsGarbage(t *testing.T) {
	_, err := NewWithKeySet([]byte("{{{"))
	assert.Error(t, err)
}
