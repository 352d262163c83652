// Command jwtlens-inspect decodes a JWT from the command line and, when key
// material is supplied, reports whether its signature verifies.
//
// Usage:
//
//	jwtlens-inspect [flags] <token>
//	jwtlens-inspect -secret my-secret eyJhbGciOi...
//	jwtlens-inspect -public-key pub.pem eyJhbGciOi...
//
// Without key material only the decoded header and payload are printed.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/MrEthical07/jwtlens/alg"
	"github.com/MrEthical07/jwtlens/internal/jsonutil"
	"github.com/MrEthical07/jwtlens/token"
)

func main() {
	var (
		secret     = flag.String("secret", "", "shared secret for the HS family")
		secretB64  = flag.Bool("secret-base64", false, "treat the secret as standard base64")
		publicKey  = flag.String("public-key", "", "path to a PEM public key for key-pair algorithms")
		outputJSON = flag.Bool("json", false, "emit a single JSON object instead of text")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jwtlens-inspect [flags] <token>")
		os.Exit(2)
	}
	encoded := flag.Arg(0)

	dec, err := token.Decode(encoded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode failed: %v\n", err)
		os.Exit(1)
	}

	algID := dec.Algorithm()
	info := alg.Classify(algID)

	key := token.Key{
		Algorithm:      algID,
		Secret:         []byte(*secret),
		SecretIsBase64: *secretB64,
	}
	haveKey := *secret != ""
	if *publicKey != "" {
		pem, err := os.ReadFile(*publicKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read public key: %v\n", err)
			os.Exit(1)
		}
		key.PublicKeyPEM = pem
		haveKey = true
	}

	verified := false
	verdict := "not checked (no key material)"
	if haveKey {
		ok, verr := token.Verify(encoded, key)
		switch {
		case verr != nil:
			verdict = fmt.Sprintf("not checked (%v)", verr)
		case ok:
			verified = true
			verdict = "signature verified"
		default:
			verdict = "invalid signature"
		}
	}

	if *outputJSON {
		out := map[string]any{
			"algorithm": algID,
			"key_kind":  info.KeyKind.String(),
			"header":    dec.Header,
			"payload":   dec.Payload,
			"verified":  verified,
			"verdict":   verdict,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	header, _ := jsonutil.Pretty(dec.Header)
	payload, _ := jsonutil.Pretty(dec.Payload)
	fmt.Printf("algorithm: %s (%s)\n", algID, info.SignerLabel)
	fmt.Printf("header:\n%s\n", header)
	fmt.Printf("payload:\n%s\n", payload)
	fmt.Printf("signature: %d bytes\n", len(dec.Signature))
	fmt.Printf("verdict: %s\n", verdict)
}
