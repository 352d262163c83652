package jwtlens

import (
	"context"
	"errors"
	"log"
	"maps"

	"github.com/MrEthical07/jwtlens/alg"
	"github.com/MrEthical07/jwtlens/internal/jsonutil"
	"github.com/MrEthical07/jwtlens/token"
)

// decodeLocked is the token-edit reconciliation path: decode the encoded
// token, rewrite the decomposed surfaces, kick off key resolution for
// key-pair algorithms, persist, verify.
//
// Callers hold the session lock and run inside a suppressed bus scope.
func (s *Session) decodeLocked() {
	s.tokenGen++
	gen := s.tokenGen
	s.metrics.Inc(MetricDecodeCycle)

	raw := currentToken(s.surfaces.Token)
	if raw == "" {
		s.surfaces.Token.MarkError()
		s.setVerdictLocked(Verdict{Cause: CauseSyntax, Surface: SurfaceToken})
		s.emitTrace(traceEventDecode, SurfaceToken, false, ErrMalformedToken, nil)
		return
	}

	dec, err := token.Decode(raw)
	switch {
	case errors.Is(err, token.ErrMalformed):
		// Structural breakage. Leave header and payload showing their last
		// good content; only the token surface is blamed.
		s.metrics.Inc(MetricSyntaxError)
		s.surfaces.Token.MarkError()
		s.setVerdictLocked(Verdict{Cause: CauseSyntax, Surface: SurfaceToken})
		s.emitTrace(traceEventDecode, SurfaceToken, false, err, nil)
		return
	case err != nil:
		// Three parts, but the segments are not claim objects. The token is
		// unrecoverable, so this path clears it.
		s.metrics.Inc(MetricSemanticDecodeError)
		s.surfaces.Token.SetValue("")
		s.surfaces.Token.MarkError()
		s.setVerdictLocked(Verdict{Cause: CauseSyntax, Surface: SurfaceToken})
		log.Print("jwtlens: token decoded with claim errors, cleared")
		s.emitTrace(traceEventDecode, SurfaceToken, false, err, nil)
		return
	}

	algID := dec.Algorithm()
	if alg.IsKnown(algID) {
		if s.surfaces.Algorithm.Selected() != algID {
			s.surfaces.Algorithm.SetSelected(algID)
		}
		s.applyKeyVisibilityLocked(algID)
	} else {
		s.metrics.Inc(MetricUnknownAlgorithm)
		log.Print("jwtlens: token header algorithm outside the known set")
	}

	headerText, herr := jsonutil.Pretty(dec.Header)
	payloadText, perr := jsonutil.Pretty(dec.Payload)
	if herr != nil || perr != nil {
		s.metrics.Inc(MetricSemanticDecodeError)
		s.surfaces.Token.SetValue("")
		s.surfaces.Token.MarkError()
		s.setVerdictLocked(Verdict{Cause: CauseSyntax, Surface: SurfaceToken})
		s.emitTrace(traceEventDecode, SurfaceToken, false, ErrSemanticDecode, nil)
		return
	}
	s.surfaces.Header.SetValue(headerText)
	s.surfaces.Payload.SetValue(payloadText)
	s.surfaces.Token.ClearError()
	s.surfaces.Header.ClearError()
	s.surfaces.Payload.ClearError()

	if alg.IsKeyPair(algID) {
		s.spawnResolveLocked(gen, dec)
	}

	s.persistLocked()
	s.verifyLocked()
	s.emitTrace(traceEventDecode, SurfaceToken, true, nil, map[string]string{"alg": algID})
}

// spawnResolveLocked starts asynchronous public key resolution for the
// decoded token. The result is applied only if the token generation still
// matches when it lands.
func (s *Session) spawnResolveLocked(gen uint64, dec *token.Decoded) {
	if s.resolver == nil || !s.config.Resolver.Enabled {
		return
	}
	header := maps.Clone(dec.Header)
	payload := maps.Clone(dec.Payload)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pem, err := s.resolver.Resolve(context.Background(), header, payload)
		if err != nil {
			s.metrics.Inc(MetricResolveFailed)
			log.Print("jwtlens: public key resolution failed")
			return
		}
		if pem == "" {
			return
		}
		s.completeResolve(gen, pem)
	}()
}

func (s *Session) completeResolve(gen uint64, pem string) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Resolver.DiscardStale && gen != s.tokenGen {
		s.metrics.Inc(MetricResolveDiscarded)
		s.emitTrace(traceEventResolveDiscarded, SurfacePublicKey, false, nil, nil)
		return
	}

	s.bus.WithSuppressed(func() {
		s.surfaces.PublicKey.SetValue(pem)
		s.verifyLocked()
	})
	s.metrics.Inc(MetricResolveApplied)
	s.emitTrace(traceEventResolveApplied, SurfacePublicKey, true, nil, nil)
}
