package jwtlens

import (
	"fmt"
	"log"

	"github.com/MrEthical07/jwtlens/alg"
	"github.com/MrEthical07/jwtlens/internal/jsonutil"
	"github.com/MrEthical07/jwtlens/token"
)

// encodeLocked is the decomposed-edit reconciliation path: parse the header
// and payload surfaces, re-sign with the active key material, rewrite the
// encoded token, persist, verify.
//
// reentered marks the single in-cycle recursion taken after patching a
// missing alg claim into the header. That recursion must not double-count
// the cycle and must not patch again.
//
// Callers hold the session lock and run inside a suppressed bus scope.
func (s *Session) encodeLocked(reentered bool) {
	if !reentered {
		s.metrics.Inc(MetricEncodeCycle)
	}

	hdr, err := jsonutil.ParseObject(s.surfaces.Header.Value())
	if err != nil {
		// Mid-edit text. Expected, so no log; the cleared token and the
		// marker tell the user which surface to fix.
		s.metrics.Inc(MetricSyntaxError)
		s.surfaces.Header.MarkError()
		s.surfaces.Token.SetValue("")
		s.setVerdictLocked(Verdict{Cause: CauseSyntax, Surface: SurfaceHeader})
		s.emitTrace(traceEventEncode, SurfaceHeader, false, ErrHeaderSyntax, nil)
		return
	}
	s.surfaces.Header.ClearError()

	algID, _ := hdr["alg"].(string)
	if algID == "" {
		if reentered {
			// Patched header still carries no usable alg. Give up rather
			// than recurse again.
			s.surfaces.Token.SetValue("")
			s.setVerdictLocked(Verdict{Cause: CauseSignature, Surface: SurfaceHeader})
			s.emitTrace(traceEventEncode, SurfaceHeader, false, ErrUnsignedToken, nil)
			return
		}
		hdr["alg"] = s.surfaces.Algorithm.Selected()
		if pretty, perr := jsonutil.Pretty(hdr); perr == nil {
			s.surfaces.Header.SetValue(pretty)
		}
		s.encodeLocked(true)
		return
	}

	if alg.IsKnown(algID) {
		if s.surfaces.Algorithm.Selected() != algID {
			s.surfaces.Algorithm.SetSelected(algID)
			s.applyKeyVisibilityLocked(algID)
		}
	} else {
		s.metrics.Inc(MetricUnknownAlgorithm)
		log.Print("jwtlens: header algorithm outside the known set")
	}

	payload, err := jsonutil.ParseObject(s.surfaces.Payload.Value())
	if err != nil {
		s.metrics.Inc(MetricSyntaxError)
		s.surfaces.Payload.MarkError()
		s.surfaces.Token.SetValue("")
		s.setVerdictLocked(Verdict{Cause: CauseSyntax, Surface: SurfacePayload})
		s.emitTrace(traceEventEncode, SurfacePayload, false, ErrPayloadSyntax, nil)
		return
	}
	s.surfaces.Payload.ClearError()

	encoded, err := token.Sign(hdr, payload, s.keyMaterialLocked(algID))
	if err != nil {
		s.metrics.Inc(MetricSigningError)
		s.surfaces.Token.SetValue("")
		blamed := signingSurface(algID)
		s.setVerdictLocked(Verdict{Cause: CauseSignature, Surface: blamed})
		log.Print("jwtlens: signing failed for current key material")
		s.emitTrace(traceEventEncode, blamed, false, fmt.Errorf("%w: %v", ErrSigningFailed, err), nil)
		return
	}

	s.surfaces.Token.SetValue(encoded)
	s.surfaces.Token.ClearError()
	// A new token supersedes any resolution still in flight.
	s.tokenGen++

	s.persistLocked()
	s.verifyLocked()
	s.emitTrace(traceEventEncode, SurfaceToken, true, nil, map[string]string{"alg": algID})
}
