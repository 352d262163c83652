package jwtlens

import (
	"time"

	"github.com/MrEthical07/jwtlens/internal/jsonutil"
	"github.com/MrEthical07/jwtlens/token"
)

// verifyLocked settles the verdict from the current surface state. It runs
// at the end of every reconciliation cycle and directly on public-key edits.
//
// Callers hold the session lock and run inside a suppressed bus scope.
func (s *Session) verifyLocked() {
	start := time.Now()
	verdict := s.evaluateLocked()
	s.metrics.Observe(MetricVerifyLatency, time.Since(start))

	if verdict.Valid {
		s.metrics.Inc(MetricVerifyValid)
	} else {
		s.metrics.Inc(MetricVerifyInvalid)
	}
	s.setVerdictLocked(verdict)
	s.emitTrace(traceEventVerify, verdict.Surface, verdict.Valid, nil,
		map[string]string{"label": verdict.Label()})
}

func (s *Session) evaluateLocked() Verdict {
	raw := currentToken(s.surfaces.Token)
	if raw == "" {
		return Verdict{Cause: CauseSyntax, Surface: SurfaceToken}
	}

	hdr, err := jsonutil.ParseObject(s.surfaces.Header.Value())
	if err != nil {
		return Verdict{Cause: CauseSyntax, Surface: SurfaceHeader}
	}

	// alg "none" and a missing alg are never valid, whatever the signature
	// segment holds.
	algID, _ := hdr["alg"].(string)
	if algID == "" || algID == "none" {
		return Verdict{Cause: CauseSignature, Surface: SurfaceToken}
	}

	ok, err := token.Verify(raw, s.keyMaterialLocked(algID))
	if err != nil || !ok {
		return Verdict{Cause: CauseSignature, Surface: verifySurface(algID)}
	}
	return Verdict{Valid: true, Cause: CauseNone}
}
