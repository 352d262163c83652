package jwtlens

import (
	"log"

	"github.com/MrEthical07/jwtlens/internal/jsonutil"
	"github.com/MrEthical07/jwtlens/sample"
)

// algorithmLocked is the selector-driven reconciliation path. Two modes:
//
//   - The token still shows an untouched catalog sample: swap in the new
//     algorithm's sample wholesale, keys included.
//   - The token carries user content: keep it, patch the header alg claim,
//     and re-sign through the encode path.
//
// Callers hold the session lock and run inside a suppressed bus scope.
func (s *Session) algorithmLocked() {
	newAlg := s.surfaces.Algorithm.Selected()
	s.metrics.Inc(MetricAlgorithmSwitch)
	s.applyKeyVisibilityLocked(newAlg)

	if sample.IsDefault(s.surfaces.Token.Value()) {
		entry, ok := sample.Get(newAlg)
		if !ok {
			log.Print("jwtlens: no sample for selected algorithm")
			return
		}
		s.installSampleLocked(entry)
		s.emitTrace(traceEventAlgorithm, SurfaceAlgorithm, true, nil,
			map[string]string{"alg": newAlg, "mode": "sample"})
		return
	}

	hdr, err := jsonutil.ParseObject(s.surfaces.Header.Value())
	if err != nil {
		// Header is mid-edit; the encode path reports the syntax failure.
		s.encodeLocked(true)
		return
	}
	hdr["alg"] = newAlg
	if pretty, perr := jsonutil.Pretty(hdr); perr == nil {
		s.surfaces.Header.SetValue(pretty)
	}
	s.encodeLocked(true)
	s.emitTrace(traceEventAlgorithm, SurfaceAlgorithm, true, nil,
		map[string]string{"alg": newAlg, "mode": "patch"})
}
