package jwtlens

import (
	"context"
	"log"

	"github.com/MrEthical07/jwtlens/sample"
)

// Bootstrap seeds the session: the persisted last session when restore is
// configured and a record exists, otherwise the built-in sample for the
// configured algorithm. Either way a full decode cycle runs, so the session
// never starts with blank surfaces. Bootstrap is idempotent.
func (s *Session) Bootstrap(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bootstrapped {
		return nil
	}
	s.bootstrapped = true

	if s.store != nil && s.config.Store.RestoreLast {
		last, err := s.store.LoadLast(ctx, s.config.Store.Namespace)
		if err != nil {
			log.Print("jwtlens: last-session restore failed, using sample")
		}
		if last != nil && last.Token != "" {
			s.bus.WithSuppressed(func() {
				if last.PublicKey != "" {
					s.surfaces.PublicKey.SetValue(last.PublicKey)
				}
				s.surfaces.Token.SetValue(last.Token)
				s.decodeLocked()
			})
			s.metrics.Inc(MetricBootstrapRestored)
			s.emitTrace(traceEventBootstrap, SurfaceToken, true, nil,
				map[string]string{"source": "store"})
			return nil
		}
	}

	entry, ok := sample.Get(s.config.Algorithm)
	if !ok {
		return ErrSampleUnavailable
	}
	s.bus.WithSuppressed(func() {
		s.surfaces.Algorithm.SetSelected(s.config.Algorithm)
		s.applyKeyVisibilityLocked(s.config.Algorithm)
		s.installSampleLocked(entry)
	})
	s.metrics.Inc(MetricBootstrapSample)
	s.emitTrace(traceEventBootstrap, SurfaceToken, true, nil,
		map[string]string{"source": "sample", "alg": s.config.Algorithm})
	return nil
}
