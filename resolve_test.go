package jwtlens

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/jwtlens/sample"
)

type stubResolver struct {
	release chan struct{}
	pem     string
	err     error
	calls   atomic.Int32
}

func (r *stubResolver) Resolve(ctx context.Context, header, payload map[string]any) (string, error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	return r.pem, r.err
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func resolverSession(t *testing.T, r PublicKeyResolver) *Session {
	t.Helper()
	return newTestSession(t, func(b *Builder) {
		b.config.Resolver.Enabled = true
		b.config.Resolver.DiscardStale = true
		b.WithResolver(r)
	})
}

func TestResolutionWritesPublicKey(t *testing.T) {
	r := &stubResolver{pem: "-----BEGIN PUBLIC KEY-----\nresolved\n-----END PUBLIC KEY-----\n"}
	s := resolverSession(t, r)

	entry, _ := sample.Get("RS256")
	s.Surfaces().Token.SetValue(entry.Token)

	waitFor(t, "resolution to apply", func() bool {
		return s.MetricsSnapshot().Counters[MetricResolveApplied] == 1
	})
	if s.Surfaces().PublicKey.Value() != r.pem {
		t.Fatal("resolved key not written to the public key surface")
	}
}

func TestResolutionNotSpawnedForSharedSecret(t *testing.T) {
	r := &stubResolver{pem: "irrelevant"}
	s := resolverSession(t, r)

	entry, _ := sample.Get("HS512")
	s.Surfaces().Token.SetValue(entry.Token)
	s.Close()

	if r.calls.Load() != 0 {
		t.Fatal("resolver must not run for shared-secret algorithms")
	}
}

func TestStaleResolutionDiscarded(t *testing.T) {
	r := &stubResolver{
		release: make(chan struct{}),
		pem:     "stale-pem",
	}
	s := resolverSession(t, r)
	sf := s.Surfaces()

	rs, _ := sample.Get("RS256")
	sf.Token.SetValue(rs.Token)
	waitFor(t, "resolver to be called", func() bool { return r.calls.Load() == 1 })

	// A newer token arrives while the lookup is still in flight.
	hs, _ := sample.Get("HS256")
	sf.Token.SetValue(hs.Token)
	publicBefore := sf.PublicKey.Value()

	close(r.release)
	waitFor(t, "stale result to be discarded", func() bool {
		return s.MetricsSnapshot().Counters[MetricResolveDiscarded] == 1
	})
	if sf.PublicKey.Value() != publicBefore {
		t.Fatal("stale resolution result was applied")
	}
	if s.MetricsSnapshot().Counters[MetricResolveApplied] != 0 {
		t.Fatal("stale resolution counted as applied")
	}
}

func TestResolverFailureIsCountedAndSwallowed(t *testing.T) {
	r := &stubResolver{err: context.DeadlineExceeded}
	s := resolverSession(t, r)

	// Installing the ES256 sample decodes it, which spawns a resolution.
	if !s.Surfaces().Algorithm.SetSelected("ES256") {
		t.Fatal("selector rejected ES256")
	}

	waitFor(t, "resolver failure to be counted", func() bool {
		return s.MetricsSnapshot().Counters[MetricResolveFailed] == 1
	})
	// The session keeps working.
	if !s.Verdict().Valid {
		t.Fatalf("verdict = %+v, want the sample still valid", s.Verdict())
	}
}

func TestEmptyResolutionIsIgnored(t *testing.T) {
	r := &stubResolver{}
	s := resolverSession(t, r)

	if !s.Surfaces().Algorithm.SetSelected("RS384") {
		t.Fatal("selector rejected RS384")
	}
	entry, _ := sample.Get("RS384")

	waitFor(t, "resolver to finish", func() bool { return r.calls.Load() == 1 })
	s.Close()

	snap := s.MetricsSnapshot().Counters
	if snap[MetricResolveApplied] != 0 || snap[MetricResolveDiscarded] != 0 {
		t.Fatalf("empty resolution must be a no-op, got %v", snap)
	}
	if s.Surfaces().PublicKey.Value() != entry.PublicKeyPEM {
		t.Fatal("public key surface changed on empty resolution")
	}
}
