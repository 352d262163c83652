package jwtlens

import (
	"context"
	"testing"

	"github.com/MrEthical07/jwtlens/sample"
	"github.com/MrEthical07/jwtlens/store"
	"github.com/MrEthical07/jwtlens/token"
)

func TestBootstrapRestoresPersistedSession(t *testing.T) {
	mem := store.NewMemory()
	entry, _ := sample.Get("HS256")

	saved, err := token.Sign(
		map[string]any{"alg": "HS256", "typ": "JWT"},
		map[string]any{"sub": "restored-user"},
		token.Key{Algorithm: "HS256", Secret: []byte(entry.Secret)},
	)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if err := mem.SaveLast(context.Background(), "default", store.LastSession{
		Token:     saved,
		PublicKey: "-----BEGIN PUBLIC KEY-----\nsaved\n-----END PUBLIC KEY-----\n",
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	s := newTestSession(t, func(b *Builder) {
		b.config.Store.RestoreLast = true
		b.WithStore(mem)
	})
	sf := s.Surfaces()

	if sf.Token.Value() != saved {
		t.Fatal("persisted token not restored")
	}
	if sf.PublicKey.Value() == "" {
		t.Fatal("persisted public key not restored")
	}
	snap := s.MetricsSnapshot().Counters
	if snap[MetricBootstrapRestored] != 1 || snap[MetricBootstrapSample] != 0 {
		t.Fatalf("bootstrap counters wrong: %v", snap)
	}
}

func TestBootstrapFallsBackToSampleOnEmptyStore(t *testing.T) {
	s := newTestSession(t, func(b *Builder) {
		b.config.Store.RestoreLast = true
		b.WithStore(store.NewMemory())
	})

	entry, _ := sample.Get("HS256")
	if s.Surfaces().Token.Value() != entry.Token {
		t.Fatal("empty store must fall back to the sample")
	}
	if s.MetricsSnapshot().Counters[MetricBootstrapSample] != 1 {
		t.Fatal("sample bootstrap not counted")
	}
}

func TestBootstrapRunsOnce(t *testing.T) {
	s := newTestSession(t)
	base := s.MetricsSnapshot().Counters[MetricDecodeCycle]

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("second bootstrap errored: %v", err)
	}
	if s.MetricsSnapshot().Counters[MetricDecodeCycle] != base {
		t.Fatal("second bootstrap ran another cycle")
	}
}

func TestBootstrapHonorsConfiguredAlgorithm(t *testing.T) {
	s := newTestSession(t, func(b *Builder) { b.WithAlgorithm("EdDSA") })
	sf := s.Surfaces()

	entry, _ := sample.Get("EdDSA")
	if sf.Token.Value() != entry.Token {
		t.Fatal("EdDSA sample not installed")
	}
	if sf.Algorithm.Selected() != "EdDSA" {
		t.Fatalf("selector = %q, want EdDSA", sf.Algorithm.Selected())
	}
	if !s.Verdict().Valid {
		t.Fatalf("verdict = %+v, want valid", s.Verdict())
	}
}

func TestEveryCyclePersistsLastSession(t *testing.T) {
	mem := store.NewMemory()
	s := newTestSession(t, func(b *Builder) {
		b.config.Store.PersistLast = true
		b.WithStore(mem)
	})

	s.Surfaces().Payload.SetValue(`{"sub": "persisted"}`)

	last, err := mem.LoadLast(context.Background(), "default")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if last == nil || last.Token != s.Surfaces().Token.Value() {
		t.Fatalf("store does not hold the current token: %+v", last)
	}
}

func TestClosedSessionRejectsBootstrap(t *testing.T) {
	s, err := New().WithStore(store.NewMemory()).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	s.Close()
	if err := s.Bootstrap(context.Background()); err != ErrSessionClosed {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
}
