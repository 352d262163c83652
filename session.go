package jwtlens

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/jwtlens/alg"
	"github.com/MrEthical07/jwtlens/bus"
	"github.com/MrEthical07/jwtlens/sample"
	"github.com/MrEthical07/jwtlens/surface"
	"github.com/MrEthical07/jwtlens/token"
)

// Surfaces groups the editable surfaces of one session. Edit through these;
// every write triggers the appropriate reconciliation cycle unless the bus is
// suppressed.
type Surfaces struct {
	Token      *surface.Text
	Header     *surface.Text
	Payload    *surface.Text
	Secret     *surface.Text
	PrivateKey *surface.Text
	PublicKey  *surface.Text
	Algorithm  *surface.Select
	Base64     *surface.Check
}

// Session keeps the encoded token, the decomposed surfaces, and the key
// material mutually consistent, and maintains a signature-validity verdict.
//
// All reconciliation runs under one internal lock, so concurrent edits from
// multiple goroutines serialize. Surface writes from bus handlers are
// suppressed and never re-enter the bus.
type Session struct {
	config     Config
	id         string
	bus        *bus.Bus
	surfaces   *Surfaces
	store      Store
	resolver   PublicKeyResolver
	indicator  Indicator
	layoutHook LayoutHook
	trace      *traceDispatcher
	metrics    *Metrics

	mu           sync.Mutex
	tokenGen     uint64
	verdict      Verdict
	bootstrapped bool

	closed atomic.Bool
	wg     sync.WaitGroup
}

const (
	traceEventDecode           = "decode_cycle"
	traceEventEncode           = "encode_cycle"
	traceEventAlgorithm        = "algorithm_switch"
	traceEventVerify           = "verify"
	traceEventResolveApplied   = "resolve_applied"
	traceEventResolveDiscarded = "resolve_discarded"
	traceEventBootstrap        = "bootstrap"
	traceEventPersistFailure   = "persist_failure"
)

// ID returns the session identifier stamped on trace events.
func (s *Session) ID() string {
	return s.id
}

// Surfaces returns the editable surfaces.
func (s *Session) Surfaces() *Surfaces {
	return s.surfaces
}

// Verdict returns the last settled verdict.
func (s *Session) Verdict() Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verdict
}

// MetricsSnapshot copies the session counters.
func (s *Session) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// TraceDropped reports how many trace events were dropped on a full buffer.
func (s *Session) TraceDropped() uint64 {
	return s.trace.Dropped()
}

// Close stops background work. In-flight resolutions finish (and are
// discarded), then the trace dispatcher drains.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.wg.Wait()
	s.trace.Close()
}

func (s *Session) onTokenChange() {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.WithSuppressed(s.decodeLocked)
}

func (s *Session) onDecomposedChange() {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.WithSuppressed(func() { s.encodeLocked(false) })
}

func (s *Session) onAlgorithmChange() {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.WithSuppressed(s.algorithmLocked)
}

// Key material edits never re-sign the current token; they only change what
// the signature is judged against. Re-signing happens when the decomposed
// content itself is edited.
func (s *Session) onKeyMaterialChange() {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.WithSuppressed(s.verifyLocked)
}

// keyMaterialLocked assembles the active key material for the algorithm.
func (s *Session) keyMaterialLocked(algID string) token.Key {
	return token.Key{
		Algorithm:      algID,
		Secret:         []byte(s.surfaces.Secret.Value()),
		SecretIsBase64: s.surfaces.Base64.Checked(),
		PrivateKeyPEM:  []byte(s.surfaces.PrivateKey.Value()),
		PublicKeyPEM:   []byte(s.surfaces.PublicKey.Value()),
	}
}

// applyKeyVisibilityLocked shows the key surfaces that match the algorithm
// family and hides the rest, then lets the host relayout.
func (s *Session) applyKeyVisibilityLocked(algID string) {
	shared := alg.IsSharedSecret(algID)
	s.surfaces.Secret.SetVisible(shared)
	s.surfaces.Base64.SetVisible(shared)
	s.surfaces.PrivateKey.SetVisible(!shared)
	s.surfaces.PublicKey.SetVisible(!shared)
	if s.layoutHook != nil {
		s.layoutHook()
	}
}

// persistLocked saves the encoded token and public key, best effort.
func (s *Session) persistLocked() {
	if s.store == nil || !s.config.Store.PersistLast {
		return
	}
	rec := LastSession{
		Token:     s.surfaces.Token.Value(),
		PublicKey: s.surfaces.PublicKey.Value(),
	}
	if err := s.store.SaveLast(context.Background(), s.config.Store.Namespace, rec); err != nil {
		s.metrics.Inc(MetricPersistFailure)
		log.Print("jwtlens: last-session save failed")
		s.emitTrace(traceEventPersistFailure, SurfaceToken, false, err, nil)
	}
}

func (s *Session) setVerdictLocked(v Verdict) {
	s.verdict = v
	if v.Valid {
		s.surfaces.Token.ClearError()
		s.surfaces.Header.ClearError()
		s.surfaces.Payload.ClearError()
		s.surfaces.Secret.ClearError()
		s.surfaces.PrivateKey.ClearError()
		s.surfaces.PublicKey.ClearError()
	} else if t := s.textSurface(v.Surface); t != nil {
		t.MarkError()
	}
	if s.indicator != nil {
		s.indicator.SetVerdict(v)
	}
}

func (s *Session) textSurface(id SurfaceID) *surface.Text {
	switch id {
	case SurfaceToken:
		return s.surfaces.Token
	case SurfaceHeader:
		return s.surfaces.Header
	case SurfacePayload:
		return s.surfaces.Payload
	case SurfaceSecret:
		return s.surfaces.Secret
	case SurfacePrivateKey:
		return s.surfaces.PrivateKey
	case SurfacePublicKey:
		return s.surfaces.PublicKey
	default:
		return nil
	}
}

func (s *Session) emitTrace(eventType string, id SurfaceID, success bool, err error, metadata map[string]string) {
	if s.trace == nil {
		return
	}
	event := TraceEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		SessionID: s.id,
		Surface:   id.String(),
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.trace.Emit(context.Background(), event)
}

// installSampleLocked writes a catalog entry onto every key surface and the
// token, then runs the decode path so header and payload fill in.
func (s *Session) installSampleLocked(entry sample.Entry) {
	s.surfaces.Secret.SetValue(entry.Secret)
	s.surfaces.Base64.SetChecked(entry.SecretIsBase64)
	s.surfaces.PrivateKey.SetValue(entry.PrivateKeyPEM)
	s.surfaces.PublicKey.SetValue(entry.PublicKeyPEM)
	s.surfaces.Token.SetValue(entry.Token)
	s.decodeLocked()
}

// signingSurface names the surface blamed when signing fails under the
// current algorithm family.
func signingSurface(algID string) SurfaceID {
	if alg.IsSharedSecret(algID) {
		return SurfaceSecret
	}
	return SurfacePrivateKey
}

// verifySurface names the surface blamed when verification fails.
func verifySurface(algID string) SurfaceID {
	if alg.IsSharedSecret(algID) {
		return SurfaceSecret
	}
	return SurfacePublicKey
}

func currentToken(s *surface.Text) string {
	return strings.TrimSpace(s.Value())
}
