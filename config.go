package jwtlens

import (
	"fmt"
	"time"

	"github.com/MrEthical07/jwtlens/alg"
)

// Config carries all tunables of a session. Zero value is not usable; start
// from DefaultConfig and adjust.
type Config struct {
	// Algorithm selects the sample loaded at bootstrap when no persisted
	// session is restored.
	Algorithm string

	Store    StoreConfig
	Resolver ResolverConfig
	Trace    TraceConfig
	Metrics  MetricsConfig
}

// StoreConfig controls last-session persistence. Persistence is best-effort:
// store failures are logged and counted, never surfaced to the caller.
type StoreConfig struct {
	// PersistLast saves the token and public key after every successful
	// reconciliation cycle.
	PersistLast bool
	// RestoreLast loads the persisted record at bootstrap instead of the
	// default sample.
	RestoreLast bool
	// Namespace isolates persisted records, e.g. per user. Empty means
	// "default".
	Namespace string
	// RedisPrefix namespaces redis keys when the session builds its own
	// redis store. Empty means "jwtlens".
	RedisPrefix string
	// TTL expires persisted records. Zero keeps them forever.
	TTL time.Duration
}

// ResolverConfig controls asynchronous public key resolution for key-pair
// algorithms.
type ResolverConfig struct {
	Enabled bool
	// DiscardStale drops a resolution result when the token changed while
	// the resolution was in flight.
	DiscardStale bool
}

// TraceConfig controls the asynchronous trace event stream.
type TraceConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking when the buffer is full.
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
	// EnableLatencyHistograms additionally buckets verify latency.
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used when the builder is given
// nothing else: HS256 sample, persistence and resolution on, tracing off,
// metrics on.
func DefaultConfig() Config {
	return Config{
		Algorithm: "HS256",
		Store: StoreConfig{
			PersistLast: true,
			RestoreLast: true,
			Namespace:   "default",
			RedisPrefix: "jwtlens",
		},
		Resolver: ResolverConfig{
			Enabled:      true,
			DiscardStale: true,
		},
		Trace: TraceConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if !alg.IsKnown(c.Algorithm) {
		return fmt.Errorf("config: bootstrap algorithm %q: %w", c.Algorithm, ErrUnknownAlgorithm)
	}
	if c.Trace.Enabled && c.Trace.BufferSize < 0 {
		return fmt.Errorf("config: trace buffer size must not be negative")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("config: store TTL must not be negative")
	}
	return nil
}

func (c *Config) normalize() {
	if c.Store.Namespace == "" {
		c.Store.Namespace = "default"
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = "jwtlens"
	}
}
