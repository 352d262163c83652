package jwtlens

import (
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/jwtlens/alg"
	"github.com/MrEthical07/jwtlens/bus"
	"github.com/MrEthical07/jwtlens/store"
	"github.com/MrEthical07/jwtlens/surface"
)

// Builder assembles a Session. A Builder is single-use: a second Build
// reports ErrBuilderReused.
type Builder struct {
	config      Config
	store       Store
	redisClient redis.UniversalClient
	resolver    PublicKeyResolver
	indicator   Indicator
	traceSink   TraceSink
	layoutHook  LayoutHook
	built       bool
}

// New starts a builder with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithAlgorithm sets the bootstrap sample algorithm.
func (b *Builder) WithAlgorithm(id string) *Builder {
	b.config.Algorithm = id
	return b
}

// WithStore supplies the last-session store. Overrides WithRedis.
func (b *Builder) WithStore(s Store) *Builder {
	b.store = s
	return b
}

// WithRedis builds a redis-backed last-session store from the client, using
// the configured prefix and TTL.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redisClient = client
	return b
}

// WithResolver supplies the asynchronous public key resolver.
func (b *Builder) WithResolver(r PublicKeyResolver) *Builder {
	b.resolver = r
	return b
}

// WithIndicator supplies the verdict display component.
func (b *Builder) WithIndicator(i Indicator) *Builder {
	b.indicator = i
	return b
}

// WithTraceSink enables tracing into the given sink.
func (b *Builder) WithTraceSink(s TraceSink) *Builder {
	b.traceSink = s
	b.config.Trace.Enabled = true
	return b
}

// WithLayoutHook registers a callback invoked after key-material visibility
// changes.
func (b *Builder) WithLayoutHook(h LayoutHook) *Builder {
	b.layoutHook = h
	return b
}

// Build validates the configuration and assembles the session. The session
// is idle until Bootstrap seeds it.
func (b *Builder) Build() (*Session, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true

	cfg := b.config
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := b.store
	if st == nil && b.redisClient != nil {
		st = store.NewRedis(b.redisClient, cfg.Store.RedisPrefix, cfg.Store.TTL)
	}

	eventBus := bus.New()
	s := &Session{
		config:     cfg,
		id:         uuid.NewString(),
		bus:        eventBus,
		store:      st,
		resolver:   b.resolver,
		indicator:  b.indicator,
		layoutHook: b.layoutHook,
		trace:      newTraceDispatcher(cfg.Trace, b.traceSink),
		metrics:    NewMetrics(cfg.Metrics),
		surfaces: &Surfaces{
			Token:      surface.NewText(eventBus, SurfaceToken.topic()),
			Header:     surface.NewText(eventBus, SurfaceHeader.topic()),
			Payload:    surface.NewText(eventBus, SurfacePayload.topic()),
			Secret:     surface.NewText(eventBus, SurfaceSecret.topic()),
			PrivateKey: surface.NewText(eventBus, SurfacePrivateKey.topic()),
			PublicKey:  surface.NewText(eventBus, SurfacePublicKey.topic()),
			Algorithm:  surface.NewSelect(eventBus, SurfaceAlgorithm.topic(), alg.Known()),
			Base64:     surface.NewCheck(eventBus, SurfaceBase64.topic()),
		},
	}

	eventBus.Register(SurfaceToken.topic(), s.onTokenChange)
	eventBus.Register(SurfaceHeader.topic(), s.onDecomposedChange)
	eventBus.Register(SurfacePayload.topic(), s.onDecomposedChange)
	eventBus.Register(SurfaceSecret.topic(), s.onKeyMaterialChange)
	eventBus.Register(SurfacePrivateKey.topic(), s.onKeyMaterialChange)
	eventBus.Register(SurfacePublicKey.topic(), s.onKeyMaterialChange)
	eventBus.Register(SurfaceBase64.topic(), s.onKeyMaterialChange)
	eventBus.Register(SurfaceAlgorithm.topic(), s.onAlgorithmChange)

	return s, nil
}
