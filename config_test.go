package jwtlens

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Algorithm != "HS256" {
		t.Fatalf("default algorithm = %q, want HS256", cfg.Algorithm)
	}
}

func TestValidateRejectsUnknownAlgorithm(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Algorithm = "HS1024"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown algorithm accepted")
	}
}

func TestValidateRejectsNegativeTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.TTL = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative TTL accepted")
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Namespace = ""
	cfg.Store.RedisPrefix = ""
	cfg.normalize()
	if cfg.Store.Namespace != "default" || cfg.Store.RedisPrefix != "jwtlens" {
		t.Fatalf("normalize left %q / %q", cfg.Store.Namespace, cfg.Store.RedisPrefix)
	}
}
