package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.Mongo.Database != "food_network" || cfg.NATS.Subject != "machines.status" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.Workers != 8 || cfg.DedupWindow != time.Hour {
		t.Fatalf("unexpected defaults: ttl=%s workers=%d", cfg.TokenTTL, cfg.Workers)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":             "production",
		"TOKEN_TTL":       "2h",
		"NATS_URL":        "nats://bus:4222",
		"TRACING_ENABLED": "true",
		"REDIS_DB":        "3",
	}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.IsDevelopment() || cfg.TokenTTL != 2*time.Hour || cfg.NATS.URL != "nats://bus:4222" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.Tracing.Enabled || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFrom_InvalidDuration(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"TOKEN_TTL": "soon"}))
	if err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
