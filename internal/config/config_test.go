package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VOTE_LOCK_TTL", "750ms")
	t.Setenv("PRODUCT_CACHE_TTL", "30")

	cfg := Load()

	assert.Equal(t, "memory", cfg.Database.StoreDriver)
	assert.Equal(t, 750*time.Millisecond, cfg.Vote.LockTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.ProductTTL)
	assert.Equal(t, "VOTE_RECONCILE", cfg.Vote.ReconcileTopic)
}

func TestGetEnvAsDurationFallback(t *testing.T) {
	t.Setenv("SOME_TTL", "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration("SOME_TTL", time.Minute))
}
