package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_GivesUpWithoutTrailingPause(t *testing.T) {
	var pauses []time.Duration
	orig := sleep
	sleep = func(d time.Duration) { pauses = append(pauses, d) }
	t.Cleanup(func() { sleep = orig })

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = "1" // nothing listens here
	cfg.SSLMode = "disable"

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, cfg, nil)
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "connect to postgres")
	assert.Equal(t, []time.Duration{retryDelay, retryDelay, retryDelay, retryDelay}, pauses)
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "tickets", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=tickets sslmode=disable", cfg.DSN())
}
