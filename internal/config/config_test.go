package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("COFFEE_BFF_CONFIG", "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "http://localhost:8090", cfg.CoffeeMakerURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestNewConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bff.yaml")
	content := `
http_port: "9000"
coffeemaker_url: http://coffee.internal:8080/
upstream_timeout: 2s
redis_addr: redis:6379
cors_origins:
  - http://localhost:3000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("COFFEE_BFF_CONFIG", path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("BREAKER_THRESHOLD", "2")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.HTTPPort)
	assert.Equal(t, "http://coffee.internal:8080", cfg.CoffeeMakerURL)
	assert.Equal(t, 2*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.BreakerThreshold)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestNewConfigMissingFile(t *testing.T) {
	t.Setenv("COFFEE_BFF_CONFIG", "/non/existent/bff.yaml")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("COFFEE_BFF_CONFIG", "")
	t.Setenv("RATE_LIMIT", "0")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewConfigRejectsNonPositiveDurations(t *testing.T) {
	for _, key := range []string{"UPSTREAM_TIMEOUT", "BREAKER_COOLDOWN", "RATE_WINDOW"} {
		for _, value := range []string{"0s", "-1s"} {
			t.Run(key+"="+value, func(t *testing.T) {
				t.Setenv("COFFEE_BFF_CONFIG", "")
				t.Setenv(key, value)

				_, err := NewConfig()
				assert.Error(t, err)
			})
		}
	}
}

func TestNewConfigRejectsZeroTimeoutFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("upstream_timeout: 0s\n"), 0o600))
	t.Setenv("COFFEE_BFF_CONFIG", path)

	_, err := NewConfig()
	assert.ErrorContains(t, err, "upstream timeout")
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("COFFEE_BFF_CONFIG", "")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
