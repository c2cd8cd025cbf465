package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg := loadConfigFromEnv()

	assert.Equal(t, 9.03, cfg.Fleet.CenterLatitude)
	assert.Equal(t, 38.74, cfg.Fleet.CenterLongitude)
	assert.Equal(t, 0.05, cfg.Fleet.HalfWidthDeg)
	assert.Equal(t, 10*time.Second, cfg.Fleet.PositionInterval)
	assert.Equal(t, 60*time.Second, cfg.Fleet.StatusInterval)
	assert.Equal(t, 5*time.Second, cfg.Fleet.BroadcastInterval)
	assert.Equal(t, 2.0, cfg.Notification.DistanceThresholdKm)
	assert.Equal(t, 5.0, cfg.Notification.ETAThresholdMinutes)
	assert.Equal(t, "memory", cfg.Bus.Transport)
	assert.Equal(t, "straight", cfg.Maps.Estimator)
	assert.Equal(t, 2*time.Second, cfg.Maps.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Notification.ArrivalWindow)

	require.NoError(t, Validate(cfg))
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("FLEET_SEED", "42")
	t.Setenv("FLEET_POSITION_INTERVAL", "250ms")
	t.Setenv("FLEET_STATUS_INTERVAL", "3")
	t.Setenv("BUS_TRANSPORT", "nats")

	cfg := loadConfigFromEnv()

	assert.Equal(t, int64(42), cfg.Fleet.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Fleet.PositionInterval)
	assert.Equal(t, 3*time.Second, cfg.Fleet.StatusInterval)
	assert.Equal(t, "nats", cfg.Bus.Transport)
}

func TestValidate(t *testing.T) {
	t.Run("unknown bus transport", func(t *testing.T) {
		cfg := loadConfigFromEnv()
		cfg.Bus.Transport = "kafka"
		assert.Error(t, Validate(cfg))
	})

	t.Run("probability out of range", func(t *testing.T) {
		cfg := loadConfigFromEnv()
		cfg.Fleet.StatusChangeProb = 1.5
		assert.Error(t, Validate(cfg))
	})

	t.Run("google estimator without key", func(t *testing.T) {
		cfg := loadConfigFromEnv()
		cfg.Maps.Estimator = "google"
		assert.Error(t, Validate(cfg))
	})
}

func TestGetEnvHelpers(t *testing.T) {
	os.Unsetenv("BUSFLEET_TEST_MISSING")
	assert.Equal(t, "fallback", GetEnv("BUSFLEET_TEST_MISSING", "fallback"))

	t.Setenv("BUSFLEET_TEST_INT", "not-a-number")
	assert.Equal(t, 7, GetEnvAsInt("BUSFLEET_TEST_INT", 7))

	t.Setenv("BUSFLEET_TEST_BOOL", "true")
	assert.True(t, GetEnvAsBool("BUSFLEET_TEST_BOOL", false))

	t.Setenv("BUSFLEET_TEST_DURATION", "bogus")
	assert.Equal(t, time.Minute, GetEnvAsDuration("BUSFLEET_TEST_DURATION", time.Minute))
}
