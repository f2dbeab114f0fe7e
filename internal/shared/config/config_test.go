package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.True(t, cfg.Booking.EnforceSchedulePrice)
	assert.True(t, cfg.Booking.EnforcePassengerCount)
	assert.Equal(t, 10, cfg.Booking.MaxSeatsPerBooking)
	assert.False(t, cfg.KafkaEnabled())
	assert.Contains(t, cfg.Database.DSN, "dbname=busly_db")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 5, cfg.Database.ConnectRetries)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_VERSION", "v2")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("BOOKING_ENFORCE_SCHEDULE_PRICE", "false")
	t.Setenv("BOOKING_MAX_SEATS", "4")
	t.Setenv("REDIS_SEAT_LOCK_TTL", "30s")
	t.Setenv("JWT_EXPIRES_IN", "120")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("DB_SLOW_QUERY", "1s")

	cfg := Load()

	assert.Equal(t, "/api/v2", cfg.GetAPIBasePath())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.False(t, cfg.Booking.EnforceSchedulePrice)
	assert.Equal(t, 4, cfg.Booking.MaxSeatsPerBooking)
	assert.Equal(t, 30*time.Second, cfg.Redis.SeatLockTTL)
	assert.Equal(t, 2*time.Minute, cfg.JWT.JWTExpiresIn)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, time.Second, cfg.Database.SlowQuery)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.RateLimit.Enabled)
}
