package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captured(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestBookingHelpersWriteStructuredFields(t *testing.T) {
	l, buf := captured(slog.LevelInfo)

	ctx := ContextWith(context.Background(), slog.String("request_id", "req-1"))
	l.LogBookingCancelled(ctx, "b-1", "s-1", "u-1", 900)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Booking Cancelled", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "b-1", entry["booking_id"])
	assert.Equal(t, 900.0, entry["refund_amount"])
}

func TestLevelFiltersOutput(t *testing.T) {
	l, buf := captured(slog.LevelWarn)

	l.LogBookingCreated(context.Background(), "b-1", "s-1", "u-1", 2, 1000)
	assert.Zero(t, buf.Len())

	l.LogRateLimitExceeded(context.Background(), "192.0.2.1", "/api/v1/bookings")
	assert.Contains(t, buf.String(), `"endpoint":"/api/v1/bookings"`)
}

func TestContextWithAccumulates(t *testing.T) {
	l, buf := captured(slog.LevelInfo)

	ctx := ContextWith(context.Background(), slog.String("request_id", "req-9"))
	child := ContextWith(ctx, slog.String("user_id", "u-9"))
	l.InfoContext(child, "hello")
	l.InfoContext(ctx, "parent")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "u-9", first["user_id"])
	assert.Equal(t, "req-9", first["request_id"])
	assert.NotContains(t, second, "user_id")
}
