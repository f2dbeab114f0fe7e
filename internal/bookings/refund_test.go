package bookings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRefundTiers(t *testing.T) {
	tests := []struct {
		name    string
		hours   float64
		wantPct int
		wantAmt float64
	}{
		{"well ahead", 240, 90, 900},
		{"exactly 72h", 72.0, 90, 900},
		{"just under 72h", 71.999, 70, 700},
		{"exactly 48h", 48.0, 70, 700},
		{"just under 48h", 47.999, 50, 500},
		{"exactly 24h", 24.0, 50, 500},
		{"80h worked example", 80, 90, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := CalculateRefund(1000, tt.hours)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, quote.Percentage)
			assert.Equal(t, tt.wantAmt, quote.Amount)
		})
	}
}

func TestCalculateRefundInsideWindow(t *testing.T) {
	for _, hours := range []float64{23.999, 1, 0, -5, math.NaN()} {
		_, err := CalculateRefund(1000, hours)
		assert.ErrorIs(t, err, ErrCancellationWindowClosed, "hours=%v", hours)
	}
}

func TestCalculateRefundRoundsToCents(t *testing.T) {
	quote, err := CalculateRefund(333.33, 50)
	require.NoError(t, err)
	assert.Equal(t, 233.33, quote.Amount)

	quote, err = CalculateRefund(0.05, 30)
	require.NoError(t, err)
	assert.Equal(t, 0.03, quote.Amount)
}
