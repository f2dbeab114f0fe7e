package bookings

import (
	"math"
	"strconv"
)

// Refund tiers by hours remaining until departure
const (
	minCancellationHours = 24.0
	fullTierHours        = 72.0
	midTierHours         = 48.0

	fullTierPercent = 90
	midTierPercent  = 70
	lowTierPercent  = 50
)

type RefundQuote struct {
	Percentage int
	Amount     float64
}

// CalculateRefund prices a cancellation. Amounts are rounded to cents.
// Departures under 24 hours away return ErrCancellationWindowClosed.
func CalculateRefund(totalAmount, hoursToDeparture float64) (RefundQuote, error) {
	var pct int
	switch {
	case hoursToDeparture >= fullTierHours:
		pct = fullTierPercent
	case hoursToDeparture >= midTierHours:
		pct = midTierPercent
	case hoursToDeparture >= minCancellationHours:
		pct = lowTierPercent
	default:
		return RefundQuote{}, ErrCancellationWindowClosed
	}

	return RefundQuote{
		Percentage: pct,
		Amount:     math.Round(totalAmount*float64(pct)) / 100,
	}, nil
}

func (q RefundQuote) label() string {
	return strconv.Itoa(q.Percentage)
}
