package notifications

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"busly/internal/bookings"
	"busly/internal/schedules"
)

const displayTimeLayout = "Mon 02 Jan 2006 15:04 MST"

// Submitter queues a notification without waiting for delivery
type Submitter interface {
	Submit(n *EmailNotification) error
}

// BookingNotifier turns booking events into queued emails
type BookingNotifier struct {
	submitter Submitter
}

var _ bookings.Notifier = (*BookingNotifier)(nil)

func NewBookingNotifier(submitter Submitter) *BookingNotifier {
	return &BookingNotifier{submitter: submitter}
}

func (bn *BookingNotifier) SendBookingConfirmation(_ context.Context, booking *bookings.Booking, schedule *schedules.Schedule) error {
	if schedule == nil {
		schedule = booking.Schedule
	}

	data := map[string]interface{}{
		"booking_ref":     booking.BookingRef,
		"route":           routeLabel(schedule),
		"departure":       departureLabel(schedule),
		"seats":           strings.Join(booking.SeatNumbers(), ", "),
		"passenger_count": strconv.Itoa(len(booking.Passengers)),
		"total_amount":    formatAmount(booking.TotalAmount),
	}

	subject := fmt.Sprintf("Booking confirmed: %s (%s)", routeLabel(schedule), booking.BookingRef)
	n := NewEmailNotification(NotificationTypeBookingConfirmed, booking.ID, recipientOf(booking), subject, data)

	return bn.submitter.Submit(n)
}

func (bn *BookingNotifier) SendCancellationConfirmation(_ context.Context, booking *bookings.Booking, refund *bookings.RefundDetails) error {
	if refund == nil {
		return fmt.Errorf("refund details are required for booking %s", booking.ID)
	}

	data := map[string]interface{}{
		"booking_ref":       booking.BookingRef,
		"route":             routeLabel(booking.Schedule),
		"cancelled_at":      refund.CancelledAt.UTC().Format(displayTimeLayout),
		"refund_amount":     formatAmount(refund.RefundAmount),
		"refund_percentage": strconv.Itoa(refund.RefundPercentage),
		"refund_status":     string(refund.RefundStatus),
		"total_amount":      formatAmount(refund.TotalAmount),
		"reason":            refund.Reason,
	}

	n := NewEmailNotification(NotificationTypeBookingCancelled, booking.ID, recipientOf(booking), "Booking cancelled: "+booking.BookingRef, data)

	return bn.submitter.Submit(n)
}

// recipientOf mails the booking's contact address, greeting the account holder
// by name when the user row was loaded
func recipientOf(b *bookings.Booking) Recipient {
	to := Recipient{UserID: b.UserID, Email: b.ContactDetails.Email, Name: "traveller"}
	switch {
	case b.User != nil && b.User.Name != "":
		to.Name = b.User.Name
	case len(b.Passengers) > 0:
		to.Name = b.Passengers[0].Name
	}
	return to
}

func routeLabel(s *schedules.Schedule) string {
	if s == nil || s.Route == nil {
		return "your trip"
	}
	return s.Route.Source + " to " + s.Route.Destination
}

func departureLabel(s *schedules.Schedule) string {
	if s == nil || s.DepartureTime.IsZero() {
		return "-"
	}
	return s.DepartureTime.In(time.UTC).Format(displayTimeLayout)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
