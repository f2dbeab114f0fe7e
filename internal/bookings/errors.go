package bookings

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSeatAlreadyBooked = errors.New("seat already booked")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")

	// ErrCancellationWindowClosed is returned for departures less than 24 hours away
	ErrCancellationWindowClosed = errors.New("cancellation window closed")

	ErrLockTimeout = errors.New("timed out waiting for schedule lock")
)

// Client-facing messages
const (
	msgFieldsRequired      = "all fields are required"
	msgScheduleNotFound    = "Schedule not found"
	msgSeatsAlreadyBooked  = "One or more selected seats are already booked"
	msgSeatsBusy           = "Selected seats are being booked by another request, please retry"
	msgBookingNotFound     = "Booking not found"
	msgListForbidden       = "Not authorized to access these bookings"
	msgBookingForbidden    = "Not authorized to access this booking"
	msgCancelWindowClosed  = "Booking cannot be cancelled within 24 hours of departure"
	msgAlreadyCancelled    = "booking is already cancelled"
	msgScheduleDeparted    = "Schedule has already departed"
	msgTicketNotAvailable  = "Only confirmed bookings have an e-ticket"
	msgDuplicateSeats      = "duplicate seat numbers in request"
	msgSeatPriceMismatch   = "seat price does not match schedule price"
	msgPassengerMismatch   = "number of passengers must match number of seats"
	msgTooManySeats        = "too many seats in one booking"
	msgInvalidScheduleID   = "invalid schedule id"
	msgInvalidStatusFilter = "invalid status filter"
)
