package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"busly/internal/metrics"
	"busly/internal/schedules"
	"busly/internal/shared/apperror"
	"busly/internal/shared/config"
	"busly/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/samber/lo"
)

const (
	maxListLimit = 100
	priceTolerance   = 0.005
)

// ScheduleLookup is the read-only schedule store as seen by bookings
type ScheduleLookup interface {
	GetSchedule(ctx context.Context, id uuid.UUID) (*schedules.Schedule, error)
}

// Notifier sends booking emails. Implementations must not block on delivery.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking *Booking, schedule *schedules.Schedule) error
	SendCancellationConfirmation(ctx context.Context, booking *Booking, refund *RefundDetails) error
}

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*Booking, error)
	GetUserBookings(ctx context.Context, callerID, userID uuid.UUID, q ListQuery) ([]Booking, error)
	GetBooking(ctx context.Context, callerID, bookingID uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, callerID, bookingID uuid.UUID, reason string) (*Booking, *RefundDetails, error)
	RenderTicket(ctx context.Context, callerID, bookingID uuid.UUID) ([]byte, string, error)
}

type service struct {
	repo      Repository
	schedules ScheduleLookup
	notifier  Notifier
	locker    SeatLocker // optional
	policy    config.BookingConfig
	validate  *validator.Validate
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, scheduleLookup ScheduleLookup, notifier Notifier, locker SeatLocker, policy config.BookingConfig) Service {
	return &service{
		repo:      repo,
		schedules: scheduleLookup,
		notifier:  notifier,
		locker:    locker,
		policy:    policy,
		validate:  validator.New(),
		logger:    logger.GetDefault(),
		now:       time.Now,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*Booking, error) {
	start := time.Now()
	defer func() { metrics.BookingCreateDuration.Observe(time.Since(start).Seconds()) }()

	scheduleID, err := s.validateCreate(userID, req)
	if err != nil {
		return nil, err
	}

	schedule, err := s.schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, schedules.ErrScheduleNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, msgScheduleNotFound, err)
		}
		return nil, apperror.Internal("failed to load schedule", err)
	}
	if !schedule.DepartureTime.After(s.now()) {
		return nil, apperror.Policy(msgScheduleDeparted)
	}
	if s.policy.EnforceSchedulePrice {
		for _, seat := range req.Seats {
			if math.Abs(seat.Price-schedule.Price) > priceTolerance {
				return nil, apperror.Validation(msgSeatPriceMismatch)
			}
		}
	}

	seatNumbers := lo.Map(req.Seats, func(seat SeatSelection, _ int) string { return normalizeSeat(seat.SeatNumber) })

	unlock := func() {}
	if s.locker != nil {
		release, err := s.locker.Lock(ctx, scheduleID)
		switch {
		case err == nil:
			unlock = release
		case errors.Is(err, ErrLockTimeout):
			metrics.SeatConflicts.WithLabelValues("lock").Inc()
			return nil, apperror.Wrap(apperror.KindConflict, msgSeatsBusy, err)
		case ctx.Err() != nil:
			return nil, apperror.Internal("request cancelled while waiting for seats", err)
		default:
			// the seat index still guarantees exclusion
			s.logger.Warn("Schedule lock unavailable, continuing without it",
				"schedule_id", scheduleID.String(), "error", err)
		}
	}

	booking, err := s.insertBooking(ctx, userID, scheduleID, req, seatNumbers, unlock)
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.logger.LogBookingCreated(ctx, booking.ID.String(), scheduleID.String(), userID.String(), len(booking.Seats), booking.TotalAmount)

	enriched, err := s.repo.GetByIDWithRelations(ctx, booking.ID)
	if err != nil {
		s.logger.Warn("Failed to enrich new booking, returning stored record",
			"booking_id", booking.ID.String(), "error", err)
		booking.Schedule = schedule
		enriched = booking
	}

	if err := s.notifier.SendBookingConfirmation(ctx, enriched, schedule); err != nil {
		metrics.NotificationFailures.WithLabelValues("booking_confirmation", "submit").Inc()
		s.logger.LogNotificationFailure(ctx, "booking_confirmation", booking.ID.String(), err)
	}

	return enriched, nil
}

// insertBooking runs the precheck and the insert while the schedule lock is
// held, and releases the lock as soon as the insert has returned.
func (s *service) insertBooking(ctx context.Context, userID, scheduleID uuid.UUID, req *CreateBookingRequest, seatNumbers []string, unlock func()) (*Booking, error) {
	defer unlock()

	taken, err := s.repo.FindConflictingSeats(ctx, scheduleID, seatNumbers)
	if err != nil {
		return nil, apperror.Internal("failed to check seat availability", err)
	}
	if len(taken) > 0 {
		metrics.SeatConflicts.WithLabelValues("precheck").Inc()
		s.logger.LogSeatConflict(ctx, scheduleID.String(), taken)
		return nil, apperror.Conflict(msgSeatsAlreadyBooked)
	}

	booking := s.buildBooking(userID, scheduleID, req, seatNumbers)
	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, ErrSeatAlreadyBooked) {
			metrics.SeatConflicts.WithLabelValues("constraint").Inc()
			s.logger.LogSeatConflict(ctx, scheduleID.String(), seatNumbers)
			return nil, apperror.Wrap(apperror.KindConflict, msgSeatsAlreadyBooked, err)
		}
		return nil, apperror.Internal("failed to create booking", err)
	}
	return booking, nil
}

// validateCreate checks presence first so a missing field always yields the same message
func (s *service) validateCreate(userID uuid.UUID, req *CreateBookingRequest) (uuid.UUID, error) {
	if req == nil || userID == uuid.Nil || strings.TrimSpace(req.ScheduleID) == "" ||
		len(req.Seats) == 0 || len(req.Passengers) == 0 || req.ContactDetails == nil ||
		strings.TrimSpace(req.ContactDetails.Email) == "" || strings.TrimSpace(req.ContactDetails.Phone) == "" {
		return uuid.Nil, apperror.Validation(msgFieldsRequired)
	}

	scheduleID, err := uuid.Parse(strings.TrimSpace(req.ScheduleID))
	if err != nil {
		return uuid.Nil, apperror.Validation(msgInvalidScheduleID)
	}

	if err := s.validate.Struct(req); err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KindValidation, "invalid booking details: "+describeValidation(err), err)
	}
	if err := s.validate.Struct(req.ContactDetails); err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KindValidation, "invalid contact details: "+describeValidation(err), err)
	}

	if s.policy.MaxSeatsPerBooking > 0 && len(req.Seats) > s.policy.MaxSeatsPerBooking {
		return uuid.Nil, apperror.Validation(msgTooManySeats)
	}

	dupes := lo.FindDuplicatesBy(req.Seats, func(seat SeatSelection) string { return normalizeSeat(seat.SeatNumber) })
	if len(dupes) > 0 {
		return uuid.Nil, apperror.Validation(msgDuplicateSeats)
	}

	if s.policy.EnforcePassengerCount && len(req.Passengers) != len(req.Seats) {
		return uuid.Nil, apperror.Validation(msgPassengerMismatch)
	}

	return scheduleID, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	})
	return strings.Join(fields, "; ")
}

func normalizeSeat(seat string) string {
	return strings.ToUpper(strings.TrimSpace(seat))
}

func (s *service) buildBooking(userID, scheduleID uuid.UUID, req *CreateBookingRequest, seatNumbers []string) *Booking {
	booking := &Booking{
		ID:            uuid.New(),
		BookingRef:    generateBookingRef(s.now()),
		UserID:        userID,
		ScheduleID:    scheduleID,
		Status:        StatusConfirmed,
		PaymentStatus: PaymentPending,
		ContactDetails: ContactDetails{
			Email: strings.ToLower(strings.TrimSpace(req.ContactDetails.Email)),
			Phone: strings.TrimSpace(req.ContactDetails.Phone),
		},
		Seats:      make([]BookingSeat, len(req.Seats)),
		Passengers: make([]Passenger, len(req.Passengers)),
	}

	for i, seat := range req.Seats {
		booking.Seats[i] = BookingSeat{
			ScheduleID: scheduleID,
			SeatNumber: seatNumbers[i],
			Price:      seat.Price,
			Status:     StatusConfirmed,
		}
	}
	booking.TotalAmount = math.Round(lo.SumBy(req.Seats, func(seat SeatSelection) float64 { return seat.Price })*100) / 100

	for i, p := range req.Passengers {
		booking.Passengers[i] = Passenger{
			Name:       strings.TrimSpace(p.Name),
			Age:        p.Age,
			Gender:     p.Gender,
			SeatNumber: normalizeSeat(p.SeatNumber),
		}
	}
	return booking
}

// generateBookingRef returns BUS-YYYYMMDD-XXXXXXXX
func generateBookingRef(now time.Time) string {
	return fmt.Sprintf("BUS-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(shortuuid.New()[:8]))
}

func (s *service) GetUserBookings(ctx context.Context, callerID, userID uuid.UUID, q ListQuery) ([]Booking, error) {
	if callerID != userID {
		return nil, apperror.Forbidden(msgListForbidden)
	}
	if q.Status != "" && !q.Status.IsValid() {
		return nil, apperror.Validation(msgInvalidStatusFilter)
	}
	// no limit means the whole history; only an explicit page size is capped
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	list, err := s.repo.GetByUserID(ctx, userID, q)
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}
	return list, nil
}

func (s *service) GetBooking(ctx context.Context, callerID, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByIDWithRelations(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, msgBookingNotFound, err)
		}
		return nil, apperror.Internal("failed to load booking", err)
	}
	if booking.UserID != callerID {
		return nil, apperror.Forbidden(msgBookingForbidden)
	}
	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, callerID, bookingID uuid.UUID, reason string) (*Booking, *RefundDetails, error) {
	booking, err := s.GetBooking(ctx, callerID, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if !booking.Status.CanBeCancelled() {
		return nil, nil, apperror.Policy(msgAlreadyCancelled)
	}

	schedule := booking.Schedule
	if schedule == nil {
		if schedule, err = s.schedules.GetSchedule(ctx, booking.ScheduleID); err != nil {
			return nil, nil, apperror.Internal("failed to load schedule for booking", err)
		}
		booking.Schedule = schedule
	}

	now := s.now()
	hours := schedule.HoursUntilDeparture(now)
	quote, err := CalculateRefund(booking.TotalAmount, hours)
	if err != nil {
		return nil, nil, apperror.Wrap(apperror.KindPolicy, msgCancelWindowClosed, err)
	}

	details := CancellationDetails{
		CancelledAt:      now.UTC(),
		Reason:           strings.TrimSpace(reason),
		RefundAmount:     quote.Amount,
		RefundPercentage: quote.Percentage,
		RefundStatus:     RefundPending,
	}
	if err := s.repo.Cancel(ctx, booking.ID, details); err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			return nil, nil, apperror.Wrap(apperror.KindPolicy, msgAlreadyCancelled, err)
		}
		return nil, nil, apperror.Internal("failed to cancel booking", err)
	}
	booking.markCancelled(details)

	metrics.BookingsCancelled.WithLabelValues(quote.label()).Inc()
	metrics.RefundAmount.Add(quote.Amount)
	s.logger.LogBookingCancelled(ctx, booking.ID.String(), booking.ScheduleID.String(), callerID.String(), quote.Amount)

	refund := &RefundDetails{
		BookingID:        booking.ID,
		BookingRef:       booking.BookingRef,
		TotalAmount:      booking.TotalAmount,
		RefundAmount:     quote.Amount,
		RefundPercentage: quote.Percentage,
		RefundStatus:     details.RefundStatus,
		CancelledAt:      details.CancelledAt,
		HoursToDeparture: math.Round(hours*100) / 100,
		Reason:           details.Reason,
	}

	if err := s.notifier.SendCancellationConfirmation(ctx, booking, refund); err != nil {
		metrics.NotificationFailures.WithLabelValues("cancellation_confirmation", "submit").Inc()
		s.logger.LogNotificationFailure(ctx, "cancellation_confirmation", booking.ID.String(), err)
	}

	return booking, refund, nil
}

func (s *service) RenderTicket(ctx context.Context, callerID, bookingID uuid.UUID) ([]byte, string, error) {
	booking, err := s.GetBooking(ctx, callerID, bookingID)
	if err != nil {
		return nil, "", err
	}
	if !booking.IsConfirmed() {
		return nil, "", apperror.Policy(msgTicketNotAvailable)
	}

	pdf, err := RenderTicketPDF(booking, s.now())
	if err != nil {
		return nil, "", apperror.Internal("failed to render ticket", err)
	}
	return pdf, fmt.Sprintf("ticket-%s.pdf", booking.BookingRef), nil
}
