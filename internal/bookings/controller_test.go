package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"busly/internal/shared/apperror"
	"busly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	booking *Booking
	refund  *RefundDetails
	list    []Booking
	err     error

	gotQuery  ListQuery
	gotReason string
}

func (s *stubService) CreateBooking(context.Context, uuid.UUID, *CreateBookingRequest) (*Booking, error) {
	return s.booking, s.err
}

func (s *stubService) GetUserBookings(_ context.Context, _, _ uuid.UUID, q ListQuery) ([]Booking, error) {
	s.gotQuery = q
	return s.list, s.err
}

func (s *stubService) GetBooking(context.Context, uuid.UUID, uuid.UUID) (*Booking, error) {
	return s.booking, s.err
}

func (s *stubService) CancelBooking(_ context.Context, _, _ uuid.UUID, reason string) (*Booking, *RefundDetails, error) {
	s.gotReason = reason
	return s.booking, s.refund, s.err
}

func (s *stubService) RenderTicket(context.Context, uuid.UUID, uuid.UUID) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return []byte("%PDF-1.3"), "ticket-BUS-1.pdf", nil
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     interface{}     `json:"errors"`
}

func newTestEngine(svc Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.ContextUserID, userID.String())
		}
		c.Next()
	})

	ctrl := NewController(svc)
	r.POST("/bookings", ctrl.CreateBooking)
	r.GET("/bookings/user/:userId", ctrl.GetUserBookings)
	r.GET("/bookings/:id", ctrl.GetBooking)
	r.POST("/bookings/:id/cancel", ctrl.CancelBooking)
	r.GET("/bookings/:id/ticket", ctrl.DownloadTicket)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func sampleBooking(userID uuid.UUID) *Booking {
	return &Booking{
		ID:            uuid.New(),
		BookingRef:    "BUS-20261001-ABCDEFGH",
		UserID:        userID,
		ScheduleID:    uuid.New(),
		Status:        StatusConfirmed,
		PaymentStatus: PaymentPending,
		TotalAmount:   1000,
		Seats:         []BookingSeat{{SeatNumber: "A1", Price: 500}, {SeatNumber: "A2", Price: 500}},
	}
}

func TestCreateBookingHandler(t *testing.T) {
	user := uuid.New()

	t.Run("created", func(t *testing.T) {
		r := newTestEngine(&stubService{booking: sampleBooking(user)}, user)
		w, env := do(t, r, http.MethodPost, "/bookings", `{"scheduleId":"x","seats":[{"seatNumber":"A1","price":500}]}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, "Booking created successfully", env.Message)

		var data BookingResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 1000.0, data.TotalAmount)
		assert.Len(t, data.Seats, 2)
	})

	t.Run("empty body", func(t *testing.T) {
		r := newTestEngine(&stubService{}, user)
		w, env := do(t, r, http.MethodPost, "/bookings", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "all fields are required", env.Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := newTestEngine(&stubService{}, user)
		w, env := do(t, r, http.MethodPost, "/bookings", `{"seats":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error", env.Status)
	})

	t.Run("seat conflict maps to 400", func(t *testing.T) {
		r := newTestEngine(&stubService{err: apperror.Conflict(msgSeatsAlreadyBooked)}, user)
		w, env := do(t, r, http.MethodPost, "/bookings", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, msgSeatsAlreadyBooked, env.Message)
	})

	t.Run("internal error hides the cause", func(t *testing.T) {
		r := newTestEngine(&stubService{err: apperror.Internal("db", errors.New("pq: password authentication failed"))}, user)
		w, env := do(t, r, http.MethodPost, "/bookings", `{}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to create booking", env.Message)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		r := newTestEngine(&stubService{}, uuid.Nil)
		w, _ := do(t, r, http.MethodPost, "/bookings", `{}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetUserBookingsHandler(t *testing.T) {
	user := uuid.New()
	svc := &stubService{list: []Booking{*sampleBooking(user)}}
	r := newTestEngine(svc, user)

	w, env := do(t, r, http.MethodGet, "/bookings/user/"+user.String()+"?status=cancelled&limit=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ListQuery{Status: StatusCancelled, Limit: 5}, svc.gotQuery)

	var data []BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data, 1)

	w, _ = do(t, r, http.MethodGet, "/bookings/user/"+user.String()+"?status=pending", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/bookings/user/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookingHandlerErrors(t *testing.T) {
	user := uuid.New()
	tests := []struct {
		name string
		path string
		err  error
		code int
	}{
		{"bad id", "/bookings/123", nil, http.StatusBadRequest},
		{"not found", "/bookings/" + uuid.NewString(), apperror.NotFound(msgBookingNotFound), http.StatusNotFound},
		{"forbidden", "/bookings/" + uuid.NewString(), apperror.Forbidden(msgBookingForbidden), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine(&stubService{err: tt.err}, user)
			w, _ := do(t, r, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestCancelBookingHandler(t *testing.T) {
	user := uuid.New()
	booking := sampleBooking(user)
	booking.Status = StatusCancelled
	svc := &stubService{
		booking: booking,
		refund: &RefundDetails{
			BookingID:        booking.ID,
			RefundAmount:     900,
			RefundPercentage: 90,
			RefundStatus:     RefundPending,
			CancelledAt:      time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	r := newTestEngine(svc, user)

	w, env := do(t, r, http.MethodPost, "/bookings/"+booking.ID.String()+"/cancel", `{"reason":"plans changed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Booking cancelled successfully", env.Message)
	assert.Equal(t, "plans changed", svc.gotReason)

	var data CancelBookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, StatusCancelled, data.Booking.Status)
	assert.Equal(t, 900.0, data.Refund.RefundAmount)

	// reason is optional
	w, _ = do(t, r, http.MethodPost, "/bookings/"+booking.ID.String()+"/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)

	svc.err = apperror.Policy(msgCancelWindowClosed)
	w, env = do(t, r, http.MethodPost, "/bookings/"+booking.ID.String()+"/cancel", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgCancelWindowClosed, env.Message)
}

func TestDownloadTicketHandler(t *testing.T) {
	user := uuid.New()
	r := newTestEngine(&stubService{}, user)

	w, _ := do(t, r, http.MethodGet, "/bookings/"+uuid.NewString()+"/ticket", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ticket-BUS-1.pdf")
}
