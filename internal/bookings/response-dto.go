package bookings

import (
	"time"

	"busly/internal/schedules"
	"busly/internal/users"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID                  uuid.UUID            `json:"id"`
	BookingRef          string               `json:"booking_ref"`
	UserID              uuid.UUID            `json:"user_id"`
	User                *users.Summary       `json:"user,omitempty"`
	ScheduleID          uuid.UUID            `json:"schedule_id"`
	Schedule            *ScheduleSummary     `json:"schedule,omitempty"`
	Seats               []SeatResponse       `json:"seats"`
	Passengers          []Passenger          `json:"passengers,omitempty"`
	ContactDetails      ContactDetails       `json:"contact_details"`
	TotalAmount         float64              `json:"total_amount"`
	Status              Status               `json:"status"`
	PaymentStatus       PaymentStatus        `json:"payment_status"`
	CancellationDetails *CancellationDetails `json:"cancellation_details,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type SeatResponse struct {
	SeatNumber string  `json:"seat_number"`
	Price      float64 `json:"price"`
}

type ScheduleSummary struct {
	ID            uuid.UUID     `json:"id"`
	DepartureTime time.Time     `json:"departure_time"`
	ArrivalTime   time.Time     `json:"arrival_time"`
	Price         float64       `json:"price"`
	Route         *RouteSummary `json:"route,omitempty"`
	Bus           *BusSummary   `json:"bus,omitempty"`
}

type RouteSummary struct {
	RouteName   string   `json:"route_name"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Stops       []string `json:"stops,omitempty"`
}

type BusSummary struct {
	BusNumber string `json:"bus_number"`
	BusType   string `json:"bus_type"`
}

type CancelBookingResponse struct {
	Booking BookingResponse `json:"booking"`
	Refund  RefundDetails   `json:"refund"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:                  b.ID,
		BookingRef:          b.BookingRef,
		UserID:              b.UserID,
		User:                b.User.Summary(),
		ScheduleID:          b.ScheduleID,
		Schedule:            toScheduleSummary(b.Schedule),
		Seats:               make([]SeatResponse, len(b.Seats)),
		Passengers:          b.Passengers,
		ContactDetails:      b.ContactDetails,
		TotalAmount:         b.TotalAmount,
		Status:              b.Status,
		PaymentStatus:       b.PaymentStatus,
		CancellationDetails: b.CancellationDetails,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
	for i, s := range b.Seats {
		resp.Seats[i] = SeatResponse{SeatNumber: s.SeatNumber, Price: s.Price}
	}
	return resp
}

func ToBookingResponses(list []Booking) []BookingResponse {
	out := make([]BookingResponse, len(list))
	for i := range list {
		out[i] = ToBookingResponse(&list[i])
	}
	return out
}

func toScheduleSummary(s *schedules.Schedule) *ScheduleSummary {
	if s == nil {
		return nil
	}
	summary := &ScheduleSummary{
		ID:            s.ID,
		DepartureTime: s.DepartureTime,
		ArrivalTime:   s.ArrivalTime,
		Price:         s.Price,
	}
	if s.Route != nil {
		summary.Route = &RouteSummary{
			RouteName:   s.Route.RouteName,
			Source:      s.Route.Source,
			Destination: s.Route.Destination,
			Stops:       s.Route.Stops,
		}
	}
	if s.Bus != nil {
		summary.Bus = &BusSummary{BusNumber: s.Bus.BusNumber, BusType: s.Bus.BusType}
	}
	return summary
}
