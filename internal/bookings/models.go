package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"busly/internal/schedules"
	"busly/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is a user's reservation of one or more seats on a schedule.
// Rows are never deleted; cancellation flips Status.
type Booking struct {
	ID                  uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	BookingRef          string               `gorm:"uniqueIndex;not null" json:"booking_ref"`
	UserID              uuid.UUID            `gorm:"type:uuid;index;not null" json:"user_id"`
	ScheduleID          uuid.UUID            `gorm:"type:uuid;index;not null" json:"schedule_id"`
	ContactDetails      ContactDetails       `gorm:"embedded;embeddedPrefix:contact_" json:"contact_details"`
	TotalAmount         float64              `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status              Status               `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus       PaymentStatus        `gorm:"type:varchar(20);not null" json:"payment_status"`
	CancellationDetails *CancellationDetails `gorm:"type:jsonb" json:"cancellation_details,omitempty"`
	CreatedAt           time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`

	Seats      []BookingSeat       `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"seats"`
	Passengers []Passenger         `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"passengers"`
	User       *users.User         `gorm:"foreignKey:UserID" json:"-"`
	Schedule   *schedules.Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}

// BookingSeat carries a copy of the booking status so the store can keep
// confirmed seat numbers unique per schedule.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null" json:"schedule_id"`
	SeatNumber string    `gorm:"type:varchar(10);not null" json:"seat_number"`
	Price      float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Status     Status    `gorm:"type:varchar(20);not null" json:"status"`
}

type Passenger struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	Name       string    `gorm:"not null" json:"name"`
	Age        int       `gorm:"not null" json:"age"`
	Gender     string    `gorm:"type:varchar(10)" json:"gender"`
	SeatNumber string    `gorm:"type:varchar(10)" json:"seat_number,omitempty"`
}

type ContactDetails struct {
	Email string `gorm:"not null" json:"email"`
	Phone string `gorm:"not null" json:"phone"`
}

type CancellationDetails struct {
	CancelledAt      time.Time    `json:"cancelled_at"`
	Reason           string       `json:"reason,omitempty"`
	RefundAmount     float64      `json:"refund_amount"`
	RefundPercentage int          `json:"refund_percentage"`
	RefundStatus     RefundStatus `json:"refund_status"`
}

// Value stores cancellation details as a jsonb document
func (c CancellationDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *CancellationDetails) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into CancellationDetails", value)
	}
}

// RefundDetails is handed to the caller and the notifier after a cancellation
type RefundDetails struct {
	BookingID        uuid.UUID    `json:"booking_id"`
	BookingRef       string       `json:"booking_ref"`
	TotalAmount      float64      `json:"total_amount"`
	RefundAmount     float64      `json:"refund_amount"`
	RefundPercentage int          `json:"refund_percentage"`
	RefundStatus     RefundStatus `json:"refund_status"`
	CancelledAt      time.Time    `json:"cancelled_at"`
	HoursToDeparture float64      `json:"hours_to_departure"`
	Reason           string       `json:"reason,omitempty"`
}

// ListQuery narrows a user's booking history
type ListQuery struct {
	Status Status
	Limit  int
	Offset int
}

func (Booking) TableName() string     { return "bookings" }
func (BookingSeat) TableName() string { return "booking_seats" }
func (Passenger) TableName() string   { return "booking_passengers" }

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (s *BookingSeat) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (p *Passenger) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (b *Booking) IsConfirmed() bool { return b.Status == StatusConfirmed }

// SeatNumbers returns the booked seat numbers in request order
func (b *Booking) SeatNumbers() []string {
	out := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		out[i] = s.SeatNumber
	}
	return out
}

// markCancelled mirrors a committed cancellation onto the loaded booking
func (b *Booking) markCancelled(details CancellationDetails) {
	b.Status = StatusCancelled
	b.CancellationDetails = &details
	b.UpdatedAt = details.CancelledAt
	for i := range b.Seats {
		b.Seats[i].Status = StatusCancelled
	}
}
