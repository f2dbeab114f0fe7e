package schedules

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Route is an origin/destination pair with intermediate stops
type Route struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RouteName   string    `gorm:"not null" json:"route_name"`
	Source      string    `gorm:"not null;index:idx_routes_source_destination" json:"source"`
	Destination string    `gorm:"not null;index:idx_routes_source_destination" json:"destination"`
	Stops       []string  `gorm:"serializer:json;type:jsonb" json:"stops,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Bus struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusNumber  string    `gorm:"uniqueIndex;not null" json:"bus_number"`
	BusType    string    `gorm:"not null" json:"bus_type"`
	TotalSeats int       `gorm:"not null" json:"total_seats"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Schedule is one run of a bus on a route. Price is per seat.
type Schedule struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RouteID       uuid.UUID `gorm:"type:uuid;index;not null" json:"route_id"`
	BusID         uuid.UUID `gorm:"type:uuid;index;not null" json:"bus_id"`
	DepartureTime time.Time `gorm:"index;not null" json:"departure_time"`
	ArrivalTime   time.Time `gorm:"not null" json:"arrival_time"`
	Price         float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Route *Route `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	Bus   *Bus   `gorm:"foreignKey:BusID" json:"bus,omitempty"`
}

func (Route) TableName() string    { return "routes" }
func (Bus) TableName() string      { return "buses" }
func (Schedule) TableName() string { return "schedules" }

func (r *Route) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (b *Bus) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// HoursUntilDeparture is negative once the bus has left
func (s *Schedule) HoursUntilDeparture(now time.Time) float64 {
	return s.DepartureTime.Sub(now).Hours()
}

// SearchQuery filters schedules; zero values match everything
type SearchQuery struct {
	Source      string
	Destination string
	From        time.Time
	To          time.Time
	Limit       int
}

// SeatAvailability is the occupancy snapshot of one schedule
type SeatAvailability struct {
	ScheduleID     uuid.UUID `json:"schedule_id"`
	TotalSeats     int       `json:"total_seats"`
	BookedSeats    []string  `json:"booked_seats"`
	AvailableCount int       `json:"available_count"`
	Price          float64   `json:"price"`
}
