package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// FindConflictingSeats returns which of seatNumbers are held by confirmed bookings on the schedule
	FindConflictingSeats(ctx context.Context, scheduleID uuid.UUID, seatNumbers []string) ([]string, error)
	Create(ctx context.Context, booking *Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Booking, error)

	// Cancel applies details only if the booking is still confirmed
	Cancel(ctx context.Context, id uuid.UUID, details CancellationDetails) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindConflictingSeats(ctx context.Context, scheduleID uuid.UUID, seatNumbers []string) ([]string, error) {
	var taken []string
	err := r.db.WithContext(ctx).
		Model(&BookingSeat{}).
		Where("schedule_id = ? AND status = ? AND seat_number IN ?", scheduleID, StatusConfirmed, seatNumbers).
		Order("seat_number").
		Pluck("seat_number", &taken).Error
	if err != nil {
		return nil, fmt.Errorf("find conflicting seats: %w", err)
	}
	return taken, nil
}

// Create writes the booking and its children in one transaction. A unique
// violation on booking_seats means another confirmed booking holds a seat.
func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		for i := range booking.Seats {
			booking.Seats[i].BookingID = booking.ID
		}
		if err := tx.Create(&booking.Seats).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSeatAlreadyBooked
			}
			return fmt.Errorf("insert booking seats: %w", err)
		}

		if len(booking.Passengers) > 0 {
			for i := range booking.Passengers {
				booking.Passengers[i].BookingID = booking.ID
			}
			if err := tx.Create(&booking.Passengers).Error; err != nil {
				return fmt.Errorf("insert passengers: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *repository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.withRelations(r.db.WithContext(ctx)).
		Preload("Passengers").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Booking, error) {
	query := r.withRelations(r.db.WithContext(ctx)).Where("user_id = ?", userID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var list []Booking
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list bookings for user %s: %w", userID, err)
	}
	return list, nil
}

func (r *repository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Seats").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Schedule.Route").
		Preload("Schedule.Bus")
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, details CancellationDetails) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", id, StatusConfirmed).
			Updates(map[string]interface{}{
				"status":               StatusCancelled,
				"cancellation_details": details,
				"updated_at":           details.CancelledAt,
			})
		if result.Error != nil {
			return fmt.Errorf("cancel booking %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}

		err := tx.Model(&BookingSeat{}).
			Where("booking_id = ?", id).
			Update("status", StatusCancelled).Error
		if err != nil {
			return fmt.Errorf("release seats for booking %s: %w", id, err)
		}
		return nil
	})
}
