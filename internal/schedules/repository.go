package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrScheduleNotFound = errors.New("schedule not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	Search(ctx context.Context, q SearchQuery) ([]Schedule, error)
	// BookedSeatNumbers lists seats held by confirmed bookings on the schedule
	BookedSeatNumbers(ctx context.Context, scheduleID uuid.UUID) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	var schedule Schedule
	err := r.db.WithContext(ctx).
		Preload("Route").
		Preload("Bus").
		Where("id = ?", id).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule %s: %w", id, err)
	}
	return &schedule, nil
}

func (r *repository) Search(ctx context.Context, q SearchQuery) ([]Schedule, error) {
	query := r.db.WithContext(ctx).
		Model(&Schedule{}).
		Joins("JOIN routes ON routes.id = schedules.route_id").
		Preload("Route").
		Preload("Bus")

	if q.Source != "" {
		query = query.Where("LOWER(routes.source) = LOWER(?)", q.Source)
	}
	if q.Destination != "" {
		query = query.Where("LOWER(routes.destination) = LOWER(?)", q.Destination)
	}
	if !q.From.IsZero() {
		query = query.Where("schedules.departure_time >= ?", q.From)
	}
	if !q.To.IsZero() {
		query = query.Where("schedules.departure_time < ?", q.To)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var schedules []Schedule
	if err := query.Order("schedules.departure_time ASC").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("search schedules: %w", err)
	}
	return schedules, nil
}

func (r *repository) BookedSeatNumbers(ctx context.Context, scheduleID uuid.UUID) ([]string, error) {
	var seats []string
	err := r.db.WithContext(ctx).
		Table("booking_seats").
		Where("schedule_id = ? AND status = ?", scheduleID, "confirmed").
		Order("seat_number").
		Pluck("seat_number", &seats).Error
	if err != nil {
		return nil, fmt.Errorf("booked seats for %s: %w", scheduleID, err)
	}
	return seats, nil
}
