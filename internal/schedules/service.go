package schedules

import (
	"context"
	"errors"
	"strings"
	"time"

	"busly/internal/shared/apperror"
	"busly/internal/shared/constants"
	"busly/pkg/cache"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

type Service interface {
	GetSchedule(ctx context.Context, id uuid.UUID) (*Schedule, error)
	SearchSchedules(ctx context.Context, q SearchQuery) ([]Schedule, error)
	GetSeatAvailability(ctx context.Context, id uuid.UUID) (*SeatAvailability, error)
}

type service struct {
	repo  Repository
	cache cache.Store // nil disables caching
	now   func() time.Time
}

func NewService(repo Repository, store cache.Store) Service {
	return &service{
		repo:  repo,
		cache: store,
		now:   time.Now,
	}
}

func (s *service) GetSchedule(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	schedule, err := cache.Fetch(ctx, s.cache, constants.BuildScheduleDetailKey(id.String()), constants.TTL_SCHEDULE_DETAIL,
		func(ctx context.Context) (*Schedule, error) { return s.repo.GetByID(ctx, id) })
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "Schedule not found", err)
		}
		return nil, apperror.Internal("failed to load schedule", err)
	}
	return schedule, nil
}

// SearchSchedules only returns runs that have not departed yet
func (s *service) SearchSchedules(ctx context.Context, q SearchQuery) ([]Schedule, error) {
	q.Source = strings.TrimSpace(q.Source)
	q.Destination = strings.TrimSpace(q.Destination)
	switch {
	case q.Limit <= 0:
		q.Limit = defaultSearchLimit
	case q.Limit > maxSearchLimit:
		q.Limit = maxSearchLimit
	}

	now := s.now()
	window := q
	if window.From.Before(now) {
		window.From = now
	}
	if !window.To.IsZero() && !window.To.After(window.From) {
		return []Schedule{}, nil
	}

	if s.cache != nil && isWholeDay(q) {
		return s.searchDay(ctx, q, now)
	}

	result, err := s.repo.Search(ctx, window)
	if err != nil {
		return nil, apperror.Internal("failed to search schedules", err)
	}
	return result, nil
}

func isWholeDay(q SearchQuery) bool {
	return !q.To.IsZero() && q.To.Sub(q.From) == 24*time.Hour
}

// searchDay caches a full day of departures per route pair; runs that left
// since the entry was written are dropped on read.
func (s *service) searchDay(ctx context.Context, q SearchQuery, now time.Time) ([]Schedule, error) {
	key := constants.BuildScheduleSearchKey(
		strings.ToLower(q.Source),
		strings.ToLower(q.Destination),
		q.From.Format("2006-01-02"),
	)

	day := q
	day.Limit = maxSearchLimit

	all, err := cache.Fetch(ctx, s.cache, key, constants.TTL_SCHEDULE_SEARCH,
		func(ctx context.Context) ([]Schedule, error) { return s.repo.Search(ctx, day) })
	if err != nil {
		return nil, apperror.Internal("failed to search schedules", err)
	}

	upcoming := lo.Filter(all, func(sc Schedule, _ int) bool {
		return sc.DepartureTime.After(now)
	})
	if len(upcoming) > q.Limit {
		upcoming = upcoming[:q.Limit]
	}
	return upcoming, nil
}

func (s *service) GetSeatAvailability(ctx context.Context, id uuid.UUID) (*SeatAvailability, error) {
	schedule, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.BookedSeatNumbers(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load seat availability", err)
	}

	total := 0
	if schedule.Bus != nil {
		total = schedule.Bus.TotalSeats
	}
	available := total - len(booked)
	if available < 0 {
		available = 0
	}

	return &SeatAvailability{
		ScheduleID:     id,
		TotalSeats:     total,
		BookedSeats:    booked,
		AvailableCount: available,
		Price:          schedule.Price,
	}, nil
}
