package schedules

import (
	"context"
	"errors"
	"testing"
	"time"

	"busly/internal/shared/apperror"
	"busly/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	schedules map[uuid.UUID]*Schedule
	booked    map[uuid.UUID][]string
	found     []Schedule
	getCalls  int
	searches  int
	lastQuery SearchQuery
	err       error
}

func (f *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*Schedule, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return s, nil
}

func (f *fakeRepository) Search(_ context.Context, q SearchQuery) ([]Schedule, error) {
	f.searches++
	f.lastQuery = q
	if f.found == nil {
		return []Schedule{}, f.err
	}
	return f.found, f.err
}

func (f *fakeRepository) BookedSeatNumbers(_ context.Context, id uuid.UUID) ([]string, error) {
	return f.booked[id], f.err
}

// mapCache is an in-memory cache.Store
type mapCache struct {
	items map[string][]byte
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := m.items[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return raw, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.items[key] = value
	return nil
}

func (m *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func sampleSchedule() *Schedule {
	departure := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	return &Schedule{
		ID:            uuid.New(),
		DepartureTime: departure,
		ArrivalTime:   departure.Add(6 * time.Hour),
		Price:         500,
		Route:         &Route{RouteName: "Pune Express", Source: "Pune", Destination: "Goa"},
		Bus:           &Bus{BusNumber: "MH12-4411", BusType: "AC Sleeper", TotalSeats: 40},
	}
}

func TestGetScheduleUsesCache(t *testing.T) {
	ctx := context.Background()
	s := sampleSchedule()
	repo := &fakeRepository{schedules: map[uuid.UUID]*Schedule{s.ID: s}}
	svc := NewService(repo, &mapCache{items: map[string][]byte{}})

	first, err := svc.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	second, err := svc.GetSchedule(ctx, s.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, "Pune", second.Route.Source)
	assert.Equal(t, first.Price, second.Price)
	assert.True(t, first.DepartureTime.Equal(second.DepartureTime))
}

func TestGetScheduleNotFound(t *testing.T) {
	svc := NewService(&fakeRepository{schedules: map[uuid.UUID]*Schedule{}}, nil)

	_, err := svc.GetSchedule(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestGetScheduleStoreFailureIsInternal(t *testing.T) {
	svc := NewService(&fakeRepository{err: errors.New("connection reset")}, nil)

	_, err := svc.GetSchedule(context.Background(), uuid.New())

	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestSearchSchedulesClampsWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepository{}
	svc := &service{repo: repo, now: func() time.Time { return now }}

	_, err := svc.SearchSchedules(context.Background(), SearchQuery{Source: " Pune ", Limit: 1000})
	require.NoError(t, err)

	assert.Equal(t, "Pune", repo.lastQuery.Source)
	assert.Equal(t, now, repo.lastQuery.From)
	assert.Equal(t, maxSearchLimit, repo.lastQuery.Limit)

	t.Run("past date yields nothing", func(t *testing.T) {
		day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		repo.lastQuery = SearchQuery{}
		result, err := svc.SearchSchedules(context.Background(), SearchQuery{From: day, To: day.Add(24 * time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, result)
		assert.Zero(t, repo.lastQuery.Limit)
	})
}

func TestSearchWholeDayIsCached(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepository{found: []Schedule{
		{ID: uuid.New(), DepartureTime: day.Add(6 * time.Hour), Price: 400},
		{ID: uuid.New(), DepartureTime: day.Add(14 * time.Hour), Price: 500},
		{ID: uuid.New(), DepartureTime: day.Add(22 * time.Hour), Price: 600},
	}}
	mc := &mapCache{items: map[string][]byte{}}
	svc := &service{repo: repo, cache: mc, now: func() time.Time { return now }}

	q := SearchQuery{Source: "Pune", Destination: "Mumbai", From: day, To: day.Add(24 * time.Hour), Limit: 1}

	first, err := svc.SearchSchedules(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 500.0, first[0].Price, "the 06:00 run has left")

	q.Source = "pune"
	q.Limit = 0
	second, err := svc.SearchSchedules(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	assert.Equal(t, 1, repo.searches)
	assert.Equal(t, day, repo.lastQuery.From, "the cached entry covers the whole day")
	assert.Equal(t, maxSearchLimit, repo.lastQuery.Limit)
	assert.Contains(t, mc.items, "busly:schedules:search:src:pune:dst:mumbai:date:2026-10-19")
}

func TestGetSeatAvailability(t *testing.T) {
	s := sampleSchedule()
	repo := &fakeRepository{
		schedules: map[uuid.UUID]*Schedule{s.ID: s},
		booked:    map[uuid.UUID][]string{s.ID: {"A1", "A2"}},
	}
	svc := NewService(repo, nil)

	availability, err := svc.GetSeatAvailability(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, 40, availability.TotalSeats)
	assert.Equal(t, []string{"A1", "A2"}, availability.BookedSeats)
	assert.Equal(t, 38, availability.AvailableCount)
	assert.Equal(t, 500.0, availability.Price)
}
