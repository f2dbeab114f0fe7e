package main

import (
	"testing"
	"time"

	"busly/internal/schedules"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedules(t *testing.T) {
	now := time.Date(2026, 10, 1, 15, 30, 0, 0, time.UTC)
	routes := []routeSeed{
		{route: schedules.Route{ID: uuid.New()}, hours: 4, factor: 1},
		{route: schedules.Route{ID: uuid.New()}, hours: 7, factor: 1.6},
	}
	buses := []schedules.Bus{{ID: uuid.New()}, {ID: uuid.New()}}

	list := buildSchedules(routes, buses, now, 2, 500)
	require.Len(t, list, 2*len(routes)*len(departureHours))

	first := list[0]
	assert.Equal(t, time.Date(2026, 10, 2, 6, 0, 0, 0, time.UTC), first.DepartureTime)
	assert.Equal(t, 4*time.Hour, first.ArrivalTime.Sub(first.DepartureTime))
	assert.Equal(t, 500.0, first.Price)
	assert.Equal(t, buses[0].ID, first.BusID)
	assert.Equal(t, buses[1].ID, list[1].BusID)

	long := list[len(departureHours)]
	assert.Equal(t, routes[1].route.ID, long.RouteID)
	assert.Equal(t, 800.0, long.Price)

	for _, s := range list {
		assert.True(t, s.DepartureTime.After(now))
	}
}

func TestBuildSchedulesEmptyInputs(t *testing.T) {
	assert.Empty(t, buildSchedules(nil, []schedules.Bus{{}}, time.Now(), 3, 100))
	assert.Empty(t, buildSchedules([]routeSeed{{}}, nil, time.Now(), 3, 100))
	assert.Empty(t, buildSchedules([]routeSeed{{}}, []schedules.Bus{{}}, time.Now(), 0, 100))
}
