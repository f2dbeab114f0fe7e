package constants

import (
	"fmt"
	"time"
)

// Redis keys follow busly:{module}:{operation}:{identifier}

const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute
)

const (
	CACHE_PREFIX = "busly"
)

// Schedules
const (
	CACHE_KEY_SCHEDULE_DETAIL = CACHE_PREFIX + ":schedules:detail:uuid:" // + schedule-id
	CACHE_KEY_SCHEDULE_SEARCH = CACHE_PREFIX + ":schedules:search"       // + :src:X:dst:Y:date:Z
)

const (
	TTL_SCHEDULE_DETAIL = TTL_SEMI_STATIC_SHORT
	TTL_SCHEDULE_SEARCH = TTL_SEMI_STATIC_QUICK
)

// Bookings
const (
	// Per-schedule writer lock held while seats are checked and inserted
	LOCK_KEY_SCHEDULE_SEATS = CACHE_PREFIX + ":locks:schedule:" // + schedule-id
)

// Rate limiting
const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit:"
)

func BuildScheduleDetailKey(scheduleID string) string {
	return CACHE_KEY_SCHEDULE_DETAIL + scheduleID
}

func BuildScheduleSearchKey(source, destination, date string) string {
	return fmt.Sprintf("%s:src:%s:dst:%s:date:%s", CACHE_KEY_SCHEDULE_SEARCH, source, destination, date)
}

func BuildScheduleLockKey(scheduleID string) string {
	return LOCK_KEY_SCHEDULE_SEATS + scheduleID
}
