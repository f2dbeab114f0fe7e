package database

import (
	"fmt"

	"gorm.io/gorm"
)

// SeatUniqueIndex rejects a second confirmed booking of the same seat on a schedule.
// Cancelled seats fall out of the index, so a cancelled seat can be sold again.
const SeatUniqueIndex = "idx_booking_seats_confirmed_seat"

var constraintStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + SeatUniqueIndex + `
		ON booking_seats (schedule_id, seat_number)
		WHERE status = 'confirmed'`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_user_created
		ON bookings (user_id, created_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_booking_seats_schedule_status
		ON booking_seats (schedule_id, status)`,

	`CREATE INDEX IF NOT EXISTS idx_schedules_route_departure
		ON schedules (route_id, departure_time)`,
}

// MigrateConstraints adds the indexes AutoMigrate cannot express
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
