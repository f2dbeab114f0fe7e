package database

import (
	"fmt"

	"busly/internal/bookings"
	"busly/internal/schedules"
	"busly/internal/users"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&schedules.Route{},
		&schedules.Bus{},
		&schedules.Schedule{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Passenger{},
	}
}

// Migrate creates or alters tables, then adds the indexes AutoMigrate cannot
// express. IDs are generated in BeforeCreate hooks so no extension is needed.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return MigrateConstraints(db)
}
