package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestMigrateConstraintsCreatesPartialSeatIndex(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_seats_confirmed_seat\s+ON booking_seats \(schedule_id, seat_number\)\s+WHERE status = 'confirmed'`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_bookings_user_created`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_booking_seats_schedule_status`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_schedules_route_departure`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MigrateConstraints(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateConstraintsStopsOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE UNIQUE INDEX`).WillReturnError(errors.New("could not create unique index"))

	err := MigrateConstraints(db)

	assert.ErrorContains(t, err, "could not create unique index")
	assert.NoError(t, mock.ExpectationsWereMet())
}
