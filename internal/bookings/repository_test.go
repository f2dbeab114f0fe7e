package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
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
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func newBooking() *Booking {
	scheduleID := uuid.New()
	return &Booking{
		BookingRef:     "BUS-20261001-ABCDEFGH",
		UserID:         uuid.New(),
		ScheduleID:     scheduleID,
		Status:         StatusConfirmed,
		PaymentStatus:  PaymentPending,
		TotalAmount:    1000,
		ContactDetails: ContactDetails{Email: "rider@example.com", Phone: "+919800000000"},
		Seats: []BookingSeat{
			{ScheduleID: scheduleID, SeatNumber: "A1", Price: 500, Status: StatusConfirmed},
			{ScheduleID: scheduleID, SeatNumber: "A2", Price: 500, Status: StatusConfirmed},
		},
		Passengers: []Passenger{{Name: "Asha", Age: 31, Gender: "female", SeatNumber: "A1"}},
	}
}

func TestRepositoryFindConflictingSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	scheduleID := uuid.New()

	mock.ExpectQuery(`SELECT "seat_number" FROM "booking_seats" WHERE .*seat_number IN`).
		WithArgs(scheduleID, "confirmed", "A1", "A2").
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("A1"))

	taken, err := repo.FindConflictingSeats(context.Background(), scheduleID, []string{"A1", "A2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateWritesBookingSeatsAndPassengers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	booking := newBooking()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "booking_seats"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "booking_passengers"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), booking))

	assert.NotEqual(t, uuid.Nil, booking.ID)
	for _, s := range booking.Seats {
		assert.Equal(t, booking.ID, s.BookingID)
		assert.NotEqual(t, uuid.Nil, s.ID)
	}
	assert.Equal(t, booking.ID, booking.Passengers[0].BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateSeatUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "booking_seats"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_booking_seats_confirmed_seat"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newBooking())

	assert.ErrorIs(t, err, ErrSeatAlreadyBooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCancel(t *testing.T) {
	details := CancellationDetails{
		CancelledAt:      time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		RefundAmount:     900,
		RefundPercentage: 90,
		RefundStatus:     RefundPending,
	}

	t.Run("confirmed booking", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bookings" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "booking_seats" SET "status"=\$1 WHERE booking_id = \$2`).
			WithArgs("cancelled", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		assert.NoError(t, repo.Cancel(context.Background(), uuid.New(), details))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already cancelled", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bookings" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Cancel(context.Background(), uuid.New(), details)

		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancellationDetailsRoundTripsThroughJSONB(t *testing.T) {
	in := CancellationDetails{
		CancelledAt:      time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Reason:           "plans changed",
		RefundAmount:     350,
		RefundPercentage: 70,
		RefundStatus:     RefundPending,
	}
	v, err := in.Value()
	require.NoError(t, err)

	var out CancellationDetails
	require.NoError(t, out.Scan([]byte(v.(string))))
	assert.Equal(t, in, out)

	assert.Error(t, out.Scan(42))
}
