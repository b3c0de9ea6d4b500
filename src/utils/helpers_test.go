package utils

import (
	"errors"
	"hms/src/db"
	"hms/src/types"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestBookingNumberPrefix(t *testing.T) {
	now, err := time.Parse("2006-01-02", "2025-06-15")
	assert.Nil(t, err)
	assert.Equal(t, "BK250615", BookingNumberPrefix(now))
}

func TestParseBookingSequence(t *testing.T) {
	seq, err := ParseBookingSequence("BK250615007", "BK250615")
	assert.Nil(t, err)
	assert.Equal(t, 7, seq)

	_, err = ParseBookingSequence("BK250614007", "BK250615")
	assert.NotNil(t, err)

	_, err = ParseBookingSequence("BK250615xyz", "BK250615")
	assert.NotNil(t, err)
}

func TestFallbackBookingNumber(t *testing.T) {
	now, err := time.Parse(time.RFC3339, "2025-06-15T10:30:00Z")
	assert.Nil(t, err)
	number := FallbackBookingNumber(now)
	assert.True(t, strings.HasPrefix(number, "BK250615"))
	assert.Equal(t, len("BK250615")+6, len(number))

	seq, err := ParseBookingSequence(number, "BK250615")
	assert.Nil(t, err)
	assert.GreaterOrEqual(t, seq, 0)
}

func TestNextBookingNumber(t *testing.T) {
	now, err := time.Parse("2006-01-02", "2025-06-15")
	assert.Nil(t, err)

	db, mock := newMockDB(t)
	mock.
		ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_number"}).AddRow("BK250615007"))

	assert.Equal(t, "BK250615008", NextBookingNumber(db, now))
}

func TestNextBookingNumberFirstOfDay(t *testing.T) {
	now, err := time.Parse("2006-01-02", "2025-06-15")
	assert.Nil(t, err)

	db, mock := newMockDB(t)
	mock.
		ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_number"}))

	assert.Equal(t, "BK250615001", NextBookingNumber(db, now))
}

func TestNextBookingNumberDegradedPath(t *testing.T) {
	now, err := time.Parse("2006-01-02", "2025-06-15")
	assert.Nil(t, err)

	db, mock := newMockDB(t)
	mock.
		ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnError(errors.New("connection reset"))

	number := NextBookingNumber(db, now)
	assert.True(t, strings.HasPrefix(number, "BK250615"))
	assert.Equal(t, len("BK250615")+6, len(number))
}

func TestNextBookingNumberPastThreeDigits(t *testing.T) {
	now, err := time.Parse("2006-01-02", "2025-06-15")
	assert.Nil(t, err)

	gormDB, mock := newMockDB(t)
	mock.
		ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_number"}).AddRow("BK250615999"))

	assert.Equal(t, "BK2506151000", NextBookingNumber(gormDB, now))
}

func TestCancelReservation(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.
		ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "booking_number", "room_id", "status"}).
			AddRow(7, "BK250615001", 3, "confirmed"))
	mock.
		ExpectExec(`UPDATE "reservations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.
		ExpectExec(`UPDATE "rooms" SET "status"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reservation, err := CancelReservation(7, "guest request")
	assert.Nil(t, err)
	assert.Equal(t, types.RESERVATION_CANCELLED, reservation.Status)
	assert.NotNil(t, reservation.CancelledAt)
	assert.Equal(t, "guest request", *reservation.CancellationReason)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelReservationTwice(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.
		ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "booking_number", "room_id", "status"}).
			AddRow(7, "BK250615001", 3, "cancelled"))
	mock.ExpectRollback()

	_, err := CancelReservation(7, "changed plans")
	assert.True(t, errors.Is(err, ErrAlreadyCancelled))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelCheckedOutReservation(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.
		ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "booking_number", "room_id", "status"}).
			AddRow(7, "BK250615001", 3, "checked_out"))
	mock.ExpectRollback()

	_, err := CancelReservation(7, "too late")
	assert.True(t, errors.Is(err, ErrImmutable))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateNewReservationRejectsOverlap(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db.NewDB(gormDB)

	rate := 100.0
	total := 400.0
	body := &types.CreateReservationRequestBody{
		CustomerID:    1,
		RoomID:        3,
		RoomClassID:   2,
		CheckInDate:   "2026-06-03",
		CheckOutDate:  "2026-06-07",
		PaymentMethod: "cash",
		BaseRoomRate:  &rate,
		TotalAmount:   &total,
	}

	mock.ExpectBegin()
	mock.
		ExpectQuery(`SELECT (.+) FROM "rooms"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "room_number", "status"}).
			AddRow(3, "301", "available"))
	mock.
		ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := CreateNewReservation(body)
	assert.True(t, errors.Is(err, ErrRoomUnavailable))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateNewReservationRejectsInvertedDates(t *testing.T) {
	rate := 100.0
	total := 400.0
	body := &types.CreateReservationRequestBody{
		CustomerID:    1,
		RoomID:        3,
		RoomClassID:   2,
		CheckInDate:   "2026-06-07",
		CheckOutDate:  "2026-06-03",
		PaymentMethod: "cash",
		BaseRoomRate:  &rate,
		TotalAmount:   &total,
	}

	_, err := CreateNewReservation(body)
	assert.True(t, errors.Is(err, ErrInvalidDateRange))
}

func TestParseStayDate(t *testing.T) {
	parsed, err := ParseStayDate("2026-06-05")
	assert.Nil(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.June, parsed.Month())
	assert.Equal(t, 5, parsed.Day())

	parsed, err = ParseStayDate("2026-06-05T18:45:00Z")
	assert.Nil(t, err)
	assert.Equal(t, 5, parsed.Day())
	assert.Equal(t, 0, parsed.Hour())

	_, err = ParseStayDate("05/06/2026")
	assert.NotNil(t, err)

	_, err = ParseStayDate("")
	assert.NotNil(t, err)
}
