package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
)

func newBookingService(db *sql.DB) BookingService {
	return BookingService{
		DB:          db,
		BookingRepo: repositories.BookingRepository{DB: db},
		CatalogRepo: repositories.CatalogRepository{DB: db},
		UserRepo:    repositories.UserRepository{DB: db},
	}
}

func TestStartTourRejectsWrongGuide(t *testing.T) {
	db, mock := newMock(t)
	svc := newBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(9),
			Status: models.BookingConfirmed, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.StartTour(1, 7)
	if !domain.IsPermission(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStartTourFromPendingBooking(t *testing.T) {
	db, mock := newMock(t)
	svc := newBookingService(db)

	// Payment confirmation may lag; starting from pending is allowed.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7),
			Status: models.BookingPending, CreatedAt: time.Now(),
		}))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingInProgress, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.StartTour(1, 7); err != nil {
		t.Fatalf("expected start from pending to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStartTourNeedsDriverWhenVehicleBooked(t *testing.T) {
	db, mock := newMock(t)
	svc := newBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7), VehicleID: i64(3),
			Status: models.BookingConfirmed, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.StartTour(1, 7)
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFinishTourOnlyFromInProgress(t *testing.T) {
	db, mock := newMock(t)
	svc := newBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7),
			Status: models.BookingConfirmed, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.FinishTour(1, 7)
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingAfterStartRejected(t *testing.T) {
	db, mock := newMock(t)
	svc := newBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10,
			Status: models.BookingInProgress, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.CancelBooking(1, 99)
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingRejectsReversedDates(t *testing.T) {
	db, _ := newMock(t)
	svc := newBookingService(db)

	_, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:  10,
		TourID:      i64(2),
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-08",
		PeopleCount: 2,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBookingVisibleToAssignedDriver(t *testing.T) {
	db, mock := newMock(t)
	svc := newBookingService(db)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, DriverID: i64(42),
			Status: models.BookingConfirmed, CreatedAt: time.Now(),
		}))

	if _, err := svc.GetBooking(1, 42, domain.RoleDriver); err != nil {
		t.Fatalf("assigned driver should see the booking, got %v", err)
	}
}
