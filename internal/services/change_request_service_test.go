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

func newChangeRequestService(db *sql.DB) ChangeRequestService {
	return ChangeRequestService{
		DB:                db,
		ChangeRequestRepo: repositories.ChangeRequestRepository{DB: db},
		BookingRepo:       repositories.BookingRepository{DB: db},
		UserRepo:          repositories.UserRepository{DB: db},
	}
}

func TestCreateChangeRequestOnlyWhileInProgress(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7),
			Status: models.BookingConfirmed, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	_, err := svc.CreateChangeRequest(1, 10, models.ChangeTourGuide, "guide never showed")
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestCreateChangeRequestSecondPendingConflicts(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7),
			Status: models.BookingInProgress, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), models.ChangeRequestPending).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.CreateChangeRequest(1, 10, models.ChangeDriver, "driver switched cars")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for second pending request, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateChangeRequestCapturesCurrentAssignees(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7), DriverID: i64(8),
			Status: models.BookingInProgress, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), models.ChangeRequestPending).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO change_requests").
		WithArgs(int64(1), int64(10), models.ChangeBoth, int64(7), int64(8), models.ChangeRequestPending, "rude to the group").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	cr, err := svc.CreateChangeRequest(1, 10, models.ChangeBoth, "  rude   to the group ")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if cr.ID != 3 || cr.OldGuideID == nil || *cr.OldGuideID != 7 || cr.OldDriverID == nil || *cr.OldDriverID != 8 {
		t.Fatalf("old assignees not captured: %+v", cr)
	}
}

func TestProcessChangeRequestMissingIDRejectedBeforeMutation(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	// "both" with only a guide supplied must fail validation before any
	// booking or request row changes.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM change_requests WHERE id").WithArgs(int64(3)).
		WillReturnRows(changeRequestRows(models.ChangeRequest{
			ID: 3, BookingID: 1, RequesterID: 10, RequestType: models.ChangeBoth,
			OldGuideID: i64(7), OldDriverID: i64(8),
			Status: models.ChangeRequestPending, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.ProcessChangeRequest(3, 99, DecisionApprove, i64(11), nil)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessChangeRequestApproveSwapsGuide(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)
	svc.Now = fixedNow(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM change_requests WHERE id").WithArgs(int64(3)).
		WillReturnRows(changeRequestRows(models.ChangeRequest{
			ID: 3, BookingID: 1, RequesterID: 10, RequestType: models.ChangeTourGuide,
			OldGuideID: i64(7), Status: models.ChangeRequestPending, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(11)).
		WillReturnRows(userRows(models.User{
			ID: 11, Name: "New Guide", Email: "g@x.et", Role: domain.RoleTourGuide,
			Status: "active", CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7),
			Status: models.BookingInProgress, CreatedAt: time.Now(),
		}))
	mock.ExpectExec("UPDATE bookings SET tour_guide_id").
		WithArgs(int64(11), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE change_requests SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.ProcessChangeRequest(3, 99, DecisionApprove, i64(11), nil); err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessChangeRequestAlreadyProcessed(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM change_requests WHERE id").WithArgs(int64(3)).
		WillReturnRows(changeRequestRows(models.ChangeRequest{
			ID: 3, BookingID: 1, RequesterID: 10, RequestType: models.ChangeDriver,
			Status: models.ChangeRequestRejected, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.ProcessChangeRequest(3, 99, DecisionReject, nil, nil)
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestCheckAssignmentCurrentGuide(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(7),
			Status: models.BookingInProgress, CreatedAt: time.Now(),
		}))

	res, err := svc.CheckAssignment(1, 7, domain.RoleTourGuide)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if !res.IsAssigned || res.WasReplaced {
		t.Fatalf("expected active assignment, got %+v", res)
	}
}

func TestCheckAssignmentReportsReplacement(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)
	processedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(11),
			Status: models.BookingInProgress, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("FROM change_requests").
		WithArgs(int64(1), models.ChangeRequestCompleted, int64(7)).
		WillReturnRows(changeRequestRows(models.ChangeRequest{
			ID: 3, BookingID: 1, RequesterID: 10, RequestType: models.ChangeTourGuide,
			OldGuideID: i64(7), NewGuideID: i64(11), ProcessedBy: i64(99),
			Status: models.ChangeRequestCompleted, CreatedAt: time.Now(), ProcessedAt: &processedAt,
		}))

	res, err := svc.CheckAssignment(1, 7, domain.RoleTourGuide)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if !res.WasReplaced || res.ReplacedBy == nil || *res.ReplacedBy != 11 {
		t.Fatalf("expected replacement by guide 11, got %+v", res)
	}
	if res.ReplacedAt == nil || !res.ReplacedAt.Equal(processedAt) {
		t.Fatalf("replacement time not carried: %+v", res)
	}
}

func TestCheckAssignmentStrangerDenied(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TourGuideID: i64(11),
			Status: models.BookingInProgress, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("FROM change_requests").
		WithArgs(int64(1), models.ChangeRequestCompleted, int64(70)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CheckAssignment(1, 70, domain.RoleTourGuide)
	if !domain.IsPermission(err) {
		t.Fatalf("expected permission error for stranger, got %v", err)
	}
}

func TestCancelChangeRequestOnlyByRequester(t *testing.T) {
	db, mock := newMock(t)
	svc := newChangeRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM change_requests WHERE id").WithArgs(int64(3)).
		WillReturnRows(changeRequestRows(models.ChangeRequest{
			ID: 3, BookingID: 1, RequesterID: 10, RequestType: models.ChangeDriver,
			Status: models.ChangeRequestPending, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.CancelChangeRequest(3, 77)
	if !domain.IsPermission(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
}
