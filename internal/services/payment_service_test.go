package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/notify"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/payments"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
)

type stubGateway struct {
	initResult payments.InitResult
	initErr    error
	verify     payments.VerifyResult
	verifyErr  error
}

func (g stubGateway) Initialize(_ context.Context, _ payments.InitRequest) (payments.InitResult, error) {
	return g.initResult, g.initErr
}

func (g stubGateway) Verify(_ context.Context, _ string) (payments.VerifyResult, error) {
	return g.verify, g.verifyErr
}

func newPaymentService(db *sql.DB, gw payments.Gateway) PaymentService {
	return PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
		Gateway:     gw,
	}
}

func TestInitializePaymentFallsBackToTestMode(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, stubGateway{initErr: payments.ErrUnavailable})

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TotalPrice: 500,
			Status: models.BookingPending, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), models.PaymentCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := svc.InitializePayment(context.Background(), 1, 10, "card")
	if err != nil {
		t.Fatalf("expected test-mode fallback, got %v", err)
	}
	if !res.TestMode || res.CheckoutURL == "" {
		t.Fatalf("expected test mode with a checkout url, got %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializePaymentRejectsPaidBooking(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, stubGateway{})

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, TotalPrice: 500,
			Status: models.BookingConfirmed, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), models.PaymentCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	_, err := svc.InitializePayment(context.Background(), 1, 10, "card")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for already-paid booking, got %v", err)
	}
}

func TestVerifyPaymentConfirmsPendingBooking(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, stubGateway{verify: payments.VerifyResult{
		Status: payments.StatusSuccess, Amount: 500, Method: "card",
	}})

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE tx_ref").WithArgs("tes-abc").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, TxRef: "tes-abc",
			Status: models.PaymentPending, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), models.PaymentCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, Status: models.BookingPending, CreatedAt: time.Now(),
		}))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingConfirmed, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := svc.VerifyPayment(context.Background(), "tes-abc", 1)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if out.Status != models.PaymentCompleted || out.Degraded {
		t.Fatalf("unexpected result: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyPaymentIdempotentOnCompleted(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, stubGateway{verify: payments.VerifyResult{
		Status: payments.StatusSuccess, Amount: 500, Method: "card",
	}})

	// A second success report touches neither the payment nor the booking.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE tx_ref").WithArgs("tes-abc").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, Method: "card", TxRef: "tes-abc",
			Status: models.PaymentCompleted, CreatedAt: time.Now(),
		}))
	mock.ExpectCommit()

	out, err := svc.VerifyPayment(context.Background(), "tes-abc", 1)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if out.Status != models.PaymentCompleted {
		t.Fatalf("expected completed, got %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyPaymentDegradedAnswersFromPersistedRow(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, stubGateway{verifyErr: payments.ErrUnavailable})

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE tx_ref").WithArgs("tes-abc").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, Method: "card", TxRef: "tes-abc",
			Status: models.PaymentCompleted, CreatedAt: time.Now(),
		}))
	mock.ExpectCommit()

	out, err := svc.VerifyPayment(context.Background(), "tes-abc", 1)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !out.Degraded || out.Status != models.PaymentCompleted {
		t.Fatalf("expected degraded completed result, got %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyPaymentDegradedWithoutRowSurfacesUnavailable(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, stubGateway{verifyErr: payments.ErrUnavailable})

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE tx_ref").WithArgs("tes-abc").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, TxRef: "tes-abc",
			Status: models.PaymentPending, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	_, err := svc.VerifyPayment(context.Background(), "tes-abc", 1)
	if !domain.IsGatewayUnavailable(err) {
		t.Fatalf("expected gateway unavailable error, got %v", err)
	}
	if !errors.Is(err, payments.ErrUnavailable) {
		t.Fatalf("cause should unwrap to ErrUnavailable, got %v", err)
	}
}

func TestVerifyPaymentFailureLeavesBookingAlone(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, stubGateway{verify: payments.VerifyResult{Status: payments.StatusFailed}})

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE tx_ref").WithArgs("tes-abc").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, TxRef: "tes-abc",
			Status: models.PaymentPending, CreatedAt: time.Now(),
		}))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(models.PaymentFailed, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := svc.VerifyPayment(context.Background(), "tes-abc", 1)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if out.Status != models.PaymentFailed {
		t.Fatalf("expected failed status, got %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWebhookSettlementIsIdempotent(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, nil)

	// First delivery settles payment and booking.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE tx_ref").WithArgs("tes-abc").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, Method: "card", TxRef: "tes-abc",
			Status: models.PaymentPending, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), models.PaymentCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, Status: models.BookingPending, CreatedAt: time.Now(),
		}))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingConfirmed, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Redelivery is a no-op.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments WHERE tx_ref").WithArgs("tes-abc").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, Method: "card", TxRef: "tes-abc",
			Status: models.PaymentCompleted, CreatedAt: time.Now(),
		}))
	mock.ExpectCommit()

	if err := svc.HandleWebhook(context.Background(), "tes-abc", payments.StatusSuccess); err != nil {
		t.Fatalf("first webhook error: %v", err)
	}
	if err := svc.HandleWebhook(context.Background(), "tes-abc", payments.StatusSuccess); err != nil {
		t.Fatalf("second webhook error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWebhookIgnoresNonSuccess(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, nil)

	if err := svc.HandleWebhook(context.Background(), "tes-abc", payments.StatusFailed); err != nil {
		t.Fatalf("non-success webhook should be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestRequestRefundInsideWindow(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc := newPaymentService(db, nil)
	svc.Sink = notify.LogOnly{}
	svc.Now = fixedNow(created.Add(23*time.Hour + 59*time.Minute))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, Status: models.BookingConfirmed, CreatedAt: created,
		}))
	mock.ExpectQuery("FROM payments WHERE booking_id").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, TxRef: "tes-abc",
			Status: models.PaymentCompleted, CreatedAt: created,
		}))
	mock.ExpectExec("UPDATE payments SET refund_requested").
		WithArgs(models.PaymentRefundRequested, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.RequestRefund(1, 10, "change of plans"); err != nil {
		t.Fatalf("refund inside window should pass, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequestRefundWindowExpired(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc := newPaymentService(db, nil)
	svc.Now = fixedNow(created.Add(24*time.Hour + 30*time.Minute))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, Status: models.BookingConfirmed, CreatedAt: created,
		}))
	mock.ExpectQuery("FROM payments WHERE booking_id").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, TxRef: "tes-abc",
			Status: models.PaymentCompleted, CreatedAt: created,
		}))
	mock.ExpectRollback()

	err := svc.RequestRefund(1, 10, "too late")
	var we domain.WindowExpiredError
	if !errors.As(err, &we) {
		t.Fatalf("expected window expired error, got %v", err)
	}
	if we.Hours != 24.5 {
		t.Fatalf("elapsed hours should display as 24.5, got %v", we.Hours)
	}
}

func TestRequestRefundExactly24HoursStillAllowed(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc := newPaymentService(db, nil)
	svc.Now = fixedNow(created.Add(24 * time.Hour))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, Status: models.BookingConfirmed, CreatedAt: created,
		}))
	mock.ExpectQuery("FROM payments WHERE booking_id").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, TxRef: "tes-abc",
			Status: models.PaymentCompleted, CreatedAt: created,
		}))
	mock.ExpectExec("UPDATE payments SET refund_requested").
		WithArgs(models.PaymentRefundRequested, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.RequestRefund(1, 10, "on the boundary"); err != nil {
		t.Fatalf("refund at exactly 24h should pass, got %v", err)
	}
}

func TestRequestRefundWithoutPayment(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, Status: models.BookingPending, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("FROM payments WHERE booking_id").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := svc.RequestRefund(1, 10, "never paid")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for unpaid booking, got %v", err)
	}
}

func TestRequestRefundTwiceConflicts(t *testing.T) {
	db, mock := newMock(t)
	svc := newPaymentService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(1)).
		WillReturnRows(bookingRows(models.Booking{
			ID: 1, CustomerID: 10, Status: models.BookingConfirmed, CreatedAt: time.Now(),
		}))
	mock.ExpectQuery("FROM payments WHERE booking_id").
		WillReturnRows(paymentRows(models.Payment{
			ID: 5, BookingID: 1, Amount: 500, TxRef: "tes-abc",
			Status: models.PaymentRefundRequested, RefundRequested: true, CreatedAt: time.Now(),
		}))
	mock.ExpectRollback()

	err := svc.RequestRefund(1, 10, "again")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate refund request, got %v", err)
	}
}
