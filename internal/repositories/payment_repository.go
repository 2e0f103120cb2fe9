package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentColumns = `id, booking_id, amount, COALESCE(method, ''), tx_ref, status, refund_requested, paid_at, created_at`

// Create inserts a pending payment row before the caller returns the
// checkout URL to the customer.
func (r PaymentRepository) Create(q db.Querier, p models.Payment) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO payments (booking_id, amount, method, tx_ref, status)
		VALUES (?, ?, ?, ?, ?)`,
		p.BookingID, p.Amount, p.Method, p.TxRef, p.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByTxRef fetches a payment by gateway transaction reference.
func (r PaymentRepository) GetByTxRef(q db.Querier, txRef string) (models.Payment, error) {
	return r.scanOne(q.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE tx_ref = ?`, txRef))
}

// GetByTxRefForUpdate locks the payment row for the duration of the
// surrounding transaction.
func (r PaymentRepository) GetByTxRefForUpdate(q db.Querier, txRef string) (models.Payment, error) {
	return r.scanOne(q.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE tx_ref = ? FOR UPDATE`, txRef))
}

// GetCompletedByBooking returns the booking's completed (or
// refund-flagged) payment without locking.
func (r PaymentRepository) GetCompletedByBooking(q db.Querier, bookingID int64) (models.Payment, error) {
	return r.scanOne(q.QueryRow(
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = ? AND status IN (?, ?) LIMIT 1`,
		bookingID, models.PaymentCompleted, models.PaymentRefundRequested,
	))
}

// GetCompletedByBookingForUpdate locks the booking's completed payment,
// if any. sql.ErrNoRows maps to a NotFoundError so the refund path can
// answer "no payment" specifically.
func (r PaymentRepository) GetCompletedByBookingForUpdate(q db.Querier, bookingID int64) (models.Payment, error) {
	return r.scanOne(q.QueryRow(
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = ? AND status IN (?, ?) LIMIT 1 FOR UPDATE`,
		bookingID, models.PaymentCompleted, models.PaymentRefundRequested,
	))
}

// HasCompletedForBooking is the idempotency guard against double payment.
func (r PaymentRepository) HasCompletedForBooking(q db.Querier, bookingID int64) (bool, error) {
	var n int
	err := q.QueryRow(
		`SELECT COUNT(*) FROM payments WHERE booking_id = ? AND status = ?`,
		bookingID, models.PaymentCompleted,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkCompleted records a verified payment.
func (r PaymentRepository) MarkCompleted(q db.Querier, id int64, amount float64, method string, paidAt time.Time) error {
	_, err := q.Exec(
		`UPDATE payments SET status = ?, amount = ?, method = ?, paid_at = ? WHERE id = ?`,
		models.PaymentCompleted, amount, method, paidAt, id,
	)
	return err
}

// MarkFailed records an explicit gateway decline.
func (r PaymentRepository) MarkFailed(q db.Querier, id int64) error {
	_, err := q.Exec(`UPDATE payments SET status = ? WHERE id = ?`, models.PaymentFailed, id)
	return err
}

// SetRefundRequested flips the refund flag and status together.
func (r PaymentRepository) SetRefundRequested(q db.Querier, id int64) error {
	_, err := q.Exec(
		`UPDATE payments SET refund_requested = 1, status = ? WHERE id = ?`,
		models.PaymentRefundRequested, id,
	)
	return err
}

func (r PaymentRepository) scanOne(row *sql.Row) (models.Payment, error) {
	var (
		p      models.Payment
		paidAt sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.TxRef,
		&p.Status, &p.RefundRequested, &paidAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "payment", Err: err}
		}
		return models.Payment{}, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return p, nil
}
