package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/notify"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/observability"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/payments"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/utils"
)

// refundWindow is measured from booking creation, not payment time.
const refundWindow = 24 * time.Hour

// PaymentService bridges the external gateway to persisted
// Payment/Booking state. Gateway round-trips always happen before a
// transaction is opened so a hanging gateway can never hold a row lock.
type PaymentService struct {
	DB          *sql.DB
	PaymentRepo repositories.PaymentRepository
	BookingRepo repositories.BookingRepository
	Gateway     payments.Gateway
	Sink        notify.Sink
	ReturnURL   string
	RequestID   string

	// Now is overridable for window tests.
	Now func() time.Time
}

func (s PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// InitPaymentResult is returned to the customer to continue checkout.
// TestMode is set when no live gateway served the request so the caller
// can distinguish a degraded/development checkout.
type InitPaymentResult struct {
	CheckoutURL string `json:"checkout_url"`
	TxRef       string `json:"tx_ref"`
	TestMode    bool   `json:"test_mode"`
}

// VerifyPaymentResult reports a verification outcome. Degraded is set
// when the answer came from persisted state because the gateway could
// not be reached.
type VerifyPaymentResult struct {
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
	TxRef    string  `json:"tx_ref"`
	Degraded bool    `json:"degraded,omitempty"`
}

// InitializePayment opens a checkout for the booking and records a
// pending payment row before returning.
func (s PaymentService) InitializePayment(ctx context.Context, bookingID, customerID int64, method string) (InitPaymentResult, error) {
	b, err := s.BookingRepo.GetByID(s.DB, bookingID)
	if err != nil {
		return InitPaymentResult{}, err
	}
	if b.CustomerID != customerID {
		return InitPaymentResult{}, domain.PermissionError{Msg: "not your booking"}
	}
	done, err := s.PaymentRepo.HasCompletedForBooking(s.DB, bookingID)
	if err != nil {
		return InitPaymentResult{}, domain.InternalError{Err: err}
	}
	if done {
		return InitPaymentResult{}, domain.ConflictError{Resource: "payment", Msg: "booking is already paid"}
	}

	txRef := "tes-" + uuid.NewString()
	res := InitPaymentResult{TxRef: txRef}

	// Gateway round-trip happens before any row is written and outside
	// any transaction.
	if s.Gateway == nil {
		res.TestMode = true
		res.CheckoutURL = testCheckoutURL(txRef)
	} else {
		init, err := s.Gateway.Initialize(ctx, payments.InitRequest{
			Amount:    b.TotalPrice,
			Currency:  "ETB",
			TxRef:     txRef,
			ReturnURL: s.ReturnURL,
		})
		switch {
		case err == nil:
			res.CheckoutURL = init.CheckoutURL
			res.TxRef = init.TxRef
			txRef = init.TxRef
		case errors.Is(err, payments.ErrUnavailable):
			utils.LogEvent(s.RequestID, "payment", "initialize", "gateway unreachable, using test mode: "+err.Error())
			res.TestMode = true
			res.CheckoutURL = testCheckoutURL(txRef)
		default:
			return InitPaymentResult{}, domain.ValidationError{Field: "payment", Msg: "gateway rejected the initialization", Err: err}
		}
	}

	_, err = s.PaymentRepo.Create(s.DB, models.Payment{
		BookingID: bookingID,
		Amount:    b.TotalPrice,
		Method:    utils.TrimOrEmpty(method),
		TxRef:     txRef,
		Status:    models.PaymentPending,
	})
	if err != nil {
		return InitPaymentResult{}, domain.InternalError{Msg: "could not record payment", Err: err}
	}

	utils.LogEvent(s.RequestID, "payment", "initialize", fmt.Sprintf("booking_id=%d tx_ref=%s test_mode=%t", bookingID, txRef, res.TestMode))
	return res, nil
}

// VerifyPayment reconciles gateway state into Payment/Booking state.
// Primary path asks the gateway; when the gateway is unreachable the
// persisted payment row answers instead (DegradedVerification); the
// customer may be reloading a page the gateway webhook already settled.
func (s PaymentService) VerifyPayment(ctx context.Context, txRef string, bookingID int64) (VerifyPaymentResult, error) {
	var (
		vr         payments.VerifyResult
		gatewayErr error
	)
	switch {
	case s.Gateway == nil:
		// Test mode auto-approves: there is no live gateway to consult.
		vr = payments.VerifyResult{Status: payments.StatusSuccess}
	default:
		vr, gatewayErr = s.Gateway.Verify(ctx, txRef)
	}

	var out VerifyPaymentResult
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		p, err := s.PaymentRepo.GetByTxRefForUpdate(tx, txRef)
		if err != nil {
			return err
		}
		if p.BookingID != bookingID {
			return domain.NotFoundError{Resource: "payment"}
		}

		if gatewayErr != nil {
			if !errors.Is(gatewayErr, payments.ErrUnavailable) {
				return domain.InternalError{Msg: "gateway verification failed", Err: gatewayErr}
			}
			// DegradedVerification: trust a completed persisted row,
			// otherwise surface the unavailability.
			if p.Status == models.PaymentCompleted || p.Status == models.PaymentRefundRequested {
				out = VerifyPaymentResult{Status: models.PaymentCompleted, Amount: p.Amount, Method: p.Method, TxRef: p.TxRef, Degraded: true}
				return nil
			}
			return domain.GatewayUnavailableError{Err: gatewayErr}
		}

		switch vr.Status {
		case payments.StatusSuccess:
			return s.completeLocked(tx, p, vr, &out)
		case payments.StatusFailed:
			// Surfaced as-is; the booking is never mutated on failure.
			if p.Status == models.PaymentPending {
				if err := s.PaymentRepo.MarkFailed(tx, p.ID); err != nil {
					return err
				}
			}
			out = VerifyPaymentResult{Status: models.PaymentFailed, TxRef: p.TxRef}
			return nil
		default:
			out = VerifyPaymentResult{Status: p.Status, Amount: p.Amount, Method: p.Method, TxRef: p.TxRef}
			return nil
		}
	})
	if err != nil {
		observability.PaymentVerifications.WithLabelValues("error").Inc()
		return VerifyPaymentResult{}, err
	}
	observability.PaymentVerifications.WithLabelValues(out.Status).Inc()
	utils.LogEvent(s.RequestID, "payment", "verify", fmt.Sprintf("tx_ref=%s status=%s degraded=%t", txRef, out.Status, out.Degraded))
	return out, nil
}

// HandleWebhook applies a gateway-initiated settlement. It shares the
// completion path with VerifyPayment and is just as idempotent.
func (s PaymentService) HandleWebhook(ctx context.Context, txRef, status string) error {
	if status != payments.StatusSuccess {
		utils.LogEvent(s.RequestID, "payment", "webhook", fmt.Sprintf("tx_ref=%s ignored status=%s", txRef, status))
		return nil
	}
	return db.WithTx(s.DB, func(tx *sql.Tx) error {
		p, err := s.PaymentRepo.GetByTxRefForUpdate(tx, txRef)
		if err != nil {
			return err
		}
		var out VerifyPaymentResult
		return s.completeLocked(tx, p, payments.VerifyResult{Status: payments.StatusSuccess, Amount: p.Amount, Method: p.Method}, &out)
	})
}

// completeLocked marks the locked payment completed and confirms the
// booking, atomically. Re-applying to an already-completed payment is a
// no-op success.
func (s PaymentService) completeLocked(tx *sql.Tx, p models.Payment, vr payments.VerifyResult, out *VerifyPaymentResult) error {
	if p.Status == models.PaymentCompleted || p.Status == models.PaymentRefundRequested {
		*out = VerifyPaymentResult{Status: models.PaymentCompleted, Amount: p.Amount, Method: p.Method, TxRef: p.TxRef}
		return nil
	}

	// At most one completed payment per booking, ever.
	done, err := s.PaymentRepo.HasCompletedForBooking(tx, p.BookingID)
	if err != nil {
		return err
	}
	if done {
		return domain.ConflictError{Resource: "payment", Msg: "booking already has a completed payment"}
	}

	amount := vr.Amount
	if amount == 0 {
		amount = p.Amount
	}
	method := vr.Method
	if method == "" {
		method = p.Method
	}
	if err := s.PaymentRepo.MarkCompleted(tx, p.ID, amount, method, s.now()); err != nil {
		return err
	}

	b, err := s.BookingRepo.GetByIDForUpdate(tx, p.BookingID)
	if err != nil {
		return err
	}
	if b.Status == models.BookingPending {
		if err := s.BookingRepo.UpdateStatus(tx, b.ID, models.BookingConfirmed); err != nil {
			return err
		}
		observability.BookingTransitions.WithLabelValues(models.BookingConfirmed).Inc()
	}

	*out = VerifyPaymentResult{Status: models.PaymentCompleted, Amount: amount, Method: method, TxRef: p.TxRef}
	return nil
}

// RequestRefund flags a completed payment for staff refund. All
// preconditions are evaluated against rows locked in one transaction;
// the 24h window is measured at request time from booking creation.
func (s PaymentService) RequestRefund(bookingID, customerID int64, reason string) error {
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		b, err := s.BookingRepo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != customerID {
			return domain.PermissionError{Msg: "not your booking"}
		}
		p, err := s.PaymentRepo.GetCompletedByBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if p.RefundRequested || p.Status == models.PaymentRefundRequested {
			return domain.ConflictError{Resource: "refund", Msg: "refund already requested"}
		}
		if hours := s.now().Sub(b.CreatedAt).Hours(); hours > refundWindow.Hours() {
			return domain.WindowExpiredError{Window: "refund", Hours: utils.TruncateHours(hours)}
		}
		return s.PaymentRepo.SetRefundRequested(tx, p.ID)
	})
	if err != nil {
		observability.RefundRequests.WithLabelValues("rejected").Inc()
		return err
	}

	observability.RefundRequests.WithLabelValues("accepted").Inc()
	utils.LogEvent(s.RequestID, "payment", "refund_request", fmt.Sprintf("booking_id=%d customer_id=%d", bookingID, customerID))
	s.publish(models.Notification{
		Topic:     models.NotifyRefundRequested,
		BookingID: bookingID,
		Message:   fmt.Sprintf("customer %d requested a refund for booking %d: %s", customerID, bookingID, utils.NormalizeSpace(reason)),
	})
	return nil
}

func (s PaymentService) publish(n models.Notification) {
	if s.Sink == nil {
		return
	}
	if err := s.Sink.Publish(context.Background(), n); err != nil {
		utils.LogEvent(s.RequestID, "payment", "notify", "publish failed: "+err.Error())
	}
}

func testCheckoutURL(txRef string) string {
	return "https://checkout.test.local/pay?tx_ref=" + txRef
}
