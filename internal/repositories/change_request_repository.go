package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

type ChangeRequestRepository struct {
	DB *sql.DB
}

const changeRequestColumns = `id, booking_id, requester_id, request_type,
	       old_guide_id, old_driver_id, new_guide_id, new_driver_id,
	       status, COALESCE(reason, ''), processed_by, created_at, processed_at`

// Create inserts a pending request. The caller runs the pending-guard
// read in the same transaction so the check-then-insert pair is
// serialized by the store.
func (r ChangeRequestRepository) Create(q db.Querier, cr models.ChangeRequest) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO change_requests
			(booking_id, requester_id, request_type, old_guide_id, old_driver_id, status, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cr.BookingID,
		cr.RequesterID,
		cr.RequestType,
		db.NullInt64(cr.OldGuideID),
		db.NullInt64(cr.OldDriverID),
		models.ChangeRequestPending,
		db.NullIfEmpty(cr.Reason),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// HasPendingForBooking enforces the at-most-one-pending invariant.
func (r ChangeRequestRepository) HasPendingForBooking(q db.Querier, bookingID int64) (bool, error) {
	var n int
	err := q.QueryRow(
		`SELECT COUNT(*) FROM change_requests WHERE booking_id = ? AND status = ?`,
		bookingID, models.ChangeRequestPending,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID fetches a request without locking.
func (r ChangeRequestRepository) GetByID(q db.Querier, id int64) (models.ChangeRequest, error) {
	return r.scanOne(q.QueryRow(`SELECT `+changeRequestColumns+` FROM change_requests WHERE id = ?`, id))
}

// GetByIDForUpdate locks the request row; two concurrent approvals
// serialize here and the loser sees a non-pending status.
func (r ChangeRequestRepository) GetByIDForUpdate(q db.Querier, id int64) (models.ChangeRequest, error) {
	return r.scanOne(q.QueryRow(`SELECT `+changeRequestColumns+` FROM change_requests WHERE id = ? FOR UPDATE`, id))
}

// MarkRejected terminates the request with no booking mutation.
func (r ChangeRequestRepository) MarkRejected(q db.Querier, id, staffID int64, at time.Time) error {
	_, err := q.Exec(
		`UPDATE change_requests SET status = ?, processed_by = ?, processed_at = ? WHERE id = ?`,
		models.ChangeRequestRejected, staffID, at, id,
	)
	return err
}

// MarkCompleted records the approval together with the new assignee ids.
// The caller updates the booking in the same transaction.
func (r ChangeRequestRepository) MarkCompleted(q db.Querier, id, staffID int64, newGuideID, newDriverID *int64, at time.Time) error {
	_, err := q.Exec(
		`UPDATE change_requests SET status = ?, new_guide_id = ?, new_driver_id = ?, processed_by = ?, processed_at = ? WHERE id = ?`,
		models.ChangeRequestCompleted,
		db.NullInt64(newGuideID),
		db.NullInt64(newDriverID),
		staffID, at, id,
	)
	return err
}

// Delete removes a withdrawn pending request; an uncommitted request
// carries no history worth retaining.
func (r ChangeRequestRepository) Delete(q db.Querier, id int64) error {
	_, err := q.Exec(`DELETE FROM change_requests WHERE id = ?`, id)
	return err
}

// LatestReplacementFor returns the most recent completed request on the
// booking whose captured old assignee for the role is userID. Used to
// tell a stale participant they were replaced, and when.
func (r ChangeRequestRepository) LatestReplacementFor(q db.Querier, bookingID, userID int64, role string) (models.ChangeRequest, error) {
	col := "old_guide_id"
	if role == "driver" {
		col = "old_driver_id"
	}
	return r.scanOne(q.QueryRow(
		`SELECT `+changeRequestColumns+` FROM change_requests
		 WHERE booking_id = ? AND status = ? AND `+col+` = ?
		 ORDER BY processed_at DESC LIMIT 1`,
		bookingID, models.ChangeRequestCompleted, userID,
	))
}

func (r ChangeRequestRepository) scanOne(row *sql.Row) (models.ChangeRequest, error) {
	var (
		cr                                             models.ChangeRequest
		oldGuide, oldDriver, newGuide, newDriver, proc sql.NullInt64
		processedAt                                    sql.NullTime
	)
	err := row.Scan(
		&cr.ID, &cr.BookingID, &cr.RequesterID, &cr.RequestType,
		&oldGuide, &oldDriver, &newGuide, &newDriver,
		&cr.Status, &cr.Reason, &proc, &cr.CreatedAt, &processedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ChangeRequest{}, domain.NotFoundError{Resource: "change request", Err: err}
		}
		return models.ChangeRequest{}, err
	}
	cr.OldGuideID = int64Ptr(oldGuide)
	cr.OldDriverID = int64Ptr(oldDriver)
	cr.NewGuideID = int64Ptr(newGuide)
	cr.NewDriverID = int64Ptr(newDriver)
	cr.ProcessedBy = int64Ptr(proc)
	if processedAt.Valid {
		t := processedAt.Time
		cr.ProcessedAt = &t
	}
	return cr, nil
}
