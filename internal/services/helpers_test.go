package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func i64(v int64) *int64 { return &v }

func iv(v int) *int { return &v }

func sv(v string) *string { return &v }

func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

var bookingCols = []string{
	"id", "customer_id", "tour_id", "vehicle_id", "driver_id", "tour_guide_id",
	"start_date", "end_date", "people_count", "total_price", "special_requests",
	"status", "created_at",
}

func bookingRows(b models.Booking) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(
		b.ID, b.CustomerID,
		nullable(b.TourID), nullable(b.VehicleID), nullable(b.DriverID), nullable(b.TourGuideID),
		b.StartDate, b.EndDate, b.PeopleCount, b.TotalPrice, b.SpecialRequests,
		b.Status, b.CreatedAt,
	)
}

var paymentCols = []string{
	"id", "booking_id", "amount", "method", "tx_ref", "status",
	"refund_requested", "paid_at", "created_at",
}

func paymentRows(p models.Payment) *sqlmock.Rows {
	var paidAt any
	if p.PaidAt != nil {
		paidAt = *p.PaidAt
	}
	return sqlmock.NewRows(paymentCols).AddRow(
		p.ID, p.BookingID, p.Amount, p.Method, p.TxRef, p.Status,
		p.RefundRequested, paidAt, p.CreatedAt,
	)
}

var changeRequestCols = []string{
	"id", "booking_id", "requester_id", "request_type",
	"old_guide_id", "old_driver_id", "new_guide_id", "new_driver_id",
	"status", "reason", "processed_by", "created_at", "processed_at",
}

func changeRequestRows(cr models.ChangeRequest) *sqlmock.Rows {
	var processedAt any
	if cr.ProcessedAt != nil {
		processedAt = *cr.ProcessedAt
	}
	return sqlmock.NewRows(changeRequestCols).AddRow(
		cr.ID, cr.BookingID, cr.RequesterID, cr.RequestType,
		nullable(cr.OldGuideID), nullable(cr.OldDriverID),
		nullable(cr.NewGuideID), nullable(cr.NewDriverID),
		cr.Status, cr.Reason, nullable(cr.ProcessedBy), cr.CreatedAt, processedAt,
	)
}

var userCols = []string{
	"id", "name", "email", "phone", "role", "status",
	"average_rating", "ratings_count", "created_at",
}

func userRows(u models.User) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.Status,
		u.AverageRating, u.RatingsCount, u.CreatedAt,
	)
}

var ratingCols = []string{
	"id", "booking_id", "customer_id", "tour_guide_id", "driver_id",
	"rating_tourguide", "rating_driver", "review_tourguide", "review_driver",
	"created_at", "updated_at",
}

func ratingRows(rt models.Rating) *sqlmock.Rows {
	var rg, rd any
	if rt.RatingTourGuide != nil {
		rg = int64(*rt.RatingTourGuide)
	}
	if rt.RatingDriver != nil {
		rd = int64(*rt.RatingDriver)
	}
	return sqlmock.NewRows(ratingCols).AddRow(
		rt.ID, rt.BookingID, rt.CustomerID,
		nullable(rt.TourGuideID), nullable(rt.DriverID),
		rg, rd, rt.ReviewTourGuide, rt.ReviewDriver,
		rt.CreatedAt, rt.UpdatedAt,
	)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
