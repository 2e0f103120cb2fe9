package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

type RatingRepository struct {
	DB *sql.DB
}

// GetByBookingID returns the booking's rating row. The second return
// value reports existence; a missing row is not an error here because
// SubmitRating is an upsert.
func (r RatingRepository) GetByBookingID(q db.Querier, bookingID int64) (models.Rating, bool, error) {
	var (
		rt                   models.Rating
		guideID, driverID    sql.NullInt64
		ratingG, ratingD     sql.NullInt64
	)
	err := q.QueryRow(`
		SELECT id, booking_id, customer_id, tour_guide_id, driver_id,
		       rating_tourguide, rating_driver,
		       COALESCE(review_tourguide, ''), COALESCE(review_driver, ''),
		       created_at, updated_at
		FROM ratings WHERE booking_id = ?`, bookingID).Scan(
		&rt.ID, &rt.BookingID, &rt.CustomerID, &guideID, &driverID,
		&ratingG, &ratingD, &rt.ReviewTourGuide, &rt.ReviewDriver,
		&rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Rating{}, false, nil
		}
		return models.Rating{}, false, err
	}
	rt.TourGuideID = int64Ptr(guideID)
	rt.DriverID = int64Ptr(driverID)
	rt.RatingTourGuide = intPtr(ratingG)
	rt.RatingDriver = intPtr(ratingD)
	return rt, true, nil
}

// Insert creates the booking's rating row, copying the assignee ids
// captured from the booking at insert time.
func (r RatingRepository) Insert(q db.Querier, rt models.Rating) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO ratings
			(booking_id, customer_id, tour_guide_id, driver_id,
			 rating_tourguide, rating_driver, review_tourguide, review_driver)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.BookingID, rt.CustomerID,
		db.NullInt64(rt.TourGuideID), db.NullInt64(rt.DriverID),
		nullIntVal(rt.RatingTourGuide), nullIntVal(rt.RatingDriver),
		db.NullIfEmpty(rt.ReviewTourGuide), db.NullIfEmpty(rt.ReviewDriver),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePartial writes only the fields supplied in the input; omitted
// fields keep their previous values.
func (r RatingRepository) UpdatePartial(q db.Querier, id int64, in models.RatingInput) error {
	sets := []string{}
	args := []any{}
	if in.RatingTourGuide != nil {
		sets = append(sets, "rating_tourguide=?")
		args = append(args, *in.RatingTourGuide)
	}
	if in.RatingDriver != nil {
		sets = append(sets, "rating_driver=?")
		args = append(args, *in.RatingDriver)
	}
	if in.ReviewTourGuide != nil {
		sets = append(sets, "review_tourguide=?")
		args = append(args, *in.ReviewTourGuide)
	}
	if in.ReviewDriver != nil {
		sets = append(sets, "review_driver=?")
		args = append(args, *in.ReviewDriver)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := q.Exec(`UPDATE ratings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

// GuideAggregate recomputes the mean and count over every non-null
// guide sub-rating referencing the guide. Full rescan, not incremental.
func (r RatingRepository) GuideAggregate(q db.Querier, guideID int64) (float64, int, error) {
	return r.aggregate(q, "tour_guide_id", "rating_tourguide", guideID)
}

// DriverAggregate is the driver-side counterpart of GuideAggregate.
func (r RatingRepository) DriverAggregate(q db.Querier, driverID int64) (float64, int, error) {
	return r.aggregate(q, "driver_id", "rating_driver", driverID)
}

func (r RatingRepository) aggregate(q db.Querier, idCol, ratingCol string, userID int64) (float64, int, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := q.QueryRow(
		`SELECT AVG(`+ratingCol+`), COUNT(`+ratingCol+`) FROM ratings WHERE `+idCol+` = ? AND `+ratingCol+` IS NOT NULL`,
		userID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullIntVal(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
