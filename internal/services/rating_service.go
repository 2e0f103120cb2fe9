package services

import (
	"database/sql"
	"fmt"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/observability"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/utils"
)

// RatingService keeps per-person aggregate ratings consistent with
// individual rating rows. Aggregates are recomputed by full rescan on
// every write, never updated incrementally.
type RatingService struct {
	DB          *sql.DB
	RatingRepo  repositories.RatingRepository
	BookingRepo repositories.BookingRepository
	UserRepo    repositories.UserRepository
	RequestID   string
}

// CanRateBooking reports whether a first rating submission is possible:
// the booking is the customer's, completed, and not yet rated.
// SubmitRating itself stays an upsert, so callers wanting to detect
// "already rated" must ask here first.
func (s RatingService) CanRateBooking(customerID, bookingID int64) (bool, error) {
	b, err := s.BookingRepo.GetByID(s.DB, bookingID)
	if err != nil {
		return false, err
	}
	if b.CustomerID != customerID || b.Status != models.BookingCompleted {
		return false, nil
	}
	_, exists, err := s.RatingRepo.GetByBookingID(s.DB, bookingID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// SubmitRating upserts the booking's rating row and recomputes the
// affected aggregates, all in one transaction. Fields omitted from the
// input keep their previous values.
func (s RatingService) SubmitRating(bookingID, customerID int64, in models.RatingInput) (int64, error) {
	if in.RatingTourGuide == nil && in.RatingDriver == nil {
		return 0, domain.ValidationError{Field: "rating", Msg: "at least one of the guide or driver ratings is required"}
	}
	if err := checkRatingRange("rating_tourguide", in.RatingTourGuide); err != nil {
		return 0, err
	}
	if err := checkRatingRange("rating_driver", in.RatingDriver); err != nil {
		return 0, err
	}

	var ratingID int64
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		b, err := s.BookingRepo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != customerID {
			return domain.PermissionError{Msg: "not your booking"}
		}
		if b.Status != models.BookingCompleted {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "only a completed trip can be rated"}
		}

		existing, exists, err := s.RatingRepo.GetByBookingID(tx, bookingID)
		if err != nil {
			return err
		}

		guideID := b.TourGuideID
		driverID := b.DriverID
		if exists {
			// The row keeps the assignee ids captured at insert time.
			if existing.TourGuideID != nil {
				guideID = existing.TourGuideID
			}
			if existing.DriverID != nil {
				driverID = existing.DriverID
			}
			if err := s.RatingRepo.UpdatePartial(tx, existing.ID, in); err != nil {
				return err
			}
			ratingID = existing.ID
		} else {
			rt := models.Rating{
				BookingID:       bookingID,
				CustomerID:      customerID,
				TourGuideID:     guideID,
				DriverID:        driverID,
				RatingTourGuide: in.RatingTourGuide,
				RatingDriver:    in.RatingDriver,
			}
			if in.ReviewTourGuide != nil {
				rt.ReviewTourGuide = *in.ReviewTourGuide
			}
			if in.ReviewDriver != nil {
				rt.ReviewDriver = *in.ReviewDriver
			}
			ratingID, err = s.RatingRepo.Insert(tx, rt)
			if err != nil {
				return err
			}
		}

		if in.RatingTourGuide != nil && guideID != nil {
			avg, count, err := s.RatingRepo.GuideAggregate(tx, *guideID)
			if err != nil {
				return err
			}
			if err := s.UserRepo.UpdateAggregateRating(tx, *guideID, avg, count); err != nil {
				return err
			}
		}
		if in.RatingDriver != nil && driverID != nil {
			avg, count, err := s.RatingRepo.DriverAggregate(tx, *driverID)
			if err != nil {
				return err
			}
			if err := s.UserRepo.UpdateAggregateRating(tx, *driverID, avg, count); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	observability.RatingsSubmitted.Inc()
	utils.LogEvent(s.RequestID, "rating", "submit", fmt.Sprintf("booking_id=%d rating_id=%d", bookingID, ratingID))
	return ratingID, nil
}

// GetBookingRating returns the booking's rating for its owner.
func (s RatingService) GetBookingRating(bookingID, customerID int64) (models.Rating, error) {
	b, err := s.BookingRepo.GetByID(s.DB, bookingID)
	if err != nil {
		return models.Rating{}, err
	}
	if b.CustomerID != customerID {
		return models.Rating{}, domain.PermissionError{Msg: "not your booking"}
	}
	rt, exists, err := s.RatingRepo.GetByBookingID(s.DB, bookingID)
	if err != nil {
		return models.Rating{}, err
	}
	if !exists {
		return models.Rating{}, domain.NotFoundError{Resource: "rating"}
	}
	return rt, nil
}

func checkRatingRange(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 5 {
		return domain.ValidationError{Field: field, Msg: "must be between 0 and 5"}
	}
	return nil
}
