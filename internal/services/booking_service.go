package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/notify"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/observability"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/utils"
)

// BookingService is the gatekeeper for every booking status transition.
// Transition legality is decided in exactly one place: here, against the
// status re-read under lock inside the same transaction as the write.
type BookingService struct {
	DB          *sql.DB
	BookingRepo repositories.BookingRepository
	CatalogRepo repositories.CatalogRepository
	UserRepo    repositories.UserRepository
	Sink        notify.Sink
	RequestID   string
}

// CreateBookingInput is the typed request for booking creation.
type CreateBookingInput struct {
	CustomerID      int64
	TourID          *int64
	VehicleID       *int64
	StartDate       string
	EndDate         string
	PeopleCount     int
	SpecialRequests string
}

// CreateBooking validates input, prices the booking from the catalog and
// inserts it as pending. No payment is taken at creation time.
func (s BookingService) CreateBooking(in CreateBookingInput) (models.Booking, error) {
	if in.CustomerID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "customer_id", Msg: "required"}
	}
	if in.TourID == nil && in.VehicleID == nil {
		return models.Booking{}, domain.ValidationError{Field: "tour_id", Msg: "a tour or a vehicle is required"}
	}
	if in.PeopleCount <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "people_count", Msg: "must be greater than zero"}
	}
	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "start_date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "end_date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	if end.Before(start) {
		return models.Booking{}, domain.ValidationError{Field: "end_date", Msg: "ends before it starts"}
	}

	total := 0.0
	if in.TourID != nil {
		tour, err := s.CatalogRepo.GetTour(s.DB, *in.TourID)
		if err != nil {
			return models.Booking{}, err
		}
		total += tour.Price * float64(in.PeopleCount)
	}
	if in.VehicleID != nil {
		vehicle, err := s.CatalogRepo.GetVehicle(s.DB, *in.VehicleID)
		if err != nil {
			return models.Booking{}, err
		}
		days := int(end.Sub(start).Hours()/24) + 1
		total += vehicle.PricePerDay * float64(days)
	}

	id, err := s.BookingRepo.Create(s.DB, models.NewBooking{
		CustomerID:      in.CustomerID,
		TourID:          in.TourID,
		VehicleID:       in.VehicleID,
		StartDate:       utils.FormatDate(start),
		EndDate:         utils.FormatDate(end),
		PeopleCount:     in.PeopleCount,
		TotalPrice:      total,
		SpecialRequests: utils.TrimOrEmpty(in.SpecialRequests),
	})
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "could not create booking", Err: err}
	}

	observability.BookingsCreated.Inc()
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%d total=%s", id, utils.FormatMoney(total)))
	s.publish(models.Notification{
		Topic:     models.NotifyBookingCreated,
		BookingID: id,
		Message:   fmt.Sprintf("booking %d created for customer %d (%s to %s)", id, in.CustomerID, in.StartDate, in.EndDate),
	})

	return s.BookingRepo.GetByID(s.DB, id)
}

// StartTour moves a booking to in_progress. Only the assigned guide may
// start, and starting before payment confirmation is tolerated on
// purpose: staff routinely begin trips whose confirmation lags.
func (s BookingService) StartTour(bookingID, actingGuideID int64) error {
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		b, err := s.BookingRepo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.TourGuideID == nil || *b.TourGuideID != actingGuideID {
			return domain.PermissionError{Msg: "only the assigned tour guide can start this tour"}
		}
		if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "tour can only start from a pending or confirmed booking"}
		}
		if b.VehicleID != nil && b.DriverID == nil {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "no driver assigned yet"}
		}
		return s.BookingRepo.UpdateStatus(tx, bookingID, models.BookingInProgress)
	})
	if err != nil {
		return err
	}
	observability.BookingTransitions.WithLabelValues(models.BookingInProgress).Inc()
	utils.LogEvent(s.RequestID, "booking", "start_tour", fmt.Sprintf("booking_id=%d guide_id=%d", bookingID, actingGuideID))
	return nil
}

// FinishTour moves an in-progress booking to completed; this is the only
// transition that unlocks rating submission.
func (s BookingService) FinishTour(bookingID, actingGuideID int64) error {
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		b, err := s.BookingRepo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.TourGuideID == nil || *b.TourGuideID != actingGuideID {
			return domain.PermissionError{Msg: "only the assigned tour guide can finish this tour"}
		}
		if b.Status != models.BookingInProgress {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "only an in-progress tour can be finished"}
		}
		return s.BookingRepo.UpdateStatus(tx, bookingID, models.BookingCompleted)
	})
	if err != nil {
		return err
	}
	observability.BookingTransitions.WithLabelValues(models.BookingCompleted).Inc()
	utils.LogEvent(s.RequestID, "booking", "finish_tour", fmt.Sprintf("booking_id=%d guide_id=%d", bookingID, actingGuideID))
	return nil
}

// CancelBooking is the staff-only direct status write. Once a trip has
// started there is no cancel path.
func (s BookingService) CancelBooking(bookingID, staffID int64) error {
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		b, err := s.BookingRepo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "only pending or confirmed bookings can be cancelled"}
		}
		return s.BookingRepo.UpdateStatus(tx, bookingID, models.BookingCancelled)
	})
	if err != nil {
		return err
	}
	observability.BookingTransitions.WithLabelValues(models.BookingCancelled).Inc()
	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d staff_id=%d", bookingID, staffID))
	return nil
}

// AssignBooking sets guide/driver/vehicle on a booking that has not
// started yet. Assignee roles are validated before the write.
func (s BookingService) AssignBooking(bookingID, staffID int64, upd models.BookingAssignment) error {
	if upd.TourGuideID == nil && upd.DriverID == nil && upd.VehicleID == nil {
		return domain.ValidationError{Field: "assignment", Msg: "nothing to assign"}
	}
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		b, err := s.BookingRepo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "assignment is only possible before the trip starts"}
		}
		if upd.TourGuideID != nil {
			if err := s.requireRole(tx, *upd.TourGuideID, domain.RoleTourGuide); err != nil {
				return err
			}
		}
		if upd.DriverID != nil {
			if err := s.requireRole(tx, *upd.DriverID, domain.RoleDriver); err != nil {
				return err
			}
		}
		if upd.VehicleID != nil {
			if _, err := s.CatalogRepo.GetVehicle(tx, *upd.VehicleID); err != nil {
				return err
			}
		}
		return s.BookingRepo.UpdateAssignment(tx, bookingID, upd)
	})
	if err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "assign", fmt.Sprintf("booking_id=%d staff_id=%d", bookingID, staffID))
	return nil
}

// GetBooking returns a booking visible to its owner or staff.
func (s BookingService) GetBooking(bookingID, actorID int64, actorRole string) (models.Booking, error) {
	b, err := s.BookingRepo.GetByID(s.DB, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if actorRole != domain.RoleAdmin && b.CustomerID != actorID {
		if !isParticipant(b, actorID) {
			return models.Booking{}, domain.PermissionError{Msg: "not your booking"}
		}
	}
	return b, nil
}

// ListCustomerBookings returns the customer's own bookings.
func (s BookingService) ListCustomerBookings(customerID int64) ([]models.Booking, error) {
	return s.BookingRepo.ListByCustomer(s.DB, customerID)
}

func (s BookingService) requireRole(q db.Querier, userID int64, role string) error {
	u, err := s.UserRepo.GetByID(q, userID)
	if err != nil {
		return err
	}
	if u.Role != role {
		return domain.ValidationError{Field: "assignee", Msg: fmt.Sprintf("user %d is not a %s", userID, role)}
	}
	return nil
}

func (s BookingService) publish(n models.Notification) {
	if s.Sink == nil {
		return
	}
	if err := s.Sink.Publish(context.Background(), n); err != nil {
		utils.LogEvent(s.RequestID, "booking", "notify", "publish failed: "+err.Error())
	}
}

func isParticipant(b models.Booking, userID int64) bool {
	if b.TourGuideID != nil && *b.TourGuideID == userID {
		return true
	}
	if b.DriverID != nil && *b.DriverID == userID {
		return true
	}
	return false
}
