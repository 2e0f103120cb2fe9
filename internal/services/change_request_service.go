package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/notify"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/observability"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/utils"
)

// Decisions a staff member can take on a pending change request.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ChangeRequestService owns mid-trip reassignment of driver/tour guide.
// The single-pending-request invariant is enforced by a read-before-
// insert guard inside the same transaction as the insert; the store's
// isolation serializes the pair.
type ChangeRequestService struct {
	DB                *sql.DB
	ChangeRequestRepo repositories.ChangeRequestRepository
	BookingRepo       repositories.BookingRepository
	UserRepo          repositories.UserRepository
	Sink              notify.Sink
	RequestID         string

	Now func() time.Time
}

func (s ChangeRequestService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateChangeRequest files a reassignment ask on an in-progress
// booking, capturing the current assignees so a later replaced
// participant can be told what happened.
func (s ChangeRequestService) CreateChangeRequest(bookingID, customerID int64, requestType, reason string) (models.ChangeRequest, error) {
	switch requestType {
	case models.ChangeTourGuide, models.ChangeDriver, models.ChangeBoth:
	default:
		return models.ChangeRequest{}, domain.ValidationError{Field: "request_type", Msg: "must be tour_guide, driver or both"}
	}

	var created models.ChangeRequest
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		b, err := s.BookingRepo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != customerID {
			return domain.PermissionError{Msg: "not your booking"}
		}
		if b.Status != models.BookingInProgress {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "changes can only be requested on an in-progress trip"}
		}
		pending, err := s.ChangeRequestRepo.HasPendingForBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if pending {
			return domain.ConflictError{Resource: "change request", Msg: "a pending request already exists for this booking"}
		}

		created = models.ChangeRequest{
			BookingID:   bookingID,
			RequesterID: customerID,
			RequestType: requestType,
			OldGuideID:  b.TourGuideID,
			OldDriverID: b.DriverID,
			Status:      models.ChangeRequestPending,
			Reason:      utils.NormalizeSpace(reason),
		}
		id, err := s.ChangeRequestRepo.Create(tx, created)
		if err != nil {
			return err
		}
		created.ID = id
		created.CreatedAt = s.now()
		return nil
	})
	if err != nil {
		return models.ChangeRequest{}, err
	}

	observability.ChangeRequests.WithLabelValues("created").Inc()
	utils.LogEvent(s.RequestID, "change_request", "create", fmt.Sprintf("booking_id=%d request_id=%d type=%s", bookingID, created.ID, requestType))
	s.publish(models.Notification{
		Topic:     models.NotifyChangeRequested,
		BookingID: bookingID,
		Message:   fmt.Sprintf("customer %d requested a %s change on booking %d: %s", customerID, requestType, bookingID, created.Reason),
	})
	return created, nil
}

// ProcessChangeRequest is the staff decision point. Approval overwrites
// the booking's assignees and completes the request in one transaction,
// so a crash can never leave the booking reassigned while the request
// still reads pending.
func (s ChangeRequestService) ProcessChangeRequest(requestID, staffID int64, decision string, newGuideID, newDriverID *int64) error {
	if decision != DecisionApprove && decision != DecisionReject {
		return domain.ValidationError{Field: "decision", Msg: "must be approve or reject"}
	}

	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		cr, err := s.ChangeRequestRepo.GetByIDForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if cr.Status != models.ChangeRequestPending {
			return domain.InvalidStateError{Resource: "change request", Current: cr.Status, Msg: "request has already been processed"}
		}

		if decision == DecisionReject {
			return s.ChangeRequestRepo.MarkRejected(tx, requestID, staffID, s.now())
		}

		// All required ids are checked before anything mutates.
		needGuide := cr.RequestType == models.ChangeTourGuide || cr.RequestType == models.ChangeBoth
		needDriver := cr.RequestType == models.ChangeDriver || cr.RequestType == models.ChangeBoth
		if needGuide && newGuideID == nil {
			return domain.ValidationError{Field: "new_guide_id", Msg: "required for this request type"}
		}
		if needDriver && newDriverID == nil {
			return domain.ValidationError{Field: "new_driver_id", Msg: "required for this request type"}
		}
		if needGuide {
			if err := s.requireRole(tx, *newGuideID, domain.RoleTourGuide); err != nil {
				return err
			}
		}
		if needDriver {
			if err := s.requireRole(tx, *newDriverID, domain.RoleDriver); err != nil {
				return err
			}
		}

		// Fresh status read: the booking may have left in_progress a
		// moment earlier.
		b, err := s.BookingRepo.GetByIDForUpdate(tx, cr.BookingID)
		if err != nil {
			return err
		}
		if b.Status != models.BookingInProgress {
			return domain.InvalidStateError{Resource: "booking", Current: b.Status, Msg: "booking is no longer in progress"}
		}

		upd := models.BookingAssignment{}
		if needGuide {
			upd.TourGuideID = newGuideID
		}
		if needDriver {
			upd.DriverID = newDriverID
		}
		if err := s.BookingRepo.UpdateAssignment(tx, cr.BookingID, upd); err != nil {
			return err
		}

		var guideArg, driverArg *int64
		if needGuide {
			guideArg = newGuideID
		}
		if needDriver {
			driverArg = newDriverID
		}
		return s.ChangeRequestRepo.MarkCompleted(tx, requestID, staffID, guideArg, driverArg, s.now())
	})
	if err != nil {
		return err
	}

	observability.ChangeRequests.WithLabelValues(decision).Inc()
	utils.LogEvent(s.RequestID, "change_request", "process", fmt.Sprintf("request_id=%d staff_id=%d decision=%s", requestID, staffID, decision))
	return nil
}

// CancelChangeRequest withdraws a pending request. The row is deleted
// outright; an uncommitted request carries no history worth retaining.
func (s ChangeRequestService) CancelChangeRequest(requestID, customerID int64) error {
	err := db.WithTx(s.DB, func(tx *sql.Tx) error {
		cr, err := s.ChangeRequestRepo.GetByIDForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if cr.RequesterID != customerID {
			return domain.PermissionError{Msg: "not your request"}
		}
		if cr.Status != models.ChangeRequestPending {
			return domain.InvalidStateError{Resource: "change request", Current: cr.Status, Msg: "only a pending request can be withdrawn"}
		}
		return s.ChangeRequestRepo.Delete(tx, requestID)
	})
	if err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "change_request", "cancel", fmt.Sprintf("request_id=%d customer_id=%d", requestID, customerID))
	return nil
}

// CheckAssignment tells a guide/driver whether they are still the
// active assignee. "Replaced" is distinguished from "never assigned":
// the former gets a soft notice with the replacement details, the
// latter is a permission failure.
func (s ChangeRequestService) CheckAssignment(bookingID, userID int64, role string) (models.AssignmentCheck, error) {
	if role != domain.RoleTourGuide && role != domain.RoleDriver {
		return models.AssignmentCheck{}, domain.ValidationError{Field: "role", Msg: "must be tour_guide or driver"}
	}
	b, err := s.BookingRepo.GetByID(s.DB, bookingID)
	if err != nil {
		return models.AssignmentCheck{}, err
	}

	current := b.TourGuideID
	if role == domain.RoleDriver {
		current = b.DriverID
	}
	if current != nil && *current == userID {
		return models.AssignmentCheck{IsAssigned: true}, nil
	}

	cr, err := s.ChangeRequestRepo.LatestReplacementFor(s.DB, bookingID, userID, roleColumnKey(role))
	if err != nil {
		if domain.IsNotFound(err) {
			return models.AssignmentCheck{}, domain.PermissionError{Msg: "you are not assigned to this booking"}
		}
		return models.AssignmentCheck{}, err
	}

	replacedBy := cr.NewGuideID
	if role == domain.RoleDriver {
		replacedBy = cr.NewDriverID
	}
	return models.AssignmentCheck{
		WasReplaced: true,
		ReplacedBy:  replacedBy,
		ReplacedAt:  cr.ProcessedAt,
	}, nil
}

func (s ChangeRequestService) requireRole(q db.Querier, userID int64, role string) error {
	u, err := s.UserRepo.GetByID(q, userID)
	if err != nil {
		return err
	}
	if u.Role != role {
		return domain.ValidationError{Field: "assignee", Msg: fmt.Sprintf("user %d is not a %s", userID, role)}
	}
	return nil
}

func (s ChangeRequestService) publish(n models.Notification) {
	if s.Sink == nil {
		return
	}
	if err := s.Sink.Publish(context.Background(), n); err != nil {
		utils.LogEvent(s.RequestID, "change_request", "notify", "publish failed: "+err.Error())
	}
}

func roleColumnKey(role string) string {
	if role == domain.RoleDriver {
		return "driver"
	}
	return "guide"
}
