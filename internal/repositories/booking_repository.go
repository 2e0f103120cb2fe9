package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, customer_id, tour_id, vehicle_id, driver_id, tour_guide_id,
	       DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d'),
	       people_count, total_price, COALESCE(special_requests, ''), status, created_at`

// Create inserts a pending booking and returns its id.
func (r BookingRepository) Create(q db.Querier, nb models.NewBooking) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO bookings
			(customer_id, tour_id, vehicle_id, start_date, end_date, people_count, total_price, special_requests, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nb.CustomerID,
		db.NullInt64(nb.TourID),
		db.NullInt64(nb.VehicleID),
		nb.StartDate,
		nb.EndDate,
		nb.PeopleCount,
		nb.TotalPrice,
		db.NullIfEmpty(nb.SpecialRequests),
		models.BookingPending,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches a booking without locking.
func (r BookingRepository) GetByID(q db.Querier, id int64) (models.Booking, error) {
	return r.get(q, id, false)
}

// GetByIDForUpdate fetches a booking with a row lock. Must run inside a
// transaction; every mutation path re-reads status through here right
// before checking preconditions.
func (r BookingRepository) GetByIDForUpdate(q db.Querier, id int64) (models.Booking, error) {
	return r.get(q, id, true)
}

func (r BookingRepository) get(q db.Querier, id int64, forUpdate bool) (models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		b                                      models.Booking
		tourID, vehicleID, driverID, guideID   sql.NullInt64
	)
	err := q.QueryRow(query, id).Scan(
		&b.ID,
		&b.CustomerID,
		&tourID,
		&vehicleID,
		&driverID,
		&guideID,
		&b.StartDate,
		&b.EndDate,
		&b.PeopleCount,
		&b.TotalPrice,
		&b.SpecialRequests,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, err
	}
	b.TourID = int64Ptr(tourID)
	b.VehicleID = int64Ptr(vehicleID)
	b.DriverID = int64Ptr(driverID)
	b.TourGuideID = int64Ptr(guideID)
	return b, nil
}

// UpdateStatus writes the new status without precondition checks; the
// service layer owns transition legality.
func (r BookingRepository) UpdateStatus(q db.Querier, id int64, status string) error {
	_, err := q.Exec(`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	return err
}

// UpdateAssignment performs PATCH-style staff assignment via key presence.
func (r BookingRepository) UpdateAssignment(q db.Querier, id int64, upd models.BookingAssignment) error {
	sets := []string{}
	args := []any{}
	if upd.TourGuideID != nil {
		sets = append(sets, "tour_guide_id=?")
		args = append(args, *upd.TourGuideID)
	}
	if upd.DriverID != nil {
		sets = append(sets, "driver_id=?")
		args = append(args, *upd.DriverID)
	}
	if upd.VehicleID != nil {
		sets = append(sets, "vehicle_id=?")
		args = append(args, *upd.VehicleID)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := q.Exec(`UPDATE bookings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

// ListByCustomer returns a customer's bookings, newest first.
func (r BookingRepository) ListByCustomer(q db.Querier, customerID int64) ([]models.Booking, error) {
	rows, err := q.Query(`SELECT `+bookingColumns+` FROM bookings WHERE customer_id = ? ORDER BY id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var (
			b                                    models.Booking
			tourID, vehicleID, driverID, guideID sql.NullInt64
		)
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &tourID, &vehicleID, &driverID, &guideID,
			&b.StartDate, &b.EndDate, &b.PeopleCount, &b.TotalPrice,
			&b.SpecialRequests, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		b.TourID = int64Ptr(tourID)
		b.VehicleID = int64Ptr(vehicleID)
		b.DriverID = int64Ptr(driverID)
		b.TourGuideID = int64Ptr(guideID)
		out = append(out, b)
	}
	return out, rows.Err()
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
