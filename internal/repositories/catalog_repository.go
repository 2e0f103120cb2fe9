package repositories

import (
	"database/sql"
	"errors"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

// CatalogRepository reads the bookable inventory (tours and vehicles).
type CatalogRepository struct {
	DB *sql.DB
}

func (r CatalogRepository) GetTour(q db.Querier, id int64) (models.Tour, error) {
	var t models.Tour
	err := q.QueryRow(`
		SELECT id, name, COALESCE(description, ''), location, price, duration_days, status
		FROM tours WHERE id = ?`, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Location, &t.Price, &t.DurationDays, &t.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tour{}, domain.NotFoundError{Resource: "tour", Err: err}
		}
		return models.Tour{}, err
	}
	return t, nil
}

func (r CatalogRepository) GetVehicle(q db.Querier, id int64) (models.Vehicle, error) {
	var v models.Vehicle
	err := q.QueryRow(`
		SELECT id, name, plate_no, capacity, price_per_day, status
		FROM vehicles WHERE id = ?`, id).Scan(
		&v.ID, &v.Name, &v.PlateNo, &v.Capacity, &v.PricePerDay, &v.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle", Err: err}
		}
		return models.Vehicle{}, err
	}
	return v, nil
}

func (r CatalogRepository) ListTours(q db.Querier) ([]models.Tour, error) {
	rows, err := q.Query(`
		SELECT id, name, COALESCE(description, ''), location, price, duration_days, status
		FROM tours WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Tour{}
	for rows.Next() {
		var t models.Tour
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Location, &t.Price, &t.DurationDays, &t.Status); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r CatalogRepository) ListVehicles(q db.Querier) ([]models.Vehicle, error) {
	rows, err := q.Query(`
		SELECT id, name, plate_no, capacity, price_per_day, status
		FROM vehicles WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.PlateNo, &v.Capacity, &v.PricePerDay, &v.Status); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
