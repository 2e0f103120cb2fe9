package repositories

import (
	"database/sql"
	"errors"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, name, email, COALESCE(phone, ''), role, status, average_rating, ratings_count, created_at`

// GetByID fetches a user by primary key.
func (r UserRepository) GetByID(q db.Querier, id int64) (models.User, error) {
	var u models.User
	err := q.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status,
		&u.AverageRating, &u.RatingsCount, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmailWithHash is the login lookup.
func (r UserRepository) GetByEmailWithHash(q db.Querier, email string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := q.QueryRow(`
		SELECT id, name, email, COALESCE(phone, ''), password_hash, role, status, average_rating, ratings_count, created_at
		FROM users WHERE email = ?`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &hash, &u.Role, &u.Status,
		&u.AverageRating, &u.RatingsCount, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, "", err
	}
	return u, hash, nil
}

// Create registers a user and returns the new id.
func (r UserRepository) Create(q db.Querier, u models.User, passwordHash string) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO users (name, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, 'active')`,
		u.Name, u.Email, u.Phone, passwordHash, u.Role,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// EmailExists backs the duplicate-registration guard.
func (r UserRepository) EmailExists(q db.Querier, email string) (bool, error) {
	var n int
	if err := q.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateAggregateRating stores the recomputed mean and count on the
// guide/driver row.
func (r UserRepository) UpdateAggregateRating(q db.Querier, userID int64, avg float64, count int) error {
	_, err := q.Exec(`UPDATE users SET average_rating = ?, ratings_count = ? WHERE id = ?`, avg, count, userID)
	return err
}
