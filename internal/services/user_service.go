package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/auth"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/utils"
)

// UserService covers login and registration. Identity is deliberately
// thin; the booking core only consumes the id/role pair carried in the
// token.
type UserService struct {
	DB        *sql.DB
	UserRepo  repositories.UserRepository
	Auth      *auth.Manager
	RequestID string
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Login checks credentials and issues a token.
func (s UserService) Login(email, password string) (models.User, string, error) {
	email = strings.ToLower(utils.TrimOrEmpty(email))
	if email == "" || password == "" {
		return models.User{}, "", domain.ValidationError{Field: "credentials", Msg: "email and password are required"}
	}

	u, hash, err := s.UserRepo.GetByEmailWithHash(s.DB, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, "", domain.PermissionError{Msg: "wrong email or password"}
		}
		return models.User{}, "", err
	}
	if !auth.CheckPassword(hash, password) {
		return models.User{}, "", domain.PermissionError{Msg: "wrong email or password"}
	}

	token, err := s.Auth.IssueToken(u.ID, u.Role)
	if err != nil {
		return models.User{}, "", domain.InternalError{Msg: "could not issue token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d role=%s", u.ID, u.Role))
	return u, token, nil
}

// Register creates a customer account. Staff roles are seeded out of
// band, never self-registered.
func (s UserService) Register(in RegisterInput) (models.User, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = strings.ToLower(utils.TrimOrEmpty(in.Email))
	if in.Name == "" {
		return models.User{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "a valid email is required"}
	}
	if len(in.Password) < 8 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	exists, err := s.UserRepo.EmailExists(s.DB, in.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "could not hash password", Err: err}
	}

	u := models.User{
		Name:  in.Name,
		Email: in.Email,
		Phone: utils.TrimOrEmpty(in.Phone),
		Role:  domain.RoleCustomer,
	}
	id, err := s.UserRepo.Create(s.DB, u, hash)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "could not create user", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "register", fmt.Sprintf("user_id=%d", id))
	return s.UserRepo.GetByID(s.DB, id)
}
