package domain

import (
	"errors"
	"fmt"
)

// DomainError keeps backward compatibility for generic codes.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// PermissionError signals an actor/role mismatch, not a missing resource.
type PermissionError struct {
	Actor string
	Msg   string
}

func (e PermissionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "permission denied"
}

// InvalidStateError signals a transition that is not legal from the
// current persisted status.
type InvalidStateError struct {
	Resource string
	Current  string
	Msg      string
}

func (e InvalidStateError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Resource != "" && e.Current != "" {
		return fmt.Sprintf("%s is %s", e.Resource, e.Current)
	}
	return "operation not possible in current state"
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// WindowExpiredError signals a time-boxed operation requested after its
// window closed. Hours carries the elapsed time truncated to one decimal
// for display; gating comparisons are done on the raw value.
type WindowExpiredError struct {
	Window string
	Hours  float64
}

func (e WindowExpiredError) Error() string {
	if e.Window == "" {
		return "window has closed"
	}
	return fmt.Sprintf("%s window has closed (%.1f hours elapsed)", e.Window, e.Hours)
}

// GatewayUnavailableError is returned only when the payment gateway is
// unreachable and no persisted state could answer instead.
type GatewayUnavailableError struct {
	Err error
}

func (e GatewayUnavailableError) Error() string {
	return "payment gateway unavailable"
}

func (e GatewayUnavailableError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsPermission(err error) bool {
	var target PermissionError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsWindowExpired(err error) bool {
	var target WindowExpiredError
	return errors.As(err, &target)
}

func IsGatewayUnavailable(err error) bool {
	var target GatewayUnavailableError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
