package domain

// ID is used across domain entities.
type ID int64

// Status represents a lightweight state value.
type Status string

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}

// Roles recognized by the platform.
const (
	RoleCustomer  = "customer"
	RoleTourGuide = "tour_guide"
	RoleDriver    = "driver"
	RoleAdmin     = "admin"
)
