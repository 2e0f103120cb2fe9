package models

import "time"

// User covers every platform role. AverageRating/RatingsCount are the
// derived aggregate stored on guide and driver rows, recomputed on every
// rating write.
type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int       `json:"ratings_count"`
	CreatedAt     time.Time `json:"created_at"`
}
