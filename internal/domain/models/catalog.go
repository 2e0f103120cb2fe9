package models

// Tour is a bookable tour package.
type Tour struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
	Status       string  `json:"status"`
}

// Vehicle is a bookable vehicle.
type Vehicle struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	PlateNo     string  `json:"plate_no"`
	Capacity    int     `json:"capacity"`
	PricePerDay float64 `json:"price_per_day"`
	Status      string  `json:"status"`
}
