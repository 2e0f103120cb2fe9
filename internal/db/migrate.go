package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema. It is an explicit deployment/startup step;
// runtime request paths assume the tables exist and fail fast otherwise.
func Migrate(dbc *sql.DB) error {
	for _, ddl := range schema {
		if _, err := dbc.Exec(ddl); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(30) NOT NULL DEFAULT 'customer',
	status VARCHAR(30) NOT NULL DEFAULT 'active',
	average_rating DECIMAL(3,2) NOT NULL DEFAULT 0,
	ratings_count INT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS tours (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT,
	location VARCHAR(255) NOT NULL DEFAULT '',
	price DECIMAL(12,2) NOT NULL DEFAULT 0,
	duration_days INT NOT NULL DEFAULT 1,
	status VARCHAR(30) NOT NULL DEFAULT 'active'
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS vehicles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	plate_no VARCHAR(50) NOT NULL DEFAULT '',
	capacity INT NOT NULL DEFAULT 4,
	price_per_day DECIMAL(12,2) NOT NULL DEFAULT 0,
	status VARCHAR(30) NOT NULL DEFAULT 'active'
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	customer_id BIGINT NOT NULL,
	tour_id BIGINT NULL,
	vehicle_id BIGINT NULL,
	driver_id BIGINT NULL,
	tour_guide_id BIGINT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	people_count INT NOT NULL,
	total_price DECIMAL(12,2) NOT NULL DEFAULT 0,
	special_requests TEXT,
	status VARCHAR(30) NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_customer (customer_id),
	KEY idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	amount DECIMAL(12,2) NOT NULL DEFAULT 0,
	method VARCHAR(50) NOT NULL DEFAULT '',
	tx_ref VARCHAR(100) NOT NULL,
	status VARCHAR(30) NOT NULL DEFAULT 'pending',
	refund_requested TINYINT(1) NOT NULL DEFAULT 0,
	paid_at TIMESTAMP NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_tx_ref (tx_ref),
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS change_requests (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	requester_id BIGINT NOT NULL,
	request_type VARCHAR(30) NOT NULL,
	old_guide_id BIGINT NULL,
	old_driver_id BIGINT NULL,
	new_guide_id BIGINT NULL,
	new_driver_id BIGINT NULL,
	status VARCHAR(30) NOT NULL DEFAULT 'pending',
	reason TEXT,
	processed_by BIGINT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	processed_at TIMESTAMP NULL,
	KEY idx_booking_status (booking_id, status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS ratings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	tour_guide_id BIGINT NULL,
	driver_id BIGINT NULL,
	rating_tourguide INT NULL,
	rating_driver INT NULL,
	review_tourguide TEXT,
	review_driver TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking (booking_id),
	KEY idx_guide (tour_guide_id),
	KEY idx_driver (driver_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS notifications (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	topic VARCHAR(50) NOT NULL,
	booking_id BIGINT NOT NULL DEFAULT 0,
	message TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_topic (topic)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}
