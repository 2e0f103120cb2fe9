package repositories

import (
	"database/sql"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

// NotificationRepository appends to the notifications table. The core
// never reads the table back; it exists for downstream staff review.
type NotificationRepository struct {
	DB *sql.DB
}

func (r NotificationRepository) Append(q db.Querier, n models.Notification) error {
	_, err := q.Exec(
		`INSERT INTO notifications (topic, booking_id, message) VALUES (?, ?, ?)`,
		n.Topic, n.BookingID, n.Message,
	)
	return err
}
