package notify

import (
	"context"
	"database/sql"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/utils"
)

// Sink is the append-only outbound channel for staff-facing events.
// Writes are fire-and-forget: services log a failed publish and move
// on, they never roll back business state over it.
type Sink interface {
	Publish(ctx context.Context, n models.Notification) error
}

// TableSink appends notifications to the notifications table.
type TableSink struct {
	DB   *sql.DB
	Repo repositories.NotificationRepository
}

func NewTableSink(dbc *sql.DB) *TableSink {
	return &TableSink{DB: dbc, Repo: repositories.NotificationRepository{DB: dbc}}
}

func (s *TableSink) Publish(ctx context.Context, n models.Notification) error {
	return s.Repo.Append(s.DB, n)
}

// LogOnly is the fallback sink when nothing is configured; useful in
// tests and local development.
type LogOnly struct{}

func (LogOnly) Publish(ctx context.Context, n models.Notification) error {
	utils.LogEvent("", "notify", n.Topic, n.Message)
	return nil
}
