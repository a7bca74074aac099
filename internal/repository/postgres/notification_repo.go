package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

type notificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo creates a new PostgreSQL-backed NotificationRepository.
func NewNotificationRepo(db *sqlx.DB) port.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Insert(ctx context.Context, n *domain.Notification) (int64, error) {
	query := `INSERT INTO notifications (event_id, title, description, from_org, to_org, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query, n.EventID, n.Title, n.Description, n.FromOrg, n.ToOrg)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		return 0, fmt.Errorf("notificationRepo.Insert: %w", err)
	}
	return n.ID, nil
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, org string, offset, limit int) ([]domain.Notification, int, error) {
	query := `SELECT id, event_id, title, description, from_org, to_org, created_at
	FROM notifications
	WHERE to_org = $1
	ORDER BY created_at DESC, id DESC
	OFFSET $2 LIMIT $3`

	var rows []domain.Notification
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, org, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("notificationRepo.ListByRecipient data: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE to_org = $1`, org); err != nil {
		return nil, 0, fmt.Errorf("notificationRepo.ListByRecipient count: %w", err)
	}
	return rows, total, nil
}
