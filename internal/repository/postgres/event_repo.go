package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

const eventColumns = `id, title, description, start_date, end_date, all_day, venue,
	target_organization, require_accomplishment, require_liquidation,
	accomplishment_deadline_override, liquidation_deadline_override,
	created_at, updated_at`

type eventRepo struct {
	db *sqlx.DB
}

// NewEventRepo creates a new PostgreSQL-backed EventRepository.
func NewEventRepo(db *sqlx.DB) port.EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) List(ctx context.Context) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY start_date ASC`, eventColumns)

	var events []domain.Event
	if err := sqlx.SelectContext(ctx, r.db, &events, query); err != nil {
		return nil, fmt.Errorf("eventRepo.List: %w", err)
	}
	return events, nil
}

func (r *eventRepo) ListByTargets(ctx context.Context, targets []string) ([]domain.Event, error) {
	if len(targets) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT %s FROM events WHERE target_organization IN (?) ORDER BY start_date ASC`, eventColumns),
		targets,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.ListByTargets in: %w", err)
	}
	query = r.db.Rebind(query)

	var events []domain.Event
	if err := sqlx.SelectContext(ctx, r.db, &events, query, args...); err != nil {
		return nil, fmt.Errorf("eventRepo.ListByTargets: %w", err)
	}
	return events, nil
}

func (r *eventRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)

	var event domain.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("eventRepo.GetByID: %w", err)
	}
	return &event, nil
}

func (r *eventRepo) SetDeadlineOverride(ctx context.Context, id uuid.UUID, kind domain.ReportKind, date *time.Time) error {
	column := "accomplishment_deadline_override"
	if kind == domain.ReportLiquidation {
		column = "liquidation_deadline_override"
	}
	query := fmt.Sprintf(`UPDATE events SET %s = $1, updated_at = NOW() WHERE id = $2`, column)

	res, err := r.db.ExecContext(ctx, query, date, id)
	if err != nil {
		return fmt.Errorf("eventRepo.SetDeadlineOverride: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
