package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

const submissionColumns = `id, organization, kind, activity_title, status, submitted_to,
	event_id, link, attachment_url, attachment_key, reason, audit_opinion, submitted_at, updated_at`

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

// buildSubmissionWhere constructs a dynamic WHERE clause for ledger queries.
// It returns the clause string (possibly empty) and the positional arguments.
func buildSubmissionWhere(filter port.SubmissionFilter) (clause string, args []interface{}) {
	argN := 1
	add := func(cond string, val interface{}) {
		if clause == "" {
			clause = "WHERE "
		} else {
			clause += " AND "
		}
		clause += fmt.Sprintf(cond, argN)
		args = append(args, val)
		argN++
	}

	if filter.Organization != "" {
		add("organization = $%d", filter.Organization)
	}
	if filter.SubmittedTo != "" {
		add("submitted_to = $%d", filter.SubmittedTo)
	}
	if filter.Kind != "" {
		add("kind = $%d", filter.Kind)
	}
	if filter.ActivityTitle != "" {
		add("activity_title = $%d", filter.ActivityTitle)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.EventID != nil {
		add("event_id = $%d", *filter.EventID)
	}
	return clause, args
}

func (r *submissionRepo) Insert(ctx context.Context, record *domain.SubmissionRecord) (int64, error) {
	query := `INSERT INTO submissions
		(organization, kind, activity_title, status, submitted_to, event_id,
		 link, attachment_url, attachment_key, reason, audit_opinion, submitted_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	RETURNING id, submitted_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		record.Organization, record.Kind, record.ActivityTitle, record.Status,
		record.SubmittedTo, record.EventID, record.Link, record.AttachmentURL,
		record.AttachmentKey, record.Reason, record.AuditOpinion,
	)
	if err := row.Scan(&record.ID, &record.SubmittedAt, &record.UpdatedAt); err != nil {
		return 0, fmt.Errorf("submissionRepo.Insert: %w", err)
	}
	return record.ID, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id int64) (*domain.SubmissionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE id = $1`, submissionColumns)

	var record domain.SubmissionRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	return &record, nil
}

func (r *submissionRepo) List(ctx context.Context, filter port.SubmissionFilter) ([]domain.SubmissionRecord, error) {
	whereClause, args := buildSubmissionWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM submissions %s ORDER BY submitted_at DESC, id DESC`,
		submissionColumns, whereClause)

	var records []domain.SubmissionRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query, args...); err != nil {
		return nil, fmt.Errorf("submissionRepo.List: %w", err)
	}
	return records, nil
}

func (r *submissionRepo) ListVisibleTo(ctx context.Context, org string) ([]domain.SubmissionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions
	WHERE organization = $1 OR submitted_to = $1
	ORDER BY submitted_at DESC, id DESC`, submissionColumns)

	var records []domain.SubmissionRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query, org); err != nil {
		return nil, fmt.Errorf("submissionRepo.ListVisibleTo: %w", err)
	}
	return records, nil
}

func (r *submissionRepo) UpdateStatus(ctx context.Context, id int64, status domain.SubmissionStatus, reason string) error {
	query := `UPDATE submissions SET status = $1, reason = $2, updated_at = NOW() WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, status, reason, id)
	if err != nil {
		return fmt.Errorf("submissionRepo.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *submissionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("submissionRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
