package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orgcomply/internal/domain"
)

// SubmissionFilter narrows ledger queries. Zero values mean "any".
type SubmissionFilter struct {
	Organization  string
	SubmittedTo   string
	Kind          domain.SubmissionKind
	ActivityTitle string
	Status        domain.SubmissionStatus
	EventID       *uuid.UUID
}

// EventRepository reads events owned by the external scheduling collaborator
// and writes the two deadline override columns, the only event mutation the
// core is allowed.
type EventRepository interface {
	List(ctx context.Context) ([]domain.Event, error)
	ListByTargets(ctx context.Context, targets []string) ([]domain.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	SetDeadlineOverride(ctx context.Context, id uuid.UUID, kind domain.ReportKind, date *time.Time) error
}

// SubmissionRepository is the persistence contract for the append-only
// submission ledger.
type SubmissionRepository interface {
	Insert(ctx context.Context, record *domain.SubmissionRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.SubmissionRecord, error)
	List(ctx context.Context, filter SubmissionFilter) ([]domain.SubmissionRecord, error)
	ListVisibleTo(ctx context.Context, org string) ([]domain.SubmissionRecord, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SubmissionStatus, reason string) error
	Delete(ctx context.Context, id int64) error
}

// NotificationRepository persists the fire-and-forget notification rows.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) (int64, error)
	ListByRecipient(ctx context.Context, org string, offset, limit int) ([]domain.Notification, int, error)
}
