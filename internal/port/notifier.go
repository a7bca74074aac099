package port

import (
	"context"

	"orgcomply/internal/domain"
)

// Notifier delivers a notification to the recipient organization's mailbox.
// Delivery is best-effort: failures are logged by callers and never block or
// roll back the write that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}
