package service

import (
	"context"
	"log"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

// sendNotification records and delivers a notification on a best-effort
// basis. Failures are logged and swallowed: the notification channel must
// never block or roll back the primary write that triggered it.
func sendNotification(ctx context.Context, repo port.NotificationRepository, notifier port.Notifier, n *domain.Notification) {
	if _, err := repo.Insert(ctx, n); err != nil {
		log.Printf("notify: failed to record notification %q for %s: %v", n.Title, n.ToOrg, err)
	}
	if err := notifier.Notify(ctx, n); err != nil {
		log.Printf("notify: failed to deliver notification %q to %s: %v", n.Title, n.ToOrg, err)
	}
}
