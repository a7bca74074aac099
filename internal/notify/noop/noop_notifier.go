package noop

import (
	"context"
	"log"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op Notifier that logs notifications to stdout.
func NewNoopNotifier() port.Notifier {
	return &noopNotifier{}
}

func (s *noopNotifier) Notify(_ context.Context, n *domain.Notification) error {
	log.Printf("[NOOP NOTIFY] %s -> %s: %s (%s)", n.FromOrg, n.ToOrg, n.Title, n.Description)
	return nil
}
