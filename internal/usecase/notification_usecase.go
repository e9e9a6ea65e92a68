package usecase

import (
	"context"

	"github.com/ceobank/backend/internal/domain"
)

// NotificationUseCase reads and acknowledges account notifications.
// Creation happens inside the transactions of the operations that cause
// them.
type NotificationUseCase struct {
	notifRepo NotificationRepository
}

// NewNotificationUseCase creates a new NotificationUseCase.
func NewNotificationUseCase(notifRepo NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifRepo: notifRepo}
}

// List returns an account's notifications, newest first.
func (uc *NotificationUseCase) List(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	return uc.notifRepo.ListByAccount(ctx, accountID, limit, offset)
}

// MarkRead acknowledges one notification. The account ID guards against
// acknowledging someone else's notification.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, accountID string) error {
	return uc.notifRepo.MarkRead(ctx, id, accountID)
}
