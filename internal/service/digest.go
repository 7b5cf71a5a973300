package service

import (
	"context"
	"fmt"
	"time"
)

// DeliverCallback is a function that pushes a notification text to an
// external chat.
type DeliverCallback func(chatID int64, text string)

// StartNotificationDigest runs a background loop that checks for undelivered
// notifications on the given interval and pushes them out through the
// callback. It blocks until the context is cancelled, so it should be
// launched in a separate goroutine.
func (s *Service) StartNotificationDigest(ctx context.Context, interval time.Duration, callback DeliverCallback) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Notification digest started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Notification digest stopped")
			return
		case <-ticker.C:
			s.deliverNotifications(ctx, callback)
		}
	}
}

// deliverNotifications fetches undelivered notifications and fires the
// callback for each user that has an external chat configured. Notifications
// are marked delivered either way so a user without a chat does not pile up
// an ever-growing backlog.
func (s *Service) deliverNotifications(ctx context.Context, callback DeliverCallback) {
	notifications, err := s.Notifications.GetUndelivered(ctx)
	if err != nil {
		s.logger.Errorf("Failed to get undelivered notifications: %v", err)
		return
	}

	for _, n := range notifications {
		profile, err := s.Profiles.Get(ctx, n.UserID)
		if err != nil {
			s.logger.Errorf("Failed to load profile %s: %v", n.UserID, err)
			continue
		}

		if profile != nil && profile.NotifyChatID != nil {
			callback(*profile.NotifyChatID, fmt.Sprintf("*%s*\n%s", n.Title, n.Body))
		}

		if err := s.Notifications.MarkDelivered(ctx, n.ID); err != nil {
			s.logger.Errorf("Failed to mark notification %s delivered: %v", n.ID, err)
		}
	}
}
