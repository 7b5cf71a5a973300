package service

import (
	"context"
	"fmt"

	"giftwell/internal/models"
	"giftwell/internal/storage"
)

// GetProfile returns a user's profile with the avatar URL resolved, or nil
// when no profile exists.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		profile.Image = s.images.PublicURL(storage.BucketAvatars, profile.UserID, profile.AvatarToken)
	}
	return profile, nil
}

// CreateProfile registers a profile for a new user.
func (s *Service) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	created, err := s.Profiles.Create(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Created profile for user %s", created.UserID)
	return created, nil
}

// UpdateProfile saves profile fields for the user.
func (s *Service) UpdateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	return s.Profiles.Update(ctx, profile)
}

// DeleteAccount removes the user's profile. A user who still owns groups must
// hand them over or delete them first, otherwise their groups would be left
// without an owner.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	owned, err := s.Groups.CountOwnedBy(ctx, userID)
	if err != nil {
		return err
	}
	if owned > 0 {
		return fmt.Errorf("user %s still owns %d group(s)", userID, owned)
	}

	if err := s.Profiles.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Infof("Deleted account for user %s", userID)
	return nil
}

// Notifications

// UserNotifications returns the user's in-app notifications, newest first.
func (s *Service) UserNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.Notifications.GetByUser(ctx, userID)
}

// MarkNotificationSeen marks a notification as viewed in the app.
func (s *Service) MarkNotificationSeen(ctx context.Context, id string) error {
	return s.Notifications.MarkSeen(ctx, id)
}
