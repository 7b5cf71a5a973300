package service

import (
	"context"
	"fmt"

	"giftwell/internal/models"
	"giftwell/internal/storage"
)

// CreateList creates a list for the user and shares it with the given groups.
func (s *Service) CreateList(ctx context.Context, list *models.List, groupIDs []string) (*models.List, error) {
	created, err := s.Lists.Create(ctx, list, groupIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Created list %q (%s) for user %s", created.Name, created.ID, created.UserID)
	return created, nil
}

// GetList returns a single list with its group assignments and image URL
// resolved.
func (s *Service) GetList(ctx context.Context, listID string) (*models.List, error) {
	list, err := s.Lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list != nil {
		list.Image = s.images.PublicURL(storage.BucketAvatars, list.ID, list.ImageToken)
	}
	return list, nil
}

// UserLists returns all of a user's lists with image URLs resolved.
func (s *Service) UserLists(ctx context.Context, userID string) ([]*models.List, error) {
	lists, err := s.Lists.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		l.Image = s.images.PublicURL(storage.BucketAvatars, l.ID, l.ImageToken)
	}
	return lists, nil
}

// UpdateList saves list fields and replaces its group assignments. Only the
// owning user may mutate a list.
func (s *Service) UpdateList(ctx context.Context, userID string, list *models.List, groupIDs []string) (*models.List, error) {
	existing, err := s.Lists.GetByID(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("list %s not found", list.ID)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("list %s does not belong to user %s", list.ID, userID)
	}

	return s.Lists.Update(ctx, list, groupIDs)
}

// DeleteList removes one of the user's lists. Items assigned to it survive
// and simply lose the assignment.
func (s *Service) DeleteList(ctx context.Context, userID, listID string) error {
	existing, err := s.Lists.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("list %s not found", listID)
	}
	if existing.UserID != userID {
		return fmt.Errorf("list %s does not belong to user %s", listID, userID)
	}

	return s.Lists.Delete(ctx, listID)
}
