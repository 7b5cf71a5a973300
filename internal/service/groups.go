package service

import (
	"context"
	"fmt"

	"giftwell/internal/models"
	"giftwell/internal/storage"
)

// CreateGroup creates a group with the given user as owning member.
func (s *Service) CreateGroup(ctx context.Context, group *models.Group, ownerID string) (*models.Group, error) {
	created, err := s.Groups.Create(ctx, group, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Created group %q (%s) owned by %s", created.Name, created.ID, ownerID)
	return created, nil
}

// GetGroup returns a group with the viewer's membership embedded and its
// image URL resolved.
func (s *Service) GetGroup(ctx context.Context, groupID, viewerID string) (*models.Group, error) {
	group, err := s.Groups.GetByID(ctx, groupID, viewerID)
	if err != nil {
		return nil, err
	}
	if group != nil {
		group.Image = s.images.PublicURL(storage.BucketItems, group.ID, group.ImageToken)
	}
	return group, nil
}

// UserGroups returns the groups the user belongs to, pinned groups first.
func (s *Service) UserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.Groups.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		g.Image = s.images.PublicURL(storage.BucketItems, g.ID, g.ImageToken)
	}
	return groups, nil
}

// UpdateGroup saves group fields. Only an owning member may update a group.
func (s *Service) UpdateGroup(ctx context.Context, group *models.Group, userID string) (*models.Group, error) {
	if err := s.requireGroupOwner(ctx, group.ID, userID); err != nil {
		return nil, err
	}
	return s.Groups.Update(ctx, group)
}

// DeleteGroup removes a group entirely. Only an owning member may delete it.
func (s *Service) DeleteGroup(ctx context.Context, groupID, userID string) error {
	if err := s.requireGroupOwner(ctx, groupID, userID); err != nil {
		return err
	}
	return s.Groups.Delete(ctx, groupID)
}

// GroupMembers lists a group's members with avatar URLs resolved.
func (s *Service) GroupMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	members, err := s.Groups.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Profile.Image = s.images.PublicURL(storage.BucketAvatars, members[i].Profile.UserID, members[i].Profile.AvatarToken)
	}
	return members, nil
}

// InviteMember adds a pending membership for an existing user and leaves an
// in-app notification for them.
func (s *Service) InviteMember(ctx context.Context, groupID, inviterID, userID string) error {
	group, err := s.Groups.GetByID(ctx, groupID, inviterID)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s not found", groupID)
	}

	err = s.Groups.AddMember(ctx, &models.Membership{
		GroupID: groupID,
		UserID:  userID,
		Invite:  true,
	})
	if err != nil {
		return err
	}

	if _, err := s.Notifications.Create(ctx, &models.Notification{
		UserID: userID,
		Title:  "Group invite",
		Body:   fmt.Sprintf("You've been invited to join %s.", group.Name),
		Action: "/groups/" + groupID,
	}); err != nil {
		// The invite itself succeeded; a missing notification is not worth
		// failing the operation over.
		s.logger.WithError(err).Error("Failed to create invite notification")
	}

	s.logger.Infof("Invited user %s to group %s", userID, groupID)
	return nil
}

// InviteExternal records an invitation for an email address with no account
// yet.
func (s *Service) InviteExternal(ctx context.Context, groupID, email string, owner bool) error {
	return s.Groups.CreateExternalInvite(ctx, &models.ExternalInvite{
		GroupID: groupID,
		Email:   email,
		Owner:   owner,
	})
}

// AcceptInvite converts a pending membership into a full one.
func (s *Service) AcceptInvite(ctx context.Context, groupID, userID string) error {
	return s.Groups.AcceptInvite(ctx, groupID, userID)
}

// LeaveGroup removes the user's membership.
func (s *Service) LeaveGroup(ctx context.Context, groupID, userID string) error {
	return s.Groups.RemoveMember(ctx, groupID, userID)
}

// RemoveMember removes another member from the group; only owners may do so.
func (s *Service) RemoveMember(ctx context.Context, groupID, ownerID, userID string) error {
	if err := s.requireGroupOwner(ctx, groupID, ownerID); err != nil {
		return err
	}
	return s.Groups.RemoveMember(ctx, groupID, userID)
}

// SetGroupPinned toggles the pinned flag on the user's own membership.
func (s *Service) SetGroupPinned(ctx context.Context, groupID, userID string, pinned bool) error {
	return s.Groups.SetPinned(ctx, groupID, userID, pinned)
}

func (s *Service) requireGroupOwner(ctx context.Context, groupID, userID string) error {
	group, err := s.Groups.GetByID(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s not found", groupID)
	}
	if group.MyMembership == nil || !group.MyMembership.Owner || group.MyMembership.Invite {
		return fmt.Errorf("user %s does not own group %s", userID, groupID)
	}
	return nil
}
