package supabase

import (
	"context"
	"fmt"
	"net/http"

	"giftwell/internal/models"
	"giftwell/internal/repository"
)

type profileRepository struct {
	client *Client
}

// NewProfileRepository creates a profile repository backed by PostgREST.
func NewProfileRepository(client *Client) repository.ProfileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var rows []models.Profile
	if err := r.client.get(ctx, "/profiles?user_id="+eq(userID)+"&select=*", &rows); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	payload := map[string]any{
		"user_id":      profile.UserID,
		"email":        profile.Email,
		"first_name":   profile.FirstName,
		"last_name":    profile.LastName,
		"bio":          profile.Bio,
		"enable_lists": profile.EnableLists,
		"avatar_token": profile.AvatarToken,
	}

	data, err := r.client.request(ctx, http.MethodPost, "/profiles", payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	var rows []models.Profile
	if err := decodeRows(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		*profile = rows[0]
	}

	return profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	payload := map[string]any{
		"first_name":     profile.FirstName,
		"last_name":      profile.LastName,
		"bio":            profile.Bio,
		"enable_lists":   profile.EnableLists,
		"avatar_token":   profile.AvatarToken,
		"notify_chat_id": profile.NotifyChatID,
	}

	endpoint := "/profiles?user_id=" + eq(profile.UserID)
	if _, err := r.client.request(ctx, http.MethodPatch, endpoint, payload, nil); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	endpoint := "/profiles?user_id=" + eq(userID)
	if _, err := r.client.request(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	return nil
}
