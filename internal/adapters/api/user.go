package api

import (
	"context"

	"mectofit/internal/domain/identity"
)

// UserService reads and edits the authenticated user's own profile. Its
// GetProfile is the identity endpoint the bootstrap reconciles against.
type UserService struct {
	client *Client
}

// NewUserService creates a UserService.
func NewUserService(c *Client) *UserService {
	return &UserService{client: c}
}

// ChangePasswordInput carries the fields for a password change.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// GetProfile fetches the current user from the server session. A denial
// here means the ambient credential is missing or expired.
func (s *UserService) GetProfile(ctx context.Context) (identity.User, error) {
	var u identity.User
	if err := s.client.Get(ctx, "/user/profile", nil, &u); err != nil {
		return identity.User{}, err
	}
	return u, nil
}

// UpdateProfile applies a partial profile update and returns the new state.
func (s *UserService) UpdateProfile(ctx context.Context, patch identity.UserPatch) (identity.User, error) {
	var u identity.User
	if err := s.client.Put(ctx, "/user/profile", patch, &u); err != nil {
		return identity.User{}, err
	}
	return u, nil
}

// ChangePassword rotates the user's password. The plaintext goes straight to
// the server; it is never persisted client-side.
func (s *UserService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	return s.client.Put(ctx, "/user/password", input, nil)
}
