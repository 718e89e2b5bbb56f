package api

import (
	"context"

	"mectofit/internal/domain/identity"
)

// OrganizationService covers the team-management surface: the organization
// record, its members, and invitations. The bootstrap's secondary fetch uses
// Get and treats every failure as non-fatal.
type OrganizationService struct {
	client *Client
}

// NewOrganizationService creates an OrganizationService.
func NewOrganizationService(c *Client) *OrganizationService {
	return &OrganizationService{client: c}
}

// InviteInput carries an invitation for a new team member.
type InviteInput struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// OrganizationStats summarizes the organization for the team dashboard.
type OrganizationStats struct {
	MemberCount  int `json:"member_count"`
	TrainerCount int `json:"trainer_count"`
	ClientCount  int `json:"client_count"`
}

// Get fetches the current user's organization.
func (s *OrganizationService) Get(ctx context.Context) (identity.Organization, error) {
	var o identity.Organization
	if err := s.client.Get(ctx, "/organization/", nil, &o); err != nil {
		return identity.Organization{}, err
	}
	return o, nil
}

// Update applies a partial organization update and returns the new state.
func (s *OrganizationService) Update(ctx context.Context, patch identity.OrganizationPatch) (identity.Organization, error) {
	var o identity.Organization
	if err := s.client.Patch(ctx, "/organization/", patch, &o); err != nil {
		return identity.Organization{}, err
	}
	return o, nil
}

// Members lists the users belonging to the organization.
func (s *OrganizationService) Members(ctx context.Context) ([]identity.User, error) {
	var members []identity.User
	if err := s.client.Get(ctx, "/organization/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMemberRole changes a member's role.
// PRE: role is one of identity.ValidRoles
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, userID int, role string) error {
	body := map[string]string{"role": role}
	return s.client.Patch(ctx, memberRolePath(userID), body, nil)
}

// Invite sends a team invitation.
func (s *OrganizationService) Invite(ctx context.Context, input InviteInput) error {
	return s.client.Post(ctx, "/organization/invite", input, nil)
}

// Stats fetches the organization summary counters.
func (s *OrganizationService) Stats(ctx context.Context) (OrganizationStats, error) {
	var st OrganizationStats
	if err := s.client.Get(ctx, "/organization/stats", nil, &st); err != nil {
		return OrganizationStats{}, err
	}
	return st, nil
}

func memberRolePath(userID int) string {
	return "/organization/members/" + itoa(userID) + "/role"
}
