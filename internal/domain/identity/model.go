package identity

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MaxNameLength  = 64
)

// Role constants
const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleTrainer   = "trainer"
	RoleClient    = "client"
	RoleAssistant = "assistant"
)

// Subscription tier constants
const (
	TierFree       = "free"
	TierBasic      = "basic"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleOwner, RoleAdmin, RoleTrainer, RoleClient, RoleAssistant}

// Domain errors
var (
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrInvalidRole  = errors.New("role must be one of: owner, admin, trainer, client, assistant")
	ErrEmptyOrgName = errors.New("organization name cannot be empty")
	ErrZeroUserID   = errors.New("user ID must be set")
)

// User holds the identity of the currently authenticated trainer or staff
// member, as reported by the server's profile endpoint.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	OrganizationID int       `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	IsActive       bool      `json:"is_active"`
}

// Organization holds the coaching business the user belongs to.
type Organization struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	BusinessType     string `json:"business_type"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Website          string `json:"website"`
	SubscriptionTier string `json:"subscription_tier"`
}

// UserPatch carries a partial update for a User. Nil fields are left
// untouched by Apply.
type UserPatch struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// OrganizationPatch carries a partial update for an Organization.
type OrganizationPatch struct {
	Name             *string `json:"name,omitempty"`
	BusinessType     *string `json:"business_type,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Website          *string `json:"website,omitempty"`
	SubscriptionTier *string `json:"subscription_tier,omitempty"`
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if u.ID == 0 {
		return ErrZeroUserID
	}
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if len(u.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if !isValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// DisplayName returns the presentable name for the user. Fallback order:
// first+last, first, last, username, email.
// INVARIANT: User fields are not mutated
func (u *User) DisplayName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// IsOwner checks if the user owns the organization.
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsAdmin checks if the user is an admin or owner.
func (u *User) IsAdmin() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

// IsTrainer checks if the user can run coaching sessions.
func (u *User) IsTrainer() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin || u.Role == RoleTrainer
}

// Apply merges the patch into the user, field by field.
// PRE: u is non-nil
// POST: Only non-nil patch fields are written
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// Validate checks if the Organization has valid data.
// PRE: Organization struct is populated
// POST: Returns nil if valid, error otherwise
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return ErrEmptyOrgName
	}
	return nil
}

// Apply merges the patch into the organization, field by field.
// PRE: o is non-nil
// POST: Only non-nil patch fields are written
func (p OrganizationPatch) Apply(o *Organization) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.BusinessType != nil {
		o.BusinessType = *p.BusinessType
	}
	if p.Email != nil {
		o.Email = *p.Email
	}
	if p.Phone != nil {
		o.Phone = *p.Phone
	}
	if p.Website != nil {
		o.Website = *p.Website
	}
	if p.SubscriptionTier != nil {
		o.SubscriptionTier = *p.SubscriptionTier
	}
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
