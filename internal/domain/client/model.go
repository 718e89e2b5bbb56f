package client

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// Fitness level constants
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Domain errors
var (
	ErrEmptyFirstName = errors.New("first name is required")
	ErrEmptyLastName  = errors.New("last name is required")
	ErrEmptyEmail     = errors.New("email cannot be empty")
	ErrInvalidEmail   = errors.New("email must contain '@'")
)

// Client represents a coaching client managed by a trainer.
type Client struct {
	ID                int        `json:"id"`
	TrainerID         int        `json:"trainer_id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone,omitempty"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	FitnessGoal       string     `json:"fitness_goal,omitempty"`
	FitnessLevel      string     `json:"fitness_level,omitempty"`
	MedicalConditions string     `json:"medical_conditions,omitempty"`
	MembershipType    string     `json:"membership_type,omitempty"`
	Status            string     `json:"status"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Validate checks if the Client has valid data.
// PRE: Client struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Client) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(c.LastName) == "" {
		return ErrEmptyLastName
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// FullName returns the client's presentable name.
// INVARIANT: Client fields are not mutated
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
