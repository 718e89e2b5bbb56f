package program

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

// Difficulty constants
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ValidStatuses contains all valid program statuses.
var ValidStatuses = []string{StatusActive, StatusCompleted, StatusPaused}

// Domain errors
var (
	ErrEmptyName     = errors.New("program name cannot be empty")
	ErrZeroClientID  = errors.New("client ID must be set")
	ErrInvalidStatus = errors.New("program status must be 'active', 'completed' or 'paused'")
	ErrEmptyExercise = errors.New("exercise name cannot be empty")
	ErrBadSets       = errors.New("sets must be positive")
)

// Program represents a multi-week training program assigned to a client.
type Program struct {
	ID              int        `json:"id"`
	TrainerID       int        `json:"trainer_id"`
	ClientID        int        `json:"client_id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Goal            string     `json:"goal,omitempty"`
	DurationWeeks   int        `json:"duration_weeks,omitempty"`
	DifficultyLevel string     `json:"difficulty_level,omitempty"`
	Status          string     `json:"status"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Exercises       []Exercise `json:"exercises,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Exercise represents a single prescribed exercise within a program.
type Exercise struct {
	ID          int    `json:"id"`
	ProgramID   int    `json:"program_id"`
	Name        string `json:"name"`
	Sets        int    `json:"sets,omitempty"`
	Reps        string `json:"reps,omitempty"` // e.g. "8-12" or "AMRAP"
	RestSeconds int    `json:"rest_seconds,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Validate checks if the Program has valid data.
// PRE: Program struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.ClientID == 0 {
		return ErrZeroClientID
	}
	if p.Status != "" && !isValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Validate checks if the Exercise has valid data.
// PRE: Exercise struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyExercise
	}
	if e.Sets < 0 {
		return ErrBadSets
	}
	return nil
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
