package booking

import (
	"errors"
	"time"
)

// Status constants
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Session type constants
const (
	TypePersonal   = "personal"
	TypeGroup      = "group"
	TypeOnline     = "online"
	TypeAssessment = "assessment"
)

// Domain errors
var (
	ErrEmptyTitle     = errors.New("session title is required")
	ErrZeroClientID   = errors.New("client ID must be set")
	ErrNoSchedule     = errors.New("scheduled start and end must be set")
	ErrEndBeforeStart = errors.New("scheduled end must be after scheduled start")
	ErrAlreadySettled = errors.New("session is already completed or cancelled")
)

// Session represents a single training session between a trainer and a client.
type Session struct {
	ID             int       `json:"id"`
	TrainerID      int       `json:"trainer_id"`
	ClientID       int       `json:"client_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	SessionType    string    `json:"session_type,omitempty"`
	Location       string    `json:"location,omitempty"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	TrainerNotes   string    `json:"trainer_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if s.Title == "" {
		return ErrEmptyTitle
	}
	if s.ClientID == 0 {
		return ErrZeroClientID
	}
	if s.ScheduledStart.IsZero() || s.ScheduledEnd.IsZero() {
		return ErrNoSchedule
	}
	if !s.ScheduledEnd.After(s.ScheduledStart) {
		return ErrEndBeforeStart
	}
	return nil
}

// Duration returns the planned length of the session.
// INVARIANT: Session fields are not mutated
func (s *Session) Duration() time.Duration {
	return s.ScheduledEnd.Sub(s.ScheduledStart)
}

// Complete marks a scheduled session as completed.
// PRE: Status is scheduled
// POST: Status is completed
func (s *Session) Complete() error {
	if s.Status != StatusScheduled {
		return ErrAlreadySettled
	}
	s.Status = StatusCompleted
	return nil
}

// Cancel marks a scheduled session as cancelled, recording the reason.
// PRE: Status is scheduled
// POST: Status is cancelled, reason stored in trainer notes
func (s *Session) Cancel(reason string) error {
	if s.Status != StatusScheduled {
		return ErrAlreadySettled
	}
	s.Status = StatusCancelled
	if reason != "" {
		s.TrainerNotes = reason
	}
	return nil
}
