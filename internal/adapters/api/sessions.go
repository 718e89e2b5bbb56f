package api

import (
	"context"
	"net/url"
	"time"

	"mectofit/internal/domain/booking"
)

// SessionsService manages scheduled training sessions.
type SessionsService struct {
	client *Client
}

// NewSessionsService creates a SessionsService.
func NewSessionsService(c *Client) *SessionsService {
	return &SessionsService{client: c}
}

// SessionStats summarizes the session calendar.
type SessionStats struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"no_show"`
}

// AvailabilitySlot is a free slot reported by the availability check.
type AvailabilitySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// List fetches sessions matching the given parameters.
func (s *SessionsService) List(ctx context.Context, params ListParams) ([]booking.Session, error) {
	var out []booking.Session
	if err := s.client.Get(ctx, "/sessions", params.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single session by ID.
func (s *SessionsService) Get(ctx context.Context, id int) (booking.Session, error) {
	var out booking.Session
	if err := s.client.Get(ctx, "/sessions/"+itoa(id), nil, &out); err != nil {
		return booking.Session{}, err
	}
	return out, nil
}

// Create schedules a new session.
// PRE: sess passes Validate
func (s *SessionsService) Create(ctx context.Context, sess booking.Session) (booking.Session, error) {
	if err := sess.Validate(); err != nil {
		return booking.Session{}, err
	}
	var out booking.Session
	if err := s.client.Post(ctx, "/sessions", sess, &out); err != nil {
		return booking.Session{}, err
	}
	return out, nil
}

// Update replaces a session record.
// PRE: sess passes Validate
func (s *SessionsService) Update(ctx context.Context, id int, sess booking.Session) (booking.Session, error) {
	if err := sess.Validate(); err != nil {
		return booking.Session{}, err
	}
	var out booking.Session
	if err := s.client.Put(ctx, "/sessions/"+itoa(id), sess, &out); err != nil {
		return booking.Session{}, err
	}
	return out, nil
}

// Cancel marks a session as cancelled with a reason.
func (s *SessionsService) Cancel(ctx context.Context, id int, reason string) error {
	body := map[string]string{"reason": reason}
	return s.client.Post(ctx, "/sessions/"+itoa(id)+"/cancel", body, nil)
}

// Complete marks a session as completed, optionally recording notes.
func (s *SessionsService) Complete(ctx context.Context, id int, notes string) error {
	body := map[string]string{"notes": notes}
	return s.client.Post(ctx, "/sessions/"+itoa(id)+"/complete", body, nil)
}

// Delete removes a session, permanently when permanent is set.
func (s *SessionsService) Delete(ctx context.Context, id int, permanent bool) error {
	q := url.Values{}
	if permanent {
		q.Set("permanent", "true")
	}
	return s.client.Delete(ctx, "/sessions/"+itoa(id), q)
}

// Stats fetches the calendar counters.
func (s *SessionsService) Stats(ctx context.Context) (SessionStats, error) {
	var st SessionStats
	if err := s.client.Get(ctx, "/sessions/stats", nil, &st); err != nil {
		return SessionStats{}, err
	}
	return st, nil
}

// CheckAvailability lists free slots of the given duration on a date for a
// trainer.
func (s *SessionsService) CheckAvailability(ctx context.Context, date time.Time, duration time.Duration, trainerID int) ([]AvailabilitySlot, error) {
	q := url.Values{}
	q.Set("date", date.Format("2006-01-02"))
	q.Set("duration", itoa(int(duration.Minutes())))
	if trainerID > 0 {
		q.Set("trainer_id", itoa(trainerID))
	}
	var out []AvailabilitySlot
	if err := s.client.Get(ctx, "/sessions/availability", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
