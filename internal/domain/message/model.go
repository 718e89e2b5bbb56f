package message

import (
	"bytes"
	"errors"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Recipient type constants
const (
	RecipientTrainer = "trainer"
	RecipientClient  = "client"
)

// Domain errors
var (
	ErrZeroSenderID    = errors.New("sender ID is required")
	ErrZeroRecipientID = errors.New("recipient ID is required")
	ErrEmptyContent    = errors.New("message content cannot be empty")
	ErrBadRecipient    = errors.New("recipient type must be trainer or client")
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Message represents an in-app message between a trainer and a client.
type Message struct {
	ID            int        `json:"id"`
	SenderID      int        `json:"sender_id"`
	RecipientType string     `json:"recipient_type"`
	RecipientID   int        `json:"recipient_id"`
	Subject       string     `json:"subject,omitempty"`
	Content       string     `json:"content"`
	ThreadID      string     `json:"thread_id,omitempty"`
	IsRead        bool       `json:"is_read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	IsArchived    bool       `json:"is_archived"`
	SentAt        time.Time  `json:"sent_at"`
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.SenderID == 0 {
		return ErrZeroSenderID
	}
	if m.RecipientID == 0 {
		return ErrZeroRecipientID
	}
	if m.RecipientType != RecipientTrainer && m.RecipientType != RecipientClient {
		return ErrBadRecipient
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// MarkRead records when the message was read.
// PRE: Message exists
// POST: ReadAt is set if previously unset
func (m *Message) MarkRead(at time.Time) {
	if m.IsRead {
		return
	}
	m.IsRead = true
	m.ReadAt = &at
}

// HTML renders the message content from markdown to sanitized HTML for
// display by a host UI.
// INVARIANT: Message fields are not mutated
func (m *Message) HTML() (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(m.Content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
