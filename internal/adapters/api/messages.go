package api

import (
	"context"

	"mectofit/internal/domain/message"
)

// MessagesService covers the in-app messaging surface.
type MessagesService struct {
	client *Client
}

// NewMessagesService creates a MessagesService.
func NewMessagesService(c *Client) *MessagesService {
	return &MessagesService{client: c}
}

// MessageStats summarizes the inbox.
type MessageStats struct {
	Total    int `json:"total"`
	Unread   int `json:"unread"`
	Archived int `json:"archived"`
}

// List fetches messages matching the given parameters.
func (s *MessagesService) List(ctx context.Context, params ListParams) ([]message.Message, error) {
	var out []message.Message
	if err := s.client.Get(ctx, "/messages", params.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single message by ID.
func (s *MessagesService) Get(ctx context.Context, id int) (message.Message, error) {
	var out message.Message
	if err := s.client.Get(ctx, "/messages/"+itoa(id), nil, &out); err != nil {
		return message.Message{}, err
	}
	return out, nil
}

// Send creates a new message.
// PRE: m passes Validate
func (s *MessagesService) Send(ctx context.Context, m message.Message) (message.Message, error) {
	if err := m.Validate(); err != nil {
		return message.Message{}, err
	}
	var out message.Message
	if err := s.client.Post(ctx, "/messages", m, &out); err != nil {
		return message.Message{}, err
	}
	return out, nil
}

// MarkRead flags a message as read.
func (s *MessagesService) MarkRead(ctx context.Context, id int) error {
	return s.client.Post(ctx, "/messages/"+itoa(id)+"/read", nil, nil)
}

// Archive moves a message in or out of the archive.
func (s *MessagesService) Archive(ctx context.Context, id int, archive bool) error {
	body := map[string]bool{"archive": archive}
	return s.client.Post(ctx, "/messages/"+itoa(id)+"/archive", body, nil)
}

// Stats fetches the inbox counters.
func (s *MessagesService) Stats(ctx context.Context) (MessageStats, error) {
	var st MessageStats
	if err := s.client.Get(ctx, "/messages/stats", nil, &st); err != nil {
		return MessageStats{}, err
	}
	return st, nil
}
