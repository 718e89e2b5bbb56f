package api

import (
	"context"
	"net/url"

	"mectofit/internal/domain/client"
)

// ClientsService manages the trainer's coaching clients.
type ClientsService struct {
	client *Client
}

// NewClientsService creates a ClientsService.
func NewClientsService(c *Client) *ClientsService {
	return &ClientsService{client: c}
}

// ClientStats summarizes the client roster.
type ClientStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	NewThisMonth int `json:"new_this_month"`
}

// List fetches clients matching the given parameters.
func (s *ClientsService) List(ctx context.Context, params ListParams) ([]client.Client, error) {
	var out []client.Client
	if err := s.client.Get(ctx, "/clients", params.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single client by ID.
func (s *ClientsService) Get(ctx context.Context, id int) (client.Client, error) {
	var out client.Client
	if err := s.client.Get(ctx, "/clients/"+itoa(id), nil, &out); err != nil {
		return client.Client{}, err
	}
	return out, nil
}

// Create registers a new client.
// PRE: c passes Validate
func (s *ClientsService) Create(ctx context.Context, c client.Client) (client.Client, error) {
	if err := c.Validate(); err != nil {
		return client.Client{}, err
	}
	var out client.Client
	if err := s.client.Post(ctx, "/clients", c, &out); err != nil {
		return client.Client{}, err
	}
	return out, nil
}

// Update replaces a client record.
// PRE: c passes Validate
func (s *ClientsService) Update(ctx context.Context, id int, c client.Client) (client.Client, error) {
	if err := c.Validate(); err != nil {
		return client.Client{}, err
	}
	var out client.Client
	if err := s.client.Put(ctx, "/clients/"+itoa(id), c, &out); err != nil {
		return client.Client{}, err
	}
	return out, nil
}

// Delete archives a client, or removes it permanently when permanent is set.
func (s *ClientsService) Delete(ctx context.Context, id int, permanent bool) error {
	q := url.Values{}
	if permanent {
		q.Set("permanent", "true")
	}
	return s.client.Delete(ctx, "/clients/"+itoa(id), q)
}

// Stats fetches the roster counters.
func (s *ClientsService) Stats(ctx context.Context) (ClientStats, error) {
	var st ClientStats
	if err := s.client.Get(ctx, "/clients/stats", nil, &st); err != nil {
		return ClientStats{}, err
	}
	return st, nil
}
