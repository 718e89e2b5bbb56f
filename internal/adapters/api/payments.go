package api

import (
	"context"

	"mectofit/internal/domain/payment"
)

// PaymentsService manages payment plans, subscriptions and recorded
// transactions.
type PaymentsService struct {
	client *Client
}

// NewPaymentsService creates a PaymentsService.
func NewPaymentsService(c *Client) *PaymentsService {
	return &PaymentsService{client: c}
}

// RevenueSummary aggregates transactions over a period.
type RevenueSummary struct {
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
	ThisMonth   float64 `json:"this_month"`
	LastMonth   float64 `json:"last_month"`
	Outstanding float64 `json:"outstanding"`
}

// Plans lists the trainer's payment plans.
func (s *PaymentsService) Plans(ctx context.Context, params ListParams) ([]payment.Plan, error) {
	var out []payment.Plan
	if err := s.client.Get(ctx, "/payments/plans", params.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePlan registers a new payment plan.
// PRE: p passes Validate
func (s *PaymentsService) CreatePlan(ctx context.Context, p payment.Plan) (payment.Plan, error) {
	if err := p.Validate(); err != nil {
		return payment.Plan{}, err
	}
	var out payment.Plan
	if err := s.client.Post(ctx, "/payments/plans", p, &out); err != nil {
		return payment.Plan{}, err
	}
	return out, nil
}

// UpdatePlan replaces a payment plan.
// PRE: p passes Validate
func (s *PaymentsService) UpdatePlan(ctx context.Context, id int, p payment.Plan) (payment.Plan, error) {
	if err := p.Validate(); err != nil {
		return payment.Plan{}, err
	}
	var out payment.Plan
	if err := s.client.Put(ctx, "/payments/plans/"+itoa(id), p, &out); err != nil {
		return payment.Plan{}, err
	}
	return out, nil
}

// Subscriptions lists client subscriptions.
func (s *PaymentsService) Subscriptions(ctx context.Context, params ListParams) ([]payment.Subscription, error) {
	var out []payment.Subscription
	if err := s.client.Get(ctx, "/payments/subscriptions", params.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubscription ties a client to a plan.
// PRE: sub passes Validate
func (s *PaymentsService) CreateSubscription(ctx context.Context, sub payment.Subscription) (payment.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return payment.Subscription{}, err
	}
	var out payment.Subscription
	if err := s.client.Post(ctx, "/payments/subscriptions", sub, &out); err != nil {
		return payment.Subscription{}, err
	}
	return out, nil
}

// UpdateSubscriptionStatus moves a subscription between active, paused,
// cancelled and expired.
func (s *PaymentsService) UpdateSubscriptionStatus(ctx context.Context, id int, status string) error {
	body := map[string]string{"status": status}
	return s.client.Patch(ctx, "/payments/subscriptions/"+itoa(id)+"/status", body, nil)
}

// Transactions lists recorded payments.
func (s *PaymentsService) Transactions(ctx context.Context, params ListParams) ([]payment.Transaction, error) {
	var out []payment.Transaction
	if err := s.client.Get(ctx, "/payments/transactions", params.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordPayment records a manual payment.
// PRE: tx passes Validate
func (s *PaymentsService) RecordPayment(ctx context.Context, tx payment.Transaction) (payment.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return payment.Transaction{}, err
	}
	var out payment.Transaction
	if err := s.client.Post(ctx, "/payments/transactions", tx, &out); err != nil {
		return payment.Transaction{}, err
	}
	return out, nil
}

// Revenue fetches the revenue summary for a period.
func (s *PaymentsService) Revenue(ctx context.Context, params ListParams) (RevenueSummary, error) {
	var out RevenueSummary
	if err := s.client.Get(ctx, "/payments/revenue", params.Values(), &out); err != nil {
		return RevenueSummary{}, err
	}
	return out, nil
}
