package payment

import (
	"errors"
	"strings"
	"time"
)

// Plan type constants
const (
	PlanSingleSession = "single_session"
	PlanPackage       = "package"
	PlanMonthly       = "monthly"
	PlanAnnual        = "annual"
)

// Subscription status constants
const (
	SubActive    = "active"
	SubPaused    = "paused"
	SubCancelled = "cancelled"
	SubExpired   = "expired"
)

// Payment method constants
const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
	MethodStripe       = "stripe"
)

// Domain errors
var (
	ErrEmptyPlanName  = errors.New("payment plan name cannot be empty")
	ErrNegativePrice  = errors.New("price cannot be negative")
	ErrNegativeAmount = errors.New("transaction amount cannot be negative")
	ErrZeroClientID   = errors.New("client ID must be set")
	ErrBadSubStatus   = errors.New("subscription status must be active, paused, cancelled or expired")
)

// Plan represents a priced coaching offer (single session, package or
// recurring membership).
type Plan struct {
	ID                     int       `json:"id"`
	TrainerID              int       `json:"trainer_id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description,omitempty"`
	PlanType               string    `json:"plan_type,omitempty"`
	Price                  float64   `json:"price"`
	Currency               string    `json:"currency"`
	SessionsIncluded       int       `json:"sessions_included,omitempty"`
	SessionDurationMinutes int       `json:"session_duration_minutes,omitempty"`
	BillingFrequency       string    `json:"billing_frequency,omitempty"`
	IsActive               bool      `json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
}

// Subscription ties a client to a payment plan.
type Subscription struct {
	ID                int        `json:"id"`
	ClientID          int        `json:"client_id"`
	PaymentPlanID     int        `json:"payment_plan_id"`
	Status            string     `json:"status"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	NextBillingDate   *time.Time `json:"next_billing_date,omitempty"`
	SessionsUsed      int        `json:"sessions_used"`
	SessionsRemaining int        `json:"sessions_remaining,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Transaction represents a single recorded payment.
type Transaction struct {
	ID             int       `json:"id"`
	ClientID       int       `json:"client_id"`
	SubscriptionID int       `json:"subscription_id,omitempty"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	PaidAt         time.Time `json:"paid_at"`
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPlanName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Validate checks if the Subscription has valid data.
// PRE: Subscription struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Subscription) Validate() error {
	if s.ClientID == 0 {
		return ErrZeroClientID
	}
	switch s.Status {
	case SubActive, SubPaused, SubCancelled, SubExpired:
		return nil
	default:
		return ErrBadSubStatus
	}
}

// Validate checks if the Transaction has valid data.
// PRE: Transaction struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Transaction) Validate() error {
	if t.ClientID == 0 {
		return ErrZeroClientID
	}
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
