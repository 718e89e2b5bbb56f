package payment_test

import (
	"errors"
	"testing"

	"mectofit/internal/domain/payment"
)

// TestPlan_Validate tests validation of Plan.
func TestPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		plan    payment.Plan
		wantErr error
	}{
		{
			name: "valid",
			plan: payment.Plan{Name: "10-session pack", Price: 450, Currency: "USD", PlanType: payment.PlanPackage},
		},
		{
			name: "free plan is allowed",
			plan: payment.Plan{Name: "Intro consult", Price: 0},
		},
		{
			name:    "empty name",
			plan:    payment.Plan{Name: " ", Price: 10},
			wantErr: payment.ErrEmptyPlanName,
		},
		{
			name:    "negative price",
			plan:    payment.Plan{Name: "Pack", Price: -1},
			wantErr: payment.ErrNegativePrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Plan.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestSubscription_Validate tests validation of Subscription.
func TestSubscription_Validate(t *testing.T) {
	valid := payment.Subscription{ClientID: 3, PaymentPlanID: 1, Status: payment.SubActive}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	noClient := payment.Subscription{Status: payment.SubActive}
	if err := noClient.Validate(); !errors.Is(err, payment.ErrZeroClientID) {
		t.Errorf("Validate() error = %v, want %v", err, payment.ErrZeroClientID)
	}

	badStatus := payment.Subscription{ClientID: 3, Status: "trialing"}
	if err := badStatus.Validate(); !errors.Is(err, payment.ErrBadSubStatus) {
		t.Errorf("Validate() error = %v, want %v", err, payment.ErrBadSubStatus)
	}
}

// TestTransaction_Validate tests validation of Transaction.
func TestTransaction_Validate(t *testing.T) {
	valid := payment.Transaction{ClientID: 3, Amount: 45, Currency: "USD", PaymentMethod: payment.MethodCard}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	negative := payment.Transaction{ClientID: 3, Amount: -45}
	if err := negative.Validate(); !errors.Is(err, payment.ErrNegativeAmount) {
		t.Errorf("Validate() error = %v, want %v", err, payment.ErrNegativeAmount)
	}
}
