package client_test

import (
	"errors"
	"testing"

	"mectofit/internal/domain/client"
)

// TestClient_Validate tests validation of Client.
func TestClient_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       client.Client
		wantErr error
	}{
		{
			name: "valid",
			c:    client.Client{FirstName: "Ana", LastName: "Silva", Email: "ana@gym.test"},
		},
		{
			name:    "empty first name",
			c:       client.Client{FirstName: " ", LastName: "Silva", Email: "ana@gym.test"},
			wantErr: client.ErrEmptyFirstName,
		},
		{
			name:    "empty last name",
			c:       client.Client{FirstName: "Ana", LastName: "", Email: "ana@gym.test"},
			wantErr: client.ErrEmptyLastName,
		},
		{
			name:    "empty email",
			c:       client.Client{FirstName: "Ana", LastName: "Silva", Email: "  "},
			wantErr: client.ErrEmptyEmail,
		},
		{
			name:    "malformed email",
			c:       client.Client{FirstName: "Ana", LastName: "Silva", Email: "ana.gym.test"},
			wantErr: client.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Client.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_FullName(t *testing.T) {
	c := client.Client{FirstName: "Ana", LastName: "Silva"}
	if got := c.FullName(); got != "Ana Silva" {
		t.Errorf("FullName() = %q, want %q", got, "Ana Silva")
	}

	partial := client.Client{FirstName: "Ana"}
	if got := partial.FullName(); got != "Ana" {
		t.Errorf("FullName() = %q, want %q", got, "Ana")
	}
}
