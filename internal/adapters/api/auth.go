package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Auth endpoint paths. These live outside the /api/v1 prefix: they are the
// server-rendered session routes, not envelope endpoints.
const (
	authLoginPath    = "/auth/login"
	authRegisterPath = "/auth/register"
	authLogoutPath   = "/auth/logout"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRegistrationFailed = errors.New("registration was rejected")
)

// AuthService drives the server-session login and logout flows. A
// successful login leaves the session cookie in the gateway's jar; identity
// is then read back through UserService.GetProfile.
type AuthService struct {
	client *Client
}

// NewAuthService creates an AuthService.
func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Login establishes a server session with the given credentials.
// The server answers a form post with a redirect on success and a
// re-rendered login page on failure.
// PRE: username and password are non-empty
// POST: On success the session cookie is stored in the gateway's jar
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := s.client.PostForm(ctx, authLoginPath, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !loginSucceeded(resp) {
		slog.Info("auth_event", "event", "login_failed", "username", username)
		return ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", username)
	return nil
}

// Register creates a new account. The server redirects back to the login
// page on success and re-renders the form on rejection.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	form := url.Values{}
	form.Set("username", input.Username)
	form.Set("email", input.Email)
	form.Set("password", input.Password)
	form.Set("first_name", input.FirstName)
	form.Set("last_name", input.LastName)

	resp, err := s.client.PostForm(ctx, authRegisterPath, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusSeeOther {
		return ErrRegistrationFailed
	}
	loc := resp.Header.Get("Location")
	if strings.Contains(loc, "register") {
		return ErrRegistrationFailed
	}
	return nil
}

// Logout invalidates the server-side session. Navigation-style: the outcome
// is advisory only, callers always proceed to clear local state and redirect
// regardless.
// POST: Best effort; the error is informational
func (s *AuthService) Logout(ctx context.Context) error {
	resp, err := s.client.GetRaw(ctx, authLogoutPath)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// loginSucceeded reports whether the form post established a session: the
// server redirects away from the login page on success.
func loginSucceeded(resp *http.Response) bool {
	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusSeeOther {
		return false
	}
	loc := resp.Header.Get("Location")
	return loc != "" && !strings.Contains(loc, "login")
}
