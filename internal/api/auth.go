package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/validate"
)

// LoginRequest is the request body for credential login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the token pair issued on successful login.
type LoginResponse struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Username string `json:"username"`
}

// Login exchanges credentials for a token pair and stores the resulting
// session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	var resp LoginResponse
	if err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/login/", req, &resp); err != nil {
		return nil, err
	}

	// The backend includes the username alongside the tokens; fall back
	// to the submitted one if an older backend omits it.
	if resp.Username == "" {
		resp.Username = req.Username
	}
	c.sessions.Set(resp.Access, resp.Refresh, resp.Username)
	return &resp, nil
}

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

// Signup creates a new account. The user still logs in separately.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	if err := validate.Struct(req); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return c.doUnauthenticated(ctx, http.MethodPost, "/auth/signup/", req, nil)
}

// Logout clears the local session. The backend holds no server-side
// session state to invalidate.
func (c *Client) Logout() {
	c.sessions.Clear()
}

// CurrentUserID returns the user ID carried in the access token claims.
// Untrusted display/derivation data only, never an authorization check.
func (c *Client) CurrentUserID() (int64, error) {
	id, err := c.sessions.UserID()
	if err != nil {
		return 0, &AuthError{Reason: AuthTokenMalformed, Err: err}
	}
	return id, nil
}
