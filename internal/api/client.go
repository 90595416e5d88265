// Package api is the HTTP client for the PROPEASE backend. It attaches
// bearer credentials from the session store and transparently recovers
// from access-token expiry with a single refresh-and-retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/session"
)

// Client is a PROPEASE API client. All methods are safe for concurrent
// use; the session store is shared with the rest of the application.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	sessions *session.Store
	logger   zerolog.Logger

	// Serializes token refresh across concurrent 401s. The last
	// successful refresh wins; a goroutine arriving after the token it
	// saw fail was already replaced reuses the replacement.
	refreshMu sync.Mutex
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, sessions *session.Store, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000/api"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   sessions,
		logger:     logger,
	}
}

// do issues an authenticated request. On a 401 it refreshes the access
// token and re-issues the request exactly once; a second 401 is final.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	token := c.sessions.Current().AccessToken
	status, respBody, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		newToken, authErr := c.refreshAccess(ctx, token)
		if authErr != nil {
			return authErr
		}
		status, respBody, err = c.send(ctx, method, path, payload, newToken)
		if err != nil {
			return err
		}
	}

	return decodeResponse(status, respBody, out)
}

// doUnauthenticated issues a request outside the refresh-and-retry path.
// Used by login, signup and the refresh call itself: a 401 from those
// endpoints means bad credentials, not an expired access token.
func (c *Client) doUnauthenticated(ctx context.Context, method, path string, body, out interface{}) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}
	status, respBody, err := c.send(ctx, method, path, payload, "")
	if err != nil {
		return err
	}
	return decodeResponse(status, respBody, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("request completed")

	return resp.StatusCode, respBody, nil
}

// refreshAccess exchanges the refresh token for a new access token and
// returns it. Any failure clears the session: the caller must treat the
// returned AuthError as a logout.
func (c *Client) refreshAccess(ctx context.Context, failedToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.sessions.Current()

	// Another request already refreshed while we waited for the lock.
	if current.AccessToken != "" && current.AccessToken != failedToken {
		return current.AccessToken, nil
	}

	if current.RefreshToken == "" {
		c.sessions.Clear()
		return "", &AuthError{Reason: AuthNoRefreshToken}
	}

	req := struct {
		Refresh string `json:"refresh"`
	}{Refresh: current.RefreshToken}

	var resp struct {
		Access string `json:"access"`
	}
	if err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/token/refresh/", req, &resp); err != nil {
		c.sessions.Clear()
		c.logger.Warn().Err(err).Msg("token refresh rejected, logging out")
		return "", &AuthError{Reason: AuthRefreshRejected, Err: err}
	}

	c.sessions.UpdateAccess(resp.Access)
	return resp.Access, nil
}

func encodeBody(body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return payload, nil
}

func decodeResponse(status int, body []byte, out interface{}) error {
	if status >= 400 {
		return &HTTPError{Status: status, Body: string(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
