package api

import "fmt"

// AuthReason classifies authentication failures.
type AuthReason string

const (
	// AuthNoRefreshToken: a 401 was received but no refresh token exists.
	AuthNoRefreshToken AuthReason = "no_refresh_token"
	// AuthRefreshRejected: the refresh endpoint itself rejected the token.
	AuthRefreshRejected AuthReason = "refresh_rejected"
	// AuthTokenMalformed: the access token could not be decoded.
	AuthTokenMalformed AuthReason = "token_malformed"
)

// AuthError means the session is no longer usable. The session store is
// cleared before it is returned; callers should send the user back to
// login.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx backend response passed through unmodified.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// ValidationError blocks a request client-side before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}
