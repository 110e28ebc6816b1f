package spotify

import "fmt"

// AuthError is returned when the token endpoint cannot be reached, answers
// with a non-success status, or returns a body that does not contain a token.
// Token endpoint failures are terminal; the caller decides whether to retry
// or re-run the authorization flow.
type AuthError struct {
	// Op is the grant type of the failed request ("authorization_code" or
	// "refresh_token").
	Op string

	// StatusCode is the HTTP status of the response, or 0 if the request
	// never completed.
	StatusCode int

	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("spotify: %s request failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("spotify: %s request failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}
