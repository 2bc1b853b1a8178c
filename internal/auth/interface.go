// Package auth verifies the bearer credential sent with API requests.
package auth

// Verifier checks a bearer token and returns the caller it identifies.
type Verifier interface {
	// Verify returns the subject of a valid token, or domain.ErrUnauthorized.
	Verify(token string) (string, error)

	// Close releases any resources held by the verifier.
	Close() error
}
