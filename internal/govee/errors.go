package govee

import "errors"

// Domain errors for the govee package. Check with errors.Is().
var (
	// ErrMissingAPIKey is returned when constructing a client without a key.
	ErrMissingAPIKey = errors.New("govee: api key is required")

	// ErrUnauthorized is returned on a 401/403 response. The API key is
	// wrong or revoked.
	ErrUnauthorized = errors.New("govee: unauthorized")

	// ErrRateLimited is returned on a 429 response.
	ErrRateLimited = errors.New("govee: rate limited")

	// ErrRequestFailed is returned for any other transport or API failure.
	ErrRequestFailed = errors.New("govee: request failed")
)
