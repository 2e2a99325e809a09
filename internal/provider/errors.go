package provider

import "errors"

// Error taxonomy for fetch failures. Implementations wrap these with %w so
// callers can classify with errors.Is without knowing the provider.
var (
	// ErrAuthorization indicates a missing or invalid credential, or
	// insufficient access scope.
	ErrAuthorization = errors.New("authorization failed")

	// ErrNotFound indicates the organization or team does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimit indicates the upstream quota is exhausted.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNetwork indicates a transport-level failure.
	ErrNetwork = errors.New("network failure")

	// ErrValidation indicates the upstream rejected the filter expression.
	ErrValidation = errors.New("invalid query")
)
