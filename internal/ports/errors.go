package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these sentinels so the
// pipeline can branch on the failure class, not on provider specifics.
var (
	ErrConfigurationError  = errors.New("invalid or missing configuration")
	ErrInvalidRequest      = errors.New("invalid request parameters or format")
	ErrNotFound            = errors.New("resource not found")
	ErrRateLimited         = errors.New("API rate limit exceeded")
	ErrProviderUnavailable = errors.New("price API is unavailable")
)
