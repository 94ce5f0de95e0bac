package ports

import (
	"context"
	"time"
)

// Token is a bearer token plus the provider's claimed expiry. The cache
// applies its own, more conservative validity window; the hint is kept for
// diagnostics only.
type Token struct {
	Value      string
	ExpiryHint time.Time
}

// CredentialProvider produces bearer tokens for the fixed management scope.
type CredentialProvider interface {
	FetchToken(ctx context.Context) (Token, error)
}

// TokenSource hands out a token ready to put on a request. Implementations
// decide caching and refresh policy.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
