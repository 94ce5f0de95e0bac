package azure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

const (
	// tokenValidity is a policy constant, not the provider's claimed
	// lifetime: tokens typically last an hour, so 50 minutes leaves a
	// comfortable refresh margin.
	tokenValidity    = 50 * time.Minute
	tokenMaxAttempts = 3
)

// TokenCache holds the process's single token slot. A token is served from
// memory until its policy window lapses; refreshes are serialized so that
// concurrent callers sharing an expired token trigger exactly one fetch.
type TokenCache struct {
	provider ports.CredentialProvider
	clock    ports.Clock

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

var _ ports.TokenSource = (*TokenCache)(nil)

func NewTokenCache(provider ports.CredentialProvider, clock ports.Clock) *TokenCache {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &TokenCache{provider: provider, clock: clock}
}

func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.token != "" && now.Before(c.expiresAt) {
		return c.token, nil
	}

	token, err := c.fetchWithRetry(ctx)
	if err != nil {
		return "", err
	}

	c.token = token.Value
	c.expiresAt = c.clock.Now().Add(tokenValidity)
	return c.token, nil
}

func (c *TokenCache) fetchWithRetry(ctx context.Context) (ports.Token, error) {
	var lastErr error
	for attempt := 0; attempt < tokenMaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.clock.Sleep(ctx, backoff(attempt-1)); err != nil {
				return ports.Token{}, err
			}
		}

		token, err := c.provider.FetchToken(ctx)
		if err == nil {
			return token, nil
		}
		if ctx.Err() != nil {
			return ports.Token{}, ctx.Err()
		}
		lastErr = err
	}

	return ports.Token{}, fmt.Errorf("%w: fetch token after %d attempts: %v", domain.ErrAuth, tokenMaxAttempts, lastErr)
}
