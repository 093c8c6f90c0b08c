package providers

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"showgrounds/paddock/internal/common"
	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/logging"
)

const (
	defaultTokenTTL = 30 * time.Minute
	tokenExpirySkew = time.Minute
)

// TokenCache hands out a provider access token, logging in only when the
// cached one is missing or about to expire.
type TokenCache struct {
	provider   *ShowgroundsProvider
	cache      common.CacheInterface
	customerID string
	now        func() time.Time

	mu sync.Mutex
}

func NewTokenCache(provider *ShowgroundsProvider, cache common.CacheInterface, customerID string) *TokenCache {
	return &TokenCache{
		provider:   provider,
		cache:      cache,
		customerID: customerID,
		now:        time.Now,
	}
}

func (c *TokenCache) key() string {
	return string(constants.CachePrefixAccessToken) + c.provider.Username + ":" + c.customerID
}

// Token returns a cached token or logs in for a new one
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if token, ok := c.cache.Get(c.key()); ok && token != "" {
		return token, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have logged in while we waited
	if token, ok := c.cache.Get(c.key()); ok && token != "" {
		return token, nil
	}

	token, _, err := c.provider.Login(ctx, c.customerID)
	if err != nil {
		return "", err
	}

	ttl := tokenTTL(token, c.now())
	c.cache.Set(c.key(), token, ttl)
	logging.Debug("Showgrounds token refreshed", "ttl", ttl.String())
	return token, nil
}

// Invalidate drops the cached token so the next call logs in again
func (c *TokenCache) Invalidate() {
	c.cache.Delete(c.key())
}

// tokenTTL reads the exp claim without verifying the signature; we only
// need to know when the provider will start rejecting the token.
func tokenTTL(token string, now time.Time) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return defaultTokenTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return defaultTokenTTL
	}
	ttl := exp.Time.Sub(now) - tokenExpirySkew
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}
