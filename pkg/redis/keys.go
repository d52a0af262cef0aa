package redis

import "strings"

const (
	keyNamespace    = "wmb"
	rateLimitPrefix = "rate_limit"
	sessionPrefix   = "session"
	basketPrefix    = "basket"
)

// buildKey joins parts under the wmb namespace, skipping blanks.
func buildKey(parts ...string) string {
	b := strings.Builder{}
	b.WriteString(keyNamespace)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}

// RateLimitKey returns the counter key for a rate limit scope.
func (c *Client) RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

// BasketKey returns the key holding a serialized basket.
func (c *Client) BasketKey(basketID string) string {
	return buildKey(basketPrefix, basketID)
}

// AdminSessionKey marks an admin token id as live.
func (c *Client) AdminSessionKey(tokenID string) string {
	return buildKey(sessionPrefix, "admin", tokenID)
}
