package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"podhub/internal/utils"
)

const subscriptionCacheTTL = time.Minute

// SubscriptionStore answers whether a subscription currently grants access.
type SubscriptionStore interface {
	// IsActive returns false, nil for unknown ids.
	IsActive(ctx context.Context, id string) (bool, error)
	// ActiveSubscriptionID returns ErrNotFound when userID has no active subscription.
	ActiveSubscriptionID(ctx context.Context, userID uint) (string, error)
}

// SubscriptionAccess gates the private feed on an active subscription.
type SubscriptionAccess struct {
	store   SubscriptionStore
	baseURL string
	cache   *utils.TTLCache[string, bool]
}

// NewSubscriptionAccess serves private feed links under baseURL.
func NewSubscriptionAccess(store SubscriptionStore, baseURL string) *SubscriptionAccess {
	return &SubscriptionAccess{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   utils.NewTTLCache[string, bool](1024, subscriptionCacheTTL),
	}
}

// Allowed decodes the base64 path id and checks the subscription behind it.
// Undecodable ids are simply not allowed. Only grants are memoized, so a new
// subscriber is let in on the next request.
func (a *SubscriptionAccess) Allowed(ctx context.Context, encoded string) (bool, error) {
	id, ok := DecodeSubscriptionID(encoded)
	if !ok {
		return false, nil
	}
	if _, hit := a.cache.Get(id); hit {
		return true, nil
	}
	active, err := a.store.IsActive(ctx, id)
	if err != nil {
		return false, err
	}
	if active {
		a.cache.Set(id, true)
	}
	return active, nil
}

// PrivateFeedURL returns the ad-free feed link of userID's active subscription.
func (a *SubscriptionAccess) PrivateFeedURL(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", ErrUnauthorized
	}
	id, err := a.store.ActiveSubscriptionID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("subscription of user %d: %w", userID, err)
	}
	return a.baseURL + "/rss/private/" + EncodeSubscriptionID(id), nil
}

var subscriptionEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// DecodeSubscriptionID accepts standard or URL-safe base64, padded or not.
func DecodeSubscriptionID(encoded string) (string, bool) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", false
	}
	for _, enc := range subscriptionEncodings {
		raw, err := enc.DecodeString(encoded)
		if err == nil && len(raw) > 0 && utf8.Valid(raw) {
			return string(raw), true
		}
	}
	return "", false
}

// EncodeSubscriptionID is the inverse used to build private feed links.
func EncodeSubscriptionID(id string) string {
	return base64.URLEncoding.EncodeToString([]byte(id))
}
