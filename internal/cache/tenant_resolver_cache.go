package cache

import (
	"time"

	"github.com/bwmarrin/snowflake"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
)

const (
	defaultMerchantTTL     = 5 * time.Minute
	defaultSubscriptionTTL = 45 * time.Second
)

// TenantResolverCache stores the tenant-level lookups every booking
// admission repeats: the merchant record (status, timezone) and its
// subscription. Subscription entries use a short TTL so billing status
// changes take effect quickly; writes invalidate eagerly.
type TenantResolverCache interface {
	GetMerchant(merchantID snowflake.ID) (*merchantdomain.Merchant, bool)
	SetMerchant(merchant *merchantdomain.Merchant)
	InvalidateMerchant(merchantID snowflake.ID)

	GetSubscription(merchantID snowflake.ID) (subscriptiondomain.Subscription, bool)
	SetSubscription(merchantID snowflake.ID, subscription subscriptiondomain.Subscription)
	InvalidateSubscription(merchantID snowflake.ID)
}

type tenantResolverCache struct {
	merchants       Cache[snowflake.ID, *merchantdomain.Merchant]
	subscriptions   Cache[snowflake.ID, subscriptiondomain.Subscription]
	merchantTTL     time.Duration
	subscriptionTTL time.Duration
}

// NewTenantResolverCache returns an in-memory cache tuned for booking
// admission checks.
func NewTenantResolverCache() TenantResolverCache {
	return &tenantResolverCache{
		merchants:       NewTTLCache[snowflake.ID, *merchantdomain.Merchant](),
		subscriptions:   NewTTLCache[snowflake.ID, subscriptiondomain.Subscription](),
		merchantTTL:     defaultMerchantTTL,
		subscriptionTTL: defaultSubscriptionTTL,
	}
}

func (c *tenantResolverCache) GetMerchant(merchantID snowflake.ID) (*merchantdomain.Merchant, bool) {
	return c.merchants.Get(merchantID)
}

func (c *tenantResolverCache) SetMerchant(merchant *merchantdomain.Merchant) {
	if merchant == nil || merchant.ID == 0 {
		return
	}
	c.merchants.Set(merchant.ID, merchant, c.merchantTTL)
}

func (c *tenantResolverCache) InvalidateMerchant(merchantID snowflake.ID) {
	c.merchants.Delete(merchantID)
}

func (c *tenantResolverCache) GetSubscription(merchantID snowflake.ID) (subscriptiondomain.Subscription, bool) {
	return c.subscriptions.Get(merchantID)
}

func (c *tenantResolverCache) SetSubscription(merchantID snowflake.ID, subscription subscriptiondomain.Subscription) {
	if subscription.ID == 0 {
		return
	}
	c.subscriptions.Set(merchantID, subscription, c.subscriptionTTL)
}

func (c *tenantResolverCache) InvalidateSubscription(merchantID snowflake.ID) {
	c.subscriptions.Delete(merchantID)
}
