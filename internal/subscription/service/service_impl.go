package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/reserva/internal/cache"
	"github.com/smallbiznis/reserva/internal/clock"
	"github.com/smallbiznis/reserva/internal/principal"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     subscriptiondomain.Repository
	resolver cache.TenantResolverCache
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     subscriptiondomain.Repository
	Resolver cache.TenantResolverCache `optional:"true"`
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("subscription.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		resolver: p.Resolver,
	}
}

// GetForMerchant implements domain.Service.
func (s *Service) GetForMerchant(ctx context.Context, p principal.Principal, merchantID snowflake.ID) (*subscriptiondomain.Subscription, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}

	subscription, err := s.repo.FindByMerchantID(ctx, s.db, merchantID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, subscriptiondomain.ErrSubscriptionNotFound
	}
	return subscription, nil
}

// SetStatus implements domain.Service. Status changes come from the
// billing integration and are admin-plane only.
func (s *Service) SetStatus(ctx context.Context, p principal.Principal, req subscriptiondomain.SetStatusRequest) (*subscriptiondomain.Subscription, error) {
	if !p.IsAdmin() {
		return nil, principal.ErrPermissionDenied
	}

	switch req.Status {
	case subscriptiondomain.SubscriptionStatusTrialing,
		subscriptiondomain.SubscriptionStatusActive,
		subscriptiondomain.SubscriptionStatusPastDue,
		subscriptiondomain.SubscriptionStatusCancelled:
	default:
		return nil, subscriptiondomain.ErrInvalidStatus
	}

	subscription, err := s.repo.FindByMerchantID(ctx, s.db, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, subscriptiondomain.ErrSubscriptionNotFound
	}

	subscription.Status = req.Status
	subscription.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, subscription); err != nil {
		return nil, err
	}
	if s.resolver != nil {
		s.resolver.InvalidateSubscription(req.MerchantID)
	}

	s.log.Info("subscription status updated",
		zap.Int64("merchant_id", int64(req.MerchantID)),
		zap.String("status", string(req.Status)),
	)
	return subscription, nil
}

// EnsureCanCreateBooking implements domain.Service. The happy path is a
// TTL-cached read so every booking create does not reload the row.
func (s *Service) EnsureCanCreateBooking(ctx context.Context, merchantID snowflake.ID) error {
	if s.resolver != nil {
		if cached, ok := s.resolver.GetSubscription(merchantID); ok && cached.CanCreateBooking() {
			return nil
		}
	}

	subscription, err := s.repo.FindByMerchantID(ctx, s.db, merchantID)
	if err != nil {
		return err
	}
	if subscription == nil {
		return subscriptiondomain.ErrSubscriptionNotFound
	}
	if subscription.CanCreateBooking() {
		if s.resolver != nil {
			s.resolver.SetSubscription(merchantID, *subscription)
		}
		return nil
	}
	if subscription.Status == subscriptiondomain.SubscriptionStatusCancelled {
		return subscriptiondomain.ErrSubscriptionCancelled
	}
	return subscriptiondomain.ErrSubscriptionPastDue
}
