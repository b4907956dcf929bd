package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/reserva/internal/cache"
	"github.com/smallbiznis/reserva/internal/clock"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	"github.com/smallbiznis/reserva/internal/principal"
	pkgdb "github.com/smallbiznis/reserva/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     merchantdomain.Repository
	resolver cache.TenantResolverCache
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     merchantdomain.Repository
	Resolver cache.TenantResolverCache `optional:"true"`
}

func NewService(p ServiceParam) merchantdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("merchant.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		resolver: p.Resolver,
	}
}

// Create implements domain.Service. Merchant creation is an admin-plane
// operation; tenant-bound principals cannot self-provision.
func (s *Service) Create(ctx context.Context, p principal.Principal, req merchantdomain.CreateMerchantRequest) (*merchantdomain.Merchant, error) {
	if !p.IsAdmin() {
		return nil, principal.ErrPermissionDenied
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, merchantdomain.ErrInvalidName
	}

	raw := strings.TrimSpace(req.Slug)
	if raw == "" {
		raw = name
	}
	normalized := slug.Make(raw)
	if normalized == "" {
		return nil, merchantdomain.ErrInvalidSlug
	}

	tz := strings.TrimSpace(req.Timezone)
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return nil, merchantdomain.ErrInvalidTimezone
	}

	now := s.clock.Now()
	merchant := &merchantdomain.Merchant{
		ID:          s.genID.Generate(),
		Slug:        normalized,
		DisplayName: name,
		Timezone:    tz,
		Status:      merchantdomain.MerchantStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, merchant); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, merchantdomain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("merchant created",
		zap.Int64("merchant_id", int64(merchant.ID)),
		zap.String("slug", merchant.Slug),
	)
	return merchant, nil
}

// Get implements domain.Service.
func (s *Service) Get(ctx context.Context, p principal.Principal, merchantID snowflake.ID) (*merchantdomain.Merchant, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}

	merchant, err := s.repo.FindByID(ctx, s.db, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, merchantdomain.ErrMerchantNotFound
	}
	return merchant, nil
}

// UpdateStatus implements domain.Service.
func (s *Service) UpdateStatus(ctx context.Context, p principal.Principal, req merchantdomain.UpdateMerchantStatusRequest) (*merchantdomain.Merchant, error) {
	if !p.IsAdmin() {
		return nil, principal.ErrPermissionDenied
	}

	switch req.Status {
	case merchantdomain.MerchantStatusActive,
		merchantdomain.MerchantStatusSuspended,
		merchantdomain.MerchantStatusCancelled:
	default:
		return nil, merchantdomain.ErrInvalidStatus
	}

	merchant, err := s.repo.FindByID(ctx, s.db, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, merchantdomain.ErrMerchantNotFound
	}

	merchant.Status = req.Status
	merchant.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, merchant); err != nil {
		return nil, err
	}
	if s.resolver != nil {
		s.resolver.InvalidateMerchant(merchant.ID)
	}
	return merchant, nil
}

// AddHoliday implements domain.Service.
func (s *Service) AddHoliday(ctx context.Context, p principal.Principal, req merchantdomain.AddHolidayRequest) (*merchantdomain.MerchantHoliday, error) {
	if err := p.Authorize(req.MerchantID); err != nil {
		return nil, err
	}

	if req.Month < 1 || req.Month > 12 || req.Day < 1 || req.Day > 31 {
		return nil, merchantdomain.ErrInvalidDate
	}

	holiday := &merchantdomain.MerchantHoliday{
		ID:         s.genID.Generate(),
		MerchantID: req.MerchantID,
		Month:      req.Month,
		Day:        req.Day,
		Year:       req.Year,
		Name:       strings.TrimSpace(req.Name),
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.InsertHoliday(ctx, s.db, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

// RemoveHoliday implements domain.Service.
func (s *Service) RemoveHoliday(ctx context.Context, p principal.Principal, merchantID, holidayID snowflake.ID) error {
	if err := p.Authorize(merchantID); err != nil {
		return err
	}
	return s.repo.DeleteHoliday(ctx, s.db, merchantID, holidayID)
}

// ListHolidays implements domain.Service.
func (s *Service) ListHolidays(ctx context.Context, p principal.Principal, merchantID snowflake.ID) ([]merchantdomain.MerchantHoliday, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}
	return s.repo.ListHolidays(ctx, s.db, merchantID)
}

// Resolve implements domain.Service. Hits go through the TTL cache;
// status updates invalidate it eagerly.
func (s *Service) Resolve(ctx context.Context, merchantID snowflake.ID) (*merchantdomain.Merchant, error) {
	if s.resolver != nil {
		if merchant, ok := s.resolver.GetMerchant(merchantID); ok {
			return merchant, nil
		}
	}

	merchant, err := s.repo.FindByID(ctx, s.db, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, merchantdomain.ErrMerchantNotFound
	}
	if s.resolver != nil {
		s.resolver.SetMerchant(merchant)
	}
	return merchant, nil
}

// IsHoliday implements domain.Service.
func (s *Service) IsHoliday(ctx context.Context, merchantID snowflake.ID, localDate time.Time) (bool, error) {
	holidays, err := s.repo.ListHolidays(ctx, s.db, merchantID)
	if err != nil {
		return false, err
	}
	for _, holiday := range holidays {
		if holiday.Matches(localDate) {
			return true, nil
		}
	}
	return false, nil
}
