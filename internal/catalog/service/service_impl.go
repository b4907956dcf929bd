package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	"github.com/smallbiznis/reserva/internal/clock"
	"github.com/smallbiznis/reserva/internal/principal"
	pkgdb "github.com/smallbiznis/reserva/pkg/db"
	"github.com/smallbiznis/reserva/pkg/types"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  catalogdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  catalogdomain.Repository
}

func NewService(p ServiceParam) catalogdomain.CatalogService {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// authorizeWrite gates catalog mutations to admins and the merchant's
// own operators. Customers can read, never edit.
func authorizeWrite(p principal.Principal, merchantID snowflake.ID) error {
	if p.IsAdmin() || p.IsOperatorFor(merchantID) {
		return nil
	}
	return principal.ErrPermissionDenied
}

// CreateService implements domain.CatalogService.
func (s *Service) CreateService(ctx context.Context, p principal.Principal, req catalogdomain.CreateServiceRequest) (*catalogdomain.Service, error) {
	if err := authorizeWrite(p, req.MerchantID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	if req.PriceAmount < 0 {
		return nil, catalogdomain.ErrInvalidPrice
	}
	if req.DurationMin <= 0 {
		return nil, catalogdomain.ErrInvalidDuration
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, catalogdomain.ErrInvalidPrice
	}

	now := s.clock.Now()
	service := &catalogdomain.Service{
		ID:          s.genID.Generate(),
		MerchantID:  req.MerchantID,
		Name:        name,
		Category:    strings.TrimSpace(req.Category),
		PriceAmount: req.PriceAmount,
		Currency:    currency,
		DurationMin: req.DurationMin,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertService(ctx, s.db, service); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, catalogdomain.ErrServiceNameTaken
		}
		return nil, err
	}

	s.log.Info("service created",
		zap.Int64("merchant_id", int64(service.MerchantID)),
		zap.Int64("service_id", int64(service.ID)),
		zap.String("name", service.Name),
	)
	return service, nil
}

// UpdateService implements domain.CatalogService.
func (s *Service) UpdateService(ctx context.Context, p principal.Principal, req catalogdomain.UpdateServiceRequest) (*catalogdomain.Service, error) {
	if err := authorizeWrite(p, req.MerchantID); err != nil {
		return nil, err
	}

	service, err := s.repo.FindServiceByID(ctx, s.db, req.MerchantID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, catalogdomain.ErrServiceInactive
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, catalogdomain.ErrInvalidName
		}
		service.Name = name
	}
	if req.Category != nil {
		service.Category = strings.TrimSpace(*req.Category)
	}
	if req.PriceAmount != nil {
		if *req.PriceAmount < 0 {
			return nil, catalogdomain.ErrInvalidPrice
		}
		service.PriceAmount = *req.PriceAmount
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			return nil, catalogdomain.ErrInvalidDuration
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	service.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateService(ctx, s.db, service); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, catalogdomain.ErrServiceNameTaken
		}
		return nil, err
	}
	return service, nil
}

// ListServices implements domain.CatalogService.
func (s *Service) ListServices(ctx context.Context, p principal.Principal, merchantID snowflake.ID, activeOnly bool) ([]catalogdomain.Service, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}
	return s.repo.ListServices(ctx, s.db, merchantID, activeOnly)
}

// CreateOption implements domain.CatalogService.
func (s *Service) CreateOption(ctx context.Context, p principal.Principal, req catalogdomain.CreateOptionRequest) (*catalogdomain.ServiceOption, error) {
	if err := authorizeWrite(p, req.MerchantID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	if req.AddPrice < 0 {
		return nil, catalogdomain.ErrInvalidPrice
	}
	if req.AddDuration < 0 {
		return nil, catalogdomain.ErrInvalidDuration
	}

	service, err := s.repo.FindServiceByID(ctx, s.db, req.MerchantID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, catalogdomain.ErrServiceInactive
	}

	now := s.clock.Now()
	option := &catalogdomain.ServiceOption{
		ID:           s.genID.Generate(),
		MerchantID:   req.MerchantID,
		ServiceID:    req.ServiceID,
		Name:         name,
		AddPrice:     req.AddPrice,
		AddDuration:  req.AddDuration,
		Active:       true,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertOption(ctx, s.db, option); err != nil {
		return nil, err
	}
	return option, nil
}

// DeactivateOption implements domain.CatalogService.
func (s *Service) DeactivateOption(ctx context.Context, p principal.Principal, merchantID, optionID snowflake.ID) error {
	if err := authorizeWrite(p, merchantID); err != nil {
		return err
	}

	option, err := s.repo.FindOptionByID(ctx, s.db, merchantID, optionID)
	if err != nil {
		return err
	}
	if option == nil {
		return catalogdomain.ErrOptionNotFound
	}

	option.Active = false
	option.UpdatedAt = s.clock.Now()
	return s.repo.UpdateOption(ctx, s.db, option)
}

// ListOptions implements domain.CatalogService.
func (s *Service) ListOptions(ctx context.Context, p principal.Principal, merchantID, serviceID snowflake.ID) ([]catalogdomain.ServiceOption, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}
	return s.repo.ListOptions(ctx, s.db, merchantID, serviceID)
}

// CreateStaff implements domain.CatalogService.
func (s *Service) CreateStaff(ctx context.Context, p principal.Principal, req catalogdomain.CreateStaffRequest) (*catalogdomain.Staff, error) {
	if err := authorizeWrite(p, req.MerchantID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}

	now := s.clock.Now()
	staff := &catalogdomain.Staff{
		ID:          s.genID.Generate(),
		MerchantID:  req.MerchantID,
		DisplayName: name,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertStaff(ctx, s.db, staff); err != nil {
		return nil, err
	}

	s.log.Info("staff created",
		zap.Int64("merchant_id", int64(staff.MerchantID)),
		zap.Int64("staff_id", int64(staff.ID)),
	)
	return staff, nil
}

// UpdateStaff implements domain.CatalogService.
func (s *Service) UpdateStaff(ctx context.Context, p principal.Principal, req catalogdomain.UpdateStaffRequest) (*catalogdomain.Staff, error) {
	if err := authorizeWrite(p, req.MerchantID); err != nil {
		return nil, err
	}

	staff, err := s.repo.FindStaffByID(ctx, s.db, req.MerchantID, req.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, catalogdomain.ErrStaffNotFound
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, catalogdomain.ErrInvalidName
		}
		staff.DisplayName = name
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	staff.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateStaff(ctx, s.db, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ListStaff implements domain.CatalogService.
func (s *Service) ListStaff(ctx context.Context, p principal.Principal, merchantID snowflake.ID, activeOnly bool) ([]catalogdomain.Staff, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}
	return s.repo.ListStaff(ctx, s.db, merchantID, activeOnly)
}

// AssignSkills implements domain.CatalogService. The full skill set is
// replaced; every referenced service must belong to the same merchant.
func (s *Service) AssignSkills(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID, serviceIDs []snowflake.ID) error {
	if err := authorizeWrite(p, merchantID); err != nil {
		return err
	}

	staff, err := s.repo.FindStaffByID(ctx, s.db, merchantID, staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return catalogdomain.ErrStaffNotFound
	}

	for _, serviceID := range serviceIDs {
		service, err := s.repo.FindServiceByID(ctx, s.db, merchantID, serviceID)
		if err != nil {
			return err
		}
		if service == nil {
			return catalogdomain.ErrServiceInactive
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.ReplaceSkills(ctx, tx, merchantID, staffID, serviceIDs)
	})
}

// ListSkills implements domain.CatalogService.
func (s *Service) ListSkills(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID) ([]snowflake.ID, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}

	skills, err := s.repo.ListSkills(ctx, s.db, merchantID, staffID)
	if err != nil {
		return nil, err
	}
	ids := make([]snowflake.ID, 0, len(skills))
	for _, skill := range skills {
		ids = append(ids, skill.ServiceID)
	}
	return ids, nil
}

// UpsertWorkingHours implements domain.CatalogService.
func (s *Service) UpsertWorkingHours(ctx context.Context, p principal.Principal, req catalogdomain.UpsertWorkingHoursRequest) (*catalogdomain.StaffWorkingHours, error) {
	if err := authorizeWrite(p, req.MerchantID); err != nil {
		return nil, err
	}

	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, catalogdomain.ErrInvalidWeekday
	}
	if req.StartMinute < 0 || req.EndMinute > 24*60 || req.StartMinute >= req.EndMinute {
		return nil, catalogdomain.ErrInvalidWorkingHours
	}

	staff, err := s.repo.FindStaffByID(ctx, s.db, req.MerchantID, req.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, catalogdomain.ErrStaffNotFound
	}

	now := s.clock.Now()
	hours := &catalogdomain.StaffWorkingHours{
		ID:          s.genID.Generate(),
		MerchantID:  req.MerchantID,
		StaffID:     req.StaffID,
		Weekday:     req.Weekday,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.UpsertWorkingHours(ctx, s.db, hours); err != nil {
		return nil, err
	}
	return hours, nil
}

// ListWorkingHours implements domain.CatalogService.
func (s *Service) ListWorkingHours(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID) ([]catalogdomain.StaffWorkingHours, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}
	return s.repo.ListWorkingHours(ctx, s.db, merchantID, staffID)
}

// AddStaffHoliday implements domain.CatalogService.
func (s *Service) AddStaffHoliday(ctx context.Context, p principal.Principal, req catalogdomain.AddStaffHolidayRequest) (*catalogdomain.StaffHoliday, error) {
	if err := authorizeWrite(p, req.MerchantID); err != nil {
		return nil, err
	}

	if req.Month < 1 || req.Month > 12 || req.Day < 1 || req.Day > 31 {
		return nil, catalogdomain.ErrInvalidDate
	}

	staff, err := s.repo.FindStaffByID(ctx, s.db, req.MerchantID, req.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, catalogdomain.ErrStaffNotFound
	}

	holiday := &catalogdomain.StaffHoliday{
		ID:         s.genID.Generate(),
		MerchantID: req.MerchantID,
		StaffID:    req.StaffID,
		Month:      req.Month,
		Day:        req.Day,
		Year:       req.Year,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.InsertStaffHoliday(ctx, s.db, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

// RemoveStaffHoliday implements domain.CatalogService.
func (s *Service) RemoveStaffHoliday(ctx context.Context, p principal.Principal, merchantID, holidayID snowflake.ID) error {
	if err := authorizeWrite(p, merchantID); err != nil {
		return err
	}
	return s.repo.DeleteStaffHoliday(ctx, s.db, merchantID, holidayID)
}

// ListStaffHolidays implements domain.CatalogService.
func (s *Service) ListStaffHolidays(ctx context.Context, p principal.Principal, merchantID, staffID snowflake.ID) ([]catalogdomain.StaffHoliday, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}
	return s.repo.ListStaffHolidays(ctx, s.db, merchantID, staffID)
}

// GetService implements domain.View.
func (s *Service) GetService(ctx context.Context, merchantID, serviceID snowflake.ID) (*catalogdomain.Service, error) {
	return s.repo.FindServiceByID(ctx, s.db, merchantID, serviceID)
}

// GetStaff implements domain.View.
func (s *Service) GetStaff(ctx context.Context, merchantID, staffID snowflake.ID) (*catalogdomain.Staff, error) {
	return s.repo.FindStaffByID(ctx, s.db, merchantID, staffID)
}

// BuildBookingItem implements domain.View.
func (s *Service) BuildBookingItem(ctx context.Context, merchantID, serviceID snowflake.ID, optionIDs []snowflake.ID) (*bookingdomain.BookingItem, error) {
	service, err := s.repo.FindServiceByID(ctx, s.db, merchantID, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil || !service.Active {
		return nil, catalogdomain.ErrServiceInactive
	}

	item := &bookingdomain.BookingItem{
		ServiceID:          service.ID,
		ServiceName:        service.Name,
		ServicePriceAmount: service.PriceAmount,
		Currency:           service.Currency,
		ServiceDurationMin: service.DurationMin,
	}
	if len(optionIDs) == 0 {
		return item, nil
	}

	options, err := s.repo.ListOptions(ctx, s.db, merchantID, serviceID)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]catalogdomain.ServiceOption, len(options))
	for _, opt := range options {
		byID[opt.ID] = opt
	}
	for _, id := range optionIDs {
		opt, ok := byID[id]
		if !ok || !opt.Active {
			continue
		}
		item.Options = append(item.Options, bookingdomain.OptionSnapshot{
			OptionID:    opt.ID,
			Name:        opt.Name,
			PriceAmount: opt.AddPrice,
			DurationMin: opt.AddDuration,
		})
	}
	return item, nil
}

// CanStaffPerform implements domain.View. An inactive or unknown staff
// member performs nothing, whatever skills are still on record.
func (s *Service) CanStaffPerform(ctx context.Context, merchantID, staffID, serviceID snowflake.ID) (bool, error) {
	staff, err := s.repo.FindStaffByID(ctx, s.db, merchantID, staffID)
	if err != nil {
		return false, err
	}
	if staff == nil || !staff.Active {
		return false, nil
	}

	skills, err := s.repo.ListSkills(ctx, s.db, merchantID, staffID)
	if err != nil {
		return false, err
	}
	for _, skill := range skills {
		if skill.ServiceID == serviceID {
			return true, nil
		}
	}
	return false, nil
}

// StaffWorkingRange implements domain.View. The stored minutes are
// merchant-local; the returned range is UTC so it composes directly with
// booking time ranges.
func (s *Service) StaffWorkingRange(ctx context.Context, merchantID, staffID snowflake.ID, localDate time.Time, loc *time.Location) (*types.TimeRange, error) {
	hours, err := s.repo.FindWorkingHours(ctx, s.db, merchantID, staffID, int(localDate.Weekday()))
	if err != nil {
		return nil, err
	}
	if hours == nil {
		return nil, nil
	}

	midnight := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, loc)
	r := types.TimeRange{
		Start: midnight.Add(time.Duration(hours.StartMinute) * time.Minute).UTC(),
		End:   midnight.Add(time.Duration(hours.EndMinute) * time.Minute).UTC(),
	}
	return &r, nil
}

// IsStaffHoliday implements domain.View.
func (s *Service) IsStaffHoliday(ctx context.Context, merchantID, staffID snowflake.ID, localDate time.Time) (bool, error) {
	holidays, err := s.repo.ListStaffHolidays(ctx, s.db, merchantID, staffID)
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
