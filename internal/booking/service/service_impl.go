package service

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	"github.com/smallbiznis/reserva/internal/clock"
	"github.com/smallbiznis/reserva/internal/config"
	"github.com/smallbiznis/reserva/internal/events"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	"github.com/smallbiznis/reserva/internal/observability/metrics"
	"github.com/smallbiznis/reserva/internal/principal"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
	pkgdb "github.com/smallbiznis/reserva/pkg/db"
	"github.com/smallbiznis/reserva/pkg/db/pagination"
	"github.com/smallbiznis/reserva/pkg/types"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxTxAttempts  = 3
	backoffFloor   = 10 * time.Millisecond
	backoffCeiling = 50 * time.Millisecond

	defaultPageSize = 20
	maxPageSize     = 250
)

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          bookingdomain.Repository
	locks         bookingdomain.LockRepository
	catalog       catalogdomain.View
	merchants     merchantdomain.Service
	subscriptions subscriptiondomain.Service
	bus           *events.Bus
	metrics       *metrics.BookingMetrics
	scheduling    *config.SchedulingConfigHolder
	deadline      time.Duration
}

type ServiceParam struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Config        config.Config
	Repo          bookingdomain.Repository
	Locks         bookingdomain.LockRepository
	Catalog       catalogdomain.CatalogService
	Merchants     merchantdomain.Service
	Subscriptions subscriptiondomain.Service
	Bus           *events.Bus
	Metrics       *metrics.BookingMetrics `optional:"true"`
	Scheduling    *config.SchedulingConfigHolder
}

func NewService(p ServiceParam) bookingdomain.Service {
	deadline := 5 * time.Second
	if p.Config.BookingDeadlineSeconds > 0 {
		deadline = time.Duration(p.Config.BookingDeadlineSeconds) * time.Second
	}
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("booking.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		locks:         p.Locks,
		catalog:       p.Catalog,
		merchants:     p.Merchants,
		subscriptions: p.Subscriptions,
		bus:           p.Bus,
		metrics:       p.Metrics,
		scheduling:    p.Scheduling,
		deadline:      deadline,
	}
}

// Create implements domain.Service. The admission checks, lock insert and
// booking persist run inside one transaction; any failure rolls back so
// no lock survives without a booking.
func (s *Service) Create(ctx context.Context, p principal.Principal, req bookingdomain.CreateBookingRequest) (*bookingdomain.Booking, error) {
	if err := p.Authorize(req.MerchantID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	merchant, err := s.merchants.Resolve(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if !merchant.IsActive() {
		return nil, merchantdomain.ErrMerchantInactive
	}
	loc, err := merchant.Location()
	if err != nil {
		return nil, merchantdomain.ErrInvalidTimezone
	}

	if err := s.subscriptions.EnsureCanCreateBooking(ctx, req.MerchantID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if req.StartAt.IsZero() {
		return nil, bookingdomain.ErrInvalidTimeSlot
	}
	startAt := req.StartAt.UTC()
	cfg := s.scheduling.Get()
	lead := time.Duration(cfg.MinLeadMinutes) * time.Minute
	if !startAt.After(now.Add(lead)) {
		return nil, bookingdomain.ErrInvalidTimeSlot
	}
	// Same cutoff the availability grid applies, so a date the picker
	// refuses to show cannot be booked directly.
	local := startAt.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if dayStart.After(now.In(loc).AddDate(0, 0, cfg.HorizonDays)) {
		return nil, bookingdomain.ErrOutsideBookingHorizon
	}

	staff, err := s.catalog.GetStaff(ctx, req.MerchantID, req.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, catalogdomain.ErrStaffNotFound
	}
	if !staff.Active {
		return nil, catalogdomain.ErrStaffInactive
	}

	items := make([]bookingdomain.BookingItem, 0, len(req.Items))
	for _, spec := range req.Items {
		ok, err := s.catalog.CanStaffPerform(ctx, req.MerchantID, req.StaffID, spec.ServiceID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, catalogdomain.ErrStaffSkillMismatch
		}
		item, err := s.catalog.BuildBookingItem(ctx, req.MerchantID, spec.ServiceID, spec.OptionIDs)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	booking, err := bookingdomain.NewBooking(
		s.genID.Generate(), req.MerchantID, req.StaffID,
		req.Customer, startAt, items, req.Notes, now,
	)
	if err != nil {
		return nil, err
	}

	if err := s.ensureWithinSchedule(ctx, merchant, req.StaffID, booking.Range(), loc); err != nil {
		return nil, err
	}

	err = s.withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			conflicts, err := s.locks.FindOverlapping(ctx, tx, req.MerchantID, req.StaffID, booking.Range())
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				e := &bookingdomain.OverlapError{StaffID: req.StaffID, Range: booking.Range()}
				if conflicts[0].BookingID != nil {
					e.ConflictingBookingID = *conflicts[0].BookingID
				}
				return e
			}

			lock := &bookingdomain.BookingLock{
				ID:         s.genID.Generate(),
				MerchantID: req.MerchantID,
				StaffID:    req.StaffID,
				StartAt:    booking.StartAt,
				EndAt:      booking.EndAt,
				CreatedAt:  now,
			}
			if err := s.locks.Insert(ctx, tx, lock); err != nil {
				return err
			}
			if err := s.repo.Insert(ctx, tx, booking); err != nil {
				return err
			}
			return s.locks.LinkToBooking(ctx, tx, lock.ID, booking.ID)
		})
	})
	if err != nil {
		if errors.Is(err, bookingdomain.ErrBookingOverlap) {
			s.metrics.RecordOverlapRejected()
		}
		return nil, err
	}

	s.metrics.RecordCreated()
	s.log.Info("booking created",
		zap.Int64("merchant_id", int64(booking.MerchantID)),
		zap.Int64("booking_id", int64(booking.ID)),
		zap.Int64("staff_id", int64(booking.StaffID)),
		zap.Time("start_at", booking.StartAt),
	)

	price := booking.TotalPrice()
	s.bus.Publish(ctx, events.Event{
		Type:               events.TypeBookingConfirmed,
		BookingID:          booking.ID,
		MerchantID:         booking.MerchantID,
		StaffID:            booking.StaffID,
		StartAt:            booking.StartAt,
		EndAt:              booking.EndAt,
		CustomerLineUserID: booking.Customer.LineUserID,
		TotalPrice:         &price,
		TS:                 now,
	})
	return booking, nil
}

// Cancel implements domain.Service. A past-due subscription never blocks
// cancellation.
func (s *Service) Cancel(ctx context.Context, p principal.Principal, req bookingdomain.CancelBookingRequest) (*bookingdomain.Booking, error) {
	if err := p.Authorize(req.MerchantID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	var booking *bookingdomain.Booking
	err := s.withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			found, err := s.repo.FindByID(ctx, tx, req.MerchantID, req.BookingID)
			if err != nil {
				return err
			}
			if found == nil {
				return bookingdomain.ErrBookingNotFound
			}
			if !canCancel(p, found) {
				return principal.ErrPermissionDenied
			}
			if err := found.Cancel(req.Actor, req.Reason, s.clock.Now()); err != nil {
				return err
			}
			if err := s.locks.DeleteByBookingID(ctx, tx, req.MerchantID, req.BookingID); err != nil {
				return err
			}
			if err := s.repo.Update(ctx, tx, found); err != nil {
				return err
			}
			booking = found
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCancelled()
	s.log.Info("booking cancelled",
		zap.Int64("merchant_id", int64(booking.MerchantID)),
		zap.Int64("booking_id", int64(booking.ID)),
		zap.String("actor", booking.CancelledBy),
	)

	s.bus.Publish(ctx, events.Event{
		Type:               events.TypeBookingCancelled,
		BookingID:          booking.ID,
		MerchantID:         booking.MerchantID,
		StaffID:            booking.StaffID,
		StartAt:            booking.StartAt,
		EndAt:              booking.EndAt,
		CustomerLineUserID: booking.Customer.LineUserID,
		Reason:             booking.CancelReason,
		TS:                 s.clock.Now(),
	})
	return booking, nil
}

// canCancel grants admins, the merchant's operators, and the customer who
// owns the booking.
func canCancel(p principal.Principal, booking *bookingdomain.Booking) bool {
	if p.IsAdmin() || p.IsOperatorFor(booking.MerchantID) {
		return true
	}
	if p.UserID == "" {
		return false
	}
	return p.UserID == booking.Customer.LineUserID ||
		p.UserID == booking.Customer.Email ||
		p.UserID == booking.Customer.Phone
}

// Get implements domain.Service.
func (s *Service) Get(ctx context.Context, p principal.Principal, merchantID, bookingID snowflake.ID) (*bookingdomain.Booking, error) {
	if err := p.Authorize(merchantID); err != nil {
		return nil, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, merchantID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrBookingNotFound
	}
	return booking, nil
}

// List implements domain.Service. Results are newest-first by start time
// with an opaque keyset cursor.
func (s *Service) List(ctx context.Context, p principal.Principal, req bookingdomain.ListBookingsRequest) (*bookingdomain.ListBookingsResponse, error) {
	if err := p.Authorize(req.MerchantID); err != nil {
		return nil, err
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := bookingdomain.ListFilter{
		From:   req.From,
		To:     req.To,
		Status: req.Status,
		Limit:  limit + 1,
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, bookingdomain.ErrInvalidPageToken
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, bookingdomain.ErrInvalidPageToken
		}
		startAt, err := time.Parse(time.RFC3339Nano, cursor.StartAt)
		if err != nil {
			return nil, bookingdomain.ErrInvalidPageToken
		}
		filter.AfterID = snowflake.ID(id)
		filter.AfterStartAt = startAt
	}

	bookings, err := s.repo.List(ctx, s.db, req.MerchantID, filter)
	if err != nil {
		return nil, err
	}

	info, page, err := pagination.BuildCursorPageInfo(bookings, limit, func(b bookingdomain.Booking) (string, error) {
		return pagination.EncodeCursor(pagination.Cursor{
			ID:      strconv.FormatInt(int64(b.ID), 10),
			StartAt: b.StartAt.Format(time.RFC3339Nano),
		})
	})
	if err != nil {
		return nil, err
	}
	return &bookingdomain.ListBookingsResponse{Bookings: page, PageInfo: info}, nil
}

// AvailableSlots implements domain.Service. Candidates outside working
// hours or colliding with a lock are emitted as unavailable so a picker
// can render them struck through.
func (s *Service) AvailableSlots(ctx context.Context, p principal.Principal, req bookingdomain.AvailabilityRequest) ([]bookingdomain.Slot, error) {
	if err := p.Authorize(req.MerchantID); err != nil {
		return nil, err
	}
	started := time.Now()
	defer func() { s.metrics.ObserveAvailability(time.Since(started)) }()

	if req.ServiceDurationMin <= 0 {
		return nil, bookingdomain.ErrInvalidTimeSlot
	}
	cfg := s.scheduling.Get()
	step := req.StepMin
	if step <= 0 {
		step = cfg.DefaultStepMinutes
	}

	merchant, err := s.merchants.Resolve(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}
	loc, err := merchant.Location()
	if err != nil {
		return nil, merchantdomain.ErrInvalidTimezone
	}

	now := s.clock.Now()
	// The request carries a calendar date; anchor it to the merchant's
	// timezone before any weekday or holiday lookup, or a merchant west
	// of UTC would resolve the previous day.
	localDate := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	if localDate.After(now.In(loc).AddDate(0, 0, cfg.HorizonDays)) {
		return []bookingdomain.Slot{}, nil
	}

	closed, err := s.merchants.IsHoliday(ctx, req.MerchantID, localDate)
	if err != nil {
		return nil, err
	}
	if closed {
		return []bookingdomain.Slot{}, nil
	}
	off, err := s.catalog.IsStaffHoliday(ctx, req.MerchantID, req.StaffID, localDate)
	if err != nil {
		return nil, err
	}
	if off {
		return []bookingdomain.Slot{}, nil
	}

	working, err := s.catalog.StaffWorkingRange(ctx, req.MerchantID, req.StaffID, localDate, loc)
	if err != nil {
		return nil, err
	}
	if working == nil {
		return []bookingdomain.Slot{}, nil
	}

	locks, err := s.locks.FindOverlapping(ctx, s.db, req.MerchantID, req.StaffID, *working)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(req.ServiceDurationMin) * time.Minute
	stepDelta := time.Duration(step) * time.Minute

	slots := make([]bookingdomain.Slot, 0)
	for start := working.Start; !start.Add(duration).After(working.End); start = start.Add(stepDelta) {
		candidate := types.TimeRange{Start: start, End: start.Add(duration)}
		available := start.After(now)
		if available {
			for _, lock := range locks {
				if candidate.Overlaps(lock.Range()) {
					available = false
					break
				}
			}
		}
		slots = append(slots, bookingdomain.Slot{
			StartLocal: candidate.Start.In(loc),
			EndLocal:   candidate.End.In(loc),
			Available:  available,
		})
	}
	return slots, nil
}

// ensureWithinSchedule rejects bookings on closed dates and outside the
// staff's working window for the local weekday.
func (s *Service) ensureWithinSchedule(ctx context.Context, merchant *merchantdomain.Merchant, staffID snowflake.ID, rng types.TimeRange, loc *time.Location) error {
	localDate := rng.Start.In(loc)

	closed, err := s.merchants.IsHoliday(ctx, merchant.ID, localDate)
	if err != nil {
		return err
	}
	if closed {
		return bookingdomain.ErrOutsideWorkingHours
	}

	off, err := s.catalog.IsStaffHoliday(ctx, merchant.ID, staffID, localDate)
	if err != nil {
		return err
	}
	if off {
		return bookingdomain.ErrOutsideWorkingHours
	}

	working, err := s.catalog.StaffWorkingRange(ctx, merchant.ID, staffID, localDate, loc)
	if err != nil {
		return err
	}
	if working == nil || !working.ContainsRange(rng) {
		return bookingdomain.ErrOutsideWorkingHours
	}
	return nil
}

// withRetry reruns fn on transient transaction conflicts with jittered
// backoff. Domain rejections, overlap included, surface immediately.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return bookingdomain.ErrTimeout
		}
		if !pkgdb.IsSerializationFailure(err) {
			return err
		}
		if attempt == maxTxAttempts {
			break
		}

		backoff := backoffFloor + time.Duration(rand.Int63n(int64(backoffCeiling-backoffFloor)))
		s.log.Warn("transaction conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return bookingdomain.ErrTimeout
		case <-time.After(backoff):
		}
	}
	return err
}
