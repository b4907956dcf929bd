package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	"github.com/smallbiznis/reserva/pkg/db/pagination"
	"go.uber.org/zap"
)

type createBookingRequest struct {
	StaffID  snowflake.ID           `json:"staff_id" binding:"required"`
	StartAt  time.Time              `json:"start_at" binding:"required"`
	Items    []bookingItemRequest   `json:"items" binding:"required"`
	Customer bookingCustomerRequest `json:"customer"`
	Notes    string                 `json:"notes"`
}

type bookingItemRequest struct {
	ServiceID snowflake.ID   `json:"service_id" binding:"required"`
	OptionIDs []snowflake.ID `json:"option_ids"`
}

type bookingCustomerRequest struct {
	LineUserID string `json:"line_user_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

func (s *Server) createBooking(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()

	// Best-effort admission in front of the database authority: a busy
	// slot guard or an exhausted bucket sheds load before a transaction
	// is opened. The exclusion constraint still decides the winner.
	var guardToken string
	if s.limiter.Enabled() {
		res, err := s.limiter.AllowMerchant(ctx, merchantID)
		if err != nil {
			s.log.Warn("rate limiter unavailable, admitting request", zap.Error(err))
		} else if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			AbortWithError(c, ErrRateLimited)
			return
		}

		token, ok, err := s.limiter.TryLockSlot(ctx, merchantID, req.StaffID, req.StartAt)
		if err != nil {
			s.log.Warn("slot guard unavailable, admitting request", zap.Error(err))
		} else if !ok {
			AbortWithError(c, bookingdomain.ErrBookingOverlap)
			return
		} else {
			guardToken = token
		}
	}

	booking, err := s.bookings.Create(ctx, currentPrincipal(c), bookingdomain.CreateBookingRequest{
		MerchantID: merchantID,
		StaffID:    req.StaffID,
		StartAt:    req.StartAt,
		Items:      toItemSpecs(req.Items),
		Customer: bookingdomain.Customer{
			LineUserID: req.Customer.LineUserID,
			Name:       req.Customer.Name,
			Phone:      req.Customer.Phone,
			Email:      req.Customer.Email,
		},
		Notes: req.Notes,
	})
	if err != nil {
		if guardToken != "" {
			_ = s.limiter.ReleaseSlot(ctx, merchantID, req.StaffID, req.StartAt, guardToken)
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": renderBooking(booking)})
}

func toItemSpecs(items []bookingItemRequest) []bookingdomain.ItemSpec {
	specs := make([]bookingdomain.ItemSpec, 0, len(items))
	for _, item := range items {
		specs = append(specs, bookingdomain.ItemSpec{
			ServiceID: item.ServiceID,
			OptionIDs: item.OptionIDs,
		})
	}
	return specs
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) cancelBooking(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	bookingID, err := pathID(c, "booking_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	p := currentPrincipal(c)
	booking, err := s.bookings.Cancel(c.Request.Context(), p, bookingdomain.CancelBookingRequest{
		MerchantID: merchantID,
		BookingID:  bookingID,
		Actor:      p.UserID,
		Reason:     req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderBooking(booking)})
}

func (s *Server) getBooking(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	bookingID, err := pathID(c, "booking_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	booking, err := s.bookings.Get(c.Request.Context(), currentPrincipal(c), merchantID, bookingID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderBooking(booking)})
}

func (s *Server) listBookings(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_time", "must be RFC3339 or YYYY-MM-DD"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_time", "must be RFC3339 or YYYY-MM-DD"))
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_int", "must be an integer"))
		return
	}

	resp, err := s.bookings.List(c.Request.Context(), currentPrincipal(c), bookingdomain.ListBookingsRequest{
		MerchantID: merchantID,
		From:       from,
		To:         to,
		Status:     bookingdomain.BookingStatus(c.Query("status")),
		PageToken:  page.PageToken,
		PageSize:   page.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":            renderBookings(resp.Bookings),
		"next_page_token": resp.NextPageToken,
		"has_more":        resp.HasMore,
	})
}

func (s *Server) availableSlots(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	staffID, err := pathID(c, "staff_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	date, err := time.Parse(dateOnlyLayout, c.Query("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "must be YYYY-MM-DD"))
		return
	}
	durationMin, err := strconv.Atoi(c.Query("duration_min"))
	if err != nil || durationMin <= 0 {
		AbortWithError(c, newValidationError("duration_min", "invalid_int", "must be a positive integer"))
		return
	}
	stepMin := 0
	if raw := c.Query("step_min"); raw != "" {
		stepMin, err = strconv.Atoi(raw)
		if err != nil || stepMin < 0 {
			AbortWithError(c, newValidationError("step_min", "invalid_int", "must be a non-negative integer"))
			return
		}
	}

	slots, err := s.bookings.AvailableSlots(c.Request.Context(), currentPrincipal(c), bookingdomain.AvailabilityRequest{
		MerchantID:         merchantID,
		StaffID:            staffID,
		Date:               date,
		ServiceDurationMin: durationMin,
		StepMin:            stepMin,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": slots})
}
