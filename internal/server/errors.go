package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/reserva/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	"github.com/smallbiznis/reserva/internal/principal"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
	"github.com/smallbiznis/reserva/pkg/types"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate_limited")
)

func newValidationError(field, code, message string) ValidationErrors {
	return ValidationErrors{Errors: []ValidationError{{Field: field, Code: code, Message: message}}}
}

func invalidRequestError() ValidationErrors {
	return newValidationError("body", "invalid_request", "request body could not be parsed")
}

// AbortWithError records err on the context and stops the handler chain.
// ErrorHandlingMiddleware turns it into the response.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandlingMiddleware renders the last recorded error as a stable
// error envelope. Handlers never write error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		lastErr := c.Errors.Last()
		if lastErr == nil || c.Writer.Written() {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.JSON(status, errorResponse{Error: payload})
	}
}

// mapError translates domain sentinels into the wire vocabulary. The
// Type field is the stable machine-readable code clients branch on.
func mapError(err error) (int, errorPayload) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: "request validation failed",
			Errors:  verrs.Errors,
		}
	}

	var overlap *bookingdomain.OverlapError
	if errors.As(err, &overlap) {
		return http.StatusBadRequest, errorPayload{
			Type:    "booking_overlap",
			Message: overlap.Error(),
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, codePayload(ErrUnauthorized)
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, codePayload(ErrRateLimited)
	case errors.Is(err, principal.ErrPermissionDenied),
		errors.Is(err, merchantdomain.ErrMerchantInactive),
		errors.Is(err, subscriptiondomain.ErrSubscriptionPastDue),
		errors.Is(err, subscriptiondomain.ErrSubscriptionCancelled):
		return http.StatusForbidden, codePayload(err)
	case isNotFound(err):
		return http.StatusNotFound, errorPayload{Type: "entity_not_found", Message: err.Error()}
	case errors.Is(err, merchantdomain.ErrSlugTaken),
		errors.Is(err, catalogdomain.ErrServiceNameTaken):
		return http.StatusConflict, codePayload(err)
	case errors.Is(err, bookingdomain.ErrTimeout):
		return http.StatusServiceUnavailable, codePayload(err)
	case isDomainRejection(err):
		return http.StatusBadRequest, codePayload(err)
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal error",
		}
	}
}

// codePayload reuses the sentinel text as both code and message; the
// sentinels are already snake_case wire codes.
func codePayload(err error) errorPayload {
	return errorPayload{Type: err.Error(), Message: err.Error()}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		bookingdomain.ErrBookingNotFound,
		merchantdomain.ErrMerchantNotFound,
		merchantdomain.ErrHolidayNotFound,
		catalogdomain.ErrStaffNotFound,
		catalogdomain.ErrOptionNotFound,
		catalogdomain.ErrHolidayNotFound,
		subscriptiondomain.ErrSubscriptionNotFound,
		gorm.ErrRecordNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isDomainRejection(err error) bool {
	for _, target := range []error{
		bookingdomain.ErrBookingOverlap,
		bookingdomain.ErrBookingAlreadyCancelled,
		bookingdomain.ErrBookingAlreadyCompleted,
		bookingdomain.ErrInvalidStatusTransition,
		bookingdomain.ErrInvalidTimeSlot,
		bookingdomain.ErrOutsideWorkingHours,
		bookingdomain.ErrOutsideBookingHorizon,
		bookingdomain.ErrNoItems,
		bookingdomain.ErrMissingContact,
		bookingdomain.ErrInvalidPageToken,
		catalogdomain.ErrServiceInactive,
		catalogdomain.ErrStaffInactive,
		catalogdomain.ErrStaffSkillMismatch,
		catalogdomain.ErrInvalidPrice,
		catalogdomain.ErrInvalidDuration,
		catalogdomain.ErrInvalidWeekday,
		catalogdomain.ErrInvalidWorkingHours,
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidDate,
		merchantdomain.ErrInvalidSlug,
		merchantdomain.ErrInvalidTimezone,
		merchantdomain.ErrInvalidName,
		merchantdomain.ErrInvalidDate,
		merchantdomain.ErrInvalidStatus,
		subscriptiondomain.ErrInvalidStatus,
		types.ErrCurrencyMismatch,
		types.ErrNegativeAmount,
		types.ErrInvalidCurrency,
		types.ErrNegativeDuration,
		types.ErrInvalidTimeRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
