package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	merchantdomain "github.com/smallbiznis/reserva/internal/merchant/domain"
	subscriptiondomain "github.com/smallbiznis/reserva/internal/subscription/domain"
)

type createMerchantRequest struct {
	Slug        string `json:"slug" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Timezone    string `json:"timezone" binding:"required"`
}

func (s *Server) createMerchant(c *gin.Context) {
	var req createMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	merchant, err := s.merchants.Create(c.Request.Context(), currentPrincipal(c), merchantdomain.CreateMerchantRequest{
		Slug:        req.Slug,
		DisplayName: req.DisplayName,
		Timezone:    req.Timezone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": renderMerchant(merchant)})
}

func (s *Server) getMerchant(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	merchant, err := s.merchants.Get(c.Request.Context(), currentPrincipal(c), merchantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderMerchant(merchant)})
}

type updateMerchantStatusRequest struct {
	Status merchantdomain.MerchantStatus `json:"status" binding:"required"`
}

func (s *Server) updateMerchantStatus(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateMerchantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	merchant, err := s.merchants.UpdateStatus(c.Request.Context(), currentPrincipal(c), merchantdomain.UpdateMerchantStatusRequest{
		MerchantID: merchantID,
		Status:     req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderMerchant(merchant)})
}

type addHolidayRequest struct {
	Month int    `json:"month" binding:"required"`
	Day   int    `json:"day" binding:"required"`
	Year  int    `json:"year"`
	Name  string `json:"name"`
}

func (s *Server) addMerchantHoliday(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req addHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	holiday, err := s.merchants.AddHoliday(c.Request.Context(), currentPrincipal(c), merchantdomain.AddHolidayRequest{
		MerchantID: merchantID,
		Month:      req.Month,
		Day:        req.Day,
		Year:       req.Year,
		Name:       req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": renderMerchantHoliday(holiday)})
}

func (s *Server) listMerchantHolidays(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	holidays, err := s.merchants.ListHolidays(c.Request.Context(), currentPrincipal(c), merchantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]holidayResponse, 0, len(holidays))
	for i := range holidays {
		out = append(out, renderMerchantHoliday(&holidays[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) removeMerchantHoliday(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	holidayID, err := pathID(c, "holiday_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.merchants.RemoveHoliday(c.Request.Context(), currentPrincipal(c), merchantID, holidayID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) getSubscription(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sub, err := s.subscriptions.GetForMerchant(c.Request.Context(), currentPrincipal(c), merchantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderSubscription(sub)})
}

type setSubscriptionStatusRequest struct {
	Status subscriptiondomain.SubscriptionStatus `json:"status" binding:"required"`
}

func (s *Server) setSubscriptionStatus(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req setSubscriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sub, err := s.subscriptions.SetStatus(c.Request.Context(), currentPrincipal(c), subscriptiondomain.SetStatusRequest{
		MerchantID: merchantID,
		Status:     req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderSubscription(sub)})
}
