package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/reserva/internal/catalog/domain"
)

type createServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	PriceAmount int64  `json:"price_amount"`
	Currency    string `json:"currency" binding:"required"`
	DurationMin int    `json:"duration_min" binding:"required"`
}

func (s *Server) createCatalogService(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	svc, err := s.catalog.CreateService(c.Request.Context(), currentPrincipal(c), catalogdomain.CreateServiceRequest{
		MerchantID:  merchantID,
		Name:        req.Name,
		Category:    req.Category,
		PriceAmount: req.PriceAmount,
		Currency:    req.Currency,
		DurationMin: req.DurationMin,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": renderService(svc)})
}

type updateServiceRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	PriceAmount *int64  `json:"price_amount"`
	DurationMin *int    `json:"duration_min"`
	Active      *bool   `json:"active"`
}

func (s *Server) updateCatalogService(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	serviceID, err := pathID(c, "service_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	svc, err := s.catalog.UpdateService(c.Request.Context(), currentPrincipal(c), catalogdomain.UpdateServiceRequest{
		MerchantID:  merchantID,
		ServiceID:   serviceID,
		Name:        req.Name,
		Category:    req.Category,
		PriceAmount: req.PriceAmount,
		DurationMin: req.DurationMin,
		Active:      req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderService(svc)})
}

func (s *Server) listCatalogServices(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	activeOnly, err := parseOptionalBool(c.Query("active_only"))
	if err != nil {
		AbortWithError(c, newValidationError("active_only", "invalid_bool", "must be true or false"))
		return
	}

	services, err := s.catalog.ListServices(c.Request.Context(), currentPrincipal(c), merchantID, activeOnly != nil && *activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderServices(services)})
}

type createOptionRequest struct {
	Name         string `json:"name" binding:"required"`
	AddPrice     int64  `json:"add_price"`
	AddDuration  int    `json:"add_duration"`
	DisplayOrder int    `json:"display_order"`
}

func (s *Server) createServiceOption(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	serviceID, err := pathID(c, "service_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	opt, err := s.catalog.CreateOption(c.Request.Context(), currentPrincipal(c), catalogdomain.CreateOptionRequest{
		MerchantID:   merchantID,
		ServiceID:    serviceID,
		Name:         req.Name,
		AddPrice:     req.AddPrice,
		AddDuration:  req.AddDuration,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": renderOption(opt)})
}

func (s *Server) listServiceOptions(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	serviceID, err := pathID(c, "service_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	options, err := s.catalog.ListOptions(c.Request.Context(), currentPrincipal(c), merchantID, serviceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderOptions(options)})
}

func (s *Server) deactivateServiceOption(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	optionID, err := pathID(c, "option_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.catalog.DeactivateOption(c.Request.Context(), currentPrincipal(c), merchantID, optionID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type createStaffRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

func (s *Server) createStaff(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	st, err := s.catalog.CreateStaff(c.Request.Context(), currentPrincipal(c), catalogdomain.CreateStaffRequest{
		MerchantID:  merchantID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": renderStaff(st)})
}

type updateStaffRequest struct {
	DisplayName *string `json:"display_name"`
	Active      *bool   `json:"active"`
}

func (s *Server) updateStaff(c *gin.Context) {
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

	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	st, err := s.catalog.UpdateStaff(c.Request.Context(), currentPrincipal(c), catalogdomain.UpdateStaffRequest{
		MerchantID:  merchantID,
		StaffID:     staffID,
		DisplayName: req.DisplayName,
		Active:      req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderStaff(st)})
}

func (s *Server) listStaff(c *gin.Context) {
	merchantID, err := pathID(c, "merchant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	activeOnly, err := parseOptionalBool(c.Query("active_only"))
	if err != nil {
		AbortWithError(c, newValidationError("active_only", "invalid_bool", "must be true or false"))
		return
	}

	staff, err := s.catalog.ListStaff(c.Request.Context(), currentPrincipal(c), merchantID, activeOnly != nil && *activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderStaffList(staff)})
}

type assignSkillsRequest struct {
	ServiceIDs []snowflake.ID `json:"service_ids"`
}

func (s *Server) assignStaffSkills(c *gin.Context) {
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

	var req assignSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.catalog.AssignSkills(c.Request.Context(), currentPrincipal(c), merchantID, staffID, req.ServiceIDs); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"service_ids": req.ServiceIDs}})
}

func (s *Server) listStaffSkills(c *gin.Context) {
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

	serviceIDs, err := s.catalog.ListSkills(c.Request.Context(), currentPrincipal(c), merchantID, staffID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"service_ids": serviceIDs}})
}

type upsertWorkingHoursRequest struct {
	Weekday     int `json:"weekday"`
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute" binding:"required"`
}

func (s *Server) upsertWorkingHours(c *gin.Context) {
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

	var req upsertWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	wh, err := s.catalog.UpsertWorkingHours(c.Request.Context(), currentPrincipal(c), catalogdomain.UpsertWorkingHoursRequest{
		MerchantID:  merchantID,
		StaffID:     staffID,
		Weekday:     req.Weekday,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renderWorkingHours(wh)})
}

func (s *Server) listWorkingHours(c *gin.Context) {
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

	hours, err := s.catalog.ListWorkingHours(c.Request.Context(), currentPrincipal(c), merchantID, staffID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]workingHoursResponse, 0, len(hours))
	for i := range hours {
		out = append(out, renderWorkingHours(&hours[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type addStaffHolidayRequest struct {
	Month int `json:"month" binding:"required"`
	Day   int `json:"day" binding:"required"`
	Year  int `json:"year"`
}

func (s *Server) addStaffHoliday(c *gin.Context) {
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

	var req addStaffHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	holiday, err := s.catalog.AddStaffHoliday(c.Request.Context(), currentPrincipal(c), catalogdomain.AddStaffHolidayRequest{
		MerchantID: merchantID,
		StaffID:    staffID,
		Month:      req.Month,
		Day:        req.Day,
		Year:       req.Year,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": renderStaffHoliday(holiday)})
}

func (s *Server) listStaffHolidays(c *gin.Context) {
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

	holidays, err := s.catalog.ListStaffHolidays(c.Request.Context(), currentPrincipal(c), merchantID, staffID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]holidayResponse, 0, len(holidays))
	for i := range holidays {
		out = append(out, renderStaffHoliday(&holidays[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) removeStaffHoliday(c *gin.Context) {
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

	if err := s.catalog.RemoveStaffHoliday(c.Request.Context(), currentPrincipal(c), merchantID, holidayID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
