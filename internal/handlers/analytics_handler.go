package handlers

import (
	"net/http"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/services"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/analytics", h.GetAnalytics)
}

func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	var farmID *uuid.UUID
	if raw := c.Query("farmId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid farmId"))
			return
		}
		farmID = &id
	}

	period := models.AnalyticsPeriod(c.DefaultQuery("period", string(models.PeriodMonth)))
	switch period {
	case models.PeriodWeek, models.PeriodMonth, models.PeriodYear:
	default:
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "period must be week, month or year"))
		return
	}

	snapshot, err := h.analytics.Aggregate(c.Request.Context(), currentUserID(c), farmID, period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(snapshot))
}
