package handlers

import (
	"net/http"
	"strconv"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/services"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultAlertLimit = 50

type AlertHandler struct {
	alerts *services.AlertService
}

func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

func (h *AlertHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/alerts", h.ListAlerts)
	protected.PATCH("/alerts/:id/read", h.MarkAlertRead)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	limit := defaultAlertLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid limit"))
			return
		}
		limit = parsed
	}

	alerts, err := h.alerts.ListForUser(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(alerts))
}

func (h *AlertHandler) MarkAlertRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid alert id"))
		return
	}

	if err := h.alerts.MarkRead(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"id": id, "is_read": true}))
}
