package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/services"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultReadingLimit = 100

// TelemetryHandler owns the soil data endpoints: ingestion plus the
// owner-scoped read paths.
type TelemetryHandler struct {
	ingestion *services.IngestionService
}

func NewTelemetryHandler(ingestion *services.IngestionService) *TelemetryHandler {
	return &TelemetryHandler{ingestion: ingestion}
}

func (h *TelemetryHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/soil-data", h.IngestSoilData)
	protected.GET("/soil-data", h.ListSoilData)
	protected.GET("/soil-data/recent", h.RecentSoilData)
}

func (h *TelemetryHandler) IngestSoilData(c *gin.Context) {
	var payload models.TelemetryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid request body"))
		return
	}

	result, err := h.ingestion.Ingest(c.Request.Context(), currentUserID(c), &payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(result))
}

func (h *TelemetryHandler) ListSoilData(c *gin.Context) {
	filter := models.ReadingFilter{Limit: defaultReadingLimit}

	var farmID *uuid.UUID
	if raw := c.Query("farmId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid farmId"))
			return
		}
		farmID = &id
	}
	if raw := c.Query("deviceId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid deviceId"))
			return
		}
		filter.DeviceID = &id
	}
	if raw := c.Query("zoneId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid zoneId"))
			return
		}
		filter.ZoneID = &id
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid from timestamp"))
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid to timestamp"))
			return
		}
		filter.To = &to
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid limit"))
			return
		}
		filter.Limit = limit
	}

	readings, err := h.ingestion.ListReadings(c.Request.Context(), currentUserID(c), filter, farmID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(readings))
}

func (h *TelemetryHandler) RecentSoilData(c *gin.Context) {
	raw := c.Query("farmId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "farmId is required"))
		return
	}
	farmID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid farmId"))
		return
	}

	reading, err := h.ingestion.LatestForFarm(c.Request.Context(), currentUserID(c), farmID)
	if err != nil {
		respondError(c, err)
		return
	}
	if reading == nil {
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("Not Found", "No readings for this farm yet"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(reading))
}
