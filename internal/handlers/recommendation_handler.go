package handlers

import (
	"net/http"
	"strconv"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/ml"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/services"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultRecommendationLimit = 20

// RecommendationHandler exposes rule-derived guidance plus the optional
// external model endpoint.
type RecommendationHandler struct {
	recs     *services.RecommendationService
	farms    *services.FarmService
	readings services.ReadingStore
	mlClient *ml.Client
}

func NewRecommendationHandler(recs *services.RecommendationService, farms *services.FarmService, readings services.ReadingStore, mlClient *ml.Client) *RecommendationHandler {
	return &RecommendationHandler{
		recs:     recs,
		farms:    farms,
		readings: readings,
		mlClient: mlClient,
	}
}

func (h *RecommendationHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/recommendations", h.GenerateRecommendation)
	protected.GET("/recommendations", h.ListRecommendations)
	protected.GET("/recommendations/:soilDataId", h.GetRecommendationForReading)
	protected.POST("/ml-recommendation", h.MLRecommendation)
}

type generateRecommendationRequest struct {
	SoilDataID string `json:"soilDataId" binding:"required"`
}

func (h *RecommendationHandler) GenerateRecommendation(c *gin.Context) {
	var req generateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "soilDataId is required"))
		return
	}
	soilDataID, err := uuid.Parse(req.SoilDataID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid soilDataId"))
		return
	}

	rec, created, err := h.recs.GenerateForReading(c.Request.Context(), h.farms, currentUserID(c), soilDataID, h.readings)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, utils.CreateSuccessResponse(rec))
}

func (h *RecommendationHandler) ListRecommendations(c *gin.Context) {
	var farmID *uuid.UUID
	if raw := c.Query("farmId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid farmId"))
			return
		}
		farmID = &id
	}

	limit := defaultRecommendationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid limit"))
			return
		}
		limit = parsed
	}

	recs, err := h.recs.ListForUser(c.Request.Context(), h.farms, currentUserID(c), farmID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(recs))
}

func (h *RecommendationHandler) GetRecommendationForReading(c *gin.Context) {
	soilDataID, err := uuid.Parse(c.Param("soilDataId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid soilDataId"))
		return
	}

	rec, err := h.recs.GetForReading(c.Request.Context(), h.farms, currentUserID(c), soilDataID, h.readings)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(rec))
}

// MLRecommendation proxies raw soil parameters to the external crop
// model. It is available only when the service was started with an ML
// endpoint configured.
func (h *RecommendationHandler) MLRecommendation(c *gin.Context) {
	if h.mlClient == nil {
		c.JSON(http.StatusServiceUnavailable,
			utils.CreateErrorResponse("Service Unavailable", "ML recommendation service is not configured"))
		return
	}

	var req ml.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "Invalid request body"))
		return
	}

	prediction, err := h.mlClient.Predict(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(prediction))
}
