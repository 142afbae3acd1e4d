package handlers

import (
	"net/http"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/database/postgres"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/event"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every handler under the service's route prefix.
// The public group carries health only; everything else sits behind the
// gateway-injected user identity.
func RegisterRoutes(
	router *gin.Engine,
	publisher *event.FanoutPublisher,
	telemetry *TelemetryHandler,
	analytics *AnalyticsHandler,
	recommendations *RecommendationHandler,
	alerts *AlertHandler,
) {
	public := router.Group("/telemetry/public/api/v1")
	public.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
			"message":  "pong",
			"database": postgres.DB_Status,
			"fanout":   publisher.Metrics(),
		}))
	})

	protected := router.Group("/telemetry/protected/api/v1")
	protected.Use(RequireUser())

	telemetry.RegisterRoutes(protected)
	analytics.RegisterRoutes(protected)
	recommendations.RegisterRoutes(protected)
	alerts.RegisterRoutes(protected)
}
