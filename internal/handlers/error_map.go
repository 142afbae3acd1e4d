package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/services"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses and the shared
// error envelope. Unknown errors stay opaque to the client.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", validation.Error()))
		return
	}

	switch {
	case errors.Is(err, services.ErrFarmNotFound),
		errors.Is(err, services.ErrReadingNotFound),
		errors.Is(err, services.ErrRecommendationNotFound),
		errors.Is(err, services.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("Not Found", err.Error()))
	case errors.Is(err, services.ErrNotFarmOwner):
		c.JSON(http.StatusForbidden, utils.CreateErrorResponse("Forbidden", err.Error()))
	case errors.Is(err, services.ErrDeviceConflict):
		c.JSON(http.StatusConflict, utils.CreateErrorResponse("Conflict", err.Error()))
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError,
			utils.CreateErrorResponse("Internal server error", "Request could not be processed"))
	}
}
