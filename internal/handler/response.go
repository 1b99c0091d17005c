package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "tempo/backend/internal/errors"
)

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	c.JSON(apiErr.StatusCode(), apiErr.Body())
}

func writeInvalidJSON(c *gin.Context) {
	writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
}

// writeEngineError renders an error from the timer engine or review scheduler.
func writeEngineError(c *gin.Context, err error) {
	writeError(c, apperrors.FromEngine(err))
}
