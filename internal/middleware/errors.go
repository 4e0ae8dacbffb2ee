package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sql-converter/internal/utils"
	"sql-converter/pkg/response"
)

func abortWithAppError(c *gin.Context, appErr *utils.AppError) {
	c.AbortWithStatusJSON(appErr.Status(), response.ErrorResponseFromAppError(appErr, GetCorrelationID(c)))
}

func abortWithInternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, response.InternalServerErrorResponse(GetCorrelationID(c)))
}

func payloadTooLarge(maxBytes int64) *utils.AppError {
	return utils.NewPayloadTooLargeError("request body exceeds " + strconv.FormatInt(maxBytes, 10) + " bytes")
}
