package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sql-converter/internal/middleware"
	"sql-converter/internal/model"
	"sql-converter/internal/service"
	"sql-converter/internal/utils"
	"sql-converter/internal/utils/sql_translator"
	"sql-converter/pkg/response"
)

// ConversionController serves the MySQL to Oracle endpoints. Single-item
// endpoints always answer 200 and report failures in the payload.
type ConversionController struct {
	service service.ConversionService
}

func NewConversionController(svc service.ConversionService) *ConversionController {
	return &ConversionController{service: svc}
}

// Convert handles POST /convert
func (cc *ConversionController) Convert(c *gin.Context) {
	var req model.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(c, err) {
			return
		}
		c.JSON(http.StatusOK, model.NewConversionFailure("", invalidBody(err)))
		return
	}

	c.JSON(http.StatusOK, cc.service.Convert(c.Request.Context(), req))
}

// ConvertBatch handles POST /convert/batch
func (cc *ConversionController) ConvertBatch(c *gin.Context) {
	var reqs []model.ConversionRequest
	if !bindBatch(c, &reqs) {
		return
	}

	results, err := cc.service.ConvertBatch(c.Request.Context(), reqs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Parse handles POST /parse
func (cc *ConversionController) Parse(c *gin.Context) {
	var req model.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(c, err) {
			return
		}
		c.JSON(http.StatusOK, model.NewParseFailure("", invalidBody(err)))
		return
	}

	c.JSON(http.StatusOK, cc.service.Parse(c.Request.Context(), req))
}

// ParseBatch handles POST /parse/batch
func (cc *ConversionController) ParseBatch(c *gin.Context) {
	var reqs []model.ParseRequest
	if !bindBatch(c, &reqs) {
		return
	}

	results, err := cc.service.ParseBatch(c.Request.Context(), reqs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// bindBatch decodes a JSON array body into dst, answering 400 or 413 itself
// when the body cannot be used.
func bindBatch(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if tooLarge(c, err) {
			return false
		}
		details := ""
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			details = "request body must be a JSON array"
		}
		abortWithError(c, utils.NewInvalidJSONError(details, err))
		return false
	}
	return true
}

func tooLarge(c *gin.Context, err error) bool {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return false
	}
	abortWithError(c, utils.NewPayloadTooLargeError(maxErr.Error()))
	return true
}

func invalidBody(err error) string {
	ve := &sql_translator.ValidationError{
		Dialect: string(sql_translator.MySQL),
		Message: "invalid request body: " + err.Error(),
	}
	return ve.Error()
}

func abortWithError(c *gin.Context, err error) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.InternalServerErrorResponse(middleware.GetCorrelationID(c)))
		return
	}
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.Status(), response.ErrorResponseFromAppError(appErr, middleware.GetCorrelationID(c)))
}
