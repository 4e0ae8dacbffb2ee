package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sql-converter/internal/model"
	"sql-converter/internal/service"
)

const Version = "1.0.0"

type HealthController struct {
	service service.ConversionService
}

func NewHealthController(svc service.ConversionService) *HealthController {
	return &HealthController{service: svc}
}

func (hc *HealthController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, hc.service.Health())
}

// Root describes the API
func (hc *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.ServiceInfo{
		Message:     "SQL Converter API",
		Description: "Convert MySQL SQL to Oracle SQL",
		Version:     Version,
		Endpoints: map[string]string{
			"/convert":       "POST - Convert MySQL SQL to Oracle SQL",
			"/parse":         "POST - Parse MySQL SQL and return structure",
			"/convert/batch": "POST - Convert multiple MySQL SQL statements",
			"/parse/batch":   "POST - Parse multiple MySQL SQL statements",
			"/health":        "GET - Health check",
		},
	})
}
