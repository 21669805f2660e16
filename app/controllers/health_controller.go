package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"gorm.io/gorm"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health GET /api/health
func (hc *HealthController) Health(c *ctx.Context) {
	data := map[string]interface{}{"timestamp": time.Now().UTC(), "database": "ok"}
	if err := database.Ping(hc.db); err != nil {
		data["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, response.Envelope{
			Status: http.StatusServiceUnavailable, Message: "Server is degraded", Data: data,
		})
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Message: "Server is running", Data: data})
}
