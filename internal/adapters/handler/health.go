package handler

import (
	"charmapi/internal/core/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    "online",
		Message:   "Welcome to " + domain.ServiceName + "! 💕",
		Timestamp: timestamp(),
		Version:   domain.Version,
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    "healthy",
		Message:   "Charm AI Backend is running smoothly",
		Timestamp: timestamp(),
		Version:   domain.Version,
	})
}
