package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"team-planner/backend/internal/dto"
)

// Health 健康检查，不经过认证
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "OK",
		Message: "Serveur de planning fonctionnel",
	})
}
