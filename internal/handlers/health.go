package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler обрабатывает проверку доступности сервиса
// @Summary		Проверка здоровья
// @Tags			service
// @Produce		json
// @Success		200	{object}	map[string]string	"Статус сервиса"
// @Router			/health [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
