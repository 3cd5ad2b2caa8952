// controllers/notification.go
package controllers

import (
	"net/http"

	"weddingops-backend/config"
	"weddingops-backend/models"
	"weddingops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetMyNotifications lists the calling user's notification log, newest first
func GetMyNotifications(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var notifications []models.Notification
	if err := config.DB.Where("recipient_id = ?", userUUID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
