// controllers/wedding_plan.go
package controllers

import (
	"errors"
	"net/http"

	"weddingops-backend/config"
	"weddingops-backend/models"
	"weddingops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanServiceInput struct {
	Name            string     `json:"name" binding:"required"`
	Category        string     `json:"category"`
	VendorID        *uuid.UUID `json:"vendorId"`
	VendorServiceID *uuid.UUID `json:"vendorServiceId"`
}

type UpsertWeddingPlanInput struct {
	Events   models.JSONBArray  `json:"events"`
	Services []PlanServiceInput `json:"services"`
}

// UpsertWeddingPlan creates or replaces the lead's wedding plan. Service
// selections are replaced wholesale; their statuses restart at PENDING.
func UpsertWeddingPlan(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input UpsertWeddingPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", leadUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var plan models.WeddingPlan
	err = tx.Where("lead_id = ?", lead.ID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		plan = models.WeddingPlan{LeadID: lead.ID}
		if err := tx.Create(&plan).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create wedding plan")
			return
		}
	} else if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	} else {
		if err := tx.Where("wedding_plan_id = ?", plan.ID).
			Delete(&models.WeddingPlanService{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear plan services")
			return
		}
	}

	plan.Events = input.Events
	if err := tx.Save(&plan).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save wedding plan")
		return
	}

	var planServices []models.WeddingPlanService
	for _, item := range input.Services {
		planServices = append(planServices, models.WeddingPlanService{
			WeddingPlanID:   plan.ID,
			Name:            item.Name,
			Category:        item.Category,
			VendorID:        item.VendorID,
			VendorServiceID: item.VendorServiceID,
			Status:          models.PlanServicePending,
		})
	}
	if len(planServices) > 0 {
		if err := tx.Create(&planServices).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save plan services")
			return
		}
	}

	tx.Commit()

	var saved models.WeddingPlan
	if err := config.DB.Preload("Services").First(&saved, "id = ?", plan.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reload wedding plan")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// GetWeddingPlan retrieves the lead's wedding plan
func GetWeddingPlan(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var plan models.WeddingPlan
	if err := config.DB.Preload("Services").
		Where("lead_id = ?", leadUUID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Wedding plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}
