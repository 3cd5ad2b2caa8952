package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"weddingops-backend/config"
	"weddingops-backend/models"
	"weddingops-backend/services"
	"weddingops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateLeadInput defines the expected JSON structure for creating a lead
type CreateLeadInput struct {
	PartnerOneName     string     `json:"partnerOneName"`
	PartnerTwoName     string     `json:"partnerTwoName"`
	Email              string     `json:"email" binding:"required,email"`
	Phone              string     `json:"phone"`
	WeddingDate        *time.Time `json:"weddingDate"`
	GuestCountMin      int        `json:"guestCountMin" binding:"min=0"`
	GuestCountMax      int        `json:"guestCountMax" binding:"min=0"`
	BudgetMin          float64    `json:"budgetMin" binding:"min=0"`
	BudgetMax          float64    `json:"budgetMax" binding:"min=0"`
	ServiceTypes       string     `json:"serviceTypes"`
	PreferredLocations string     `json:"preferredLocations"`
	Notes              string     `json:"notes"`
	SaveStatus         string     `json:"saveStatus" binding:"omitempty,oneof=DRAFT SUBMITTED"`
}

// UpdateLeadInput defines the expected JSON structure for updating a lead
type UpdateLeadInput struct {
	PartnerOneName     *string    `json:"partnerOneName"`
	PartnerTwoName     *string    `json:"partnerTwoName"`
	Email              *string    `json:"email"`
	Phone              *string    `json:"phone"`
	WeddingDate        *time.Time `json:"weddingDate"`
	GuestCountMin      *int       `json:"guestCountMin"`
	GuestCountMax      *int       `json:"guestCountMax"`
	BudgetMin          *float64   `json:"budgetMin"`
	BudgetMax          *float64   `json:"budgetMax"`
	ServiceTypes       *string    `json:"serviceTypes"`
	PreferredLocations *string    `json:"preferredLocations"`
	Notes              *string    `json:"notes"`
	SaveStatus         *string    `json:"saveStatus" binding:"omitempty,oneof=DRAFT SUBMITTED ARCHIVED"`
}

// UpdateLeadStatusInput moves a lead to another pipeline stage
type UpdateLeadStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// BulkUpdateLeadStatusInput moves several leads at once
type BulkUpdateLeadStatusInput struct {
	LeadIDs []uuid.UUID `json:"leadIds" binding:"required,min=1"`
	Status  string      `json:"status" binding:"required"`
}

// CreateLead creates a new lead owned by the calling staff user
func CreateLead(c *gin.Context) {
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

	var input CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if input.BudgetMax > 0 && input.BudgetMin > input.BudgetMax {
		utils.RespondWithError(c, http.StatusBadRequest, "budgetMin cannot exceed budgetMax")
		return
	}

	saveStatus := input.SaveStatus
	if saveStatus == "" {
		saveStatus = models.SaveStatusDraft
	}

	lead := models.Lead{
		CreatedByUserID:    &userUUID,
		PartnerOneName:     input.PartnerOneName,
		PartnerTwoName:     input.PartnerTwoName,
		Email:              input.Email,
		Phone:              input.Phone,
		WeddingDate:        input.WeddingDate,
		GuestCountMin:      input.GuestCountMin,
		GuestCountMax:      input.GuestCountMax,
		BudgetMin:          input.BudgetMin,
		BudgetMax:          input.BudgetMax,
		ServiceTypes:       input.ServiceTypes,
		PreferredLocations: input.PreferredLocations,
		Notes:              input.Notes,
		Status:             models.LeadStatusInquiry,
		SaveStatus:         saveStatus,
	}

	if err := config.DB.Create(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	// Card materialization runs in the background; the response does not wait
	// for it and callers must not assume cards exist yet.
	services.NewMatchingService(config.DB).DispatchRefresh(lead.ID)

	c.JSON(http.StatusCreated, lead)
}

// GetLeads retrieves leads with filters, pagination and sorting
func GetLeads(c *gin.Context) {
	query := config.DB.Model(&models.Lead{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(partner_one_name) LIKE LOWER(?) OR LOWER(partner_two_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidLeadStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}
	if saveStatus := c.Query("saveStatus"); saveStatus != "" {
		query = query.Where("save_status = ?", saveStatus)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sortBy := c.DefaultQuery("sortBy", "updated_at")
	switch sortBy {
	case "updated_at", "created_at", "wedding_date", "budget_max", "status":
	default:
		sortBy = "updated_at"
	}
	sortOrder := c.DefaultQuery("sortOrder", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count leads")
		return
	}

	var leads []models.Lead
	if err := query.Order(sortBy + " " + sortOrder).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": leads,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetLead retrieves a specific lead by ID
func GetLead(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var lead models.Lead
	if err := config.DB.Preload("WeddingPlan.Services").Preload("Cards.Teams").
		First(&lead, "id = ?", leadUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLead updates an existing lead and re-triggers vendor matching
func UpdateLead(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input UpdateLeadInput
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

	// Update fields if provided
	if input.PartnerOneName != nil {
		lead.PartnerOneName = *input.PartnerOneName
	}
	if input.PartnerTwoName != nil {
		lead.PartnerTwoName = *input.PartnerTwoName
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		lead.Phone = *input.Phone
	}
	if input.WeddingDate != nil {
		lead.WeddingDate = input.WeddingDate
	}
	if input.GuestCountMin != nil {
		lead.GuestCountMin = *input.GuestCountMin
	}
	if input.GuestCountMax != nil {
		lead.GuestCountMax = *input.GuestCountMax
	}
	if input.BudgetMin != nil {
		lead.BudgetMin = *input.BudgetMin
	}
	if input.BudgetMax != nil {
		lead.BudgetMax = *input.BudgetMax
	}
	if input.ServiceTypes != nil {
		lead.ServiceTypes = *input.ServiceTypes
	}
	if input.PreferredLocations != nil {
		lead.PreferredLocations = *input.PreferredLocations
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.SaveStatus != nil {
		lead.SaveStatus = *input.SaveStatus
	}

	if err := config.DB.Save(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	// Fire-and-forget: rerun matching with the updated budget/tags.
	services.NewMatchingService(config.DB).DispatchRefresh(lead.ID)

	c.JSON(http.StatusOK, lead)
}

// UpdateLeadStatus moves a lead to another pipeline stage
func UpdateLeadStatus(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input UpdateLeadStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !models.ValidLeadStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
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

	lead.Status = input.Status
	if err := config.DB.Save(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead status")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// BulkUpdateLeadStatus moves several leads to the same stage at once
func BulkUpdateLeadStatus(c *gin.Context) {
	var input BulkUpdateLeadStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !models.ValidLeadStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	result := config.DB.Model(&models.Lead{}).
		Where("id IN ?", input.LeadIDs).
		Update("status", input.Status)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead statuses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lead statuses updated",
		"updated": result.RowsAffected,
	})
}

// ArchiveLead soft deletes a lead; records are archived, never destroyed
func ArchiveLead(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
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

	lead.SaveStatus = models.SaveStatusArchived
	if err := config.DB.Save(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to archive lead")
		return
	}
	if err := config.DB.Delete(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to archive lead")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead archived successfully"})
}
