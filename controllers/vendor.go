// controllers/vendor.go
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

// CreateVendorInput defines the expected JSON structure for creating a vendor
type CreateVendorInput struct {
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"omitempty,email"`
	Phone         string  `json:"phone"`
	ServiceTypes  string  `json:"serviceTypes"`
	MinimumAmount float64 `json:"minimumAmount" binding:"min=0"`
	MaximumAmount float64 `json:"maximumAmount" binding:"min=0"`
}

// UpdateVendorInput defines the expected JSON structure for updating a vendor
type UpdateVendorInput struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	ServiceTypes  *string  `json:"serviceTypes"`
	MinimumAmount *float64 `json:"minimumAmount"`
	MaximumAmount *float64 `json:"maximumAmount"`
	IsActive      *bool    `json:"isActive"`
}

type CreateTeamInput struct {
	Name string `json:"name" binding:"required"`
}

type CreateTeamMemberInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Role  string `json:"role"`
}

type CreateVendorServiceInput struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,min=0"`
	Category string  `json:"category"`
}

// CreateVendor creates a new vendor catalog entry
func CreateVendor(c *gin.Context) {
	var input CreateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.MaximumAmount > 0 && input.MinimumAmount > input.MaximumAmount {
		utils.RespondWithError(c, http.StatusBadRequest, "minimumAmount cannot exceed maximumAmount")
		return
	}

	vendor := models.Vendor{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		ServiceTypes:  input.ServiceTypes,
		MinimumAmount: input.MinimumAmount,
		MaximumAmount: input.MaximumAmount,
		IsActive:      true,
	}

	if err := config.DB.Create(&vendor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vendor")
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

// GetVendors retrieves all vendors with their teams and catalog services
func GetVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := config.DB.Preload("Teams.Members").Preload("Services").
		Find(&vendors).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vendors")
		return
	}

	c.JSON(http.StatusOK, vendors)
}

// GetVendor retrieves a specific vendor by ID
func GetVendor(c *gin.Context) {
	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	var vendor models.Vendor
	if err := config.DB.Preload("Teams.Members").Preload("Services").
		First(&vendor, "id = ?", vendorUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// UpdateVendor updates an existing vendor
func UpdateVendor(c *gin.Context) {
	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	var input UpdateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vendor models.Vendor
	if err := config.DB.First(&vendor, "id = ?", vendorUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Email != nil {
		vendor.Email = *input.Email
	}
	if input.Phone != nil {
		vendor.Phone = *input.Phone
	}
	if input.ServiceTypes != nil {
		vendor.ServiceTypes = *input.ServiceTypes
	}
	if input.MinimumAmount != nil {
		vendor.MinimumAmount = *input.MinimumAmount
	}
	if input.MaximumAmount != nil {
		vendor.MaximumAmount = *input.MaximumAmount
	}
	if input.IsActive != nil {
		vendor.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&vendor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vendor")
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// DeleteVendor soft deletes a vendor
func DeleteVendor(c *gin.Context) {
	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	result := config.DB.Where("id = ?", vendorUUID).Delete(&models.Vendor{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vendor")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
}

// CreateTeam adds a team to a vendor
func CreateTeam(c *gin.Context) {
	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	var input CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vendor models.Vendor
	if err := config.DB.First(&vendor, "id = ?", vendorUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	team := models.Team{
		VendorID: vendor.ID,
		Name:     input.Name,
	}
	if err := config.DB.Create(&team).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create team")
		return
	}

	c.JSON(http.StatusCreated, team)
}

// AddTeamMember adds a member to a team
func AddTeamMember(c *gin.Context) {
	teamUUID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid team ID format")
		return
	}

	var input CreateTeamMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var team models.Team
	if err := config.DB.First(&team, "id = ?", teamUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Team not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	member := models.TeamMember{
		TeamID: team.ID,
		Name:   input.Name,
		Email:  input.Email,
		Role:   input.Role,
	}
	if err := config.DB.Create(&member).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add team member")
		return
	}

	c.JSON(http.StatusCreated, member)
}

// CreateVendorCatalogService adds a catalog service to a vendor
func CreateVendorCatalogService(c *gin.Context) {
	vendorUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vendor ID format")
		return
	}

	var input CreateVendorServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vendor models.Vendor
	if err := config.DB.First(&vendor, "id = ?", vendorUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	service := models.VendorService{
		VendorID: vendor.ID,
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
		IsActive: true,
	}
	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vendor service")
		return
	}

	c.JSON(http.StatusCreated, service)
}
