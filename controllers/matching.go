// controllers/matching.go
package controllers

import (
	"errors"
	"net/http"

	"weddingops-backend/config"
	"weddingops-backend/models"
	"weddingops-backend/services"
	"weddingops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorAssignmentInput names which of a vendor's teams collaborate on a lead
type VendorAssignmentInput struct {
	VendorID uuid.UUID   `json:"vendorId" binding:"required"`
	TeamIDs  []uuid.UUID `json:"teamIds"`
}

type AssignVendorTeamsInput struct {
	Assignments []VendorAssignmentInput `json:"assignments" binding:"required,min=1"`
}

// GetLeadMatches previews the vendors eligible for a lead without touching
// any cards.
func GetLeadMatches(c *gin.Context) {
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

	vendors, err := services.NewMatchingService(config.DB).MatchVendorsForLead(lead)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to match vendors")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// AssignVendorTeams upserts kanban cards and team links for the lead. Links
// are cumulative across calls; assignments never remove existing team links.
func AssignVendorTeams(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input AssignVendorTeamsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	teamIDsByVendor := make(map[uuid.UUID][]uuid.UUID, len(input.Assignments))
	for _, assignment := range input.Assignments {
		teamIDsByVendor[assignment.VendorID] = append(
			teamIDsByVendor[assignment.VendorID], assignment.TeamIDs...)
	}

	matching := services.NewMatchingService(config.DB)
	if err := matching.CreateOrUpdateCards(leadUUID, teamIDsByVendor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign vendor teams")
		}
		return
	}

	cards, err := matching.CardsForLead(leadUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// GetLeadCards lists the lead's kanban cards with vendor and team links
func GetLeadCards(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	cards, err := services.NewMatchingService(config.DB).CardsForLead(leadUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": cards})
}
