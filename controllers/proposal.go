// controllers/proposal.go
package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"weddingops-backend/config"
	"weddingops-backend/models"
	"weddingops-backend/services"
	"weddingops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Display cap for the version history endpoint.
const proposalVersionDisplayLimit = 20

// ProposalServiceInput defines a priced line item on a draft
type ProposalServiceInput struct {
	Name            string     `json:"name" binding:"required"`
	Price           float64    `json:"price" binding:"min=0"`
	Quantity        int        `json:"quantity" binding:"min=1"`
	Category        string     `json:"category"`
	VendorID        *uuid.UUID `json:"vendorId"`
	VendorServiceID *uuid.UUID `json:"vendorServiceId"`
}

// ProposalCustomLineInput defines a free-form priced line on a draft
type ProposalCustomLineInput struct {
	Label     string  `json:"label" binding:"required"`
	UnitPrice float64 `json:"unitPrice" binding:"min=0"`
	Quantity  int     `json:"quantity" binding:"min=1"`
}

// SaveDraftInput defines the expected JSON structure for saving a draft
type SaveDraftInput struct {
	LeadID       uuid.UUID                 `json:"leadId" binding:"required"`
	ClientName   string                    `json:"clientName"`
	CompanyName  string                    `json:"companyName"`
	Notes        string                    `json:"notes"`
	Events       models.JSONBArray         `json:"events"`
	Services     []ProposalServiceInput    `json:"services"`
	CustomLines  []ProposalCustomLineInput `json:"customLines"`
	Discount     float64                   `json:"discount" binding:"min=0"`
	TaxesPercent float64                   `json:"taxesPercent" binding:"min=0"`
}

type UpdateProposalStatusInput struct {
	Action string `json:"action" binding:"required"`
}

type ProposalVendorAssignment struct {
	ServiceID       uuid.UUID  `json:"serviceId" binding:"required"`
	VendorID        *uuid.UUID `json:"vendorId"`
	VendorServiceID *uuid.UUID `json:"vendorServiceId"`
}

type AssignProposalVendorsInput struct {
	Assignments []ProposalVendorAssignment `json:"assignments" binding:"required,min=1"`
}

type SaveVersionInput struct {
	Label    string       `json:"label"`
	Snapshot models.JSONB `json:"snapshot"`
}

// SaveProposalDraft finds the lead's DRAFT proposal and replaces its line
// items and scalars, or creates a new draft when none exists. Line items are
// deleted and recreated, not diffed, and the totals are recomputed in the
// same transaction so readers never see stale totals against new items.
func SaveProposalDraft(c *gin.Context) {
	var input SaveDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var lead models.Lead
	if err := tx.First(&lead, "id = ?", input.LeadID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// At most one DRAFT proposal per lead: find-or-create, never duplicate.
	var proposal models.Proposal
	err := tx.Where("lead_id = ? AND status = ?", lead.ID, models.ProposalStatusDraft).
		First(&proposal).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if isNew {
		proposal = models.Proposal{
			LeadID: lead.ID,
			Status: models.ProposalStatusDraft,
		}
		if err := tx.Create(&proposal).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create proposal")
			return
		}
	} else {
		// Replace the line items wholesale.
		if err := tx.Where("proposal_id = ?", proposal.ID).
			Delete(&models.ProposalService{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing services")
			return
		}
		if err := tx.Where("proposal_id = ?", proposal.ID).
			Delete(&models.ProposalCustomLine{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing custom lines")
			return
		}
	}

	proposal.ClientName = input.ClientName
	proposal.CompanyName = input.CompanyName
	proposal.Notes = input.Notes
	proposal.Discount = input.Discount
	proposal.TaxesPercent = input.TaxesPercent

	// Copy the wedding plan's events in as a plain snapshot when the caller
	// supplies none.
	if len(input.Events) > 0 {
		proposal.Events = input.Events
	} else if isNew || len(proposal.Events) == 0 {
		var plan models.WeddingPlan
		if err := tx.Where("lead_id = ?", lead.ID).First(&plan).Error; err == nil && len(plan.Events) > 0 {
			proposal.Events = append(models.JSONBArray{}, plan.Events...)
		}
	}

	var proposalServices []models.ProposalService
	for i, item := range input.Services {
		proposalServices = append(proposalServices, models.ProposalService{
			ProposalID:      proposal.ID,
			Name:            item.Name,
			Price:           item.Price,
			Quantity:        item.Quantity,
			Category:        item.Category,
			VendorID:        item.VendorID,
			VendorServiceID: item.VendorServiceID,
			Status:          models.ProposalServicePending,
			Position:        i,
		})
	}
	if len(proposalServices) > 0 {
		if err := tx.Create(&proposalServices).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save services")
			return
		}
	}

	var customLines []models.ProposalCustomLine
	for i, line := range input.CustomLines {
		customLines = append(customLines, models.ProposalCustomLine{
			ProposalID: proposal.ID,
			Label:      line.Label,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			Position:   i,
		})
	}
	if len(customLines) > 0 {
		if err := tx.Create(&customLines).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save custom lines")
			return
		}
	}

	// Totals are derived, never taken from the client.
	proposal.Subtotal, proposal.GrandTotal = services.ComputeProposalTotals(
		proposalServices, customLines, proposal.Discount, proposal.TaxesPercent)

	if err := tx.Save(&proposal).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save proposal")
		return
	}

	tx.Commit()

	var saved models.Proposal
	if err := config.DB.Preload("Services", orderByPosition).
		Preload("CustomLines", orderByPosition).
		First(&saved, "id = ?", proposal.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reload proposal")
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	c.JSON(status, saved)
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// GetProposal retrieves a proposal with its line items
func GetProposal(c *gin.Context) {
	proposal, ok := loadProposal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, proposal)
}

// GetLeadProposal retrieves the most recent proposal for a lead
func GetLeadProposal(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var proposal models.Proposal
	if err := config.DB.Preload("Services", orderByPosition).
		Preload("CustomLines", orderByPosition).
		Where("lead_id = ?", leadUUID).
		Order("created_at DESC").
		First(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Proposal not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// SaveProposalVersion appends an immutable snapshot to the version history.
// The live proposal is untouched; versions are never edited or deleted.
func SaveProposalVersion(c *gin.Context) {
	proposal, ok := loadProposal(c)
	if !ok {
		return
	}

	var input SaveVersionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	snapshot := input.Snapshot
	if snapshot == nil {
		var err error
		snapshot, err = snapshotProposal(proposal)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to snapshot proposal")
			return
		}
	}

	version := models.ProposalVersion{
		ProposalID: proposal.ID,
		Label:      input.Label,
		Snapshot:   snapshot,
	}
	if err := config.DB.Create(&version).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save version")
		return
	}

	c.JSON(http.StatusCreated, version)
}

// GetProposalVersions lists the most recent versions, newest first
func GetProposalVersions(c *gin.Context) {
	proposal, ok := loadProposal(c)
	if !ok {
		return
	}

	var versions []models.ProposalVersion
	if err := config.DB.Where("proposal_id = ?", proposal.ID).
		Order("created_at DESC").
		Limit(proposalVersionDisplayLimit).
		Find(&versions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve versions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// FinalizeProposal transitions the proposal to SENT and notifies the lead's
// owner and every admin. Notification failure never fails the transition.
func FinalizeProposal(c *gin.Context) {
	proposal, ok := loadProposal(c)
	if !ok {
		return
	}

	now := time.Now()
	proposal.Status = models.ProposalStatusSent
	proposal.SentAt = &now

	if err := config.DB.Save(&proposal).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to finalize proposal")
		return
	}

	dispatchProposalNotifications(proposal,
		fmt.Sprintf("Proposal %s has been sent to the couple.", proposal.ID),
		"proposal_sent")

	c.JSON(http.StatusOK, proposal)
}

// UpdateProposalStatus drives the view/accept/reject state machine. Only the
// couple's account changes state; an unrecognized verb is a client error,
// while a legal verb from the wrong state is a silent no-op.
func UpdateProposalStatus(c *gin.Context) {
	proposal, ok := loadProposal(c)
	if !ok {
		return
	}

	var input UpdateProposalStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !services.ValidProposalAction(input.Action) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid action: "+input.Action)
		return
	}

	role := c.GetString("role")

	next, applies := services.NextProposalStatus(proposal.Status, input.Action, role)
	if !applies {
		c.JSON(http.StatusOK, gin.H{
			"message": "No status change required",
			"status":  proposal.Status,
		})
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	now := time.Now()
	proposal.Status = next
	switch next {
	case models.ProposalStatusViewed:
		proposal.ViewedAt = &now
	case models.ProposalStatusAccepted:
		proposal.AcceptedAt = &now
	case models.ProposalStatusRejected:
		proposal.RejectedAt = &now
	}

	if err := tx.Save(&proposal).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update proposal status")
		return
	}

	// Acceptance flips the lead's plan services and reflects the assignment
	// back onto the proposal's line items within the same transaction.
	if next == models.ProposalStatusAccepted {
		if err := services.ReconcileAcceptedServices(tx, &proposal); err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reconcile accepted services")
			return
		}
	}

	tx.Commit()

	dispatchProposalNotifications(proposal,
		fmt.Sprintf("Proposal %s is now %s.", proposal.ID, next),
		"proposal_"+input.Action)

	var saved models.Proposal
	if err := config.DB.Preload("Services", orderByPosition).
		Preload("CustomLines", orderByPosition).
		First(&saved, "id = ?", proposal.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reload proposal")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// AssignProposalVendors sets vendor references on individual line items,
// independent of the accept flow. Each assignment is its own update; a
// missing line item fails that assignment without aborting the batch.
func AssignProposalVendors(c *gin.Context) {
	proposal, ok := loadProposal(c)
	if !ok {
		return
	}

	var input AssignProposalVendorsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	type assignmentResult struct {
		ServiceID uuid.UUID `json:"serviceId"`
		Assigned  bool      `json:"assigned"`
		Error     string    `json:"error,omitempty"`
	}

	results := make([]assignmentResult, 0, len(input.Assignments))
	for _, assignment := range input.Assignments {
		updates := map[string]interface{}{
			"status":     models.ProposalServiceAssigned,
			"updated_at": time.Now(),
		}
		if assignment.VendorID != nil {
			updates["vendor_id"] = *assignment.VendorID
		}
		if assignment.VendorServiceID != nil {
			updates["vendor_service_id"] = *assignment.VendorServiceID
		}

		result := config.DB.Model(&models.ProposalService{}).
			Where("id = ? AND proposal_id = ?", assignment.ServiceID, proposal.ID).
			Updates(updates)

		entry := assignmentResult{ServiceID: assignment.ServiceID, Assigned: true}
		if result.Error != nil {
			entry.Assigned = false
			entry.Error = "Failed to update line item"
		} else if result.RowsAffected == 0 {
			entry.Assigned = false
			entry.Error = "Line item not found"
		}
		results = append(results, entry)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// loadProposal parses :id and fetches the proposal with its line items,
// writing the error response itself when the lookup fails.
func loadProposal(c *gin.Context) (models.Proposal, bool) {
	proposalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid proposal ID format")
		return models.Proposal{}, false
	}

	var proposal models.Proposal
	if err := config.DB.Preload("Services", orderByPosition).
		Preload("CustomLines", orderByPosition).
		First(&proposal, "id = ?", proposalUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Proposal not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return models.Proposal{}, false
	}

	return proposal, true
}

func snapshotProposal(proposal models.Proposal) (models.JSONB, error) {
	raw, err := json.Marshal(proposal)
	if err != nil {
		return nil, err
	}
	var snapshot models.JSONB
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// dispatchProposalNotifications fans out to the lead's owner and all admins
// on a detached goroutine; the committed transition never waits on it.
func dispatchProposalNotifications(proposal models.Proposal, message, notificationType string) {
	leadID := proposal.LeadID
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Notification: panic dispatching for proposal %s: %v", proposal.ID, r)
			}
		}()

		notifier := services.NewNotificationService(config.DB)

		var lead models.Lead
		if err := config.DB.First(&lead, "id = ?", leadID).Error; err != nil {
			log.Printf("Notification: lead %s not found for proposal %s: %v", leadID, proposal.ID, err)
		} else {
			notifier.NotifyLeadOwner(lead, message, notificationType)
		}

		notifier.NotifyAdmins(message, notificationType)
	}()
}
