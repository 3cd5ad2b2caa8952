// services/proposal_engine.go
package services

import (
	"errors"
	"time"

	"weddingops-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Viewer actions on a proposal. These are the only three legal verbs;
// anything else is a client error.
const (
	ProposalActionView   = "view"
	ProposalActionAccept = "accept"
	ProposalActionReject = "reject"
)

type transitionKey struct {
	Status string
	Action string
	Role   string
}

// Only the couple's account drives proposal transitions. SENT may skip
// VIEWED and go straight to a terminal state; ACCEPTED and REJECTED admit
// nothing further.
var proposalTransitions = map[transitionKey]string{
	{models.ProposalStatusSent, ProposalActionView, models.RoleUser}:     models.ProposalStatusViewed,
	{models.ProposalStatusSent, ProposalActionAccept, models.RoleUser}:   models.ProposalStatusAccepted,
	{models.ProposalStatusViewed, ProposalActionAccept, models.RoleUser}: models.ProposalStatusAccepted,
	{models.ProposalStatusSent, ProposalActionReject, models.RoleUser}:   models.ProposalStatusRejected,
	{models.ProposalStatusViewed, ProposalActionReject, models.RoleUser}: models.ProposalStatusRejected,
}

// ValidProposalAction reports whether action is a recognized verb.
func ValidProposalAction(action string) bool {
	return action == ProposalActionView || action == ProposalActionAccept || action == ProposalActionReject
}

// NextProposalStatus resolves the transition table. The second return value
// is false when no transition applies from the current state for this role;
// callers treat that as a silent no-op.
func NextProposalStatus(current, action, role string) (string, bool) {
	next, ok := proposalTransitions[transitionKey{Status: current, Action: action, Role: role}]
	return next, ok
}

// ComputeProposalTotals derives subtotal and grand total from the line items:
// subtotal is the sum of service price*qty plus custom line unitPrice*qty;
// the grand total applies the discount (floored at zero) then the tax percent.
func ComputeProposalTotals(services []models.ProposalService, lines []models.ProposalCustomLine, discount, taxesPercent float64) (subtotal, grandTotal float64) {
	for _, s := range services {
		subtotal += s.Price * float64(s.Quantity)
	}
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}

	taxable := subtotal - discount
	if taxable < 0 {
		taxable = 0
	}
	grandTotal = taxable * (1 + taxesPercent/100)
	return subtotal, grandTotal
}

// ReconcileAcceptedServices runs inside the acceptance transaction. It flips
// the lead's PENDING/ASSIGNED wedding-plan services to ACCEPTED, then marks
// the proposal line items referencing those vendor services ASSIGNED. When no
// line item references an accepted vendor service, every currently-PENDING
// line item is marked ASSIGNED instead, so an accepted proposal always
// reflects some assignment.
func ReconcileAcceptedServices(tx *gorm.DB, proposal *models.Proposal) error {
	var acceptedVendorServiceIDs []uuid.UUID

	var plan models.WeddingPlan
	err := tx.Preload("Services").Where("lead_id = ?", proposal.LeadID).First(&plan).Error
	switch {
	case err == nil:
		for _, ps := range plan.Services {
			if ps.Status != models.PlanServicePending && ps.Status != models.PlanServiceAssigned {
				continue
			}
			if ps.VendorServiceID != nil {
				acceptedVendorServiceIDs = append(acceptedVendorServiceIDs, *ps.VendorServiceID)
			}
		}
		if err := tx.Model(&models.WeddingPlanService{}).
			Where("wedding_plan_id = ? AND status IN ?", plan.ID,
				[]string{models.PlanServicePending, models.PlanServiceAssigned}).
			Update("status", models.PlanServiceAccepted).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Lead without a wedding plan; fall through to the pending fallback.
	default:
		return err
	}

	now := time.Now()
	if len(acceptedVendorServiceIDs) > 0 {
		result := tx.Model(&models.ProposalService{}).
			Where("proposal_id = ? AND vendor_service_id IN ?", proposal.ID, acceptedVendorServiceIDs).
			Updates(map[string]interface{}{
				"status":     models.ProposalServiceAssigned,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
	}

	return tx.Model(&models.ProposalService{}).
		Where("proposal_id = ? AND status = ?", proposal.ID, models.ProposalServicePending).
		Updates(map[string]interface{}{
			"status":     models.ProposalServiceAssigned,
			"updated_at": now,
		}).Error
}
