package services

import (
	"testing"

	"weddingops-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProposalTotals(t *testing.T) {
	services := []models.ProposalService{
		{Price: 45000, Quantity: 1},
	}

	subtotal, grandTotal := ComputeProposalTotals(services, nil, 0, 18)
	assert.InDelta(t, 45000, subtotal, 0.001)
	assert.InDelta(t, 53100, grandTotal, 0.001)
}

func TestComputeProposalTotalsWithCustomLinesAndDiscount(t *testing.T) {
	services := []models.ProposalService{
		{Price: 1000, Quantity: 2},
	}
	lines := []models.ProposalCustomLine{
		{UnitPrice: 250, Quantity: 4},
	}

	subtotal, grandTotal := ComputeProposalTotals(services, lines, 500, 10)
	assert.InDelta(t, 3000, subtotal, 0.001)
	assert.InDelta(t, 2750, grandTotal, 0.001)
}

func TestComputeProposalTotalsDiscountFloor(t *testing.T) {
	services := []models.ProposalService{
		{Price: 100, Quantity: 1},
	}

	// A discount larger than the subtotal never produces a negative total.
	subtotal, grandTotal := ComputeProposalTotals(services, nil, 500, 18)
	assert.InDelta(t, 100, subtotal, 0.001)
	assert.InDelta(t, 0, grandTotal, 0.001)
}

func TestNextProposalStatus(t *testing.T) {
	cases := []struct {
		name    string
		current string
		action  string
		role    string
		next    string
		applies bool
	}{
		{"view from sent", models.ProposalStatusSent, ProposalActionView, models.RoleUser, models.ProposalStatusViewed, true},
		{"accept from sent skips viewed", models.ProposalStatusSent, ProposalActionAccept, models.RoleUser, models.ProposalStatusAccepted, true},
		{"accept from viewed", models.ProposalStatusViewed, ProposalActionAccept, models.RoleUser, models.ProposalStatusAccepted, true},
		{"reject from sent", models.ProposalStatusSent, ProposalActionReject, models.RoleUser, models.ProposalStatusRejected, true},
		{"reject from viewed", models.ProposalStatusViewed, ProposalActionReject, models.RoleUser, models.ProposalStatusRejected, true},
		{"view from draft is a no-op", models.ProposalStatusDraft, ProposalActionView, models.RoleUser, "", false},
		{"accept from draft is a no-op", models.ProposalStatusDraft, ProposalActionAccept, models.RoleUser, "", false},
		{"accepted is terminal", models.ProposalStatusAccepted, ProposalActionReject, models.RoleUser, "", false},
		{"rejected is terminal", models.ProposalStatusRejected, ProposalActionAccept, models.RoleUser, "", false},
		{"view again from viewed is a no-op", models.ProposalStatusViewed, ProposalActionView, models.RoleUser, "", false},
		{"admin cannot accept", models.ProposalStatusSent, ProposalActionAccept, models.RoleAdmin, "", false},
		{"staff cannot view", models.ProposalStatusSent, ProposalActionView, models.RoleStaff, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, applies := NextProposalStatus(tc.current, tc.action, tc.role)
			assert.Equal(t, tc.applies, applies)
			if tc.applies {
				assert.Equal(t, tc.next, next)
			}
		})
	}
}

func TestValidProposalAction(t *testing.T) {
	assert.True(t, ValidProposalAction("view"))
	assert.True(t, ValidProposalAction("accept"))
	assert.True(t, ValidProposalAction("reject"))
	assert.False(t, ValidProposalAction("approve"))
	assert.False(t, ValidProposalAction(""))
}

func TestReconcileAcceptedServicesWithVendorServiceOverlap(t *testing.T) {
	db := setupTestDB(t)

	lead := models.Lead{Email: "h@example.com"}
	require.NoError(t, db.Create(&lead).Error)

	matchingID := uuid.New()
	otherID := uuid.New()

	plan := models.WeddingPlan{LeadID: lead.ID}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&models.WeddingPlanService{
		WeddingPlanID: plan.ID, Name: "Photography", VendorServiceID: &matchingID,
		Status: models.PlanServicePending,
	}).Error)
	require.NoError(t, db.Create(&models.WeddingPlanService{
		WeddingPlanID: plan.ID, Name: "Catering",
		Status: models.PlanServiceAssigned,
	}).Error)
	require.NoError(t, db.Create(&models.WeddingPlanService{
		WeddingPlanID: plan.ID, Name: "Declined thing",
		Status: models.PlanServiceDeclined,
	}).Error)

	proposal := models.Proposal{LeadID: lead.ID, Status: models.ProposalStatusSent}
	require.NoError(t, db.Create(&proposal).Error)
	require.NoError(t, db.Create(&models.ProposalService{
		ProposalID: proposal.ID, Name: "Photography", Price: 1000, Quantity: 1,
		VendorServiceID: &matchingID, Status: models.ProposalServicePending,
	}).Error)
	require.NoError(t, db.Create(&models.ProposalService{
		ProposalID: proposal.ID, Name: "Unrelated", Price: 500, Quantity: 1,
		VendorServiceID: &otherID, Status: models.ProposalServicePending,
	}).Error)

	require.NoError(t, ReconcileAcceptedServices(db, &proposal))

	var planServices []models.WeddingPlanService
	require.NoError(t, db.Where("wedding_plan_id = ?", plan.ID).Find(&planServices).Error)
	for _, ps := range planServices {
		if ps.Name == "Declined thing" {
			assert.Equal(t, models.PlanServiceDeclined, ps.Status)
		} else {
			assert.Equal(t, models.PlanServiceAccepted, ps.Status)
		}
	}

	var matched, unrelated models.ProposalService
	require.NoError(t, db.Where("proposal_id = ? AND name = ?", proposal.ID, "Photography").First(&matched).Error)
	require.NoError(t, db.Where("proposal_id = ? AND name = ?", proposal.ID, "Unrelated").First(&unrelated).Error)
	assert.Equal(t, models.ProposalServiceAssigned, matched.Status)
	assert.Equal(t, models.ProposalServicePending, unrelated.Status)
}

func TestReconcileAcceptedServicesFallback(t *testing.T) {
	db := setupTestDB(t)

	lead := models.Lead{Email: "i@example.com"}
	require.NoError(t, db.Create(&lead).Error)

	unmatchedID := uuid.New()
	plan := models.WeddingPlan{LeadID: lead.ID}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&models.WeddingPlanService{
		WeddingPlanID: plan.ID, Name: "Venue", VendorServiceID: &unmatchedID,
		Status: models.PlanServicePending,
	}).Error)

	proposal := models.Proposal{LeadID: lead.ID, Status: models.ProposalStatusViewed}
	require.NoError(t, db.Create(&proposal).Error)
	require.NoError(t, db.Create(&models.ProposalService{
		ProposalID: proposal.ID, Name: "First", Price: 100, Quantity: 1,
		Status: models.ProposalServicePending,
	}).Error)
	require.NoError(t, db.Create(&models.ProposalService{
		ProposalID: proposal.ID, Name: "Already assigned", Price: 100, Quantity: 1,
		Status: models.ProposalServiceAssigned,
	}).Error)

	require.NoError(t, ReconcileAcceptedServices(db, &proposal))

	// No line item referenced the accepted vendor service, so every pending
	// line item is marked assigned.
	var pending int64
	require.NoError(t, db.Model(&models.ProposalService{}).
		Where("proposal_id = ? AND status = ?", proposal.ID, models.ProposalServicePending).
		Count(&pending).Error)
	assert.EqualValues(t, 0, pending)
}

func TestReconcileAcceptedServicesWithoutPlan(t *testing.T) {
	db := setupTestDB(t)

	lead := models.Lead{Email: "j@example.com"}
	require.NoError(t, db.Create(&lead).Error)

	proposal := models.Proposal{LeadID: lead.ID, Status: models.ProposalStatusSent}
	require.NoError(t, db.Create(&proposal).Error)
	require.NoError(t, db.Create(&models.ProposalService{
		ProposalID: proposal.ID, Name: "Only line", Price: 100, Quantity: 1,
		Status: models.ProposalServicePending,
	}).Error)

	require.NoError(t, ReconcileAcceptedServices(db, &proposal))

	var line models.ProposalService
	require.NoError(t, db.Where("proposal_id = ?", proposal.ID).First(&line).Error)
	assert.Equal(t, models.ProposalServiceAssigned, line.Status)
}
