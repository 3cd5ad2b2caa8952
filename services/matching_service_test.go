package services

import (
	"testing"

	"weddingops-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createVendor(t *testing.T, db *gorm.DB, name, serviceTypes string, min, max float64, teams int) models.Vendor {
	t.Helper()
	vendor := models.Vendor{
		Name:          name,
		ServiceTypes:  serviceTypes,
		MinimumAmount: min,
		MaximumAmount: max,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&vendor).Error)
	for i := 0; i < teams; i++ {
		team := models.Team{VendorID: vendor.ID, Name: name + " team"}
		require.NoError(t, db.Create(&team).Error)
	}
	return vendor
}

func TestMatchVendorsForLead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchingService(db)

	lead := models.Lead{
		PartnerOneName: "Asha",
		PartnerTwoName: "Rohan",
		Email:          "asha@example.com",
		BudgetMin:      200000,
		BudgetMax:      2000000,
		ServiceTypes:   "photography,catering",
	}
	require.NoError(t, db.Create(&lead).Error)

	vendorA := createVendor(t, db, "Lens & Light", "photography", 100000, 500000, 1)
	createVendor(t, db, "Grand Banquets", "catering", 3000000, 5000000, 1)       // budget window does not overlap
	createVendor(t, db, "Petal Works", "decoration", 100000, 500000, 0)          // tag mismatch and no teams
	createVendor(t, db, "Inactive Films", "photography", 100000, 500000, 1)      // deactivated below
	require.NoError(t, db.Model(&models.Vendor{}).Where("name = ?", "Inactive Films").Update("is_active", false).Error)

	matched, err := svc.MatchVendorsForLead(lead)
	require.NoError(t, err)

	require.Len(t, matched, 1)
	assert.Equal(t, vendorA.ID, matched[0].ID)
}

func TestMatchVendorsForLeadWithoutServiceTypes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchingService(db)

	lead := models.Lead{Email: "c@example.com", BudgetMin: 100000, BudgetMax: 400000}
	require.NoError(t, db.Create(&lead).Error)

	createVendor(t, db, "Anything Goes", "decoration", 50000, 200000, 1)
	createVendor(t, db, "No Crew", "decoration", 50000, 200000, 0)

	matched, err := svc.MatchVendorsForLead(lead)
	require.NoError(t, err)

	// No lead tags: the service-type filter is skipped, but a vendor still
	// needs at least one team.
	require.Len(t, matched, 1)
	assert.Equal(t, "Anything Goes", matched[0].Name)
	for _, vendor := range matched {
		assert.NotEmpty(t, vendor.Teams)
	}
}

func TestCreateOrUpdateCardsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchingService(db)

	lead := models.Lead{Email: "d@example.com", BudgetMin: 100, BudgetMax: 200}
	require.NoError(t, db.Create(&lead).Error)
	vendor := createVendor(t, db, "Duo Decor", "decoration", 50, 500, 2)

	var teams []models.Team
	require.NoError(t, db.Where("vendor_id = ?", vendor.ID).Find(&teams).Error)
	require.Len(t, teams, 2)

	assignments := map[uuid.UUID][]uuid.UUID{
		vendor.ID: {teams[0].ID},
	}

	require.NoError(t, svc.CreateOrUpdateCards(lead.ID, assignments))
	require.NoError(t, svc.CreateOrUpdateCards(lead.ID, assignments))

	var cardCount int64
	require.NoError(t, db.Model(&models.KanbanCard{}).
		Where("lead_id = ? AND vendor_id = ?", lead.ID, vendor.ID).
		Count(&cardCount).Error)
	assert.EqualValues(t, 1, cardCount)

	var linkCount int64
	require.NoError(t, db.Model(&models.CardTeam{}).Count(&linkCount).Error)
	assert.EqualValues(t, 1, linkCount)
}

func TestCreateOrUpdateCardsIsAdditive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchingService(db)

	lead := models.Lead{Email: "e@example.com"}
	require.NoError(t, db.Create(&lead).Error)
	vendor := createVendor(t, db, "Crew Co", "music", 0, 100, 2)

	var teams []models.Team
	require.NoError(t, db.Where("vendor_id = ?", vendor.ID).Order("created_at").Find(&teams).Error)

	require.NoError(t, svc.CreateOrUpdateCards(lead.ID, map[uuid.UUID][]uuid.UUID{
		vendor.ID: {teams[0].ID},
	}))
	// A later call naming only the second team must not remove the first link.
	require.NoError(t, svc.CreateOrUpdateCards(lead.ID, map[uuid.UUID][]uuid.UUID{
		vendor.ID: {teams[1].ID},
	}))

	var links []models.CardTeam
	require.NoError(t, db.Find(&links).Error)
	assert.Len(t, links, 2)
}

func TestCreateOrUpdateCardsSkipsUnknownTeams(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchingService(db)

	lead := models.Lead{Email: "f@example.com"}
	require.NoError(t, db.Create(&lead).Error)
	vendor := createVendor(t, db, "Solo Sound", "music", 0, 100, 1)
	other := createVendor(t, db, "Other Outfit", "music", 0, 100, 1)

	var vendorTeam, foreignTeam models.Team
	require.NoError(t, db.Where("vendor_id = ?", vendor.ID).First(&vendorTeam).Error)
	require.NoError(t, db.Where("vendor_id = ?", other.ID).First(&foreignTeam).Error)

	// A team belonging to a different vendor fails its own upsert only; the
	// valid link is still applied.
	require.NoError(t, svc.CreateOrUpdateCards(lead.ID, map[uuid.UUID][]uuid.UUID{
		vendor.ID: {foreignTeam.ID, vendorTeam.ID},
	}))

	var links []models.CardTeam
	require.NoError(t, db.Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, vendorTeam.ID, links[0].TeamID)
}

func TestCreateOrUpdateCardsUnknownLead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchingService(db)

	err := svc.CreateOrUpdateCards(uuid.New(), nil)
	assert.Error(t, err)
}

func TestRefreshCardsForLeadIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchingService(db)

	lead := models.Lead{Email: "g@example.com", BudgetMin: 100000, BudgetMax: 300000, ServiceTypes: "photography"}
	require.NoError(t, db.Create(&lead).Error)
	createVendor(t, db, "Shutter Crew", "photography", 50000, 200000, 1)

	require.NoError(t, svc.RefreshCardsForLead(lead.ID))
	require.NoError(t, svc.RefreshCardsForLead(lead.ID))

	var count int64
	require.NoError(t, db.Model(&models.KanbanCard{}).Where("lead_id = ?", lead.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
