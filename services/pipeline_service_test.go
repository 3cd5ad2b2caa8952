package services

import (
	"testing"
	"time"

	"weddingops-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createLead(t *testing.T, db *gorm.DB, lead models.Lead) models.Lead {
	t.Helper()
	require.NoError(t, db.Create(&lead).Error)
	return lead
}

func TestGetBoardsBucketsByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db)

	createLead(t, db, models.Lead{Email: "a@x.com", Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "b@x.com", Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "c@x.com", Status: models.LeadStatusBooked})

	response, err := svc.GetBoards(BoardFilters{})
	require.NoError(t, err)

	require.Len(t, response.Boards, 4)
	assert.Equal(t, models.LeadStatusInquiry, response.Boards[0].Status)
	assert.Equal(t, 0, response.Boards[0].Order)
	assert.Len(t, response.Boards[0].Cards, 2)
	assert.Empty(t, response.Boards[1].Cards) // PROPOSAL
	assert.Len(t, response.Boards[2].Cards, 1)
	assert.Empty(t, response.Boards[3].Cards) // COMPLETED
}

func TestGetBoardsExcludesArchivedLeads(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db)

	createLead(t, db, models.Lead{Email: "a@x.com", Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{
		Email: "archived@x.com", Status: models.LeadStatusInquiry,
		SaveStatus: models.SaveStatusArchived,
	})

	response, err := svc.GetBoards(BoardFilters{})
	require.NoError(t, err)
	assert.Len(t, response.Boards[0].Cards, 1)
}

func TestGetBoardsBudgetRangeIgnoresFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db)

	createLead(t, db, models.Lead{Email: "a@x.com", BudgetMin: 100, BudgetMax: 500, Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "b@x.com", BudgetMin: 2000, BudgetMax: 9000, Status: models.LeadStatusInquiry})

	min := 5000.0
	response, err := svc.GetBoards(BoardFilters{BudgetMin: &min})
	require.NoError(t, err)

	// Only the second lead passes the filter...
	assert.Len(t, response.Boards[0].Cards, 1)
	// ...but the slider bounds still come from the unfiltered set.
	assert.Equal(t, [2]float64{100, 9000}, response.BudgetRange)
}

func TestGetBoardsLocationFilterMatchesFlexibleLeads(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db)

	createLead(t, db, models.Lead{Email: "goa@x.com", PreferredLocations: "goa,mumbai", Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "flexible@x.com", PreferredLocations: "", Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "delhi@x.com", PreferredLocations: "delhi", Status: models.LeadStatusInquiry})

	response, err := svc.GetBoards(BoardFilters{Location: "Goa"})
	require.NoError(t, err)

	// The Goa lead matches and the flexible lead matches any location.
	assert.Len(t, response.Boards[0].Cards, 2)
}

func TestGetBoardsSearchFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db)

	createLead(t, db, models.Lead{Email: "a@x.com", PartnerOneName: "Meera", PartnerTwoName: "Arjun", Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "b@x.com", PartnerOneName: "Sana", PartnerTwoName: "Vikram", Status: models.LeadStatusInquiry})

	response, err := svc.GetBoards(BoardFilters{Search: "arjun"})
	require.NoError(t, err)
	require.Len(t, response.Boards[0].Cards, 1)
	assert.Equal(t, "Meera", response.Boards[0].Cards[0].Lead.PartnerOneName)
}

func TestGetBoardsDateWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db)

	june := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	december := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
	createLead(t, db, models.Lead{Email: "june@x.com", WeddingDate: &june, Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "dec@x.com", WeddingDate: &december, Status: models.LeadStatusInquiry})
	createLead(t, db, models.Lead{Email: "undated@x.com", Status: models.LeadStatusInquiry})

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	response, err := svc.GetBoards(BoardFilters{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)

	require.Len(t, response.Boards[0].Cards, 1)
	assert.Equal(t, "june@x.com", response.Boards[0].Cards[0].Lead.Email)
}

func TestGetBoardsDateWindowEndDayInclusive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db)

	// Late in the evening of the window's last day.
	date := time.Date(2026, 6, 30, 22, 30, 0, 0, time.UTC)
	createLead(t, db, models.Lead{Email: "edge@x.com", WeddingDate: &date, Status: models.LeadStatusInquiry})

	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	response, err := svc.GetBoards(BoardFilters{DateTo: &to})
	require.NoError(t, err)
	assert.Len(t, response.Boards[0].Cards, 1)
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, daysSince(now.Add(-6*time.Hour), now))
	assert.Equal(t, 1, daysSince(now.Add(-36*time.Hour), now))
	assert.Equal(t, 10, daysSince(now.AddDate(0, 0, -10), now))
	assert.Equal(t, 0, daysSince(now.Add(time.Hour), now))
}
