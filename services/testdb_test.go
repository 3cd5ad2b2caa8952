package services

import (
	"testing"

	"weddingops-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Vendor{},
		&models.Team{},
		&models.TeamMember{},
		&models.VendorService{},
		&models.KanbanCard{},
		&models.CardTeam{},
		&models.Proposal{},
		&models.ProposalService{},
		&models.ProposalCustomLine{},
		&models.ProposalVersion{},
		&models.WeddingPlan{},
		&models.WeddingPlanService{},
		&models.Notification{},
	))

	return db
}
