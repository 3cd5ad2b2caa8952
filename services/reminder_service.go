// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"weddingops-backend/models"
	"weddingops-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Leads untouched for this long show up in the daily staleness digest.
const staleLeadThresholdDays = 7

// ReminderService nudges staff about leads going stale in the pipeline.
type ReminderService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewReminderService(db *gorm.DB, notifier *NotificationService) *ReminderService {
	return &ReminderService{db: db, notifier: notifier}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendStaleLeadReminders()
	})

	c.Start()
	log.Println("Stale-lead reminder scheduler started")
}

// SendStaleLeadReminders finds active leads nobody has touched within the
// threshold and sends each owning staff user one digest.
func (s *ReminderService) SendStaleLeadReminders() {
	log.Println("Starting stale-lead reminder processing...")

	cutoff := time.Now().AddDate(0, 0, -staleLeadThresholdDays)

	var leads []models.Lead
	if err := s.db.
		Where("updated_at < ? AND status <> ? AND save_status <> ? AND created_by_user_id IS NOT NULL",
			cutoff, models.LeadStatusCompleted, models.SaveStatusArchived).
		Find(&leads).Error; err != nil {
		log.Printf("Failed to fetch stale leads: %v", err)
		return
	}

	byOwner := make(map[uuid.UUID][]models.Lead)
	for _, lead := range leads {
		byOwner[*lead.CreatedByUserID] = append(byOwner[*lead.CreatedByUserID], lead)
	}

	now := time.Now()
	for ownerID, stale := range byOwner {
		oldest := stale[0].UpdatedAt
		for _, lead := range stale[1:] {
			if lead.UpdatedAt.Before(oldest) {
				oldest = lead.UpdatedAt
			}
		}
		message := fmt.Sprintf("You have %d lead(s) with no activity for over %d days; the oldest has been idle for %d days.",
			len(stale), staleLeadThresholdDays, utils.DaysBetween(oldest, now))
		s.notifier.Send(NotificationInput{
			Message:       message,
			Type:          "lead_stale",
			RecipientID:   ownerID,
			RecipientRole: models.RoleStaff,
		})
	}

	log.Println("Stale-lead reminder processing completed")
}
