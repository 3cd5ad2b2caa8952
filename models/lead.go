package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pipeline stages, in board order.
const (
	LeadStatusInquiry   = "INQUIRY"
	LeadStatusProposal  = "PROPOSAL"
	LeadStatusBooked    = "BOOKED"
	LeadStatusCompleted = "COMPLETED"
)

// LeadStatuses lists the pipeline stages in display order.
var LeadStatuses = []string{LeadStatusInquiry, LeadStatusProposal, LeadStatusBooked, LeadStatusCompleted}

// Save statuses, orthogonal to the pipeline stage.
const (
	SaveStatusDraft     = "DRAFT"
	SaveStatusSubmitted = "SUBMITTED"
	SaveStatusArchived  = "ARCHIVED"
)

type Lead struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index"` // owning staff user, nullable

	PartnerOneName string
	PartnerTwoName string
	Email          string
	Phone          string

	WeddingDate        *time.Time // nullable: couple may still be flexible
	GuestCountMin      int        `gorm:"default:0"`
	GuestCountMax      int        `gorm:"default:0"`
	BudgetMin          float64    `gorm:"type:decimal(12,2);default:0.0"`
	BudgetMax          float64    `gorm:"type:decimal(12,2);default:0.0"`
	ServiceTypes       string     // comma-separated tags, e.g. "photography,catering"
	PreferredLocations string     // comma-separated; empty means flexible
	Notes              string

	Status     string `gorm:"type:varchar(20);default:'INQUIRY';index"`
	SaveStatus string `gorm:"type:varchar(20);default:'DRAFT'"`

	WeddingPlan *WeddingPlan `gorm:"foreignKey:LeadID"`
	Cards       []KanbanCard `gorm:"foreignKey:LeadID"`

	gorm.Model
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ValidLeadStatus reports whether s is one of the pipeline stages.
func ValidLeadStatus(s string) bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}
