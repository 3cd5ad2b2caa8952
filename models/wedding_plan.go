package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeddingPlanService states. PENDING and ASSIGNED flip to ACCEPTED when the
// couple accepts a proposal.
const (
	PlanServicePending  = "PENDING"
	PlanServiceAssigned = "ASSIGNED"
	PlanServiceAccepted = "ACCEPTED"
	PlanServiceDeclined = "DECLINED"
)

type WeddingPlan struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	LeadID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	// Event schedule (ceremony, reception, ...) as free-form JSON records.
	Events JSONBArray `gorm:"type:jsonb;default:'[]'"`

	Services []WeddingPlanService `gorm:"foreignKey:WeddingPlanID"`

	gorm.Model
}

func (w *WeddingPlan) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}

type WeddingPlanService struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	WeddingPlanID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name            string
	Category        string
	VendorID        *uuid.UUID `gorm:"type:uuid"`
	VendorServiceID *uuid.UUID `gorm:"type:uuid"`

	Status string `gorm:"type:varchar(20);default:'PENDING'"`

	gorm.Model
}

func (s *WeddingPlanService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
