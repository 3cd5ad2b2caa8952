package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KanbanCard is the materialized collaboration link between one lead and one
// vendor. At most one card exists per (lead, vendor) pair; rerunning matching
// updates the card instead of duplicating it.
type KanbanCard struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	LeadID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_card_lead_vendor,priority:1"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_card_lead_vendor,priority:2"`

	Vendor Vendor     `gorm:"foreignKey:VendorID"`
	Teams  []CardTeam `gorm:"foreignKey:CardID"`

	gorm.Model
}

func (k *KanbanCard) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return
}

// CardTeam records which of the vendor's teams is collaborating on a card.
type CardTeam struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	CardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_card_team,priority:1"`
	TeamID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_card_team,priority:2"`

	Team Team `gorm:"foreignKey:TeamID"`

	gorm.Model
}

func (ct *CardTeam) BeforeCreate(tx *gorm.DB) (err error) {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	return
}
