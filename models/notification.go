// models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	RecipientID   uuid.UUID `gorm:"type:uuid;index;not null"`
	RecipientRole string    `gorm:"type:varchar(20)"` // admin, staff, user
	Type          string    `gorm:"type:varchar(40)"` // proposal_sent, proposal_accepted, lead_stale, ...
	Message       string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage  string    `gorm:"type:text"`
	Channel       string    `gorm:"type:varchar(20)"` // whatsapp, sms, none
	SentAt        time.Time
	gorm.Model
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
