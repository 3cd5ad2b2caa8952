package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vendor struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key"`
	Name  string    `gorm:"not null"`
	Email string
	Phone string

	ServiceTypes  string  // comma-separated tags, e.g. "photography,decoration"
	MinimumAmount float64 `gorm:"type:decimal(12,2);default:0.0"`
	MaximumAmount float64 `gorm:"type:decimal(12,2);default:0.0"`
	IsActive      bool    `gorm:"default:true"`

	Teams    []Team          `gorm:"foreignKey:VendorID"`
	Services []VendorService `gorm:"foreignKey:VendorID"`

	gorm.Model
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

type Team struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	VendorID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name     string    `gorm:"not null"`

	Members []TeamMember `gorm:"foreignKey:TeamID"`

	gorm.Model
}

func (t *Team) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type TeamMember struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	TeamID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name   string    `gorm:"not null"`
	Email  string
	Role   string

	gorm.Model
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// VendorService is a catalog entry offered by a vendor; proposal line items
// and wedding-plan selections reference it by ID.
type VendorService struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	VendorID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name     string    `gorm:"not null"`
	Price    float64   `gorm:"type:decimal(12,2);not null"`
	Category string    `gorm:"default:'General'"`
	IsActive bool      `gorm:"default:true"`

	gorm.Model
}

func (s *VendorService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
