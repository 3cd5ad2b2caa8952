package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proposal lifecycle states. DRAFT is initial; ACCEPTED and REJECTED are
// terminal. VIEWED is an optional intermediate between SENT and the terminals.
const (
	ProposalStatusDraft    = "DRAFT"
	ProposalStatusSent     = "SENT"
	ProposalStatusViewed   = "VIEWED"
	ProposalStatusAccepted = "ACCEPTED"
	ProposalStatusRejected = "REJECTED"
)

// Line-item states.
const (
	ProposalServicePending  = "PENDING"
	ProposalServiceAssigned = "ASSIGNED"
)

type Proposal struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	LeadID uuid.UUID `gorm:"type:uuid;index;not null"`

	ClientName  string
	CompanyName string
	Notes       string

	// Snapshot of the lead's wedding-plan events at draft time, not a live
	// reference.
	Events JSONBArray `gorm:"type:jsonb;default:'[]'"`

	Discount     float64 `gorm:"type:decimal(12,2);default:0.0"`
	TaxesPercent float64 `gorm:"type:decimal(5,2);default:0.0"`

	// Derived from line items; recomputed on every line-item mutation.
	Subtotal   float64 `gorm:"type:decimal(12,2);default:0.0"`
	GrandTotal float64 `gorm:"type:decimal(12,2);default:0.0"`

	Status     string `gorm:"type:varchar(20);default:'DRAFT';index"`
	SentAt     *time.Time
	ViewedAt   *time.Time
	AcceptedAt *time.Time
	RejectedAt *time.Time

	Services    []ProposalService    `gorm:"foreignKey:ProposalID"`
	CustomLines []ProposalCustomLine `gorm:"foreignKey:ProposalID"`
	Versions    []ProposalVersion    `gorm:"foreignKey:ProposalID"`

	gorm.Model
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

type ProposalService struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProposalID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string  `gorm:"not null"`
	Price    float64 `gorm:"type:decimal(12,2);not null"`
	Quantity int     `gorm:"default:1"`
	Category string

	VendorID        *uuid.UUID `gorm:"type:uuid"`
	VendorServiceID *uuid.UUID `gorm:"type:uuid"`

	Status   string `gorm:"type:varchar(20);default:'PENDING'"`
	Position int    `gorm:"default:0"`

	UpdatedAt time.Time
	CreatedAt time.Time
}

func (s *ProposalService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

type ProposalCustomLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProposalID uuid.UUID `gorm:"type:uuid;index;not null"`

	Label     string  `gorm:"not null"`
	UnitPrice float64 `gorm:"type:decimal(12,2);not null"`
	Quantity  int     `gorm:"default:1"`
	Position  int     `gorm:"default:0"`

	CreatedAt time.Time
}

func (l *ProposalCustomLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ProposalVersion is an append-only snapshot of a proposal. Versions are
// never edited or deleted.
type ProposalVersion struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProposalID uuid.UUID `gorm:"type:uuid;index;not null"`
	Label      string
	Snapshot   JSONB `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
}

func (v *ProposalVersion) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
