// services/matching_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"weddingops-backend/models"
	"weddingops-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchingService computes which vendors are eligible for a lead and
// materializes the kanban cards linking them.
type MatchingService struct {
	db *gorm.DB
}

func NewMatchingService(db *gorm.DB) *MatchingService {
	return &MatchingService{db: db}
}

// MatchVendorsForLead returns the active vendors whose price-capability
// window overlaps the lead's budget range, whose service types intersect the
// lead's (when the lead specifies any), and that own at least one team.
func (s *MatchingService) MatchVendorsForLead(lead models.Lead) ([]models.Vendor, error) {
	var vendors []models.Vendor
	// Overlapping-range test against the vendor's capability window, not
	// point containment of a single figure.
	if err := s.db.Preload("Teams").
		Where("is_active = ? AND minimum_amount <= ? AND maximum_amount >= ?",
			true, lead.BudgetMax, lead.BudgetMin).
		Find(&vendors).Error; err != nil {
		return nil, err
	}

	leadTags := utils.ParseTags(lead.ServiceTypes)

	var matched []models.Vendor
	for _, vendor := range vendors {
		// A vendor with no team has nobody to collaborate; skip it even if
		// budget and tags line up.
		if len(vendor.Teams) == 0 {
			continue
		}
		if len(leadTags) > 0 && !utils.TagsOverlap(leadTags, utils.ParseTags(vendor.ServiceTypes)) {
			continue
		}
		matched = append(matched, vendor)
	}

	return matched, nil
}

// CreateOrUpdateCards upserts one kanban card per (lead, vendor) pair and
// adds CardTeam links for the supplied team IDs. Links are additive: teams
// not mentioned are left untouched. A malformed vendor or team reference
// fails that single upsert and is logged; links already applied stay.
func (s *MatchingService) CreateOrUpdateCards(leadID uuid.UUID, teamIDsByVendor map[uuid.UUID][]uuid.UUID) error {
	var lead models.Lead
	if err := s.db.First(&lead, "id = ?", leadID).Error; err != nil {
		return fmt.Errorf("lead %s: %w", leadID, err)
	}

	for vendorID, teamIDs := range teamIDsByVendor {
		var vendor models.Vendor
		if err := s.db.First(&vendor, "id = ?", vendorID).Error; err != nil {
			log.Printf("Matching: skipping vendor %s for lead %s: %v", vendorID, leadID, err)
			continue
		}

		card, err := s.upsertCard(leadID, vendorID)
		if err != nil {
			log.Printf("Matching: failed to upsert card for lead %s vendor %s: %v", leadID, vendorID, err)
			continue
		}

		for _, teamID := range teamIDs {
			// The team must belong to the card's vendor.
			var team models.Team
			if err := s.db.Where("id = ? AND vendor_id = ?", teamID, vendorID).
				First(&team).Error; err != nil {
				log.Printf("Matching: skipping team %s on card %s: %v", teamID, card.ID, err)
				continue
			}

			link := models.CardTeam{CardID: card.ID, TeamID: teamID}
			if err := s.db.Where("card_id = ? AND team_id = ?", card.ID, teamID).
				FirstOrCreate(&link).Error; err != nil {
				log.Printf("Matching: failed to link team %s to card %s: %v", teamID, card.ID, err)
			}
		}
	}

	return nil
}

// RefreshCardsForLead reruns matching for a lead and upserts a card per
// matched vendor without touching team links. Idempotent under repeated runs.
func (s *MatchingService) RefreshCardsForLead(leadID uuid.UUID) error {
	var lead models.Lead
	if err := s.db.First(&lead, "id = ?", leadID).Error; err != nil {
		return fmt.Errorf("lead %s: %w", leadID, err)
	}

	vendors, err := s.MatchVendorsForLead(lead)
	if err != nil {
		return err
	}

	for _, vendor := range vendors {
		if _, err := s.upsertCard(leadID, vendor.ID); err != nil {
			log.Printf("Matching: failed to upsert card for lead %s vendor %s: %v", leadID, vendor.ID, err)
		}
	}

	return nil
}

// DispatchRefresh runs RefreshCardsForLead on a detached goroutine so a lead
// write never blocks on matching. Failures land in the log only; callers must
// not assume cards exist once the triggering request returns.
func (s *MatchingService) DispatchRefresh(leadID uuid.UUID) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Matching: panic refreshing cards for lead %s: %v", leadID, r)
			}
		}()
		if err := s.RefreshCardsForLead(leadID); err != nil {
			log.Printf("Matching: background refresh for lead %s failed: %v", leadID, err)
		}
	}()
}

// CardsForLead returns the lead's cards with vendor and team links preloaded.
func (s *MatchingService) CardsForLead(leadID uuid.UUID) ([]models.KanbanCard, error) {
	var cards []models.KanbanCard
	err := s.db.Preload("Vendor").Preload("Teams.Team").
		Where("lead_id = ?", leadID).
		Find(&cards).Error
	return cards, err
}

func (s *MatchingService) upsertCard(leadID, vendorID uuid.UUID) (models.KanbanCard, error) {
	card := models.KanbanCard{LeadID: leadID, VendorID: vendorID}
	err := s.db.Where("lead_id = ? AND vendor_id = ?", leadID, vendorID).
		FirstOrCreate(&card).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a concurrent create; the unique index kept the pair single.
		err = s.db.Where("lead_id = ? AND vendor_id = ?", leadID, vendorID).First(&card).Error
	}
	return card, err
}
