// services/pipeline_service.go
package services

import (
	"strings"
	"time"

	"weddingops-backend/models"

	"gorm.io/gorm"
)

// PipelineService projects the lead collection into the kanban board view.
// It keeps no state of its own; every call recomputes from the store.
type PipelineService struct {
	db *gorm.DB
}

func NewPipelineService(db *gorm.DB) *PipelineService {
	return &PipelineService{db: db}
}

type BoardFilters struct {
	Search    string
	Location  string
	BudgetMin *float64
	BudgetMax *float64
	DateFrom  *time.Time
	DateTo    *time.Time
}

type BoardCard struct {
	Lead        models.Lead `json:"lead"`
	DaysInStage int         `json:"daysInStage"`
}

type Board struct {
	Status string      `json:"status"`
	Order  int         `json:"order"`
	Cards  []BoardCard `json:"cards"`
}

type BoardsResponse struct {
	Boards      []Board    `json:"boards"`
	BudgetRange [2]float64 `json:"budgetRange"`
}

// GetBoards buckets the non-archived leads into the fixed pipeline stages.
// budgetRange is computed from the unfiltered lead set so the UI slider's
// bounds do not shrink with the applied filters.
func (s *PipelineService) GetBoards(filters BoardFilters) (BoardsResponse, error) {
	query := s.db.Model(&models.Lead{}).Where("save_status <> ?", models.SaveStatusArchived)

	if search := strings.ToLower(strings.TrimSpace(filters.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(partner_one_name) LIKE ? OR LOWER(partner_two_name) LIKE ?", pattern, pattern)
	}

	if location := strings.ToLower(strings.TrimSpace(filters.Location)); location != "" {
		// A lead with no preferred locations is flexible and matches any
		// location filter.
		query = query.Where("preferred_locations = '' OR LOWER(preferred_locations) LIKE ?", "%"+location+"%")
	}

	if filters.BudgetMin != nil {
		query = query.Where("budget_max >= ?", *filters.BudgetMin)
	}
	if filters.BudgetMax != nil {
		query = query.Where("budget_min <= ?", *filters.BudgetMax)
	}

	if filters.DateFrom != nil {
		from := beginningOfUTCDay(*filters.DateFrom)
		query = query.Where("wedding_date IS NOT NULL AND wedding_date >= ?", from)
	}
	if filters.DateTo != nil {
		// Inclusive of the whole end day.
		to := beginningOfUTCDay(*filters.DateTo).AddDate(0, 0, 1)
		query = query.Where("wedding_date IS NOT NULL AND wedding_date < ?", to)
	}

	var leads []models.Lead
	if err := query.Order("updated_at DESC").Find(&leads).Error; err != nil {
		return BoardsResponse{}, err
	}

	now := time.Now()
	buckets := make(map[string][]BoardCard, len(models.LeadStatuses))
	for _, lead := range leads {
		buckets[lead.Status] = append(buckets[lead.Status], BoardCard{
			Lead:        lead,
			DaysInStage: daysSince(lead.UpdatedAt, now),
		})
	}

	boards := make([]Board, 0, len(models.LeadStatuses))
	for order, status := range models.LeadStatuses {
		cards := buckets[status]
		if cards == nil {
			cards = []BoardCard{}
		}
		boards = append(boards, Board{Status: status, Order: order, Cards: cards})
	}

	budgetRange, err := s.globalBudgetRange()
	if err != nil {
		return BoardsResponse{}, err
	}

	return BoardsResponse{Boards: boards, BudgetRange: budgetRange}, nil
}

func (s *PipelineService) globalBudgetRange() ([2]float64, error) {
	var bounds struct {
		Min float64
		Max float64
	}
	err := s.db.Model(&models.Lead{}).
		Where("save_status <> ?", models.SaveStatusArchived).
		Select("COALESCE(MIN(budget_min), 0) AS min, COALESCE(MAX(budget_max), 0) AS max").
		Scan(&bounds).Error
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{bounds.Min, bounds.Max}, nil
}

// daysSince floors to whole days since the lead was last touched. Any field
// update resets the counter, not just a stage change; it is a staleness
// signal, not exact time-in-stage.
func daysSince(t, now time.Time) int {
	if now.Before(t) {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}

func beginningOfUTCDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
