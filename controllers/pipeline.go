package controllers

import (
	"net/http"
	"strconv"
	"time"

	"weddingops-backend/config"
	"weddingops-backend/services"
	"weddingops-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetPipelineBoards projects the leads into the fixed pipeline stage buckets
// with per-card staleness and the global budget range for the filter slider.
func GetPipelineBoards(c *gin.Context) {
	filters := services.BoardFilters{
		Search:   c.Query("search"),
		Location: c.Query("location"),
	}

	if raw := c.Query("budgetMin"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid budgetMin")
			return
		}
		filters.BudgetMin = &value
	}
	if raw := c.Query("budgetMax"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid budgetMax")
			return
		}
		filters.BudgetMax = &value
	}

	if raw := c.Query("dateFrom"); raw != "" {
		value, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid dateFrom, expected YYYY-MM-DD")
			return
		}
		filters.DateFrom = &value
	}
	if raw := c.Query("dateTo"); raw != "" {
		value, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid dateTo, expected YYYY-MM-DD")
			return
		}
		filters.DateTo = &value
	}

	response, err := services.NewPipelineService(config.DB).GetBoards(filters)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build pipeline boards")
		return
	}

	c.JSON(http.StatusOK, response)
}
