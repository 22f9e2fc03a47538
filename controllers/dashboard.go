package controllers

import (
	"net/http"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DashboardStats is the read-only aggregation across the sales modules.
type DashboardStats struct {
	Leads                LeadCounts                         `json:"leads"`
	OpportunitiesByStage map[models.OpportunityStage]int64  `json:"opportunities_by_stage"`
	TotalPipelineValue   decimal.Decimal                    `json:"total_pipeline_value"`
	Quotes               QuoteCounts                        `json:"quotes"`
	ActivitiesPending    int64                              `json:"activities_pending"`
}

type LeadCounts struct {
	New       int64 `json:"new"`
	Qualified int64 `json:"qualified"`
}

type QuoteCounts struct {
	Draft int64 `json:"draft"`
	Sent  int64 `json:"sent"`
}

// GetDashboardStats aggregates counts across leads, opportunities, quotes and
// activities. Every declared pipeline stage appears in the response, zeros
// included. Pipeline value excludes WON and LOST opportunities.
func GetDashboardStats(c *gin.Context) {
	var stats DashboardStats

	if err := config.DB.Model(&models.Lead{}).
		Where("status = ?", models.LeadStatusNew).
		Count(&stats.Leads.New).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := config.DB.Model(&models.Lead{}).
		Where("status = ?", models.LeadStatusQualified).
		Count(&stats.Leads.Qualified).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	stats.OpportunitiesByStage = make(map[models.OpportunityStage]int64, len(models.OpportunityStages))
	var stageRows []struct {
		Stage models.OpportunityStage
		Count int64
	}
	if err := config.DB.Model(&models.Opportunity{}).
		Select("stage, COUNT(*) AS count").
		Group("stage").
		Scan(&stageRows).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	for _, stage := range models.OpportunityStages {
		stats.OpportunitiesByStage[stage] = 0
	}
	for _, row := range stageRows {
		stats.OpportunitiesByStage[row.Stage] = row.Count
	}

	if err := config.DB.Model(&models.Opportunity{}).
		Where("stage NOT IN ?", []models.OpportunityStage{models.OpportunityStageWon, models.OpportunityStageLost}).
		Select("COALESCE(SUM(value_estimate), 0)").
		Scan(&stats.TotalPipelineValue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.Quote{}).
		Where("status = ?", models.QuoteStatusDraft).
		Count(&stats.Quotes.Draft).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := config.DB.Model(&models.Quote{}).
		Where("status = ?", models.QuoteStatusSent).
		Count(&stats.Quotes.Sent).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.Activity{}).
		Where("done_at IS NULL").
		Count(&stats.ActivitiesPending).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, stats)
}
