package controllers

import (
	"net/http"
	"testing"
	"time"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newTestRouter(func(api *gin.RouterGroup) {
		api.GET("/dashboard/stats", GetDashboardStats)
	})

	customer := seedCustomer(t, "Cliente Tablero")

	for _, status := range []models.LeadStatus{models.LeadStatusNew, models.LeadStatusNew, models.LeadStatusQualified, models.LeadStatusDisqualified} {
		require.NoError(t, config.DB.Create(&models.Lead{Name: "Lead", Status: status}).Error)
	}

	opportunities := []models.Opportunity{
		{CustomerID: customer.ID, Title: "A", Stage: models.OpportunityStageNew, ValueEstimate: decimal.NewFromInt(100)},
		{CustomerID: customer.ID, Title: "B", Stage: models.OpportunityStageContacted, ValueEstimate: decimal.NewFromInt(200)},
		{CustomerID: customer.ID, Title: "C", Stage: models.OpportunityStageNegotiation, ValueEstimate: decimal.NewFromInt(300)},
		{CustomerID: customer.ID, Title: "D", Stage: models.OpportunityStageWon, ValueEstimate: decimal.NewFromInt(1000)},
		{CustomerID: customer.ID, Title: "E", Stage: models.OpportunityStageLost, ValueEstimate: decimal.NewFromInt(500)},
	}
	for i := range opportunities {
		require.NoError(t, config.DB.Create(&opportunities[i]).Error)
	}

	for _, status := range []models.QuoteStatus{models.QuoteStatusDraft, models.QuoteStatusSent, models.QuoteStatusAccepted} {
		require.NoError(t, config.DB.Create(&models.Quote{CustomerID: customer.ID, Status: status}).Error)
	}

	pending := models.Activity{Type: models.ActivityTypeTask, Notes: "Pendiente"}
	require.NoError(t, config.DB.Create(&pending).Error)
	now := time.Now()
	done := models.Activity{Type: models.ActivityTypeTask, Notes: "Hecha", DoneAt: &now}
	require.NoError(t, config.DB.Create(&done).Error)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats DashboardStats
	decodeJSON(t, w, &stats)

	assert.Equal(t, int64(2), stats.Leads.New)
	assert.Equal(t, int64(1), stats.Leads.Qualified)

	// Every stage is present, zeros included
	require.Len(t, stats.OpportunitiesByStage, len(models.OpportunityStages))
	assert.Equal(t, int64(1), stats.OpportunitiesByStage[models.OpportunityStageNew])
	assert.Equal(t, int64(1), stats.OpportunitiesByStage[models.OpportunityStageWon])
	assert.Equal(t, int64(0), stats.OpportunitiesByStage[models.OpportunityStageQuoteSent])

	// WON and LOST are excluded from the pipeline value
	assert.True(t, stats.TotalPipelineValue.Equal(decimal.NewFromInt(600)),
		"total_pipeline_value = %s", stats.TotalPipelineValue)

	assert.Equal(t, int64(1), stats.Quotes.Draft)
	assert.Equal(t, int64(1), stats.Quotes.Sent)
	assert.Equal(t, int64(1), stats.ActivitiesPending)
}
