package controllers

import (
	"net/http"
	"testing"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpportunityRouter() *gin.Engine {
	return newTestRouter(func(api *gin.RouterGroup) {
		api.POST("/opportunities", CreateOpportunity)
		api.GET("/opportunities", GetOpportunities)
		api.POST("/opportunities/:id/change_stage", ChangeOpportunityStage)
	})
}

func TestCreateOpportunity(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newOpportunityRouter()
	customer := seedCustomer(t, "Familia Rojas")

	w := doJSON(t, r, http.MethodPost, "/api/opportunities", token, gin.H{
		"customer":       customer.ID,
		"title":          "Ampliación cocina",
		"value_estimate": "12500.50",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created OpportunityResponse
	decodeJSON(t, w, &created)
	assert.Equal(t, models.OpportunityStageNew, created.Stage)
	assert.Equal(t, "Nuevo", created.StageDisplay)
	assert.Equal(t, "Familia Rojas", created.CustomerName)
	assert.True(t, created.ValueEstimate.Equal(decimal.RequireFromString("12500.50")))

	w = doJSON(t, r, http.MethodPost, "/api/opportunities", token, gin.H{
		"customer": customer.ID,
		"title":    "Otra",
		"stage":    "WARMING_UP",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeOpportunityStage(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newOpportunityRouter()
	customer := seedCustomer(t, "Cliente")

	opportunity := models.Opportunity{CustomerID: customer.ID, Title: "Terraza"}
	require.NoError(t, config.DB.Create(&opportunity).Error)

	w := doJSON(t, r, http.MethodPost, "/api/opportunities/"+opportunity.ID.String()+"/change_stage", token,
		gin.H{"stage": "NEGOTIATION"})
	require.Equal(t, http.StatusOK, w.Code)

	var changed OpportunityResponse
	decodeJSON(t, w, &changed)
	assert.Equal(t, models.OpportunityStageNegotiation, changed.Stage)
	assert.Equal(t, "En Negociación", changed.StageDisplay)

	// Stages move freely, including straight to WON
	w = doJSON(t, r, http.MethodPost, "/api/opportunities/"+opportunity.ID.String()+"/change_stage", token,
		gin.H{"stage": "WON"})
	require.Equal(t, http.StatusOK, w.Code)

	// Unknown stage is rejected and the stored stage is untouched
	w = doJSON(t, r, http.MethodPost, "/api/opportunities/"+opportunity.ID.String()+"/change_stage", token,
		gin.H{"stage": "ALMOST_WON"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.Opportunity
	require.NoError(t, config.DB.First(&stored, "id = ?", opportunity.ID).Error)
	assert.Equal(t, models.OpportunityStageWon, stored.Stage)
}
