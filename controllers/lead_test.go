package controllers

import (
	"net/http"
	"testing"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeadRouter() *gin.Engine {
	return newTestRouter(func(api *gin.RouterGroup) {
		api.POST("/leads", CreateLead)
		api.GET("/leads", GetLeads)
		api.PUT("/leads/:id", UpdateLead)
	})
}

func TestCreateLeadDefaults(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newLeadRouter()

	w := doJSON(t, r, http.MethodPost, "/api/leads", token, gin.H{
		"name":  "Interesado WhatsApp",
		"phone": "555-3333",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created LeadResponse
	decodeJSON(t, w, &created)
	assert.Equal(t, models.LeadSourceOther, created.Source)
	assert.Equal(t, models.LeadStatusNew, created.Status)
	assert.Equal(t, "Otro", created.SourceDisplay)
	assert.Equal(t, "Nuevo", created.StatusDisplay)
	require.NotNil(t, created.CreatedByID)
	assert.Equal(t, user.ID, *created.CreatedByID)

	w = doJSON(t, r, http.MethodPost, "/api/leads", token, gin.H{
		"name":   "Mal origen",
		"source": "TIKTOK",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLeadsByStatus(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newLeadRouter()

	leads := []models.Lead{
		{Name: "Uno", Source: models.LeadSourceWeb, Status: models.LeadStatusNew},
		{Name: "Dos", Source: models.LeadSourceIG, Status: models.LeadStatusQualified},
		{Name: "Tres", Source: models.LeadSourceIG, Status: models.LeadStatusNew},
	}
	for i := range leads {
		require.NoError(t, config.DB.Create(&leads[i]).Error)
	}

	var list []LeadResponse

	w := doJSON(t, r, http.MethodGet, "/api/leads?status=NEW", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	assert.Len(t, list, 2)

	w = doJSON(t, r, http.MethodGet, "/api/leads?source=IG&status=QUALIFIED", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Dos", list[0].Name)
}

func TestUpdateLeadLinksCustomer(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newLeadRouter()

	lead := models.Lead{Name: "Por Convertir", Source: models.LeadSourceReferral, Status: models.LeadStatusQualified}
	require.NoError(t, config.DB.Create(&lead).Error)
	customer := seedCustomer(t, "Convertido SA")

	w := doJSON(t, r, http.MethodPut, "/api/leads/"+lead.ID.String(), token, gin.H{
		"status":   "CONVERTED",
		"customer": customer.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated LeadResponse
	decodeJSON(t, w, &updated)
	assert.Equal(t, models.LeadStatusConverted, updated.Status)
	require.NotNil(t, updated.CustomerID)
	assert.Equal(t, customer.ID, *updated.CustomerID)
	assert.Equal(t, "Convertido SA", updated.CustomerName)
}
