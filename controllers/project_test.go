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

func newProjectRouter() *gin.Engine {
	return newTestRouter(func(api *gin.RouterGroup) {
		api.POST("/projects", CreateProject)
		api.GET("/projects/:id", GetProject)
		api.DELETE("/projects/:id", DeleteProject)
		api.POST("/project-media", CreateProjectMedia)
	})
}

func TestCreateProject(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newProjectRouter()
	customer := seedCustomer(t, "Dueño de Obra")

	w := doJSON(t, r, http.MethodPost, "/api/projects", token, gin.H{
		"customer": customer.ID,
		"title":    "Casa Achumani",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created ProjectResponse
	decodeJSON(t, w, &created)
	assert.Equal(t, models.ProjectStatusPlanning, created.Status)
	assert.Equal(t, "Planificación", created.StatusDisplay)
	assert.Equal(t, "Dueño de Obra", created.CustomerName)

	w = doJSON(t, r, http.MethodPost, "/api/projects", token, gin.H{
		"customer": customer.ID,
		"title":    "Otra",
		"status":   "PAUSED",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectMediaAndCascade(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newProjectRouter()
	customer := seedCustomer(t, "Cliente")

	project := models.Project{CustomerID: customer.ID, Title: "Refacción"}
	require.NoError(t, config.DB.Create(&project).Error)

	w := doJSON(t, r, http.MethodPost, "/api/project-media", token, gin.H{
		"project":    project.ID,
		"media_type": "BEFORE",
		"url":        "https://media.example.com/antes.jpg",
		"caption":    "Estado inicial",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var media ProjectMediaResponse
	decodeJSON(t, w, &media)
	assert.Equal(t, models.MediaTypeBefore, media.MediaType)
	assert.Equal(t, "Antes", media.MediaTypeDisplay)

	// Media type defaults to PROGRESS and a bad URL is rejected
	w = doJSON(t, r, http.MethodPost, "/api/project-media", token, gin.H{
		"project": project.ID,
		"url":     "https://media.example.com/avance.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &media)
	assert.Equal(t, models.MediaTypeProgress, media.MediaType)

	w = doJSON(t, r, http.MethodPost, "/api/project-media", token, gin.H{
		"project": project.ID,
		"url":     "not-a-url",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The detail embeds the media
	w = doJSON(t, r, http.MethodGet, "/api/projects/"+project.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail ProjectResponse
	decodeJSON(t, w, &detail)
	assert.Len(t, detail.Media, 2)

	// Deleting the project removes its media
	w = doJSON(t, r, http.MethodDelete, "/api/projects/"+project.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	config.DB.Model(&models.ProjectMedia{}).Where("project_id = ?", project.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
