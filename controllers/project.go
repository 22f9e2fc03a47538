package controllers

import (
	"errors"
	"net/http"
	"time"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateProjectInput struct {
	CustomerID  uuid.UUID            `json:"customer" binding:"required"`
	QuoteID     *uuid.UUID           `json:"quote"`
	Title       string               `json:"title" binding:"required"`
	Status      models.ProjectStatus `json:"status"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	Description string               `json:"description"`
}

type UpdateProjectInput struct {
	CustomerID  *uuid.UUID            `json:"customer"`
	QuoteID     *uuid.UUID            `json:"quote"`
	Title       *string               `json:"title"`
	Status      *models.ProjectStatus `json:"status"`
	StartDate   *time.Time            `json:"start_date"`
	EndDate     *time.Time            `json:"end_date"`
	Description *string               `json:"description"`
}

// ProjectResponse adds the status label and the customer's name.
type ProjectResponse struct {
	models.Project
	StatusDisplay string `json:"status_display"`
	CustomerName  string `json:"customer_name,omitempty"`
}

var projectListQuery = utils.ListQuery{
	Filters: map[string]string{
		"status":   "projects.status",
		"customer": "projects.customer_id",
	},
	SearchFields: []string{"projects.title", "projects.description", "customers.name"},
	OrderFields: map[string]string{
		"title":      "projects.title",
		"created_at": "projects.created_at",
		"start_date": "projects.start_date",
		"end_date":   "projects.end_date",
	},
	DefaultOrder: "projects.created_at DESC",
}

func CreateProject(c *gin.Context) {
	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Status == "" {
		input.Status = models.ProjectStatusPlanning
	}
	if !input.Status.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project status: "+string(input.Status))
		return
	}
	if !customerExists(c, input.CustomerID) {
		return
	}
	if input.QuoteID != nil && !quoteExists(c, *input.QuoteID) {
		return
	}

	project := models.Project{
		CustomerID:  input.CustomerID,
		QuoteID:     input.QuoteID,
		Title:       input.Title,
		Status:      input.Status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Description: input.Description,
	}

	if err := config.DB.Create(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, projectResponse(project))
}

func GetProjects(c *gin.Context) {
	tx := config.DB.Model(&models.Project{})
	if c.Query("search") != "" {
		tx = tx.Joins("LEFT JOIN customers ON customers.id = projects.customer_id")
	}
	tx = utils.ApplyListQuery(c, tx, projectListQuery)

	var projects []models.Project
	if err := tx.Find(&projects).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	ids := make([]uuid.UUID, 0, len(projects))
	for _, project := range projects {
		ids = append(ids, project.CustomerID)
	}
	names := customerNames(ids)

	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, ProjectResponse{
			Project:       project,
			StatusDisplay: project.Status.Label(),
			CustomerName:  names[project.CustomerID],
		})
	}

	c.JSON(http.StatusOK, responses)
}

func GetProject(c *gin.Context) {
	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var project models.Project
	if err := config.DB.Preload("Media").First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, projectResponse(project))
}

func UpdateProject(c *gin.Context) {
	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var project models.Project
	if err := config.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != nil {
		if !customerExists(c, *input.CustomerID) {
			return
		}
		project.CustomerID = *input.CustomerID
	}
	if input.QuoteID != nil {
		if !quoteExists(c, *input.QuoteID) {
			return
		}
		project.QuoteID = input.QuoteID
	}
	if input.Title != nil {
		if *input.Title == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		project.Title = *input.Title
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid project status: "+string(*input.Status))
			return
		}
		project.Status = *input.Status
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := config.DB.Save(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, projectResponse(project))
}

// DeleteProject removes a project together with its media
func DeleteProject(c *gin.Context) {
	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var project models.Project
	if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMedia{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project media")
		return
	}
	if err := tx.Delete(&project).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		Project:       project,
		StatusDisplay: project.Status.Label(),
		CustomerName:  customerName(project.CustomerID),
	}
}
