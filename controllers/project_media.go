package controllers

import (
	"errors"
	"net/http"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateProjectMediaInput struct {
	ProjectID uuid.UUID        `json:"project" binding:"required"`
	MediaType models.MediaType `json:"media_type"`
	URL       string           `json:"url" binding:"required,url"`
	Caption   string           `json:"caption"`
}

type UpdateProjectMediaInput struct {
	MediaType *models.MediaType `json:"media_type"`
	URL       *string           `json:"url"`
	Caption   *string           `json:"caption"`
}

// ProjectMediaResponse adds the media type label.
type ProjectMediaResponse struct {
	models.ProjectMedia
	MediaTypeDisplay string `json:"media_type_display"`
}

var projectMediaListQuery = utils.ListQuery{
	Filters: map[string]string{
		"project":    "project_id",
		"media_type": "media_type",
	},
	DefaultOrder: "media_type, created_at DESC",
}

func CreateProjectMedia(c *gin.Context) {
	var input CreateProjectMediaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.MediaType == "" {
		input.MediaType = models.MediaTypeProgress
	}
	if !input.MediaType.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid media type: "+string(input.MediaType))
		return
	}
	if !projectExists(c, input.ProjectID) {
		return
	}

	media := models.ProjectMedia{
		ProjectID: input.ProjectID,
		MediaType: input.MediaType,
		URL:       input.URL,
		Caption:   input.Caption,
	}

	if err := config.DB.Create(&media).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project media")
		return
	}

	c.JSON(http.StatusCreated, projectMediaResponse(media))
}

func GetProjectMediaList(c *gin.Context) {
	var mediaList []models.ProjectMedia
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.ProjectMedia{}), projectMediaListQuery)
	if err := tx.Find(&mediaList).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve project media")
		return
	}

	responses := make([]ProjectMediaResponse, 0, len(mediaList))
	for _, media := range mediaList {
		responses = append(responses, projectMediaResponse(media))
	}

	c.JSON(http.StatusOK, responses)
}

func GetProjectMedia(c *gin.Context) {
	mediaID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var media models.ProjectMedia
	if err := config.DB.First(&media, "id = ?", mediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project media not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, projectMediaResponse(media))
}

func UpdateProjectMedia(c *gin.Context) {
	mediaID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateProjectMediaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var media models.ProjectMedia
	if err := config.DB.First(&media, "id = ?", mediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project media not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.MediaType != nil {
		if !input.MediaType.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid media type: "+string(*input.MediaType))
			return
		}
		media.MediaType = *input.MediaType
	}
	if input.URL != nil {
		if *input.URL == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "URL cannot be empty")
			return
		}
		media.URL = *input.URL
	}
	if input.Caption != nil {
		media.Caption = *input.Caption
	}

	if err := config.DB.Save(&media).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update project media")
		return
	}

	c.JSON(http.StatusOK, projectMediaResponse(media))
}

func DeleteProjectMedia(c *gin.Context) {
	mediaID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ?", mediaID).Delete(&models.ProjectMedia{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project media")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Project media not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project media deleted successfully"})
}

func projectMediaResponse(media models.ProjectMedia) ProjectMediaResponse {
	return ProjectMediaResponse{ProjectMedia: media, MediaTypeDisplay: media.MediaType.Label()}
}

func projectExists(c *gin.Context, projectID uuid.UUID) bool {
	var project models.Project
	if err := config.DB.Select("id").First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}
	return true
}
