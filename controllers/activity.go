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

type CreateActivityInput struct {
	Type          models.ActivityType `json:"type"`
	Notes         string              `json:"notes"`
	DueAt         *time.Time          `json:"due_at"`
	CustomerID    *uuid.UUID          `json:"customer"`
	OpportunityID *uuid.UUID          `json:"opportunity"`
	AssignedToID  *uuid.UUID          `json:"assigned_to"`
}

type UpdateActivityInput struct {
	Type          *models.ActivityType `json:"type"`
	Notes         *string              `json:"notes"`
	DueAt         *time.Time           `json:"due_at"`
	DoneAt        *time.Time           `json:"done_at"`
	CustomerID    *uuid.UUID           `json:"customer"`
	OpportunityID *uuid.UUID           `json:"opportunity"`
	AssignedToID  *uuid.UUID           `json:"assigned_to"`
}

// ActivityResponse adds the type label and the derived done flag.
type ActivityResponse struct {
	models.Activity
	TypeDisplay string `json:"type_display"`
	IsDone      bool   `json:"is_done"`
}

var activityListQuery = utils.ListQuery{
	Filters: map[string]string{
		"type":        "type",
		"customer":    "customer_id",
		"opportunity": "opportunity_id",
		"assigned_to": "assigned_to_id",
	},
	SearchFields: []string{"notes"},
	OrderFields: map[string]string{
		"due_at":     "due_at",
		"created_at": "created_at",
		"done_at":    "done_at",
	},
	DefaultOrder: "due_at DESC",
}

func CreateActivity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input CreateActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Type == "" {
		input.Type = models.ActivityTypeTask
	}
	if !input.Type.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid activity type: "+string(input.Type))
		return
	}
	if input.CustomerID != nil && !customerExists(c, *input.CustomerID) {
		return
	}
	if input.OpportunityID != nil && !opportunityExists(c, *input.OpportunityID) {
		return
	}

	activity := models.Activity{
		Type:          input.Type,
		Notes:         input.Notes,
		DueAt:         input.DueAt,
		CustomerID:    input.CustomerID,
		OpportunityID: input.OpportunityID,
		AssignedToID:  input.AssignedToID,
		CreatedByID:   &userID,
	}

	if err := config.DB.Create(&activity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create activity")
		return
	}

	c.JSON(http.StatusCreated, activityResponse(activity))
}

func GetActivities(c *gin.Context) {
	var activities []models.Activity
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.Activity{}), activityListQuery)
	if err := tx.Find(&activities).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve activities")
		return
	}

	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, activityResponse(activity))
	}

	c.JSON(http.StatusOK, responses)
}

func GetActivity(c *gin.Context) {
	activityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var activity models.Activity
	if err := config.DB.First(&activity, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Activity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, activityResponse(activity))
}

func UpdateActivity(c *gin.Context) {
	activityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var activity models.Activity
	if err := config.DB.First(&activity, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Activity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid activity type: "+string(*input.Type))
			return
		}
		activity.Type = *input.Type
	}
	if input.Notes != nil {
		activity.Notes = *input.Notes
	}
	if input.DueAt != nil {
		activity.DueAt = input.DueAt
	}
	if input.DoneAt != nil {
		activity.DoneAt = input.DoneAt
	}
	if input.CustomerID != nil {
		if !customerExists(c, *input.CustomerID) {
			return
		}
		activity.CustomerID = input.CustomerID
	}
	if input.OpportunityID != nil {
		if !opportunityExists(c, *input.OpportunityID) {
			return
		}
		activity.OpportunityID = input.OpportunityID
	}
	if input.AssignedToID != nil {
		activity.AssignedToID = input.AssignedToID
	}

	if err := config.DB.Save(&activity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update activity")
		return
	}

	c.JSON(http.StatusOK, activityResponse(activity))
}

func DeleteActivity(c *gin.Context) {
	activityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ?", activityID).Delete(&models.Activity{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete activity")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Activity not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted successfully"})
}

// MarkActivityDone sets the completion timestamp to now. Marking an already
// done activity refreshes the timestamp; it stays done either way.
func MarkActivityDone(c *gin.Context) {
	activityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var activity models.Activity
	if err := config.DB.First(&activity, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Activity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	now := time.Now()
	activity.DoneAt = &now
	if err := config.DB.Save(&activity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update activity")
		return
	}

	c.JSON(http.StatusOK, activityResponse(activity))
}

func activityResponse(activity models.Activity) ActivityResponse {
	return ActivityResponse{
		Activity:    activity,
		TypeDisplay: activity.Type.Label(),
		IsDone:      activity.IsDone(),
	}
}

func opportunityExists(c *gin.Context, opportunityID uuid.UUID) bool {
	var opportunity models.Opportunity
	if err := config.DB.Select("id").First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Opportunity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}
	return true
}
