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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateOpportunityInput struct {
	CustomerID    uuid.UUID               `json:"customer" binding:"required"`
	Title         string                  `json:"title" binding:"required"`
	Stage         models.OpportunityStage `json:"stage"`
	ValueEstimate decimal.Decimal         `json:"value_estimate"`
	CloseDate     *time.Time              `json:"close_date"`
	AssignedToID  *uuid.UUID              `json:"assigned_to"`
	Notes         string                  `json:"notes"`
}

type UpdateOpportunityInput struct {
	CustomerID    *uuid.UUID               `json:"customer"`
	Title         *string                  `json:"title"`
	Stage         *models.OpportunityStage `json:"stage"`
	ValueEstimate *decimal.Decimal         `json:"value_estimate"`
	CloseDate     *time.Time               `json:"close_date"`
	AssignedToID  *uuid.UUID               `json:"assigned_to"`
	Notes         *string                  `json:"notes"`
}

type ChangeStageInput struct {
	Stage models.OpportunityStage `json:"stage" binding:"required"`
}

// OpportunityResponse adds the stage label and the customer's name.
type OpportunityResponse struct {
	models.Opportunity
	StageDisplay string `json:"stage_display"`
	CustomerName string `json:"customer_name,omitempty"`
}

var opportunityListQuery = utils.ListQuery{
	Filters: map[string]string{
		"stage":       "opportunities.stage",
		"customer":    "opportunities.customer_id",
		"assigned_to": "opportunities.assigned_to_id",
	},
	SearchFields: []string{"opportunities.title", "customers.name"},
	OrderFields: map[string]string{
		"title":          "opportunities.title",
		"created_at":     "opportunities.created_at",
		"value_estimate": "opportunities.value_estimate",
		"close_date":     "opportunities.close_date",
	},
	DefaultOrder: "opportunities.created_at DESC",
}

func CreateOpportunity(c *gin.Context) {
	var input CreateOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Stage == "" {
		input.Stage = models.OpportunityStageNew
	}
	if !input.Stage.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid stage: "+string(input.Stage))
		return
	}
	if !customerExists(c, input.CustomerID) {
		return
	}

	opportunity := models.Opportunity{
		CustomerID:    input.CustomerID,
		Title:         input.Title,
		Stage:         input.Stage,
		ValueEstimate: input.ValueEstimate,
		CloseDate:     input.CloseDate,
		AssignedToID:  input.AssignedToID,
		Notes:         input.Notes,
	}

	if err := config.DB.Create(&opportunity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create opportunity")
		return
	}

	c.JSON(http.StatusCreated, opportunityResponse(opportunity))
}

func GetOpportunities(c *gin.Context) {
	tx := config.DB.Model(&models.Opportunity{})
	if c.Query("search") != "" {
		tx = tx.Joins("LEFT JOIN customers ON customers.id = opportunities.customer_id")
	}
	tx = utils.ApplyListQuery(c, tx, opportunityListQuery)

	var opportunities []models.Opportunity
	if err := tx.Find(&opportunities).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve opportunities")
		return
	}

	ids := make([]uuid.UUID, 0, len(opportunities))
	for _, opportunity := range opportunities {
		ids = append(ids, opportunity.CustomerID)
	}
	names := customerNames(ids)

	responses := make([]OpportunityResponse, 0, len(opportunities))
	for _, opportunity := range opportunities {
		responses = append(responses, OpportunityResponse{
			Opportunity:  opportunity,
			StageDisplay: opportunity.Stage.Label(),
			CustomerName: names[opportunity.CustomerID],
		})
	}

	c.JSON(http.StatusOK, responses)
}

func GetOpportunity(c *gin.Context) {
	opportunityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var opportunity models.Opportunity
	if err := config.DB.First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Opportunity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, opportunityResponse(opportunity))
}

func UpdateOpportunity(c *gin.Context) {
	opportunityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var opportunity models.Opportunity
	if err := config.DB.First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Opportunity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != nil {
		if !customerExists(c, *input.CustomerID) {
			return
		}
		opportunity.CustomerID = *input.CustomerID
	}
	if input.Title != nil {
		if *input.Title == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		opportunity.Title = *input.Title
	}
	if input.Stage != nil {
		if !input.Stage.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid stage: "+string(*input.Stage))
			return
		}
		opportunity.Stage = *input.Stage
	}
	if input.ValueEstimate != nil {
		opportunity.ValueEstimate = *input.ValueEstimate
	}
	if input.CloseDate != nil {
		opportunity.CloseDate = input.CloseDate
	}
	if input.AssignedToID != nil {
		opportunity.AssignedToID = input.AssignedToID
	}
	if input.Notes != nil {
		opportunity.Notes = *input.Notes
	}

	if err := config.DB.Save(&opportunity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update opportunity")
		return
	}

	c.JSON(http.StatusOK, opportunityResponse(opportunity))
}

func DeleteOpportunity(c *gin.Context) {
	opportunityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var opportunity models.Opportunity
	if err := tx.First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Opportunity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Activities linked to the opportunity go with it
	if err := tx.Where("opportunity_id = ?", opportunity.ID).Delete(&models.Activity{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete activities")
		return
	}
	if err := tx.Delete(&opportunity).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete opportunity")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Opportunity deleted successfully"})
}

// ChangeOpportunityStage sets the pipeline stage. Any declared stage may be
// set from any other; only enum membership is validated.
func ChangeOpportunityStage(c *gin.Context) {
	opportunityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input ChangeStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Stage.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid stage: "+string(input.Stage))
		return
	}

	var opportunity models.Opportunity
	if err := config.DB.First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Opportunity not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	opportunity.Stage = input.Stage
	if err := config.DB.Save(&opportunity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update opportunity")
		return
	}

	c.JSON(http.StatusOK, opportunityResponse(opportunity))
}

func opportunityResponse(opportunity models.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		Opportunity:  opportunity,
		StageDisplay: opportunity.Stage.Label(),
		CustomerName: customerName(opportunity.CustomerID),
	}
}
