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

type CreateLeadInput struct {
	Name       string            `json:"name" binding:"required"`
	Phone      string            `json:"phone"`
	Email      string            `json:"email"`
	Source     models.LeadSource `json:"source"`
	Status     models.LeadStatus `json:"status"`
	Notes      string            `json:"notes"`
	CustomerID *uuid.UUID        `json:"customer"`
}

type UpdateLeadInput struct {
	Name       *string            `json:"name"`
	Phone      *string            `json:"phone"`
	Email      *string            `json:"email"`
	Source     *models.LeadSource `json:"source"`
	Status     *models.LeadStatus `json:"status"`
	Notes      *string            `json:"notes"`
	CustomerID *uuid.UUID         `json:"customer"`
}

// LeadResponse adds display labels and the linked customer's name.
type LeadResponse struct {
	models.Lead
	SourceDisplay string `json:"source_display"`
	StatusDisplay string `json:"status_display"`
	CustomerName  string `json:"customer_name,omitempty"`
}

var leadListQuery = utils.ListQuery{
	Filters: map[string]string{
		"status":   "status",
		"source":   "source",
		"customer": "customer_id",
	},
	SearchFields: []string{"name", "email", "phone"},
	OrderFields: map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"status":     "status",
	},
	DefaultOrder: "created_at DESC",
}

func CreateLead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Source == "" {
		input.Source = models.LeadSourceOther
	}
	if !input.Source.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead source: "+string(input.Source))
		return
	}
	if input.Status == "" {
		input.Status = models.LeadStatusNew
	}
	if !input.Status.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead status: "+string(input.Status))
		return
	}
	if input.CustomerID != nil && !customerExists(c, *input.CustomerID) {
		return
	}

	lead := models.Lead{
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Source:      input.Source,
		Status:      input.Status,
		Notes:       input.Notes,
		CustomerID:  input.CustomerID,
		CreatedByID: &userID,
	}

	if err := config.DB.Create(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	c.JSON(http.StatusCreated, leadResponse(lead))
}

func GetLeads(c *gin.Context) {
	var leads []models.Lead
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.Lead{}), leadListQuery)
	if err := tx.Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	names := customerNamesForLeads(leads)
	responses := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		resp := leadResponseNamed(lead, names)
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

func GetLead(c *gin.Context) {
	leadID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, leadResponse(lead))
}

func UpdateLead(c *gin.Context) {
	leadID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		lead.Name = *input.Name
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Source != nil {
		if !input.Source.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead source: "+string(*input.Source))
			return
		}
		lead.Source = *input.Source
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead status: "+string(*input.Status))
			return
		}
		lead.Status = *input.Status
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.CustomerID != nil {
		if !customerExists(c, *input.CustomerID) {
			return
		}
		lead.CustomerID = input.CustomerID
	}

	if err := config.DB.Save(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	c.JSON(http.StatusOK, leadResponse(lead))
}

func DeleteLead(c *gin.Context) {
	leadID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ?", leadID).Delete(&models.Lead{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete lead")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

func leadResponse(lead models.Lead) LeadResponse {
	resp := LeadResponse{
		Lead:          lead,
		SourceDisplay: lead.Source.Label(),
		StatusDisplay: lead.Status.Label(),
	}
	if lead.CustomerID != nil {
		resp.CustomerName = customerName(*lead.CustomerID)
	}
	return resp
}

func leadResponseNamed(lead models.Lead, names map[uuid.UUID]string) LeadResponse {
	resp := LeadResponse{
		Lead:          lead,
		SourceDisplay: lead.Source.Label(),
		StatusDisplay: lead.Status.Label(),
	}
	if lead.CustomerID != nil {
		resp.CustomerName = names[*lead.CustomerID]
	}
	return resp
}

func customerNamesForLeads(leads []models.Lead) map[uuid.UUID]string {
	ids := make([]uuid.UUID, 0, len(leads))
	for _, lead := range leads {
		if lead.CustomerID != nil {
			ids = append(ids, *lead.CustomerID)
		}
	}
	return customerNames(ids)
}

// customerNames resolves a batch of customer IDs to names.
func customerNames(ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	var customers []models.Customer
	if err := config.DB.Select("id, name").Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return names
	}
	for _, customer := range customers {
		names[customer.ID] = customer.Name
	}
	return names
}

// customerName resolves one customer ID to its name, empty when unknown.
func customerName(id uuid.UUID) string {
	var customer models.Customer
	if err := config.DB.Select("name").First(&customer, "id = ?", id).Error; err != nil {
		return ""
	}
	return customer.Name
}
