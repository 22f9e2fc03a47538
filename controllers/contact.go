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

type CreateContactInput struct {
	CustomerID uuid.UUID `json:"customer" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	RoleTitle  string    `json:"role_title"`
}

type UpdateContactInput struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	RoleTitle *string `json:"role_title"`
}

var contactListQuery = utils.ListQuery{
	Filters:      map[string]string{"customer": "customer_id"},
	SearchFields: []string{"name", "email", "phone"},
	DefaultOrder: "created_at DESC",
}

func CreateContact(c *gin.Context) {
	var input CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !customerExists(c, input.CustomerID) {
		return
	}

	contact := models.Contact{
		CustomerID: input.CustomerID,
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		RoleTitle:  input.RoleTitle,
	}

	if err := config.DB.Create(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func GetContacts(c *gin.Context) {
	var contacts []models.Contact
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.Contact{}), contactListQuery)
	if err := tx.Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func GetContact(c *gin.Context) {
	contactID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var contact models.Contact
	if err := config.DB.First(&contact, "id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, contact)
}

func UpdateContact(c *gin.Context) {
	contactID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var contact models.Contact
	if err := config.DB.First(&contact, "id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
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
		contact.Name = *input.Name
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.Email != nil {
		contact.Email = *input.Email
	}
	if input.RoleTitle != nil {
		contact.RoleTitle = *input.RoleTitle
	}

	if err := config.DB.Save(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	c.JSON(http.StatusOK, contact)
}

func DeleteContact(c *gin.Context) {
	contactID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ?", contactID).Delete(&models.Contact{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contact")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

// customerExists validates a customer reference, responding 400 when the
// customer is unknown.
func customerExists(c *gin.Context, customerID uuid.UUID) bool {
	var customer models.Customer
	if err := config.DB.Select("id").First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}
	return true
}
