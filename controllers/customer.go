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

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Type  models.CustomerType `json:"type"`
	Name  string              `json:"name" binding:"required"`
	Phone string              `json:"phone"`
	Email string              `json:"email"`
	Notes string              `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Type  *models.CustomerType `json:"type"`
	Name  *string              `json:"name"`
	Phone *string              `json:"phone"`
	Email *string              `json:"email"`
	Notes *string              `json:"notes"`
}

// CustomerListItem is the list representation with the contact count attached.
type CustomerListItem struct {
	models.Customer
	TypeDisplay   string `json:"type_display"`
	ContactsCount int64  `json:"contacts_count"`
}

// CustomerDetail embeds contacts and addresses plus the creator's email.
type CustomerDetail struct {
	models.Customer
	TypeDisplay    string `json:"type_display"`
	CreatedByEmail string `json:"created_by_email,omitempty"`
}

var customerListQuery = utils.ListQuery{
	Filters:      map[string]string{"type": "type"},
	SearchFields: []string{"name", "email", "phone"},
	OrderFields:  map[string]string{"name": "name", "created_at": "created_at"},
	DefaultOrder: "created_at DESC",
}

// CreateCustomer creates a new customer record
func CreateCustomer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Type == "" {
		input.Type = models.CustomerTypeIndividual
	}
	if !input.Type.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer type: "+string(input.Type))
		return
	}

	customer := models.Customer{
		Type:        input.Type,
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Notes:       input.Notes,
		CreatedByID: &userID,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customerDetail(customer))
}

// GetCustomers retrieves customers with optional filter/search/ordering
func GetCustomers(c *gin.Context) {
	var customers []models.Customer
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.Customer{}), customerListQuery)
	if err := tx.Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	counts, err := contactCounts(customers)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	items := make([]CustomerListItem, 0, len(customers))
	for _, customer := range customers {
		items = append(items, CustomerListItem{
			Customer:      customer,
			TypeDisplay:   customer.Type.Label(),
			ContactsCount: counts[customer.ID],
		})
	}

	c.JSON(http.StatusOK, items)
}

// GetCustomer retrieves a specific customer with contacts and addresses
func GetCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Preload("Contacts").Preload("Addresses").
		First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customerDetail(customer))
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer type: "+string(*input.Type))
			return
		}
		customer.Type = *input.Type
	}
	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customerDetail(customer))
}

// DeleteCustomer removes a customer together with its contacts and addresses
func DeleteCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Contact{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contacts")
		return
	}
	if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Address{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete addresses")
		return
	}
	if err := tx.Delete(&customer).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func customerDetail(customer models.Customer) CustomerDetail {
	detail := CustomerDetail{Customer: customer, TypeDisplay: customer.Type.Label()}
	if customer.CreatedByID != nil {
		var user models.User
		if err := config.DB.Select("email").First(&user, "id = ?", *customer.CreatedByID).Error; err == nil {
			detail.CreatedByEmail = user.Email
		}
	}
	return detail
}

func contactCounts(customers []models.Customer) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(customers))
	if len(customers) == 0 {
		return counts, nil
	}
	ids := make([]uuid.UUID, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.ID)
	}

	var rows []struct {
		CustomerID uuid.UUID
		Count      int64
	}
	err := config.DB.Model(&models.Contact{}).
		Select("customer_id, COUNT(*) AS count").
		Where("customer_id IN ?", ids).
		Group("customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CustomerID] = row.Count
	}
	return counts, nil
}
