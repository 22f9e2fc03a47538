package controllers

import (
	"errors"
	"net/http"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateAddressInput struct {
	CustomerID uuid.UUID        `json:"customer" binding:"required"`
	Label      string           `json:"label"`
	City       string           `json:"city"`
	Zone       string           `json:"zone"`
	Details    string           `json:"details"`
	Lat        *decimal.Decimal `json:"lat"`
	Lng        *decimal.Decimal `json:"lng"`
}

type UpdateAddressInput struct {
	Label   *string          `json:"label"`
	City    *string          `json:"city"`
	Zone    *string          `json:"zone"`
	Details *string          `json:"details"`
	Lat     *decimal.Decimal `json:"lat"`
	Lng     *decimal.Decimal `json:"lng"`
}

var addressListQuery = utils.ListQuery{
	Filters:      map[string]string{"customer": "customer_id"},
	SearchFields: []string{"city", "zone", "details"},
	DefaultOrder: "created_at DESC",
}

func CreateAddress(c *gin.Context) {
	var input CreateAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !customerExists(c, input.CustomerID) {
		return
	}

	if input.Label == "" {
		input.Label = "Principal"
	}

	address := models.Address{
		CustomerID: input.CustomerID,
		Label:      input.Label,
		City:       input.City,
		Zone:       input.Zone,
		Details:    input.Details,
		Lat:        input.Lat,
		Lng:        input.Lng,
	}

	if err := config.DB.Create(&address).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create address")
		return
	}

	c.JSON(http.StatusCreated, address)
}

func GetAddresses(c *gin.Context) {
	var addresses []models.Address
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.Address{}), addressListQuery)
	if err := tx.Find(&addresses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve addresses")
		return
	}

	c.JSON(http.StatusOK, addresses)
}

func GetAddress(c *gin.Context) {
	addressID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var address models.Address
	if err := config.DB.First(&address, "id = ?", addressID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Address not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, address)
}

func UpdateAddress(c *gin.Context) {
	addressID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var address models.Address
	if err := config.DB.First(&address, "id = ?", addressID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Address not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Label != nil {
		address.Label = *input.Label
	}
	if input.City != nil {
		address.City = *input.City
	}
	if input.Zone != nil {
		address.Zone = *input.Zone
	}
	if input.Details != nil {
		address.Details = *input.Details
	}
	if input.Lat != nil {
		address.Lat = input.Lat
	}
	if input.Lng != nil {
		address.Lng = input.Lng
	}

	if err := config.DB.Save(&address).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update address")
		return
	}

	c.JSON(http.StatusOK, address)
}

func DeleteAddress(c *gin.Context) {
	addressID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ?", addressID).Delete(&models.Address{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Address not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
}
