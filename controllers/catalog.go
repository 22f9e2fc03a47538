package controllers

import (
	"errors"
	"net/http"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateCatalogItemInput struct {
	Type        models.CatalogItemType `json:"type"`
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	PriceRef    decimal.Decimal        `json:"price_ref"`
	Active      *bool                  `json:"active"`
}

type UpdateCatalogItemInput struct {
	Type        *models.CatalogItemType `json:"type"`
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Category    *string                 `json:"category"`
	PriceRef    *decimal.Decimal        `json:"price_ref"`
	Active      *bool                   `json:"active"`
}

// CatalogItemResponse adds the display label for the item type.
type CatalogItemResponse struct {
	models.CatalogItem
	TypeDisplay string `json:"type_display"`
}

var catalogListQuery = utils.ListQuery{
	Filters: map[string]string{
		"type":     "type",
		"category": "category",
		"active":   "active",
	},
	SearchFields: []string{"name", "description", "category"},
	OrderFields: map[string]string{
		"name":       "name",
		"price_ref":  "price_ref",
		"created_at": "created_at",
	},
	DefaultOrder: "category, name",
}

func CreateCatalogItem(c *gin.Context) {
	var input CreateCatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Type == "" {
		input.Type = models.CatalogItemTypeProduct
	}
	if !input.Type.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item type: "+string(input.Type))
		return
	}
	if input.PriceRef.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Reference price cannot be negative")
		return
	}

	item := models.CatalogItem{
		Type:        input.Type,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		PriceRef:    input.PriceRef,
		Active:      true,
	}
	if input.Active != nil {
		item.Active = *input.Active
	}

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create catalog item")
		return
	}

	c.JSON(http.StatusCreated, catalogItemResponse(item))
}

func GetCatalogItems(c *gin.Context) {
	var items []models.CatalogItem
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.CatalogItem{}), catalogListQuery)
	if err := tx.Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog items")
		return
	}

	responses := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, catalogItemResponse(item))
	}

	c.JSON(http.StatusOK, responses)
}

func GetCatalogItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var item models.CatalogItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Catalog item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, catalogItemResponse(item))
}

func UpdateCatalogItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateCatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.CatalogItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Catalog item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid item type: "+string(*input.Type))
			return
		}
		item.Type = *input.Type
	}
	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.PriceRef != nil {
		if input.PriceRef.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Reference price cannot be negative")
			return
		}
		item.PriceRef = *input.PriceRef
	}
	if input.Active != nil {
		item.Active = *input.Active
	}

	if err := config.DB.Save(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update catalog item")
		return
	}

	c.JSON(http.StatusOK, catalogItemResponse(item))
}

func DeleteCatalogItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ?", itemID).Delete(&models.CatalogItem{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete catalog item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Catalog item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catalog item deleted successfully"})
}

func catalogItemResponse(item models.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{CatalogItem: item, TypeDisplay: item.Type.Label()}
}
