package controllers

import (
	"errors"
	"net/http"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/services"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateQuoteItemInput struct {
	QuoteID     uuid.UUID            `json:"quote" binding:"required"`
	ItemType    models.QuoteItemType `json:"item_type"`
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Qty         *decimal.Decimal     `json:"qty"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
}

type UpdateQuoteItemInput struct {
	ItemType    *models.QuoteItemType `json:"item_type"`
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Qty         *decimal.Decimal      `json:"qty"`
	UnitPrice   *decimal.Decimal      `json:"unit_price"`
}

// QuoteItemResponse adds the computed line total, which is never stored.
type QuoteItemResponse struct {
	models.QuoteItem
	ItemTypeDisplay string          `json:"item_type_display"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

var quoteItemListQuery = utils.ListQuery{
	Filters: map[string]string{
		"quote":     "quote_id",
		"item_type": "item_type",
	},
	DefaultOrder: "created_at",
}

// CreateQuoteItem adds a line to a quote and recalculates the quote total in
// the same transaction.
func CreateQuoteItem(c *gin.Context) {
	var input CreateQuoteItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ItemType == "" {
		input.ItemType = models.QuoteItemTypeProduct
	}
	if !input.ItemType.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item type: "+string(input.ItemType))
		return
	}
	qty := decimal.NewFromInt(1)
	if input.Qty != nil {
		qty = *input.Qty
	}
	if !validateQuoteItemAmounts(c, qty, input.UnitPrice) {
		return
	}
	if !quoteExists(c, input.QuoteID) {
		return
	}

	item := models.QuoteItem{
		QuoteID:     input.QuoteID,
		ItemType:    input.ItemType,
		Name:        input.Name,
		Description: input.Description,
		Qty:         qty,
		UnitPrice:   input.UnitPrice,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quote item")
		return
	}
	if err := services.RecalculateQuoteTotal(tx, item.QuoteID); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recalculate quote total")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, quoteItemResponse(item))
}

func GetQuoteItems(c *gin.Context) {
	var items []models.QuoteItem
	tx := utils.ApplyListQuery(c, config.DB.Model(&models.QuoteItem{}), quoteItemListQuery)
	if err := tx.Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quote items")
		return
	}

	responses := make([]QuoteItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, quoteItemResponse(item))
	}

	c.JSON(http.StatusOK, responses)
}

func GetQuoteItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var item models.QuoteItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, quoteItemResponse(item))
}

// UpdateQuoteItem edits a line and recalculates the quote total in the same
// transaction. Validation happens before any write, so a rejected update
// leaves the total untouched.
func UpdateQuoteItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateQuoteItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.QuoteItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.ItemType != nil {
		if !input.ItemType.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid item type: "+string(*input.ItemType))
			return
		}
		item.ItemType = *input.ItemType
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
	if input.Qty != nil {
		item.Qty = *input.Qty
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if !validateQuoteItemAmounts(c, item.Qty, item.UnitPrice) {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote item")
		return
	}
	if err := services.RecalculateQuoteTotal(tx, item.QuoteID); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recalculate quote total")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, quoteItemResponse(item))
}

// DeleteQuoteItem removes a line and recalculates the quote total in the same
// transaction.
func DeleteQuoteItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var item models.QuoteItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote item")
		return
	}
	if err := services.RecalculateQuoteTotal(tx, item.QuoteID); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recalculate quote total")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Quote item deleted successfully"})
}

func quoteItemResponse(item models.QuoteItem) QuoteItemResponse {
	return QuoteItemResponse{
		QuoteItem:       item,
		ItemTypeDisplay: item.ItemType.Label(),
		LineTotal:       item.LineTotal(),
	}
}

func validateQuoteItemAmounts(c *gin.Context, qty, unitPrice decimal.Decimal) bool {
	if qty.LessThanOrEqual(decimal.Zero) {
		utils.RespondWithError(c, http.StatusBadRequest, "Quantity must be greater than 0")
		return false
	}
	if unitPrice.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Unit price cannot be negative")
		return false
	}
	return true
}

func quoteExists(c *gin.Context, quoteID uuid.UUID) bool {
	var quote models.Quote
	if err := config.DB.Select("id").First(&quote, "id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}
	return true
}
