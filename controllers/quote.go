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

type CreateQuoteInput struct {
	CustomerID    uuid.UUID          `json:"customer" binding:"required"`
	OpportunityID *uuid.UUID         `json:"opportunity"`
	Status        models.QuoteStatus `json:"status"`
	ValidUntil    *time.Time         `json:"valid_until"`
	Notes         string             `json:"notes"`
}

type UpdateQuoteInput struct {
	CustomerID    *uuid.UUID          `json:"customer"`
	OpportunityID *uuid.UUID          `json:"opportunity"`
	Status        *models.QuoteStatus `json:"status"`
	ValidUntil    *time.Time          `json:"valid_until"`
	Notes         *string             `json:"notes"`
}

type ChangeStatusInput struct {
	Status models.QuoteStatus `json:"status" binding:"required"`
}

// QuoteListItem is the list representation: no items, but their count.
type QuoteListItem struct {
	models.Quote
	CustomerName  string `json:"customer_name,omitempty"`
	StatusDisplay string `json:"status_display"`
	ItemsCount    int64  `json:"items_count"`
}

// QuoteDetail embeds items with their computed line totals.
type QuoteDetail struct {
	models.Quote
	CustomerName     string              `json:"customer_name,omitempty"`
	OpportunityTitle string              `json:"opportunity_title,omitempty"`
	StatusDisplay    string              `json:"status_display"`
	Items            []QuoteItemResponse `json:"items"`
}

var quoteListQuery = utils.ListQuery{
	Filters: map[string]string{
		"status":      "quotes.status",
		"customer":    "quotes.customer_id",
		"opportunity": "quotes.opportunity_id",
	},
	SearchFields: []string{"customers.name", "quotes.notes"},
	OrderFields: map[string]string{
		"created_at":  "quotes.created_at",
		"total":       "quotes.total",
		"valid_until": "quotes.valid_until",
	},
	DefaultOrder: "quotes.created_at DESC",
}

func CreateQuote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Status == "" {
		input.Status = models.QuoteStatusDraft
	}
	if !input.Status.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote status: "+string(input.Status))
		return
	}
	if !customerExists(c, input.CustomerID) {
		return
	}
	if input.OpportunityID != nil && !opportunityExists(c, *input.OpportunityID) {
		return
	}

	quote := models.Quote{
		CustomerID:    input.CustomerID,
		OpportunityID: input.OpportunityID,
		Status:        input.Status,
		ValidUntil:    input.ValidUntil,
		Notes:         input.Notes,
		CreatedByID:   &userID,
	}

	if err := config.DB.Create(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	c.JSON(http.StatusCreated, quoteDetail(quote))
}

func GetQuotes(c *gin.Context) {
	tx := config.DB.Model(&models.Quote{})
	if c.Query("search") != "" {
		tx = tx.Joins("LEFT JOIN customers ON customers.id = quotes.customer_id")
	}
	tx = utils.ApplyListQuery(c, tx, quoteListQuery)

	var quotes []models.Quote
	if err := tx.Find(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quotes")
		return
	}

	customerIDs := make([]uuid.UUID, 0, len(quotes))
	quoteIDs := make([]uuid.UUID, 0, len(quotes))
	for _, quote := range quotes {
		customerIDs = append(customerIDs, quote.CustomerID)
		quoteIDs = append(quoteIDs, quote.ID)
	}
	names := customerNames(customerIDs)
	counts, err := quoteItemCounts(quoteIDs)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	items := make([]QuoteListItem, 0, len(quotes))
	for _, quote := range quotes {
		items = append(items, QuoteListItem{
			Quote:         quote,
			CustomerName:  names[quote.CustomerID],
			StatusDisplay: quote.Status.Label(),
			ItemsCount:    counts[quote.ID],
		})
	}

	c.JSON(http.StatusOK, items)
}

func GetQuote(c *gin.Context) {
	quoteID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var quote models.Quote
	if err := config.DB.Preload("Items").First(&quote, "id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, quoteDetail(quote))
}

func UpdateQuote(c *gin.Context) {
	quoteID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var quote models.Quote
	if err := config.DB.First(&quote, "id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != nil {
		if !customerExists(c, *input.CustomerID) {
			return
		}
		quote.CustomerID = *input.CustomerID
	}
	if input.OpportunityID != nil {
		if !opportunityExists(c, *input.OpportunityID) {
			return
		}
		quote.OpportunityID = input.OpportunityID
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote status: "+string(*input.Status))
			return
		}
		quote.Status = *input.Status
	}
	if input.ValidUntil != nil {
		quote.ValidUntil = input.ValidUntil
	}
	if input.Notes != nil {
		quote.Notes = *input.Notes
	}

	if err := config.DB.Save(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	// Reload to embed items; fall back to the updated struct if that fails
	config.DB.Preload("Items").First(&quote, "id = ?", quote.ID)
	c.JSON(http.StatusOK, quoteDetail(quote))
}

// DeleteQuote removes a quote together with its items
func DeleteQuote(c *gin.Context) {
	quoteID, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var quote models.Quote
	if err := tx.First(&quote, "id = ?", quoteID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote items")
		return
	}
	if err := tx.Delete(&quote).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
}

// ChangeQuoteStatus sets the quote status. Any declared status may be set
// from any other; only enum membership is validated.
func ChangeQuoteStatus(c *gin.Context) {
	quoteID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input ChangeStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Status.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote status: "+string(input.Status))
		return
	}

	var quote models.Quote
	if err := config.DB.Preload("Items").First(&quote, "id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	quote.Status = input.Status
	if err := config.DB.Save(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	c.JSON(http.StatusOK, quoteDetail(quote))
}

func quoteDetail(quote models.Quote) QuoteDetail {
	detail := QuoteDetail{
		Quote:         quote,
		CustomerName:  customerName(quote.CustomerID),
		StatusDisplay: quote.Status.Label(),
		Items:         make([]QuoteItemResponse, 0, len(quote.Items)),
	}
	if quote.OpportunityID != nil {
		var opportunity models.Opportunity
		if err := config.DB.Select("title").First(&opportunity, "id = ?", *quote.OpportunityID).Error; err == nil {
			detail.OpportunityTitle = opportunity.Title
		}
	}
	for _, item := range quote.Items {
		detail.Items = append(detail.Items, quoteItemResponse(item))
	}
	// Items are embedded via the response slice, not the model field
	detail.Quote.Items = nil
	return detail
}

func quoteItemCounts(quoteIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		QuoteID uuid.UUID
		Count   int64
	}
	err := config.DB.Model(&models.QuoteItem{}).
		Select("quote_id, COUNT(*) AS count").
		Where("quote_id IN ?", quoteIDs).
		Group("quote_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.QuoteID] = row.Count
	}
	return counts, nil
}
