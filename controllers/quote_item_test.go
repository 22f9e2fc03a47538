package controllers

import (
	"net/http"
	"testing"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuoteItemRouter() *gin.Engine {
	return newTestRouter(func(api *gin.RouterGroup) {
		api.POST("/quote-items", CreateQuoteItem)
		api.GET("/quote-items", GetQuoteItems)
		api.PUT("/quote-items/:id", UpdateQuoteItem)
		api.DELETE("/quote-items/:id", DeleteQuoteItem)
	})
}

func seedQuote(t *testing.T) models.Quote {
	t.Helper()
	customer := seedCustomer(t, "Cliente Cotización")
	quote := models.Quote{CustomerID: customer.ID}
	require.NoError(t, config.DB.Create(&quote).Error)
	return quote
}

func quoteTotal(t *testing.T, quoteID uuid.UUID) decimal.Decimal {
	t.Helper()
	total, err := services.QuoteTotal(config.DB, quoteID)
	require.NoError(t, err)
	return total
}

func TestQuoteTotalFollowsItems(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newQuoteItemRouter()
	quote := seedQuote(t)

	// Two items: 2 x 150 + 1 x 75.50
	w := doJSON(t, r, http.MethodPost, "/api/quote-items", token, gin.H{
		"quote":      quote.ID,
		"name":       "Muro perimetral",
		"qty":        "2",
		"unit_price": "150",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var first QuoteItemResponse
	decodeJSON(t, w, &first)
	assert.True(t, first.LineTotal.Equal(decimal.RequireFromString("300")), "line_total = %s", first.LineTotal)

	w = doJSON(t, r, http.MethodPost, "/api/quote-items", token, gin.H{
		"quote":      quote.ID,
		"name":       "Pintura",
		"item_type":  "SERVICE",
		"unit_price": "75.5",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var second QuoteItemResponse
	decodeJSON(t, w, &second)
	// Qty defaults to 1
	assert.True(t, second.Qty.Equal(decimal.NewFromInt(1)))

	total := quoteTotal(t, quote.ID)
	assert.True(t, total.Equal(decimal.RequireFromString("375.5")), "total = %s", total)

	// Editing an item recalculates
	w = doJSON(t, r, http.MethodPut, "/api/quote-items/"+first.ID.String(), token, gin.H{"qty": "4"})
	require.Equal(t, http.StatusOK, w.Code)
	total = quoteTotal(t, quote.ID)
	assert.True(t, total.Equal(decimal.RequireFromString("675.5")), "total = %s", total)

	// Deleting an item recalculates
	w = doJSON(t, r, http.MethodDelete, "/api/quote-items/"+second.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	total = quoteTotal(t, quote.ID)
	assert.True(t, total.Equal(decimal.RequireFromString("600")), "total = %s", total)

	// Deleting the last item brings the total back to zero
	w = doJSON(t, r, http.MethodDelete, "/api/quote-items/"+first.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	total = quoteTotal(t, quote.ID)
	assert.True(t, total.IsZero(), "total = %s", total)
}

func TestQuoteItemValidation(t *testing.T) {
	setupTest(t)
	user := seedUser(t)
	token := authToken(t, user.ID)
	r := newQuoteItemRouter()
	quote := seedQuote(t)

	w := doJSON(t, r, http.MethodPost, "/api/quote-items", token, gin.H{
		"quote":      quote.ID,
		"name":       "Gratis",
		"qty":        "0",
		"unit_price": "10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/quote-items", token, gin.H{
		"quote":      quote.ID,
		"name":       "Descuento",
		"qty":        "1",
		"unit_price": "-5",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was written
	assert.True(t, quoteTotal(t, quote.ID).IsZero())
	var count int64
	config.DB.Model(&models.QuoteItem{}).Where("quote_id = ?", quote.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// A rejected update leaves the stored item and total untouched
	w = doJSON(t, r, http.MethodPost, "/api/quote-items", token, gin.H{
		"quote":      quote.ID,
		"name":       "Válido",
		"qty":        "2",
		"unit_price": "50",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var item QuoteItemResponse
	decodeJSON(t, w, &item)

	w = doJSON(t, r, http.MethodPut, "/api/quote-items/"+item.ID.String(), token, gin.H{"qty": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	total := quoteTotal(t, quote.ID)
	assert.True(t, total.Equal(decimal.RequireFromString("100")), "total = %s", total)

	// Unknown quote id is a bad request
	w = doJSON(t, r, http.MethodPost, "/api/quote-items", token, gin.H{
		"quote":      uuid.New(),
		"name":       "Huérfano",
		"unit_price": "10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
