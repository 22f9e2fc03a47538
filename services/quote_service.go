package services

import (
	"mestizo-crm-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecalculateQuoteTotal rewrites a quote's cached total as the sum of
// qty * unit_price over its items. The recompute and the write happen in a
// single UPDATE so the total can never be observed stale relative to the item
// change it follows; callers run it inside the same transaction as that
// change. Concurrent writers serialize on the quote row lock the UPDATE takes.
func RecalculateQuoteTotal(tx *gorm.DB, quoteID uuid.UUID) error {
	return tx.Model(&models.Quote{}).
		Where("id = ?", quoteID).
		Update("total", gorm.Expr(
			"(SELECT COALESCE(SUM(qty * unit_price), 0) FROM quote_items WHERE quote_id = ?)",
			quoteID,
		)).Error
}

// QuoteTotal reads the current stored total for a quote.
func QuoteTotal(db *gorm.DB, quoteID uuid.UUID) (decimal.Decimal, error) {
	var quote models.Quote
	if err := db.Select("total").First(&quote, "id = ?", quoteID).Error; err != nil {
		return decimal.Zero, err
	}
	return quote.Total, nil
}
