package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
)

var quoteStatusLabels = map[QuoteStatus]string{
	QuoteStatusDraft:    "Borrador",
	QuoteStatusSent:     "Enviada",
	QuoteStatusAccepted: "Aceptada",
	QuoteStatusRejected: "Rechazada",
}

func (s QuoteStatus) Valid() bool {
	_, ok := quoteStatusLabels[s]
	return ok
}

func (s QuoteStatus) Label() string {
	return quoteStatusLabels[s]
}

// Quote is a priced proposal for a customer. Total is a cached value kept
// equal to the sum of qty*unit_price over its items; it is recomputed in the
// same transaction as every item write.
type Quote struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer"`
	OpportunityID *uuid.UUID      `gorm:"type:uuid;index" json:"opportunity"`
	Status        QuoteStatus     `gorm:"type:varchar(15);default:'DRAFT'" json:"status"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total"`
	ValidUntil    *time.Time      `json:"valid_until"`
	Notes         string          `gorm:"type:text" json:"notes"`

	CreatedByID *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}

type QuoteItemType string

const (
	QuoteItemTypeProduct QuoteItemType = "PRODUCT"
	QuoteItemTypeService QuoteItemType = "SERVICE"
)

var quoteItemTypeLabels = map[QuoteItemType]string{
	QuoteItemTypeProduct: "Producto",
	QuoteItemTypeService: "Servicio",
}

func (t QuoteItemType) Valid() bool {
	_, ok := quoteItemTypeLabels[t]
	return ok
}

func (t QuoteItemType) Label() string {
	return quoteItemTypeLabels[t]
}

// QuoteItem is one line of a quote. Qty must be > 0 and UnitPrice >= 0.
type QuoteItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"quote"`
	ItemType    QuoteItemType   `gorm:"type:varchar(10);default:'PRODUCT'" json:"item_type"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Qty         decimal.Decimal `gorm:"type:decimal(10,2);default:1" json:"qty"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i *QuoteItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// LineTotal is qty * unit_price, computed on demand.
func (i *QuoteItem) LineTotal() decimal.Decimal {
	return i.Qty.Mul(i.UnitPrice)
}
