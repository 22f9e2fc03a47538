package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogItemType string

const (
	CatalogItemTypeProduct CatalogItemType = "PRODUCT"
	CatalogItemTypeService CatalogItemType = "SERVICE"
)

var catalogItemTypeLabels = map[CatalogItemType]string{
	CatalogItemTypeProduct: "Producto",
	CatalogItemTypeService: "Servicio",
}

func (t CatalogItemType) Valid() bool {
	_, ok := catalogItemTypeLabels[t]
	return ok
}

func (t CatalogItemType) Label() string {
	return catalogItemTypeLabels[t]
}

// CatalogItem is a product or service in the price list. PriceRef is a
// reference price only; quotes carry their own unit prices.
type CatalogItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Type        CatalogItemType `gorm:"type:varchar(10);default:'PRODUCT'" json:"type"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `json:"category"`
	PriceRef    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"price_ref"`
	Active      bool            `gorm:"default:true" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i *CatalogItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
