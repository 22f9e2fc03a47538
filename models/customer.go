package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "INDIVIDUAL"
	CustomerTypeCompany    CustomerType = "COMPANY"
)

var customerTypeLabels = map[CustomerType]string{
	CustomerTypeIndividual: "Persona",
	CustomerTypeCompany:    "Empresa",
}

func (t CustomerType) Valid() bool {
	_, ok := customerTypeLabels[t]
	return ok
}

func (t CustomerType) Label() string {
	return customerTypeLabels[t]
}

// Customer is a client record, either an individual or a company.
// Contacts and addresses belong to it and are removed with it.
type Customer struct {
	ID    uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Type  CustomerType `gorm:"type:varchar(15);default:'INDIVIDUAL'" json:"type"`
	Name  string       `gorm:"not null" json:"name"`
	Phone string       `json:"phone"`
	Email string       `json:"email"`
	Notes string       `gorm:"type:text" json:"notes"`

	CreatedByID *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Contacts  []Contact `gorm:"foreignKey:CustomerID" json:"contacts,omitempty"`
	Addresses []Address `gorm:"foreignKey:CustomerID" json:"addresses,omitempty"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Contact is a person attached to a customer record.
type Contact struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer"`
	Name       string    `gorm:"not null" json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	RoleTitle  string    `json:"role_title"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Address is a location attached to a customer record.
type Address struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID        `gorm:"type:uuid;index;not null" json:"customer"`
	Label      string           `gorm:"default:'Principal'" json:"label"`
	City       string           `json:"city"`
	Zone       string           `json:"zone"`
	Details    string           `gorm:"type:text" json:"details"`
	Lat        *decimal.Decimal `gorm:"type:decimal(10,7)" json:"lat"`
	Lng        *decimal.Decimal `gorm:"type:decimal(10,7)" json:"lng"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
