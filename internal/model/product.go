package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceScale is the number of decimal places the price column keeps.
const PriceScale = 2

// MaxPrice is the largest price the price column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// Product is a catalog item. Category compares byte-wise so filtering is an exact match.
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;check:price >= 0"`
	Category    string          `json:"category" gorm:"type:varchar(100) COLLATE utf8mb4_bin;not null;index"`
	ImageURL    string          `json:"imageUrl" gorm:"size:512"`
	InStock     bool            `json:"inStock" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductInput is the payload for creating a product. InStock defaults to true when nil.
type ProductInput struct {
	Name        string
	Description string
	Price       *decimal.Decimal
	Category    string
	ImageURL    string
	InStock     *bool
}

// ProductUpdate carries the fields of a partial product update. Nil means "leave unchanged".
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	ImageURL    *string
	InStock     *bool
}

// ProductFilter narrows a catalog search. Every nil field is unconstrained; set
// fields combine with AND.
type ProductFilter struct {
	Category *string
	InStock  *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// Search matches name or description, case-insensitively.
	Search *string
}
