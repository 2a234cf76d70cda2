package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CategoryID  uint             `gorm:"not null;index" json:"category_id"`
	Category    *Category        `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	Description string           `gorm:"type:text" json:"description,omitempty"`
	IsAvailable bool             `gorm:"not null" json:"is_available"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"variants"`
	CreatedAt   time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null" json:"updated_at"`
}

// ProductVariant mis. ukuran atau suhu minuman. Harga varian menggantikan
// harga produk.
type ProductVariant struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null" json:"-"`
	UpdatedAt time.Time       `gorm:"not null" json:"-"`
}

// HasVariant reports whether variantID belongs to the product.
func (p *Product) HasVariant(variantID uint) bool {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return true
		}
	}
	return false
}
