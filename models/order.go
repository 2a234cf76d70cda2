package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status order di dapur
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusReady      = "ready"
	OrderStatusServed     = "served"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Reference dikirim terminal POS; order dengan reference yang sama tidak
	// dibuat dua kali.
	Reference string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	TableID   uint            `gorm:"not null;index" json:"table_id"`
	Table     *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0.00" json:"total"`
	CreatedBy *uint           `gorm:"index" json:"created_by,omitempty"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}
