package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a supplier invoice paid from an account
type Purchase struct {
	ID            string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_number"`
	Supplier      string          `gorm:"type:varchar(255);not null" json:"supplier"`
	Type          string          `gorm:"type:varchar(50);not null;default:'cash'" json:"type"`
	Items         string          `gorm:"type:text;not null;default:'[]'" json:"items"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	StoreID       string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store         *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AccountID     string          `gorm:"type:varchar(50);not null;index" json:"account_id"`
	Account       *Account        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date          time.Time       `gorm:"not null" json:"date"`
	DeviceID      *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt     time.Time       `gorm:"index" json:"updated_at"`
}

func (Purchase) TableName() string { return "purchases" }

// PurchaseOrder is an order sent to a supplier, not yet received
type PurchaseOrder struct {
	ID          string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Supplier    string          `gorm:"type:varchar(255);not null" json:"supplier"`
	Items       string          `gorm:"type:text;not null;default:'[]'" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status      string          `gorm:"type:varchar(50);default:'draft'" json:"status"`
	StoreID     string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store       *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date        time.Time       `gorm:"not null" json:"date"`
	DeviceID    *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt   time.Time       `gorm:"index" json:"updated_at"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }
