package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an invoice; Items holds the terminal's serialized line items verbatim
type Sale struct {
	ID            string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_number"`
	Type          string          `gorm:"type:varchar(50);not null;default:'cash'" json:"type"`
	Items         string          `gorm:"type:text;not null;default:'[]'" json:"items"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Profit        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"profit"`
	PaymentMode   string          `gorm:"type:varchar(50);not null;default:'cash'" json:"payment_mode"`
	AccountID     string          `gorm:"type:varchar(50);not null;index" json:"account_id"`
	Account       *Account        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CustomerID    *string         `gorm:"type:varchar(50);index" json:"customer_id"`
	Customer      *Customer       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StoreID       string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store         *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date          time.Time       `gorm:"not null" json:"date"`
	QuotationID   *string         `gorm:"type:varchar(50)" json:"quotation_id"`
	DeviceID      *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt     time.Time       `gorm:"index" json:"updated_at"`
}

func (Sale) TableName() string { return "sales" }

// Quotation is a priced offer that may later become a sale
type Quotation struct {
	ID              string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	QuotationNumber string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"quotation_number"`
	Items           string          `gorm:"type:text;not null;default:'[]'" json:"items"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CustomerID      *string         `gorm:"type:varchar(50)" json:"customer_id"`
	CustomerName    *string         `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone   *string         `gorm:"type:varchar(50)" json:"customer_phone"`
	StoreID         string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store           *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date            time.Time       `gorm:"not null" json:"date"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	Status          string          `gorm:"type:varchar(50);default:'draft'" json:"status"`
	Notes           *string         `gorm:"type:text" json:"notes"`
	DeviceID        *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`
}

func (Quotation) TableName() string { return "quotations" }

// Commission is earned by a user on a sale
type Commission struct {
	ID         string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	UserID     string          `gorm:"type:varchar(50);not null;index" json:"user_id"`
	User       *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SaleID     string          `gorm:"type:varchar(50);not null;index" json:"sale_id"`
	Sale       *Sale           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"percentage"`
	Status     string          `gorm:"type:varchar(50);default:'pending'" json:"status"`
	StoreID    string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store      *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
}

func (Commission) TableName() string { return "commissions" }
