package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a cash drawer, bank account or wallet money moves through
type Account struct {
	ID        string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Type      string          `gorm:"type:varchar(50);not null;default:'cash'" json:"type"`
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"balance"`
	StoreID   string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store     *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DeviceID  *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt time.Time       `gorm:"index" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// ExpenseCategory groups expense transactions; categories nest through Parent
type ExpenseCategory struct {
	ID        string           `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name      string           `gorm:"type:varchar(255);not null" json:"name"`
	ParentID  *string          `gorm:"type:varchar(50);index" json:"parent_id"`
	Parent    *ExpenseCategory `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	StoreID   string           `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store     *Store           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UpdatedAt time.Time        `gorm:"index" json:"updated_at"`
}

func (ExpenseCategory) TableName() string { return "expense_categories" }

// TaxSlab is a tax rate applied to products
type TaxSlab struct {
	ID         string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"percentage"`
	StoreID    string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store      *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UpdatedAt  time.Time       `gorm:"index" json:"updated_at"`
}

func (TaxSlab) TableName() string { return "tax_slabs" }

// Transaction is a cash movement that is not a sale or purchase
type Transaction struct {
	ID           string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Type         string          `gorm:"type:varchar(50);not null" json:"type"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description  *string         `gorm:"type:text" json:"description"`
	CustomerID   *string         `gorm:"type:varchar(50);index" json:"customer_id"`
	Customer     *Customer       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CustomerName *string         `gorm:"type:varchar(255)" json:"customer_name"`
	StoreID      string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store        *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AccountID    string          `gorm:"type:varchar(50);not null;index" json:"account_id"`
	Account      *Account        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date         time.Time       `gorm:"not null" json:"date"`
	DeviceID     *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt    time.Time       `gorm:"index" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }
