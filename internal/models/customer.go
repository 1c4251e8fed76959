package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer of a store, with running credit and purchase totals
type Customer struct {
	ID             string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Phone          *string         `gorm:"type:varchar(50);index" json:"phone"`
	Email          *string         `gorm:"type:varchar(254)" json:"email"`
	Area           *string         `gorm:"type:varchar(100)" json:"area"`
	CreditBalance  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"credit_balance"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_purchases"`
	StoreID        string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store          *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	JoinedAt       *time.Time      `json:"joined_at"`
	DeviceID       *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt      time.Time       `gorm:"index" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// LoyaltyPoint is an append-only points grant or redemption
type LoyaltyPoint struct {
	ID         string    `gorm:"primaryKey;type:varchar(50)" json:"id"`
	CustomerID string    `gorm:"type:varchar(50);not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Points     int64     `gorm:"not null" json:"points"`
	Reason     *string   `gorm:"type:varchar(255)" json:"reason"`
	SaleID     *string   `gorm:"type:varchar(50);index" json:"sale_id"`
	Sale       *Sale     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	StoreID    string    `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store      *Store    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (LoyaltyPoint) TableName() string { return "loyalty_points" }
