package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable stock item of one store
type Product struct {
	ID            string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU           *string         `gorm:"type:varchar(100);index" json:"sku"`
	Category      *string         `gorm:"type:varchar(100)" json:"category"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"selling_price"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"purchase_price"`
	Quantity      int64           `gorm:"default:0" json:"quantity"`
	StoreID       string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store         *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Unit          *string         `gorm:"type:varchar(50)" json:"unit"`
	Brand         *string         `gorm:"type:varchar(100)" json:"brand"`
	Barcode       *string         `gorm:"type:varchar(100);index" json:"barcode"`
	TaxSlabID     *string         `gorm:"type:varchar(50);index" json:"tax_slab_id"`
	TaxSlab       *TaxSlab        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	LastUsed      *time.Time      `json:"last_used"`
	IsDeleted     bool            `gorm:"default:false" json:"is_deleted"`
	DeviceID      *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt     time.Time       `gorm:"index" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// StockTransfer moves product quantity from one store to another
type StockTransfer struct {
	ID            string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	ProductID     string          `gorm:"type:varchar(50);not null;index" json:"product_id"`
	Product       *Product        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FromStoreID   string          `gorm:"type:varchar(50);not null;index" json:"from_store_id"`
	FromStore     *Store          `gorm:"foreignKey:FromStoreID;constraint:OnDelete:CASCADE" json:"-"`
	ToStoreID     string          `gorm:"type:varchar(50);not null;index" json:"to_store_id"`
	ToStore       *Store          `gorm:"foreignKey:ToStoreID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Status        string          `gorm:"type:varchar(50);default:'pending'" json:"status"`
	TransferredAt *time.Time      `json:"transferred_at"`
	DeviceID      *string         `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt     time.Time       `gorm:"index" json:"updated_at"`
}

func (StockTransfer) TableName() string { return "stock_transfers" }

// StockLog is an append-only record of a stock quantity change
type StockLog struct {
	ID             string          `gorm:"primaryKey;type:varchar(50)" json:"id"`
	ProductID      string          `gorm:"type:varchar(50);not null;index" json:"product_id"`
	Product        *Product        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProductName    string          `gorm:"type:varchar(255)" json:"product_name"`
	StoreID        string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Store          *Store          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuantityChange decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity_change"`
	Reason         string          `gorm:"type:varchar(100)" json:"reason"`
	ReferenceID    *string         `gorm:"type:varchar(100)" json:"reference_id"`
	DeviceID       *string         `gorm:"type:varchar(50)" json:"device_id"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}

func (StockLog) TableName() string { return "stock_logs" }
