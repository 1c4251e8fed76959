package models

import "time"

// Store is a retail location; every other synced record belongs to one
type Store struct {
	ID        string    `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Branch    *string   `gorm:"type:varchar(255)" json:"branch"`
	Address   *string   `gorm:"type:text" json:"address"`
	Phone     *string   `gorm:"type:varchar(50)" json:"phone"`
	DeviceID  *string   `gorm:"type:varchar(50)" json:"device_id"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// TableName specifies the table name
func (Store) TableName() string { return "stores" }
