package models

import (
	"time"
)

// User is a login account. Email is the stable alternate key shared with terminals.
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (snake_case, as on the wire)
type User struct {
	ID          string     `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Email       string     `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Username    string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"-"`
	FirstName   string     `gorm:"type:varchar(150);default:''" json:"-"`
	LastName    string     `gorm:"type:varchar(150);default:''" json:"-"`
	Password    string     `gorm:"type:varchar(128);not null" json:"-"`
	Role        string     `gorm:"type:varchar(50);default:'staff'" json:"role"`
	StoreID     *string    `gorm:"type:varchar(50);index" json:"store_id"`
	Store       *Store     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Avatar      *string    `gorm:"type:text" json:"avatar"`
	DeviceID    *string    `gorm:"type:varchar(50)" json:"device_id"`
	IsActive    bool       `gorm:"default:true" json:"-"`
	IsStaff     bool       `gorm:"default:false" json:"-"`
	IsSuperuser bool       `gorm:"default:false" json:"-"`
	LastLogin   *time.Time `json:"-"`
	DateJoined  time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string { return "users" }

// DisplayName joins first and last name, falling back to the login name
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// IsAdmin reports whether the account may act on any store
func (u User) IsAdmin() bool {
	return u.IsSuperuser || u.Role == "admin" || u.Role == "super_admin"
}
