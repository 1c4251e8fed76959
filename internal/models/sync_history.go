package models

import (
	"time"

	"gorm.io/datatypes"
)

// Sync directions
const (
	DirectionPush = "push"
	DirectionPull = "pull"
)

// SyncHistory records each push or pull served to a terminal
type SyncHistory struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Direction   string         `gorm:"column:direction;type:varchar(10);not null;index" json:"direction"` // "push", "pull"
	Status      string         `gorm:"column:status;type:varchar(20);not null;index" json:"status"`       // "success", "error"
	DeviceID    string         `gorm:"column:device_id;type:varchar(50);index" json:"device_id"`
	StoreID     string         `gorm:"column:store_id;type:varchar(50);index" json:"store_id"`
	CallerID    string         `gorm:"column:caller_id;type:varchar(50)" json:"caller_id"`
	StartedAt   time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	Duration    int            `gorm:"column:duration;default:0" json:"duration"` // milliseconds
	Records     int            `gorm:"column:records;default:0" json:"records"`   // rows written or delivered
	Errors      int            `gorm:"column:errors;default:0" json:"errors"`
	ErrorDetail string         `gorm:"column:error_detail;type:text" json:"error_detail"`
	DebugInfo   datatypes.JSON `gorm:"column:debug_info" json:"debug_info"` // per type row counts, failing row
	CreatedAt   time.Time      `gorm:"column:created_at" json:"-"`
}

// TableName specifies the table name
func (SyncHistory) TableName() string {
	return "sync_history"
}

// DeviceSyncState tracks the last successful exchange per terminal
type DeviceSyncState struct {
	DeviceID       string     `gorm:"primaryKey;type:varchar(50)" json:"device_id"`
	StoreID        string     `gorm:"type:varchar(50);index" json:"store_id"`
	LastPushAt     *time.Time `json:"last_push_at"`
	LastPullAt     *time.Time `json:"last_pull_at"`
	LastSyncStatus string     `gorm:"type:varchar(50)" json:"last_sync_status"`
	RecordsPushed  int        `gorm:"default:0" json:"records_pushed"`
	RecordsPulled  int        `gorm:"default:0" json:"records_pulled"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (DeviceSyncState) TableName() string {
	return "device_sync_states"
}
