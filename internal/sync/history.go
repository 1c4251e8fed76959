package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/storesync/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Audit describes one finished push or pull
type Audit struct {
	Direction string
	DeviceID  string
	StoreID   string
	CallerID  string
	StartedAt time.Time
	Counts    map[string]int
	Err       error
}

// History persists audits. It writes outside the push transaction so an audit
// failure never affects the outcome of a batch.
type History struct {
	db      *gorm.DB
	enabled bool
}

// NewHistory creates a recorder; a disabled recorder drops every audit
func NewHistory(db *gorm.DB, enabled bool) *History {
	return &History{db: db, enabled: enabled}
}

// Record stores the audit row and advances the device's sync state on success
func (h *History) Record(ctx context.Context, a Audit) {
	if !h.enabled {
		return
	}

	completed := time.Now().UTC()
	entry := models.SyncHistory{
		ID:          uuid.NewString(),
		Direction:   a.Direction,
		Status:      "success",
		DeviceID:    a.DeviceID,
		StoreID:     a.StoreID,
		CallerID:    a.CallerID,
		StartedAt:   a.StartedAt,
		CompletedAt: &completed,
		Duration:    int(completed.Sub(a.StartedAt).Milliseconds()),
	}
	for _, n := range a.Counts {
		entry.Records += n
	}

	debug := map[string]interface{}{"counts": a.Counts}
	if a.Err != nil {
		entry.Status = "error"
		entry.Errors = 1
		entry.ErrorDetail = a.Err.Error()

		var rowErr *RowError
		if errors.As(a.Err, &rowErr) {
			debug["failed_type"] = rowErr.Type
			debug["failed_identity"] = rowErr.Identity
		}
	}
	if raw, err := json.Marshal(debug); err == nil {
		entry.DebugInfo = datatypes.JSON(raw)
	}

	db := h.db.WithContext(context.WithoutCancel(ctx))
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("⚠️  Failed to record sync history: %v", err)
	}

	if a.Err == nil && a.DeviceID != "" {
		if err := h.advance(db, a, entry.Records, completed); err != nil {
			log.Printf("⚠️  Failed to update sync state of device %s: %v", a.DeviceID, err)
		}
	}
}

func (h *History) advance(db *gorm.DB, a Audit, records int, at time.Time) error {
	state := models.DeviceSyncState{
		DeviceID:       a.DeviceID,
		StoreID:        a.StoreID,
		LastSyncStatus: "success",
		UpdatedAt:      at,
	}
	columns := []string{"store_id", "last_sync_status", "updated_at"}
	if a.Direction == models.DirectionPush {
		state.LastPushAt = &at
		state.RecordsPushed = records
		columns = append(columns, "last_push_at", "records_pushed")
	} else {
		state.LastPullAt = &at
		state.RecordsPulled = records
		columns = append(columns, "last_pull_at", "records_pulled")
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&state).Error
}

// Recent returns the latest audit rows, newest first
func (h *History) Recent(ctx context.Context, limit int) ([]models.SyncHistory, error) {
	if limit <= 0 {
		limit = 30
	}
	var history []models.SyncHistory
	err := h.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&history).Error
	return history, err
}
