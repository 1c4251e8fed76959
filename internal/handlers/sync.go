package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xelth-com/storesync/internal/middleware"
	"github.com/xelth-com/storesync/internal/sync"
	"github.com/xelth-com/storesync/internal/wire"
)

// maxSyncBody bounds one push or pull request body
const maxSyncBody = 32 << 20

// PushBody is the terminal upload
type PushBody struct {
	DeviceID string     `json:"deviceId"`
	Payload  wire.Batch `json:"payload"`
}

// PullBody is the terminal download request
type PullBody struct {
	DeviceID string  `json:"deviceId"`
	StoreID  string  `json:"store_id"`
	LastSync *string `json:"last_sync"`
}

// push handles POST /api/sync/push
func (r *Router) push(w http.ResponseWriter, req *http.Request) {
	caller, _ := middleware.CallerFromContext(req.Context())

	var body PushBody
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxSyncBody)).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	log.Printf("📥 Sync push from device %q: %d entity types", body.DeviceID, len(body.Payload))

	result, err := r.sync.Push(req.Context(), sync.PushRequest{
		DeviceID: body.DeviceID,
		Caller: sync.Principal{
			UserID:  caller.ID,
			StoreID: caller.StoreID,
			Admin:   caller.Admin,
		},
		Batch: body.Payload,
	})
	if err != nil {
		respondSyncError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"synced_ids": result,
	})
}

// pull handles POST /api/sync/pull
func (r *Router) pull(w http.ResponseWriter, req *http.Request) {
	caller, _ := middleware.CallerFromContext(req.Context())

	var body PullBody
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxSyncBody)).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	storeID := strings.TrimSpace(body.StoreID)
	if storeID != "" && !caller.CanAccessStore(storeID) {
		respondError(w, http.StatusForbidden, "store_id does not belong to the caller")
		return
	}

	var since *time.Time
	if body.LastSync != nil && strings.TrimSpace(*body.LastSync) != "" {
		t, err := wire.ParseTime(*body.LastSync)
		if err != nil {
			respondError(w, http.StatusBadRequest, "last_sync is not a valid timestamp")
			return
		}
		since = &t
	}

	result, err := r.sync.Pull(req.Context(), sync.PullRequest{
		DeviceID: body.DeviceID,
		CallerID: caller.ID,
		StoreID:  storeID,
		Since:    since,
	})
	if err != nil {
		respondSyncError(w, err)
		return
	}
	log.Printf("📤 Sync pull for store %s: %d rows", storeID, result.Count())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"updates":     result.Updates,
		"server_time": wire.FormatTime(result.ServerTime),
	})
}

// history handles GET /api/sync/history for administrators
func (r *Router) history(w http.ResponseWriter, req *http.Request) {
	caller, _ := middleware.CallerFromContext(req.Context())
	if !caller.Admin {
		respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	entries, err := r.sync.History().Recent(req.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load sync history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"history": entries,
	})
}

// respondSyncError maps sync failures to HTTP statuses
func respondSyncError(w http.ResponseWriter, err error) {
	var vErr *sync.ValidationError
	var rowErr *sync.RowError
	var fErr *sync.ForbiddenError
	switch {
	case errors.As(err, &fErr):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &vErr), errors.As(err, &rowErr):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
