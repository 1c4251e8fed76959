package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/normalizer"
	"github.com/xelth-com/storesync/internal/wire"
	"gorm.io/gorm"
)

// PullResult is the incremental snapshot of one store partition
type PullResult struct {
	Updates    map[string][]wire.Row
	ServerTime time.Time
}

// Count returns the number of delivered rows
func (r *PullResult) Count() int {
	n := 0
	for _, rows := range r.Updates {
		n += len(rows)
	}
	return n
}

// PullResolver produces the rows of a store that changed after a cursor
type PullResolver struct {
	db         *gorm.DB
	catalog    *catalog.Catalog
	normalizer *normalizer.Normalizer
	clock      Clock
	lag        time.Duration
}

// NewPullResolver creates a pull resolver. The cursor lag is never shorter than
// the push timeout: a push stamps its rows before it commits and may stay
// uncommitted for up to that long.
func NewPullResolver(db *gorm.DB, c *catalog.Catalog, n *normalizer.Normalizer, opts Options) *PullResolver {
	opts = opts.withDefaults()
	lag := opts.PullCursorLag
	if lag < opts.PushTimeout {
		lag = opts.PushTimeout
	}
	return &PullResolver{
		db:         db,
		catalog:    c,
		normalizer: n,
		clock:      opts.Clock,
		lag:        lag,
	}
}

// Pull returns every record of the store whose watermark is after since, or the
// whole partition when since is nil, grouped by entity type in declaration
// order. Types with no changes are omitted. ServerTime is read before any query
// runs and trails it by the cursor lag, so a record stamped by a push still in
// flight is delivered by the next pull rather than skipped. Rows inside the lag
// window may be delivered twice. Any failure aborts the whole pull.
func (r *PullResolver) Pull(ctx context.Context, storeID string, since *time.Time) (*PullResult, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, &ValidationError{Field: "store_id", Reason: "is required"}
	}

	serverTime := r.clock().Add(-r.lag)
	result := &PullResult{Updates: make(map[string][]wire.Row), ServerTime: serverTime}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := recordStore{db: tx}

		stores, err := r.catalog.Resolve(catalog.TypeStores)
		if err != nil {
			return err
		}
		found, err := store.exists(stores, storeID)
		if err != nil {
			return err
		}
		if !found {
			return &ValidationError{Field: "store_id", Reason: fmt.Sprintf("%q does not match a known store", storeID)}
		}

		for _, name := range r.catalog.Types() {
			schema, err := r.catalog.Resolve(name)
			if err != nil {
				return err
			}
			scope, err := r.catalog.ScopeFilter(name, storeID)
			if err != nil {
				return err
			}
			records, err := store.changed(schema, scope, since)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", name, err)
			}
			if len(records) == 0 {
				continue
			}

			rows := make([]wire.Row, 0, len(records))
			for _, rec := range records {
				row, err := r.normalizer.ToWire(name, rec)
				if err != nil {
					return fmt.Errorf("failed to export %s %s: %w", name, rec.ID(schema.Identity), err)
				}
				rows = append(rows, row)
			}
			result.Updates[name] = rows
		}
		return nil
	}, snapshotOptions(r.db))
	if err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			log.Printf("❌ Sync pull for store %s failed: %v", storeID, err)
		}
		return nil, err
	}

	return result, nil
}

// snapshotOptions makes every query of a pull read one consistent snapshot on
// PostgreSQL. SQLite transactions are already serializable.
func snapshotOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}
