package sync

import (
	"context"
	"time"

	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/models"
	"github.com/xelth-com/storesync/internal/normalizer"
	"github.com/xelth-com/storesync/internal/wire"
	"gorm.io/gorm"
)

// PushRequest is one terminal upload
type PushRequest struct {
	DeviceID string
	Caller   Principal
	Batch    wire.Batch
}

// PullRequest is one terminal download
type PullRequest struct {
	DeviceID string
	CallerID string
	StoreID  string
	Since    *time.Time
}

// Service exposes push and pull with auditing
type Service struct {
	catalog *catalog.Catalog
	push    *PushReconciler
	pull    *PullResolver
	history *History
}

// NewService wires the reconcilers around one catalog and database
func NewService(db *gorm.DB, c *catalog.Catalog, opts Options) (*Service, error) {
	opts = opts.withDefaults()
	n := normalizer.New(c)

	push, err := NewPushReconciler(db, c, n, opts)
	if err != nil {
		return nil, err
	}
	return &Service{
		catalog: c,
		push:    push,
		pull:    NewPullResolver(db, c, n, opts),
		history: NewHistory(db, opts.Audit),
	}, nil
}

// Catalog returns the entity catalog the service was built with
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// History returns the audit recorder
func (s *Service) History() *History { return s.history }

// Push applies a batch and records the outcome
func (s *Service) Push(ctx context.Context, req PushRequest) (PushResult, error) {
	started := time.Now().UTC()
	result, err := s.push.Push(ctx, req.DeviceID, req.Caller, req.Batch)

	counts := make(map[string]int, len(result))
	for name, ids := range result {
		if len(ids) > 0 {
			counts[name] = len(ids)
		}
	}
	s.history.Record(ctx, Audit{
		Direction: models.DirectionPush,
		DeviceID:  req.DeviceID,
		StoreID:   req.Caller.StoreID,
		CallerID:  req.Caller.UserID,
		StartedAt: started,
		Counts:    counts,
		Err:       err,
	})
	return result, err
}

// Pull resolves the changes of a store and records the outcome
func (s *Service) Pull(ctx context.Context, req PullRequest) (*PullResult, error) {
	started := time.Now().UTC()
	result, err := s.pull.Pull(ctx, req.StoreID, req.Since)

	counts := make(map[string]int)
	if result != nil {
		for name, rows := range result.Updates {
			counts[name] = len(rows)
		}
	}
	s.history.Record(ctx, Audit{
		Direction: models.DirectionPull,
		DeviceID:  req.DeviceID,
		StoreID:   req.StoreID,
		CallerID:  req.CallerID,
		StartedAt: started,
		Counts:    counts,
		Err:       err,
	})
	return result, err
}
