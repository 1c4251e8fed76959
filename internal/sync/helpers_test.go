package sync

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/database/dbtest"
	"github.com/xelth-com/storesync/internal/wire"
	"gorm.io/gorm"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	db      *gorm.DB
	service *Service
	clock   *fakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := dbtest.Open(t)
	cat, err := catalog.NewRetail()
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc, err := NewService(db.DB, cat, Options{
		PushTimeout: 10 * time.Second,
		Audit:       true,
		Clock:       clock.Now,
	})
	require.NoError(t, err)

	return &harness{db: db.DB, service: svc, clock: clock}
}

func batchOf(t *testing.T, payload string) wire.Batch {
	t.Helper()
	var b wire.Batch
	require.NoError(t, json.Unmarshal([]byte(payload), &b))
	return b
}

func (h *harness) push(t *testing.T, payload string) (PushResult, error) {
	t.Helper()
	return h.pushAs(t, Principal{UserID: "admin", Admin: true}, payload)
}

func (h *harness) pushAs(t *testing.T, caller Principal, payload string) (PushResult, error) {
	t.Helper()
	return h.service.Push(context.Background(), PushRequest{DeviceID: "term-1", Caller: caller, Batch: batchOf(t, payload)})
}

func (h *harness) mustPush(t *testing.T, payload string) PushResult {
	t.Helper()
	res, err := h.push(t, payload)
	require.NoError(t, err)
	return res
}

func (h *harness) pull(t *testing.T, store string, since *time.Time) (*PullResult, error) {
	t.Helper()
	return h.service.Pull(context.Background(), PullRequest{DeviceID: "term-1", StoreID: store, Since: since})
}

func (h *harness) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Table(table).Count(&n).Error)
	return n
}

const seedStore = `{"stores": [{"id": "s1", "name": "Main Street"}]}`
