package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/normalizer"
	"github.com/xelth-com/storesync/internal/wire"
	"gorm.io/gorm"
)

// PushResult lists, per entity type, the identities committed by one push.
// Every catalog type is present; types absent from the batch map to an empty list.
type PushResult map[string][]string

// Count returns the number of committed rows
func (r PushResult) Count() int {
	n := 0
	for _, ids := range r {
		n += len(ids)
	}
	return n
}

// PushReconciler applies terminal batches to the central store
type PushReconciler struct {
	db          *gorm.DB
	catalog     *catalog.Catalog
	normalizer  *normalizer.Normalizer
	identity    IdentityReconciler
	credentials *Credentials
	clock       Clock
	timeout     time.Duration
}

// NewPushReconciler creates a push reconciler
func NewPushReconciler(db *gorm.DB, c *catalog.Catalog, n *normalizer.Normalizer, opts Options) (*PushReconciler, error) {
	opts = opts.withDefaults()
	creds, err := NewCredentials(opts.PlaceholderPassword)
	if err != nil {
		return nil, err
	}
	return &PushReconciler{
		db:          db,
		catalog:     c,
		normalizer:  n,
		credentials: creds,
		clock:       opts.Clock,
		timeout:     opts.PushTimeout,
	}, nil
}

// pushStep holds the normalized rows of one entity type
type pushStep struct {
	schema  *catalog.EntitySchema
	records []normalizer.Record
}

// Push upserts every row of the batch in dependency order inside one
// transaction, on behalf of caller. Any failing or forbidden row rolls back the
// whole batch and is reported as a *RowError. The transaction is detached from
// ctx cancellation so a caller that disconnects mid-push still gets a clean
// commit or rollback; it is bounded by the configured push timeout instead.
func (p *PushReconciler) Push(ctx context.Context, deviceID string, caller Principal, batch wire.Batch) (PushResult, error) {
	plan, err := p.plan(batch)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	result := make(PushResult, len(p.catalog.Types()))
	for _, name := range p.catalog.DependencyOrder() {
		result[name] = []string{}
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockStores(tx, plan.stores()); err != nil {
			return fmt.Errorf("failed to lock store partitions: %w", err)
		}
		// Stamped once the partitions are held: the rows become visible at
		// most one push timeout later, which the pull cursor lag covers.
		now := p.clock()

		store := recordStore{db: tx}
		for _, step := range plan {
			seen := make(map[string]bool, len(step.records))
			for _, rec := range step.records {
				id, err := p.apply(tx, store, caller, step.schema, rec, now)
				if err != nil {
					return &RowError{Type: step.schema.Name, Identity: rec.ID(step.schema.Identity), Cause: err}
				}
				if !seen[id] {
					seen[id] = true
					result[step.schema.Name] = append(result[step.schema.Name], id)
				}
			}
		}
		return nil
	})
	if err != nil {
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			log.Printf("❌ Sync push from %s rolled back: %v", deviceID, err)
			return nil, err
		}
		log.Printf("❌ Sync push from %s failed: %v", deviceID, err)
		return nil, fmt.Errorf("push transaction failed: %w", err)
	}

	log.Printf("✅ Sync push from %s committed %d rows", deviceID, result.Count())
	return result, nil
}

// apply writes one canonical record and returns the identity it was stored
// under, which differs from the pushed one when the alternate key matched an
// existing record.
func (p *PushReconciler) apply(tx *gorm.DB, store recordStore, caller Principal, schema *catalog.EntitySchema, rec normalizer.Record, now time.Time) (string, error) {
	rec = rec.Clone()
	if schema.AlternateKey != "" {
		id, err := p.identity.Resolve(tx, schema, rec)
		if err != nil {
			return "", err
		}
		rec[schema.Identity] = id
	}
	id := rec.ID(schema.Identity)

	owner, exists, err := store.owner(schema, id)
	if err != nil {
		return id, err
	}
	if err := caller.authorize(schema, rec, owner, exists); err != nil {
		return id, err
	}

	if _, ok := schema.Attribute(passwordAttribute); ok {
		caller.restrictAccount(rec, id, exists)
		if err := p.credentials.Apply(rec, exists); err != nil {
			return id, err
		}
	}

	return id, store.upsert(schema, rec, exists, now)
}

type pushPlan []pushStep

// plan normalizes the batch outside the transaction and orders it by the
// catalog's dependency order. Unknown entity types are ignored.
func (p *PushReconciler) plan(batch wire.Batch) (pushPlan, error) {
	for name := range batch {
		if _, err := p.catalog.Resolve(name); err != nil {
			log.Printf("⚠️  Sync push: ignoring unknown entity type %q", name)
		}
	}

	var plan pushPlan
	for _, name := range p.catalog.DependencyOrder() {
		rows, ok := batch[name]
		if !ok || len(rows) == 0 {
			continue
		}
		schema, err := p.catalog.Resolve(name)
		if err != nil {
			return nil, err
		}

		records := make([]normalizer.Record, 0, len(rows))
		for _, row := range rows {
			rec, err := p.normalizer.ToCanonical(name, row)
			if err != nil {
				return nil, &RowError{Type: name, Identity: rawIdentity(schema, row), Cause: err}
			}
			if rec.ID(schema.Identity) == "" {
				return nil, &RowError{Type: name, Cause: fmt.Errorf("missing %s", schema.Identity)}
			}
			records = append(records, rec)
		}
		plan = append(plan, pushStep{schema: schema, records: parentsFirst(schema, records)})
	}
	return plan, nil
}

// stores returns the distinct store partitions the plan writes to
func (plan pushPlan) stores() []string {
	set := make(map[string]bool)
	for _, step := range plan {
		for _, rec := range step.records {
			var store string
			if step.schema.StoreScope == "" {
				store = rec.ID(step.schema.Identity)
			} else {
				store = rec.ID(step.schema.StoreScope)
			}
			if store != "" {
				set[store] = true
			}
		}
	}

	stores := make([]string, 0, len(set))
	for s := range set {
		stores = append(stores, s)
	}
	sort.Strings(stores)
	return stores
}

// parentsFirst orders rows of a self-referencing type so a row follows any row
// of the same batch it points to. Rows without such links keep their order.
func parentsFirst(schema *catalog.EntitySchema, records []normalizer.Record) []normalizer.Record {
	refs := schema.SelfReferences()
	if len(refs) == 0 || len(records) < 2 {
		return records
	}

	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.ID(schema.Identity)] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(records))
	ordered := make([]normalizer.Record, 0, len(records))

	var visit func(i int)
	visit = func(i int) {
		if state[i] != unvisited {
			return
		}
		state[i] = visiting
		for _, a := range refs {
			parent, _ := records[i][a.Name].(string)
			if j, ok := index[parent]; ok && j != i {
				visit(j)
			}
		}
		state[i] = done
		ordered = append(ordered, records[i])
	}
	for i := range records {
		visit(i)
	}
	return ordered
}

// rawIdentity reads the identity straight from the wire row for diagnostics
func rawIdentity(schema *catalog.EntitySchema, row wire.Row) string {
	a, ok := schema.Attribute(schema.Identity)
	if !ok {
		return ""
	}
	if v, ok := row[a.WireKey()]; ok && !v.IsNull() {
		return v.Text()
	}
	return ""
}
