package sync

import (
	"fmt"

	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/normalizer"
)

const roleAttribute = "role"

// Principal is the caller a push is applied for. Administrators write any
// store; everyone else writes only rows of their own store.
type Principal struct {
	UserID  string
	StoreID string
	Admin   bool
}

// authorize checks that the caller may write rec. owner is the store the stored
// record belongs to when exists is true.
func (c Principal) authorize(schema *catalog.EntitySchema, rec normalizer.Record, owner string, exists bool) error {
	if c.Admin {
		return nil
	}
	if c.StoreID == "" {
		return &ForbiddenError{Reason: "caller has no store"}
	}
	if exists && owner != c.StoreID {
		return &ForbiddenError{Reason: fmt.Sprintf("record belongs to store %q", owner)}
	}

	target := owner
	if schema.StoreScope == "" {
		target = rec.ID(schema.Identity)
	} else if rec.Has(schema.StoreScope) {
		target = rec.ID(schema.StoreScope)
	}
	if target != c.StoreID {
		return &ForbiddenError{Reason: fmt.Sprintf("store %q is not the caller's store", target)}
	}
	return nil
}

// restrictAccount drops the account attributes a non-admin caller may not set:
// the role always, the password unless the record is new or is the caller's own.
func (c Principal) restrictAccount(rec normalizer.Record, id string, exists bool) {
	if c.Admin {
		return
	}
	delete(rec, roleAttribute)
	if exists && id != c.UserID {
		delete(rec, passwordAttribute)
	}
}
