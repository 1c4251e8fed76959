package sync

import (
	"fmt"

	"github.com/xelth-com/storesync/internal/normalizer"
	"github.com/xelth-com/storesync/internal/utils"
)

const passwordAttribute = "password"

// serverOwned lists attributes a terminal may never set; they are dropped from
// pushed rows and stay under control of the back office.
var serverOwned = []string{"is_active", "is_staff", "is_superuser", "last_login", "date_joined"}

// Credentials guarantees no cleartext secret is stored and that accounts created
// offline can log in before their real credential syncs.
type Credentials struct {
	placeholder string
}

// NewCredentials hashes the placeholder once
func NewCredentials(placeholder string) (*Credentials, error) {
	if placeholder == "" {
		return nil, fmt.Errorf("placeholder password must not be empty")
	}
	hash, err := utils.HashPassword(placeholder)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}
	return &Credentials{placeholder: hash}, nil
}

// Apply rewrites the password attribute of rec in place. exists tells whether
// the record's identity is already stored; a stored credential is never
// replaced by the placeholder.
func (c *Credentials) Apply(rec normalizer.Record, exists bool) error {
	for _, name := range serverOwned {
		delete(rec, name)
	}

	raw, _ := rec[passwordAttribute].(string)
	switch {
	case raw == "" && exists:
		delete(rec, passwordAttribute)
	case raw == "":
		rec[passwordAttribute] = c.placeholder
	case utils.IsPasswordHash(raw):
	default:
		hash, err := utils.HashPassword(raw)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		rec[passwordAttribute] = hash
	}
	return nil
}
