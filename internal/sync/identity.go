package sync

import (
	"log"

	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/normalizer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdentityReconciler maps an incoming record onto an existing record that shares
// its alternate key, so a terminal that minted a fresh local identity for a known
// principal updates that principal instead of creating a duplicate.
type IdentityReconciler struct{}

// Resolve returns the identity the record must be written under: the identity of
// an existing record with the same alternate key when one exists under a
// different identity, otherwise the incoming identity.
func (IdentityReconciler) Resolve(tx *gorm.DB, schema *catalog.EntitySchema, rec normalizer.Record) (string, error) {
	id := rec.ID(schema.Identity)
	if schema.AlternateKey == "" {
		return id, nil
	}
	key, _ := rec[schema.AlternateKey].(string)
	if key == "" {
		return id, nil
	}

	idColumn := schema.Column(schema.Identity)
	var existing []string
	err := tx.Table(schema.Table).
		Where(eq(schema.Column(schema.AlternateKey), key)).
		Where(clause.Neq{Column: clause.Column{Name: idColumn}, Value: id}).
		Limit(1).
		Pluck(idColumn, &existing).Error
	if err != nil {
		return "", err
	}
	if len(existing) == 0 {
		return id, nil
	}

	log.Printf("🔗 Sync: %s %s matches existing %s by %s, updating in place", schema.Name, id, existing[0], schema.AlternateKey)
	return existing[0], nil
}
