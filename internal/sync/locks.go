package sync

import (
	"sort"

	"gorm.io/gorm"
)

// lockStores serializes pushes that touch the same store partitions. On
// PostgreSQL it takes a transaction-scoped advisory lock per store in sorted
// order so two batches can never wait on each other crosswise. SQLite already
// admits a single writer.
func lockStores(tx *gorm.DB, stores []string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}

	sorted := append([]string(nil), stores...)
	sort.Strings(sorted)
	for _, store := range sorted {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "storesync:"+store).Error; err != nil {
			return err
		}
	}
	return nil
}
