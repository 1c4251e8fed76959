package models

// Synced returns one zero value per synced table, parents before children
func Synced() []interface{} {
	return []interface{}{
		&Store{},
		&User{},
		&Account{},
		&ExpenseCategory{},
		&TaxSlab{},
		&Customer{},
		&Product{},
		&Quotation{},
		&Sale{},
		&Purchase{},
		&PurchaseOrder{},
		&StockTransfer{},
		&Transaction{},
		&StockLog{},
		&LoyaltyPoint{},
		&Commission{},
	}
}

// All returns every model managed by AutoMigrate
func All() []interface{} {
	return append(Synced(), &SyncHistory{}, &DeviceSyncState{})
}
