package catalog

// Entity type names of the retail catalog
const (
	TypeStores            = "stores"
	TypeUsers             = "users"
	TypeAccounts          = "accounts"
	TypeExpenseCategories = "expense_categories"
	TypeTaxSlabs          = "tax_slabs"
	TypeCustomers         = "customers"
	TypeProducts          = "products"
	TypeQuotations        = "quotations"
	TypeSales             = "sales"
	TypePurchases         = "purchases"
	TypePurchaseOrders    = "purchase_orders"
	TypeStockTransfers    = "stock_transfers"
	TypeTransactions      = "transactions"
	TypeStockLogs         = "stock_logs"
	TypeLoyaltyPoints     = "loyalty_points"
	TypeCommissions       = "commissions"
)

// Payment instruments. Terminals only know cash, card and wallet.
var paymentInstrument = &Enum{
	Canonical:     []string{"cash", "card", "wallet", "bank", "upi", "cheque"},
	Wire:          []string{"cash", "card", "wallet"},
	Export:        map[string]string{"bank": "card", "upi": "card", "cheque": "card"},
	IngestDefault: "cash",
	ExportDefault: "card",
}

var userRole = &Enum{
	Canonical: []string{
		"admin", "staff", "hr_manager", "sales_manager", "inventory_manager",
		"accountant", "employee", "super_admin",
	},
	Wire: []string{
		"admin", "user", "hr_manager", "sales_manager", "inventory_manager",
		"accountant", "employee", "super_admin",
	},
	Ingest:        map[string]string{"user": "staff"},
	Export:        map[string]string{"staff": "user"},
	IngestDefault: "staff",
	ExportDefault: "user",
}

// closed returns an enum whose wire and canonical vocabularies are identical
func closed(fallback string, values ...string) *Enum {
	return &Enum{
		Canonical:     values,
		Wire:          values,
		IngestDefault: fallback,
		ExportDefault: fallback,
	}
}

func str(name string) Attribute { return Attribute{Name: name, Kind: KindString} }
func text(name string) Attribute { return Attribute{Name: name, Kind: KindText} }
func integer(name string) Attribute { return Attribute{Name: name, Kind: KindInt} }
func decimal(name string) Attribute { return Attribute{Name: name, Kind: KindDecimal} }
func boolean(name string) Attribute { return Attribute{Name: name, Kind: KindBool} }
func timestamp(name string) Attribute { return Attribute{Name: name, Kind: KindTime} }
func blob(name string) Attribute { return Attribute{Name: name, Kind: KindBlob} }

func ref(name, target string) Attribute {
	return Attribute{Name: name, Kind: KindRef, Ref: target}
}

func enum(name string, e *Enum) Attribute {
	return Attribute{Name: name, Kind: KindString, Enum: e}
}

func internal(a Attribute) Attribute {
	a.Internal = true
	return a
}

func folded(a Attribute) Attribute {
	a.Fold = true
	return a
}

// storeScoped builds a schema owned by the store referenced by its "store" attribute
func storeScoped(name string, attrs ...Attribute) EntitySchema {
	return EntitySchema{
		Name:       name,
		Attributes: attrs,
		Identity:   "id",
		StoreScope: "store",
		Watermark:  "updated_at",
	}
}

// appendOnly builds a store scoped schema whose rows are delivered by creation time
func appendOnly(name string, attrs ...Attribute) EntitySchema {
	s := storeScoped(name, attrs...)
	s.Watermark = "created_at"
	s.WatermarkMode = WatermarkOnCreate
	return s
}

// Retail returns the schema table of every syncable retail entity type,
// declared in dependency order.
func Retail() []EntitySchema {
	users := storeScoped(TypeUsers,
		str("id"),
		folded(str("email")),
		internal(folded(str("username"))),
		internal(str("first_name")),
		internal(str("last_name")),
		internal(str("password")),
		enum("role", userRole),
		ref("store", TypeStores),
		text("avatar"),
		str("device_id"),
		internal(boolean("is_active")),
		internal(boolean("is_staff")),
		internal(boolean("is_superuser")),
		internal(timestamp("last_login")),
		internal(timestamp("date_joined")),
		timestamp("updated_at"),
	)
	users.AlternateKey = "email"

	transfers := storeScoped(TypeStockTransfers,
		str("id"),
		ref("product", TypeProducts),
		ref("from_store", TypeStores),
		ref("to_store", TypeStores),
		decimal("quantity"),
		enum("status", closed("pending", "pending", "completed", "cancelled")),
		timestamp("transferred_at"),
		str("device_id"),
		timestamp("updated_at"),
	)
	transfers.StoreScope = "from_store"

	return []EntitySchema{
		{
			Name: TypeStores,
			Attributes: []Attribute{
				str("id"),
				str("name"),
				str("branch"),
				text("address"),
				str("phone"),
				str("device_id"),
				timestamp("updated_at"),
			},
			Identity:  "id",
			Watermark: "updated_at",
		},
		users,
		storeScoped(TypeAccounts,
			str("id"),
			str("name"),
			enum("type", paymentInstrument),
			decimal("balance"),
			ref("store", TypeStores),
			str("device_id"),
			timestamp("updated_at"),
		),
		storeScoped(TypeExpenseCategories,
			str("id"),
			str("name"),
			ref("parent", TypeExpenseCategories),
			ref("store", TypeStores),
			timestamp("updated_at"),
		),
		storeScoped(TypeTaxSlabs,
			str("id"),
			str("name"),
			decimal("percentage"),
			ref("store", TypeStores),
			timestamp("updated_at"),
		),
		storeScoped(TypeCustomers,
			str("id"),
			str("name"),
			str("phone"),
			str("email"),
			str("area"),
			decimal("credit_balance"),
			decimal("total_purchases"),
			ref("store", TypeStores),
			timestamp("joined_at"),
			str("device_id"),
			timestamp("updated_at"),
		),
		storeScoped(TypeProducts,
			str("id"),
			str("name"),
			str("sku"),
			str("category"),
			decimal("selling_price"),
			decimal("purchase_price"),
			integer("quantity"),
			ref("store", TypeStores),
			str("unit"),
			str("brand"),
			str("barcode"),
			ref("tax_slab", TypeTaxSlabs),
			timestamp("last_used"),
			boolean("is_deleted"),
			str("device_id"),
			timestamp("updated_at"),
		),
		storeScoped(TypeQuotations,
			str("id"),
			str("quotation_number"),
			blob("items"),
			decimal("total_amount"),
			str("customer_id"), // loose link, customers may be deleted on the terminal
			str("customer_name"),
			str("customer_phone"),
			ref("store", TypeStores),
			timestamp("date"),
			timestamp("expiry_date"),
			str("status"),
			text("notes"),
			str("device_id"),
			timestamp("updated_at"),
		),
		storeScoped(TypeSales,
			str("id"),
			str("invoice_number"),
			enum("type", closed("cash", "retail", "cash", "credit")),
			blob("items"),
			decimal("total_amount"),
			decimal("profit"),
			enum("payment_mode", paymentInstrument),
			ref("account", TypeAccounts),
			ref("customer", TypeCustomers),
			ref("store", TypeStores),
			timestamp("date"),
			str("quotation_id"),
			str("device_id"),
			timestamp("updated_at"),
		),
		storeScoped(TypePurchases,
			str("id"),
			str("invoice_number"),
			str("supplier"),
			enum("type", closed("cash", "cash", "credit")),
			blob("items"),
			decimal("total_amount"),
			ref("store", TypeStores),
			ref("account", TypeAccounts),
			timestamp("date"),
			str("device_id"),
			timestamp("updated_at"),
		),
		storeScoped(TypePurchaseOrders,
			str("id"),
			str("supplier"),
			blob("items"),
			decimal("total_amount"),
			enum("status", closed("draft", "draft", "sent", "received", "cancelled")),
			ref("store", TypeStores),
			timestamp("date"),
			str("device_id"),
			timestamp("updated_at"),
		),
		transfers,
		storeScoped(TypeTransactions,
			str("id"),
			enum("type", closed("expense", "cash_in", "cash_out", "expense", "sale_return")),
			decimal("amount"),
			text("description"),
			ref("customer", TypeCustomers),
			str("customer_name"),
			ref("store", TypeStores),
			ref("account", TypeAccounts),
			timestamp("date"),
			str("device_id"),
			timestamp("updated_at"),
		),
		appendOnly(TypeStockLogs,
			str("id"),
			ref("product", TypeProducts),
			str("product_name"),
			ref("store", TypeStores),
			decimal("quantity_change"),
			str("reason"),
			str("reference_id"),
			str("device_id"),
			timestamp("created_at"),
		),
		appendOnly(TypeLoyaltyPoints,
			str("id"),
			ref("customer", TypeCustomers),
			integer("points"),
			str("reason"),
			ref("sale", TypeSales),
			ref("store", TypeStores),
			timestamp("created_at"),
		),
		appendOnly(TypeCommissions,
			str("id"),
			ref("user", TypeUsers),
			ref("sale", TypeSales),
			decimal("amount"),
			decimal("percentage"),
			enum("status", closed("pending", "pending", "paid")),
			ref("store", TypeStores),
			timestamp("created_at"),
		),
	}
}

// NewRetail builds the catalog of retail entity types
func NewRetail() (*Catalog, error) {
	return New(Retail()...)
}
