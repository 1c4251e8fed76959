package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetailDependencyOrder(t *testing.T) {
	c, err := NewRetail()
	require.NoError(t, err)

	order := c.DependencyOrder()
	require.Len(t, order, 16)

	position := make(map[string]int, len(order))
	for i, name := range order {
		position[name] = i
	}

	for _, name := range order {
		s, err := c.Resolve(name)
		require.NoError(t, err)
		for _, ref := range s.References() {
			assert.Less(t, position[ref], position[name], "%s must come after %s", name, ref)
		}
	}

	assert.Equal(t, TypeStores, order[0])
	assert.Equal(t, TypeCommissions, order[len(order)-1])
}

func TestDependencyOrderIgnoresDeclarationOrder(t *testing.T) {
	c, err := New(
		EntitySchema{
			Name:       "products",
			Attributes: []Attribute{str("id"), ref("store", "stores"), timestamp("updated_at")},
			Identity:   "id",
			StoreScope: "store",
			Watermark:  "updated_at",
		},
		EntitySchema{
			Name:       "stores",
			Attributes: []Attribute{str("id"), timestamp("updated_at")},
			Identity:   "id",
			Watermark:  "updated_at",
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"stores", "products"}, c.DependencyOrder())
	assert.Equal(t, []string{"products", "stores"}, c.Types())
}

func TestCycleIsConfigurationError(t *testing.T) {
	_, err := New(
		EntitySchema{
			Name:       "a",
			Attributes: []Attribute{str("id"), ref("b", "b"), timestamp("updated_at")},
			Identity:   "id",
			Watermark:  "updated_at",
		},
		EntitySchema{
			Name:       "b",
			Attributes: []Attribute{str("id"), ref("a", "a"), timestamp("updated_at")},
			Identity:   "id",
			Watermark:  "updated_at",
		},
	)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "cycle")
}

func TestSelfReferenceIsNotACycle(t *testing.T) {
	c, err := New(EntitySchema{
		Name:       "categories",
		Attributes: []Attribute{str("id"), ref("parent", "categories"), timestamp("updated_at")},
		Identity:   "id",
		Watermark:  "updated_at",
	})
	require.NoError(t, err)

	s, err := c.Resolve("categories")
	require.NoError(t, err)
	assert.Empty(t, s.References())
	assert.Len(t, s.SelfReferences(), 1)
}

func TestUnknownReferenceIsConfigurationError(t *testing.T) {
	_, err := New(EntitySchema{
		Name:       "products",
		Attributes: []Attribute{str("id"), ref("store", "stores"), timestamp("updated_at")},
		Identity:   "id",
		Watermark:  "updated_at",
	})

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "products", cfgErr.Type)
}

func TestMissingWatermarkIsConfigurationError(t *testing.T) {
	_, err := New(EntitySchema{
		Name:       "stores",
		Attributes: []Attribute{str("id")},
		Identity:   "id",
		Watermark:  "updated_at",
	})

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestResolveUnknownType(t *testing.T) {
	c, err := NewRetail()
	require.NoError(t, err)

	_, err = c.Resolve("employees")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestScopeFilter(t *testing.T) {
	c, err := NewRetail()
	require.NoError(t, err)

	p, err := c.ScopeFilter(TypeStores, "store-1")
	require.NoError(t, err)
	assert.Equal(t, Predicate{Column: "id", Value: "store-1"}, p)

	p, err = c.ScopeFilter(TypeProducts, "store-1")
	require.NoError(t, err)
	assert.Equal(t, Predicate{Column: "store_id", Value: "store-1"}, p)

	p, err = c.ScopeFilter(TypeStockTransfers, "store-1")
	require.NoError(t, err)
	assert.Equal(t, Predicate{Column: "from_store_id", Value: "store-1"}, p)
}

func TestWireKeys(t *testing.T) {
	c, err := NewRetail()
	require.NoError(t, err)

	s, err := c.Resolve(TypeSales)
	require.NoError(t, err)

	a, ok := s.Attribute("account")
	require.True(t, ok)
	assert.Equal(t, "account_id", a.WireKey())
	assert.Equal(t, "account_id", a.Column)

	a, ok = s.Attribute("quotation_id")
	require.True(t, ok)
	assert.Equal(t, "quotation_id", a.WireKey())
}

func TestNewLeavesCallerSchemasUntouched(t *testing.T) {
	attrs := []Attribute{str("id"), ref("store", "stores"), timestamp("updated_at")}
	stores := EntitySchema{
		Name:       "stores",
		Attributes: []Attribute{str("id"), timestamp("updated_at")},
		Identity:   "id",
		Watermark:  "updated_at",
	}
	products := EntitySchema{Name: "products", Attributes: attrs, Identity: "id", StoreScope: "store", Watermark: "updated_at"}

	c, err := New(stores, products)
	require.NoError(t, err)

	s, err := c.Resolve("products")
	require.NoError(t, err)
	assert.Equal(t, "store_id", s.Column("store"))
	assert.Empty(t, attrs[1].Column)
	assert.Empty(t, products.Table)

	// the same declarations build a second, independent catalog
	_, err = New(stores, products)
	require.NoError(t, err)
}

func TestEnumMapping(t *testing.T) {
	assert.Equal(t, "staff", userRole.ToCanonical("user"))
	assert.Equal(t, "user", userRole.ToWire("staff"))
	assert.Equal(t, "staff", userRole.ToCanonical("cashier"))
	assert.Equal(t, "admin", userRole.ToWire(userRole.ToCanonical("admin")))

	assert.Equal(t, "card", paymentInstrument.ToWire("bank"))
	assert.Equal(t, "bank", paymentInstrument.ToCanonical("bank"))
	assert.Equal(t, "cash", paymentInstrument.ToCanonical("crypto"))
	assert.Equal(t, "card", paymentInstrument.ToWire("crypto"))
}

func TestEnumMustRoundTrip(t *testing.T) {
	e := &Enum{
		Canonical:     []string{"a", "b"},
		Wire:          []string{"x", "y"},
		Ingest:        map[string]string{"x": "a", "y": "a"},
		Export:        map[string]string{"a": "x"},
		IngestDefault: "a",
		ExportDefault: "x",
	}
	assert.Error(t, e.validate())
}
