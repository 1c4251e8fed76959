package sync

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/normalizer"
)

func TestFromColumnHandlesDriverTypes(t *testing.T) {
	when := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		kind catalog.Kind
		in   interface{}
		want interface{}
	}{
		{"nil", catalog.KindString, nil, nil},
		{"bytes as string", catalog.KindText, []byte("note"), "note"},
		{"int64", catalog.KindInt, int64(7), int64(7)},
		{"float as int", catalog.KindInt, float64(7), int64(7)},
		{"text as int", catalog.KindInt, "42", int64(42)},
		{"sqlite bool", catalog.KindBool, int64(1), true},
		{"sqlite numeric bool", catalog.KindBool, float64(0), false},
		{"postgres bool", catalog.KindBool, true, true},
		{"time", catalog.KindTime, when, when},
		{"time as text", catalog.KindTime, "2024-05-01 10:30:00+00:00", when},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromColumn(catalog.Attribute{Name: "x", Kind: tt.kind}, tt.in)
			require.NoError(t, err)
			if want, ok := tt.want.(time.Time); ok {
				assert.True(t, want.Equal(got.(time.Time)))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []interface{}{float64(12.5), "12.50", []byte("12.5"), int64(12)} {
		got, err := fromColumn(catalog.Attribute{Name: "x", Kind: catalog.KindDecimal}, in)
		require.NoError(t, err)
		assert.True(t, got.(decimal.Decimal).Equal(decimal.RequireFromString("12.5")) ||
			got.(decimal.Decimal).Equal(decimal.NewFromInt(12)), "%v", in)
	}

	_, err := fromColumn(catalog.Attribute{Name: "x", Kind: catalog.KindBool}, "maybe")
	assert.Error(t, err)
}

func TestParentsFirstKeepsUnrelatedOrder(t *testing.T) {
	cat, err := catalog.NewRetail()
	require.NoError(t, err)
	schema, err := cat.Resolve(catalog.TypeExpenseCategories)
	require.NoError(t, err)

	recs := []normalizer.Record{
		{"id": "b"},
		{"id": "child", "parent": "a"},
		{"id": "a"},
		{"id": "loop1", "parent": "loop2"},
		{"id": "loop2", "parent": "loop1"},
	}
	var got []string
	for _, r := range parentsFirst(schema, recs) {
		got = append(got, r.ID("id"))
	}
	assert.Equal(t, []string{"b", "a", "child", "loop2", "loop1"}, got)
}

func TestPushPlanStores(t *testing.T) {
	cat, err := catalog.NewRetail()
	require.NoError(t, err)
	stores, _ := cat.Resolve(catalog.TypeStores)
	transfers, _ := cat.Resolve(catalog.TypeStockTransfers)

	plan := pushPlan{
		{schema: stores, records: []normalizer.Record{{"id": "s2"}}},
		{schema: transfers, records: []normalizer.Record{
			{"id": "t1", "from_store": "s1", "to_store": "s2"},
			{"id": "t2", "to_store": "s3"},
		}},
	}
	assert.Equal(t, []string{"s1", "s2"}, plan.stores())
}
