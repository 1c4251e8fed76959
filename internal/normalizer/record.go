package normalizer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the canonical form of an entity: canonical attribute names mapped to
// typed values (string, int64, decimal.Decimal, bool, time.Time or nil).
// An attribute missing from the map was not supplied and must be left untouched.
type Record map[string]interface{}

// ID returns the string value of the named attribute
func (r Record) ID(attr string) string {
	if v, ok := r[attr].(string); ok {
		return v
	}
	return ""
}

// Has reports whether the attribute was supplied, null included
func (r Record) Has(attr string) bool {
	_, ok := r[attr]
	return ok
}

// Clone copies the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Time returns the time value of the named attribute
func (r Record) Time(attr string) (time.Time, bool) {
	t, ok := r[attr].(time.Time)
	return t, ok
}

// Decimal returns the decimal value of the named attribute
func (r Record) Decimal(attr string) (decimal.Decimal, bool) {
	d, ok := r[attr].(decimal.Decimal)
	return d, ok
}
