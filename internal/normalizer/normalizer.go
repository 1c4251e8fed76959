package normalizer

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/wire"
	"golang.org/x/text/cases"
)

// Normalizer converts rows between the terminal wire form and canonical records.
// Both directions are pure; a Normalizer is safe for concurrent use.
type Normalizer struct {
	catalog *catalog.Catalog
}

// New creates a normalizer bound to a catalog
func New(c *catalog.Catalog) *Normalizer {
	return &Normalizer{catalog: c}
}

// FieldError reports the attribute that failed conversion
type FieldError struct {
	Attribute string
	Err       error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("attribute %s: %v", e.Attribute, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ToCanonical converts a wire row into a canonical record.
// Unknown keys are ignored; attributes absent from the row stay absent.
func (n *Normalizer) ToCanonical(typeName string, row wire.Row) (Record, error) {
	schema, err := n.catalog.Resolve(typeName)
	if err != nil {
		return nil, err
	}

	rec := make(Record, len(row))
	for _, a := range schema.Attributes {
		v, ok := lookup(row, a)
		if !ok {
			continue
		}
		cv, err := canonicalValue(a, v)
		if err != nil {
			return nil, &FieldError{Attribute: a.Name, Err: err}
		}
		rec[a.Name] = cv
	}

	if hook, ok := ingestHooks[typeName]; ok {
		hook(row, rec)
	}
	return rec, nil
}

// ToWire converts a canonical record into a wire row.
// Internal attributes are never emitted; foreign keys carry the _id suffix.
func (n *Normalizer) ToWire(typeName string, rec Record) (wire.Row, error) {
	schema, err := n.catalog.Resolve(typeName)
	if err != nil {
		return nil, err
	}

	row := make(wire.Row, len(rec))
	for _, a := range schema.Attributes {
		if a.Internal {
			continue
		}
		v, ok := rec[a.Name]
		if !ok {
			continue
		}
		wv, err := wireValue(a, v)
		if err != nil {
			return nil, &FieldError{Attribute: a.Name, Err: err}
		}
		row[a.WireKey()] = wv
	}

	if hook, ok := exportHooks[typeName]; ok {
		hook(rec, row)
	}
	return row, nil
}

// lookup finds the wire value for an attribute under its wire key, its canonical
// name or the camelCase spelling some terminal builds use
func lookup(row wire.Row, a catalog.Attribute) (wire.Value, bool) {
	for _, key := range []string{a.WireKey(), a.Name, camelCase(a.WireKey())} {
		if v, ok := row[key]; ok {
			return v, true
		}
	}
	return wire.Value{}, false
}

// camelCase converts snake_case to camelCase
func camelCase(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// FoldKey normalizes a lookup key such as an email address
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
