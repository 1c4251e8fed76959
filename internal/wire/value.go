package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the scalar carried by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is one scalar of a wire row: a string, a number, a boolean or null.
// Nested JSON (arrays, objects) is kept as its raw text in a string Value.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
}

// Row is the flat key/value form exchanged with terminals
type Row map[string]Value

// Batch groups rows by entity type name
type Batch map[string][]Row

func Null() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int builds a number value from an integer
func Int(i int64) Value {
	return Number(json.Number(strconv.FormatInt(i, 10)))
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Num returns the number payload
func (v Value) Num() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

// BoolVal returns the boolean payload
func (v Value) BoolVal() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Text renders any non-null scalar as text
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}
	if v.kind == KindNull {
		return "null"
	}
	return v.Text()
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("wire: empty value")
	}

	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("wire: %w", err)
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("wire: %w", err)
		}
		*v = String(s)
		return nil
	case '[', '{':
		// opaque structure, e.g. sale line items
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return fmt.Errorf("wire: %w", err)
		}
		*v = String(buf.String())
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("wire: %w", err)
		}
		*v = Number(n)
		return nil
	}
}
