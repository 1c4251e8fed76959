package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/wire"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds
const epochMillisThreshold = 100_000_000_000

// canonicalValue converts one wire scalar to the attribute's canonical type
func canonicalValue(a catalog.Attribute, v wire.Value) (interface{}, error) {
	if v.IsNull() {
		return nil, nil
	}

	switch a.Kind {
	case catalog.KindString, catalog.KindText, catalog.KindRef, catalog.KindBlob:
		s := v.Text()
		if a.Fold {
			s = FoldKey(s)
		}
		if a.Enum != nil {
			s = a.Enum.ToCanonical(s)
		}
		return s, nil

	case catalog.KindInt:
		return parseInt(v)

	case catalog.KindDecimal:
		if b, ok := v.BoolVal(); ok {
			return decimal.NewFromInt(boolInt(b)), nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v.Text()))
		if err != nil {
			return nil, fmt.Errorf("not a decimal: %s", v)
		}
		return d, nil

	case catalog.KindBool:
		return parseBool(v)

	case catalog.KindTime:
		if n, ok := v.Num(); ok {
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("not a timestamp: %s", v)
			}
			if i >= epochMillisThreshold {
				return time.UnixMilli(i).UTC(), nil
			}
			return time.Unix(i, 0).UTC(), nil
		}
		t, err := wire.ParseTime(v.Text())
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	return nil, fmt.Errorf("unsupported attribute kind %q", a.Kind)
}

func parseInt(v wire.Value) (int64, error) {
	if b, ok := v.BoolVal(); ok {
		return boolInt(b), nil
	}
	s := strings.TrimSpace(v.Text())
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	// terminals sometimes send 3.0 for integer columns
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("not an integer: %s", v)
	}
	return d.IntPart(), nil
}

func parseBool(v wire.Value) (bool, error) {
	if b, ok := v.BoolVal(); ok {
		return b, nil
	}
	switch strings.ToLower(strings.TrimSpace(v.Text())) {
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %s", v)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// wireValue converts one canonical value to its wire scalar
func wireValue(a catalog.Attribute, v interface{}) (wire.Value, error) {
	if v == nil {
		return wire.Null(), nil
	}

	switch a.Kind {
	case catalog.KindString, catalog.KindText, catalog.KindRef, catalog.KindBlob:
		s, ok := v.(string)
		if !ok {
			return wire.Value{}, fmt.Errorf("expected string, got %T", v)
		}
		if a.Enum != nil {
			s = a.Enum.ToWire(s)
		}
		return wire.String(s), nil

	case catalog.KindInt:
		i, ok := v.(int64)
		if !ok {
			return wire.Value{}, fmt.Errorf("expected int64, got %T", v)
		}
		return wire.Int(i), nil

	case catalog.KindDecimal:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return wire.Value{}, fmt.Errorf("expected decimal, got %T", v)
		}
		return wire.Number(jsonNumber(d)), nil

	case catalog.KindBool:
		b, ok := v.(bool)
		if !ok {
			return wire.Value{}, fmt.Errorf("expected bool, got %T", v)
		}
		// the terminal store has no boolean type
		return wire.Int(boolInt(b)), nil

	case catalog.KindTime:
		t, ok := v.(time.Time)
		if !ok {
			return wire.Value{}, fmt.Errorf("expected time, got %T", v)
		}
		return wire.String(wire.FormatTime(t)), nil
	}

	return wire.Value{}, fmt.Errorf("unsupported attribute kind %q", a.Kind)
}
