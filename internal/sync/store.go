package sync

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/normalizer"
	"github.com/xelth-com/storesync/internal/wire"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordStore reads and writes canonical records through one gorm handle,
// usually a transaction
type recordStore struct {
	db *gorm.DB
}

func eq(column string, value interface{}) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func (s recordStore) exists(schema *catalog.EntitySchema, id string) (bool, error) {
	var count int64
	err := s.db.Table(schema.Table).
		Where(eq(schema.Column(schema.Identity), id)).
		Count(&count).Error
	return count > 0, err
}

// owner returns the store partition of a stored record and whether the record
// exists. The store entity is its own partition.
func (s recordStore) owner(schema *catalog.EntitySchema, id string) (string, bool, error) {
	column := schema.Column(schema.Identity)
	if schema.StoreScope != "" {
		column = schema.Column(schema.StoreScope)
	}

	var owners []sql.NullString
	err := s.db.Table(schema.Table).
		Where(eq(schema.Column(schema.Identity), id)).
		Limit(1).
		Pluck(column, &owners).Error
	if err != nil || len(owners) == 0 {
		return "", false, err
	}
	return owners[0].String, true, nil
}

// upsert inserts the record when found is false, otherwise updates only the
// supplied attributes. The watermark is stamped with now: on every write for
// update watermarks, on insert only for creation watermarks.
func (s recordStore) upsert(schema *catalog.EntitySchema, rec normalizer.Record, found bool, now time.Time) error {
	id := rec.ID(schema.Identity)

	values := make(map[string]interface{}, len(rec)+1)
	for name, v := range rec {
		if name == schema.Watermark {
			continue
		}
		a, ok := schema.Attribute(name)
		if !ok {
			continue
		}
		values[a.Column] = v
	}

	if !found {
		values[schema.Column(schema.Watermark)] = now
		return s.db.Table(schema.Table).Create(values).Error
	}

	delete(values, schema.Column(schema.Identity))
	if schema.WatermarkMode == catalog.WatermarkOnUpdate {
		values[schema.Column(schema.Watermark)] = now
	}
	if len(values) == 0 {
		return nil
	}
	return s.db.Table(schema.Table).
		Where(eq(schema.Column(schema.Identity), id)).
		Updates(values).Error
}

// changed loads the records of one store partition whose watermark is after
// since, oldest first. A nil since loads the whole partition.
func (s recordStore) changed(schema *catalog.EntitySchema, scope catalog.Predicate, since *time.Time) ([]normalizer.Record, error) {
	columns := make([]string, len(schema.Attributes))
	for i, a := range schema.Attributes {
		columns[i] = a.Column
	}

	q := s.db.Table(schema.Table).Select(columns).Scopes(scope.Scope())
	if since != nil {
		q = q.Where(clause.Gt{Column: clause.Column{Name: schema.Column(schema.Watermark)}, Value: *since})
	}

	var rows []map[string]interface{}
	err := q.Order(schema.Column(schema.Watermark)).
		Order(schema.Column(schema.Identity)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]normalizer.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(normalizer.Record, len(schema.Attributes))
		for _, a := range schema.Attributes {
			v, err := fromColumn(a, row[a.Column])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", schema.Table, a.Column, err)
			}
			rec[a.Name] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// fromColumn converts a scanned column value to the attribute's canonical type.
// Drivers disagree: SQLite returns int64 for booleans and float64 or int64 for
// numerics, PostgreSQL returns numerics as text.
func fromColumn(a catalog.Attribute, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	switch a.Kind {
	case catalog.KindString, catalog.KindText, catalog.KindRef, catalog.KindBlob:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil

	case catalog.KindInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int32:
			return int64(n), nil
		case int:
			return int64(n), nil
		case float64:
			return int64(n), nil
		case string:
			return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		}

	case catalog.KindDecimal:
		switch n := v.(type) {
		case decimal.Decimal:
			return n, nil
		case float64:
			return decimal.NewFromFloat(n), nil
		case float32:
			return decimal.NewFromFloat32(n), nil
		case int64:
			return decimal.NewFromInt(n), nil
		case int32:
			return decimal.NewFromInt32(n), nil
		case string:
			return decimal.NewFromString(strings.TrimSpace(n))
		}

	case catalog.KindBool:
		switch n := v.(type) {
		case bool:
			return n, nil
		case int64:
			return n != 0, nil
		case float64:
			return n != 0, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(n))
		}

	case catalog.KindTime:
		switch n := v.(type) {
		case time.Time:
			return n.UTC(), nil
		case string:
			return wire.ParseTime(n)
		}
	}

	return nil, fmt.Errorf("cannot read %T as %s", v, a.Kind)
}
