package cellbase

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// DAO binds a Cellbase to one worksheet and maps its records onto structs.
// Struct fields are matched to columns through the cellbase tag; an
// untagged field uses its name, "-" skips the field, and a field tagged
// row_idx carries the record's row index.
type DAO struct {
	cb        *Cellbase
	worksheet string
}

// NewDAO returns a DAO over the named worksheet.
func NewDAO(cb *Cellbase, worksheet string) *DAO {
	return &DAO{cb: cb, worksheet: worksheet}
}

// Query scans the matching records into dest, which must be a pointer to a
// slice of structs.
func (d *DAO) Query(ctx context.Context, where Where, dest interface{}) error {
	records, err := d.cb.Query(ctx, d.worksheet, where)
	if err != nil {
		return err
	}

	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice")
	}

	sliceVal := destVal.Elem()
	elemType := sliceVal.Type().Elem()

	for _, record := range records {
		elem := reflect.New(elemType)
		if err := UnmarshalRecord(record, elem.Interface()); err != nil {
			return err
		}
		sliceVal = reflect.Append(sliceVal, elem.Elem())
	}

	destVal.Elem().Set(sliceVal)
	return nil
}

// Insert appends the entity as a new row, writes the assigned row index
// back into its row_idx field and returns it. The entity must be a pointer
// to a struct so the write-back cannot fail after the row exists.
func (d *DAO) Insert(ctx context.Context, entity interface{}) (int, error) {
	if v := reflect.ValueOf(entity); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return 0, fmt.Errorf("entity must be a pointer to a struct")
	}
	record, err := MarshalRecord(entity)
	if err != nil {
		return 0, err
	}
	delete(record, ColRowIdx)

	rowIdx, err := d.cb.Insert(ctx, d.worksheet, record)
	if err != nil {
		return 0, err
	}
	if err := setRowIdx(entity, rowIdx); err != nil {
		return 0, err
	}
	return rowIdx, nil
}

// Update overwrites the entity's columns on the rows matching where. With
// a nil where the entity's row_idx selects the row.
func (d *DAO) Update(ctx context.Context, entity interface{}, where Where) (int, error) {
	record, err := MarshalRecord(entity)
	if err != nil {
		return 0, err
	}
	return d.cb.Update(ctx, d.worksheet, record, where)
}

// Delete removes the rows matching where.
func (d *DAO) Delete(ctx context.Context, where Where) (int, error) {
	return d.cb.Delete(ctx, d.worksheet, where)
}

// Traverse invokes fn on the cells of the rows matching where.
func (d *DAO) Traverse(ctx context.Context, fn func(*Cell) error, where Where, columns ...string) (int, error) {
	return d.cb.Traverse(ctx, d.worksheet, fn, where, columns...)
}

// Format applies a formatter to the cells of the rows matching where.
func (d *DAO) Format(ctx context.Context, f Formatter, where Where, columns ...string) (int, error) {
	return d.cb.Format(ctx, d.worksheet, f, where, columns...)
}

// Drop deletes the worksheet.
func (d *DAO) Drop(ctx context.Context) error {
	return d.cb.Drop(ctx, d.worksheet)
}

// Len returns the worksheet's number of data rows.
func (d *DAO) Len(ctx context.Context) (int, error) {
	t, err := d.cb.Table(ctx, d.worksheet)
	if err != nil {
		return 0, err
	}
	return t.Len(), nil
}

// MarshalRecord converts a struct into a Record keyed by column names.
// A zero row_idx field is treated as unset and omitted.
func MarshalRecord(entity interface{}) (Record, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity must be a struct")
	}

	t := v.Type()
	record := Record{}
	for i := 0; i < v.NumField(); i++ {
		name, ok := columnName(t.Field(i))
		if !ok {
			continue
		}
		if name == ColRowIdx {
			if idx, ok := toRowIdx(v.Field(i).Interface()); ok && idx > 0 {
				record[ColRowIdx] = idx
			}
			continue
		}
		record[name] = v.Field(i).Interface()
	}
	return record, nil
}

// UnmarshalRecord fills a struct from a Record. The target must be a
// pointer to a struct; columns absent from the record leave their fields
// untouched.
func UnmarshalRecord(record Record, entity interface{}) error {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("entity must be a pointer to a struct")
	}
	v = v.Elem()

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		name, ok := columnName(t.Field(i))
		if !ok {
			continue
		}
		value, ok := record[name]
		if !ok || value == nil {
			continue
		}
		if err := setField(v.Field(i), value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", t.Field(i).Name, err)
		}
	}
	return nil
}

func setRowIdx(entity interface{}, rowIdx int) error {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("entity must be a pointer to a struct")
	}
	v = v.Elem()

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if name, ok := columnName(t.Field(i)); ok && name == ColRowIdx {
			return setField(v.Field(i), rowIdx)
		}
	}
	return nil
}

func columnName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("cellbase")
	if tag == "-" || field.PkgPath != "" {
		return "", false
	}
	if tag != "" {
		return tag, true
	}
	return field.Name, true
}

func setField(field reflect.Value, value interface{}) error {
	if !field.CanSet() {
		return nil
	}

	valueStr := fmt.Sprintf("%v", value)

	switch field.Kind() {
	case reflect.String:
		field.SetString(valueStr)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
			field.SetUint(i)
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(valueStr, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(valueStr); err == nil {
			field.SetBool(b)
		}
	default:
		if field.Kind() == reflect.Struct || field.Kind() == reflect.Slice {
			data, _ := json.Marshal(value)
			json.Unmarshal(data, field.Addr().Interface())
		}
	}

	return nil
}
