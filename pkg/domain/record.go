package domain

import (
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// RecordFromStruct converts a struct (or a pointer to one) into a property mapping.
// Exported fields are keyed by their mapstructure tag, falling back to the field
// name; "-" skips a field and the omitempty and squash options are honoured.
// Nested structs become nested mappings. Opaque values and time.Time are kept as
// they are so their type survives.
func RecordFromStruct(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || isLeafStruct(rv) {
		return nil, false
	}

	out := make(map[string]any, rv.NumField())
	structFields(rv, out)
	return out, true
}

func structFields(rv reflect.Value, out map[string]any) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}

		name, squash, omitEmpty := fieldTag(f)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if squash && fv.Kind() == reflect.Struct {
			structFields(fv, out)
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}

		if m, ok := RecordFromStruct(fv.Interface()); ok {
			out[name] = m
			continue
		}
		out[name] = fv.Interface()
	}
}

func fieldTag(f reflect.StructField) (name string, squash, omitEmpty bool) {
	parts := strings.Split(f.Tag.Get("mapstructure"), ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "squash":
			squash = true
		case "omitempty":
			omitEmpty = true
		}
	}
	return name, squash, omitEmpty
}

// isLeafStruct reports structs that are values in their own right, not records.
func isLeafStruct(rv reflect.Value) bool {
	if rv.Type() == timeType {
		return true
	}
	_, opaque := rv.Interface().(Valuer)
	return opaque
}
