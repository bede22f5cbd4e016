package schema

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// ArrayReport selects how failing array elements are reported.
type ArrayReport int

const (
	// ReportFirst reports only the first failing element, under "<prop>[].".
	ReportFirst ArrayReport = iota
	// ReportAll reports every failing element, under "<prop>[<index>].".
	ReportAll
)

// Validator walks schema/data pairs. The zero value is ready to use.
// A Validator holds no state between calls and is safe for concurrent use.
type Validator struct {
	arrayReport ArrayReport
}

// Option configures a Validator.
type Option func(*Validator)

// WithArrayReport selects the array element reporting policy.
func WithArrayReport(r ArrayReport) Option {
	return func(v *Validator) {
		v.arrayReport = r
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = &Validator{}

// Validate checks data against schema with the default (ReportFirst) policy.
// It never fails: problems are returned as violations, in declaration order,
// followed by a single message for undeclared properties.
func Validate(schema Schema, data any) Violations {
	return defaultValidator.Validate(schema, data)
}

// Validate checks data against schema. Data that is not a mapping is treated as
// an empty record.
func (v *Validator) Validate(schema Schema, data any) Violations {
	record, _ := asRecord(data)
	return v.walk(schema, record)
}

func (v *Validator) walk(schema Schema, record map[string]any) Violations {
	var out Violations
	declared := make(map[string]struct{}, len(schema))

	for _, f := range schema {
		declared[f.Name] = struct{}{}
		out = append(out, v.property(f.Name, f.Type, record)...)
	}

	if extra := undeclared(record, declared); len(extra) > 0 {
		out = append(out, unexpectedProperties(extra))
	}
	return out
}

func (v *Validator) property(prop string, t Type, record map[string]any) []string {
	if isNilType(t) {
		return []string{notFound(prop)}
	}

	value, ok := record[prop]
	if !ok {
		return []string{expectedProperty(prop)}
	}

	switch d := t.(type) {
	case Schema:
		return v.object(prop, d, value)
	case *ArrayType:
		return v.array(prop, d, value)
	default:
		return matchType(t, prop, value)
	}
}

func (v *Validator) object(prop string, schema Schema, value any) []string {
	record, ok := asRecord(value)
	if !ok {
		return []string{violatedType(prop, schema.Name(), TypeName(value))}
	}
	return withPathAll(v.walk(schema, record), prop+".")
}

func (v *Validator) array(prop string, t *ArrayType, value any) []string {
	items, ok := asSequence(value)
	if !ok {
		return []string{violatedType(prop, "Array", TypeName(value))}
	}

	var all []string
	for i, item := range items {
		errs := v.element(prop, t.elem, item)
		if len(errs) == 0 {
			continue
		}
		if v.arrayReport != ReportAll {
			return withPathAll(errs, prop+"[].")
		}
		all = append(all, withPathAll(errs, fmt.Sprintf("%s[%d].", prop, i))...)
	}
	return all
}

// element checks one array item. Scalar failures are reported under the array's
// own property name, so a bad item of "tags" ends up as "tags[].tags".
func (v *Validator) element(prop string, t Type, item any) []string {
	if isNilType(t) {
		return []string{notFound(prop)}
	}

	switch d := t.(type) {
	case Schema:
		record, ok := asRecord(item)
		if !ok {
			return []string{violatedType(prop, d.Name(), TypeName(item))}
		}
		return v.walk(d, record)
	case *ArrayType:
		return v.array(prop, d, item)
	}

	if sub, ok := asSequence(item); ok && !matches(t, item) {
		var errs []string
		for _, s := range sub {
			errs = append(errs, matchType(t, prop, s)...)
		}
		return errs
	}
	return matchType(t, prop, item)
}

// undeclared returns the record keys missing from declared, in lexical order.
func undeclared(record map[string]any, declared map[string]struct{}) []string {
	var extra []string
	for k := range record {
		if _, ok := declared[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

// asRecord views value as a property mapping. Maps keyed by strings are copied,
// structs are converted with domain.RecordFromStruct. Opaque values and dates are
// not records.
func asRecord(value any) (map[string]any, bool) {
	value = indirect(value)
	switch m := value.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return m, true
	case domain.Valuer, time.Time:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	case reflect.Struct:
		return domain.RecordFromStruct(value)
	}
	return nil, false
}

// asSequence views value as a list of items. Byte slices are buffers, not sequences.
func asSequence(value any) ([]any, bool) {
	value = indirect(value)
	if value == nil {
		return nil, false
	}
	if s, ok := value.([]any); ok {
		return s, true
	}

	rv := reflect.ValueOf(value)
	if !isSequenceType(rv.Type()) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
