package schema

import (
	"reflect"
	"strings"
	"time"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// Type is a type descriptor. Exactly five implementations exist and the kind of a
// descriptor is fixed when it is constructed:
//
//   - *PrimitiveType: matched by the value's Go kind, then by assignability.
//   - *OpaqueType:    matched by the value's explicit domain.ValueType tag.
//   - *PredicateType: matched by calling a function.
//   - Schema:         a nested object schema.
//   - *ArrayType:     a sequence whose elements match one descriptor.
//
// A nil Type is an absent descriptor.
type Type interface {
	// Name returns the tag name reported in violations (e.g. "String", "Double").
	Name() string
}

// Matcher is implemented by the scalar descriptors.
type Matcher interface {
	Type
	Match(value any) bool
}

// --- Primitive ---

// PrimitiveType matches values by runtime type class.
type PrimitiveType struct {
	name string
	// probe is the primary type-class check.
	probe func(reflect.Type) bool
	// instance is the secondary check: the value's type must be assignable to it.
	instance reflect.Type
}

func (t *PrimitiveType) Name() string { return t.name }

// Match reports whether value belongs to the primitive's class.
// Opaque values never satisfy the primary probe.
func (t *PrimitiveType) Match(value any) bool {
	value = indirect(value)
	if value == nil {
		return false
	}
	rt := reflect.TypeOf(value)
	if _, opaque := value.(domain.Valuer); !opaque && t.probe != nil && t.probe(rt) {
		return true
	}
	if t.instance == nil {
		return false
	}
	if t.instance.Kind() == reflect.Interface {
		return rt.Implements(t.instance)
	}
	return rt.AssignableTo(t.instance)
}

var (
	bytesType = reflect.TypeOf([]byte(nil))
	timeType  = reflect.TypeOf(time.Time{})
)

var (
	stringType = &PrimitiveType{
		name:  "String",
		probe: func(rt reflect.Type) bool { return rt.Kind() == reflect.String },
	}
	numberType = &PrimitiveType{
		name:  "Number",
		probe: isNumberKind,
	}
	booleanType = &PrimitiveType{
		name:  "Boolean",
		probe: func(rt reflect.Type) bool { return rt.Kind() == reflect.Bool },
	}
	arrayType = &PrimitiveType{
		name:  "Array",
		probe: isSequenceType,
	}
	objectType = &PrimitiveType{
		name:  "Object",
		probe: isRecordType,
	}
	bufferType = &PrimitiveType{
		name:     "Buffer",
		instance: bytesType,
	}
	dateType = &PrimitiveType{
		name:     "Date",
		instance: timeType,
	}
)

// String matches strings (and named string types).
func String() *PrimitiveType { return stringType }

// Number matches every integer and floating point kind.
func Number() *PrimitiveType { return numberType }

// Boolean matches bools.
func Boolean() *PrimitiveType { return booleanType }

// Array matches any slice or array except byte slices.
func Array() *PrimitiveType { return arrayType }

// Object matches maps keyed by strings and structs.
func Object() *PrimitiveType { return objectType }

// Buffer matches []byte.
func Buffer() *PrimitiveType { return bufferType }

// Date matches time.Time.
func Date() *PrimitiveType { return dateType }

// InstanceOf creates a class tag for an arbitrary Go type. Values match when their
// type is assignable to sample's type. To name an interface, pass a nil pointer to
// it, e.g. InstanceOf("Stringer", (*fmt.Stringer)(nil)).
func InstanceOf(name string, sample any) *PrimitiveType {
	rt := reflect.TypeOf(sample)
	if rt != nil && rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Interface {
		rt = rt.Elem()
	}
	return &PrimitiveType{name: name, instance: rt}
}

func isNumberKind(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isSequenceType(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return rt.Elem().Kind() != reflect.Uint8
	}
	return false
}

func isRecordType(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Map:
		return rt.Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	}
	return false
}

// --- Opaque ---

// OpaqueType matches framework values carrying an explicit domain.ValueType tag.
type OpaqueType struct {
	valueType domain.ValueType
}

func (t *OpaqueType) Name() string { return string(t.valueType) }

// Match reports whether value is tagged with the same ValueType.
func (t *OpaqueType) Match(value any) bool {
	v, ok := indirect(value).(domain.Valuer)
	return ok && v.ValueType() == t.valueType
}

// Opaque creates a descriptor for a framework value type.
func Opaque(vt domain.ValueType) *OpaqueType { return &OpaqueType{valueType: vt} }

// Double matches domain.Double values.
func Double() *OpaqueType { return Opaque(domain.ValueDouble) }

// Int matches domain.Int values.
func Int() *OpaqueType { return Opaque(domain.ValueInt) }

// GeoPoint matches domain.GeoPoint values.
func GeoPoint() *OpaqueType { return Opaque(domain.ValueGeoPoint) }

// --- Predicate ---

// PredicateType applies a user-defined check.
type PredicateType struct {
	name string
	expr string // set for predicates compiled by Expr
	fn   func(any) bool
}

func (t *PredicateType) Name() string {
	if t.name == "" {
		return "Function"
	}
	return t.name
}

// Match calls the predicate. A panicking predicate is a failed predicate.
func (t *PredicateType) Match(value any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return t.fn(value)
}

// Func creates a predicate descriptor.
func Func(fn func(any) bool) *PredicateType {
	return &PredicateType{fn: fn}
}

// NamedFunc creates a predicate descriptor with a name used when the schema is printed.
func NamedFunc(name string, fn func(any) bool) *PredicateType {
	return &PredicateType{name: name, fn: fn}
}

// --- Array ---

// ArrayType matches sequences whose elements match Elem.
type ArrayType struct {
	elem Type
}

func (t *ArrayType) Name() string {
	if t.elem == nil {
		return "[]"
	}
	return "[" + t.elem.Name() + "]"
}

// Elem returns the element descriptor.
func (t *ArrayType) Elem() Type { return t.elem }

// ArrayOf creates an array-of descriptor.
func ArrayOf(elem Type) *ArrayType { return &ArrayType{elem: elem} }

// --- Schema ---

// Field declares one property of a Schema.
type Field struct {
	Name string
	Type Type
}

// Schema is an ordered list of property declarations. Declaration order is the
// order in which violations are reported. A Schema is itself a Type, which is how
// nested objects are declared.
type Schema []Field

func (s Schema) Name() string { return "Object" }

// Lookup returns the descriptor declared for name.
func (s Schema) Lookup(name string) (Type, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Names returns the declared property names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// --- Helpers ---

// TypeName returns the class name of a runtime value, the counterpart of the tag
// names above. It is what violations report as "received" for opaque and array
// mismatches.
func TypeName(value any) string {
	value = indirect(value)
	if value == nil {
		return "null"
	}
	if v, ok := value.(domain.Valuer); ok {
		return string(v.ValueType())
	}

	rt := reflect.TypeOf(value)
	switch {
	case rt == timeType:
		return "Date"
	case rt.AssignableTo(bytesType):
		return "Buffer"
	case isNumberKind(rt):
		return "Number"
	case isSequenceType(rt):
		return "Array"
	case isRecordType(rt):
		return "Object"
	}

	switch rt.Kind() {
	case reflect.String:
		return "String"
	case reflect.Bool:
		return "Boolean"
	case reflect.Func:
		return "Function"
	}
	if rt.Name() != "" {
		return rt.Name()
	}
	return strings.TrimPrefix(rt.String(), "*")
}

// indirect dereferences pointers; nil pointers become nil.
func indirect(value any) any {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// isNilType reports absent descriptors, including typed nil pointers.
func isNilType(t Type) bool {
	if t == nil {
		return true
	}
	rv := reflect.ValueOf(t)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
