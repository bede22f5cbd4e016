package domain

import "fmt"

// ValueType tags an opaque framework value.
// The set is closed: these are the wrappers the datastore hands out for values
// that have no native representation.
type ValueType string

const (
	ValueDouble   ValueType = "Double"
	ValueInt      ValueType = "Int"
	ValueGeoPoint ValueType = "GeoPoint"
)

// Valuer is implemented by opaque values. The validator matches them by their
// tag only, never by their underlying Go kind.
type Valuer interface {
	ValueType() ValueType
}

// Double is a float that must be stored as a double even when it holds a whole number.
type Double float64

func (Double) ValueType() ValueType { return ValueDouble }

// Int is an integer that must be stored as a 64-bit integer.
type Int int64

func (Int) ValueType() ValueType { return ValueInt }

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
}

func (GeoPoint) ValueType() ValueType { return ValueGeoPoint }

func (g GeoPoint) String() string {
	return fmt.Sprintf("(%g, %g)", g.Latitude, g.Longitude)
}

// ParseValueType maps a tag name to a known ValueType.
func ParseValueType(name string) (ValueType, bool) {
	switch vt := ValueType(name); vt {
	case ValueDouble, ValueInt, ValueGeoPoint:
		return vt, true
	default:
		return "", false
	}
}
