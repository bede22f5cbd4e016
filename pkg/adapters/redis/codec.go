package redis

import (
	"fmt"
	"strconv"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// typeTag marks an encoded opaque value inside a stored payload.
const typeTag = "$type"

// record is the stored payload of one entity.
type record struct {
	Kind string         `json:"kind"`
	Path []any          `json:"path"`
	Data map[string]any `json:"data"`
}

// encodeValue replaces opaque values with tagged objects so they survive JSON.
// Int is stored as a decimal string to keep 64-bit precision.
func encodeValue(v any) any {
	switch t := v.(type) {
	case domain.Double:
		return map[string]any{typeTag: string(domain.ValueDouble), "value": float64(t)}
	case domain.Int:
		return map[string]any{typeTag: string(domain.ValueInt), "value": strconv.FormatInt(int64(t), 10)}
	case domain.GeoPoint:
		return map[string]any{typeTag: string(domain.ValueGeoPoint), "latitude": t.Latitude, "longitude": t.Longitude}
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = encodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = encodeValue(val)
		}
		return out
	default:
		return v
	}
}

func decodeValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if tag, ok := t[typeTag].(string); ok {
			return decodeOpaque(domain.ValueType(tag), t)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			d, err := decodeValue(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = d
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			d, err := decodeValue(val)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = d
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeOpaque(vt domain.ValueType, m map[string]any) (any, error) {
	switch vt {
	case domain.ValueDouble:
		f, ok := m["value"].(float64)
		if !ok {
			return nil, fmt.Errorf("malformed %s value", vt)
		}
		return domain.Double(f), nil
	case domain.ValueInt:
		s, _ := m["value"].(string)
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed %s value: %w", vt, err)
		}
		return domain.Int(n), nil
	case domain.ValueGeoPoint:
		lat, ok1 := m["latitude"].(float64)
		lng, ok2 := m["longitude"].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("malformed %s value", vt)
		}
		return domain.GeoPoint{Latitude: lat, Longitude: lng}, nil
	}
	return nil, fmt.Errorf("unknown value type %q", vt)
}
