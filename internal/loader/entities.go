package loader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// Local YAML tags for opaque values.
const (
	tagDouble   = "!double"
	tagInt      = "!int"
	tagGeoPoint = "!geopoint"
)

// entityDTO is the decoded shape of one entity file item.
type entityDTO struct {
	Key  domain.Key     `mapstructure:"key"`
	Data map[string]any `mapstructure:"data"`
}

// ParseEntities decodes an entity document: either a list of items or a
// mapping with an "entities" list.
func ParseEntities(data []byte) ([]*domain.Entity, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse entity file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	raw, err := nodeValue(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if m, ok := raw.(map[string]any); ok {
		raw = m["entities"]
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("entity file must contain a list of entities")
	}

	entities := make([]*domain.Entity, 0, len(items))
	for i, item := range items {
		var dto entityDTO
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &dto,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(item); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		if len(dto.Key.Path) == 0 && dto.Key.Kind == "" {
			return nil, fmt.Errorf("entity %d: %w", i, domain.ErrNilKey)
		}

		key := dto.Key
		e, err := domain.NewEntity(&key, dto.Data)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// LoadEntities reads and decodes the entity file at path.
func LoadEntities(path string) ([]*domain.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity file: %w", err)
	}
	entities, err := ParseEntities(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entities, nil
}

// nodeValue converts a YAML node into plain Go values, turning the local tags
// into opaque domain values.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.ScalarNode:
		return scalarValue(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		if n.Tag == tagGeoPoint {
			var p struct {
				Latitude  float64 `yaml:"latitude"`
				Longitude float64 `yaml:"longitude"`
			}
			if err := n.Decode(&p); err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", n.Line, tagGeoPoint, err)
			}
			return domain.GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude}, nil
		}
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: unsupported node", n.Line)
}

func scalarValue(n *yaml.Node) (any, error) {
	switch n.Tag {
	case tagDouble:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", n.Line, tagDouble, n.Value)
		}
		return domain.Double(f), nil
	case tagInt:
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", n.Line, tagInt, n.Value)
		}
		return domain.Int(i), nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}
