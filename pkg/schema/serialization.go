package schema

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"gopkg.in/yaml.v3"
)

// exprKey marks a mapping that declares a CEL predicate instead of a nested schema.
const exprKey = "$expr"

// ParseType converts a type string to a Type.
// Supports the built-in tags (String, Number, Boolean, Array, Object, Buffer, Date),
// the opaque tags (Double, Int, GeoPoint) and array forms such as "[String]".
// Matching is case-insensitive.
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elem, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	}

	switch strings.ToLower(typeStr) {
	case "string":
		return String(), nil
	case "number":
		return Number(), nil
	case "boolean", "bool":
		return Boolean(), nil
	case "array":
		return Array(), nil
	case "object":
		return Object(), nil
	case "buffer":
		return Buffer(), nil
	case "date":
		return Date(), nil
	}

	for _, vt := range []domain.ValueType{domain.ValueDouble, domain.ValueInt, domain.ValueGeoPoint} {
		if strings.EqualFold(typeStr, string(vt)) {
			return Opaque(vt), nil
		}
	}
	return nil, fmt.Errorf("unsupported type: %s", typeStr)
}

// ParseTypeMap converts a flat map of field names to type strings into a Schema.
// Go maps are unordered, so fields are declared in lexical order.
// Example: {"name": "String", "scores": "[Number]"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	names := make([]string, 0, len(typeMap))
	for name := range typeMap {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make(Schema, 0, len(typeMap))
	for _, name := range names {
		t, err := ParseType(typeMap[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		result = append(result, Field{Name: name, Type: t})
	}
	return result, nil
}

// UnmarshalYAML reads a schema from a YAML mapping, keeping declaration order.
//
//	name: String
//	tags: [String]
//	address:
//	  zip: Number
//	fullName: { $expr: "value.contains(' ')" }
//
// A null value declares a property without a descriptor.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	t, err := parseNode(node)
	if err != nil {
		return err
	}
	parsed, ok := t.(Schema)
	if !ok {
		return fmt.Errorf("line %d: schema must be a mapping", node.Line)
	}
	*s = parsed
	return nil
}

// UnmarshalJSON reads a schema from a JSON object, keeping declaration order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}
	if string(bytes.TrimSpace(data)) == "null" {
		*s = nil
		return nil
	}

	// JSON is valid YAML, and the YAML node tree preserves key order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	return s.UnmarshalYAML(&node)
}

func parseNode(n *yaml.Node) (Type, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		return parseNode(n.Content[0])
	case yaml.AliasNode:
		return parseNode(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		t, err := ParseType(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return t, nil
	case yaml.SequenceNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("line %d: array descriptor must contain exactly one element, got %d", n.Line, len(n.Content))
		}
		elem, err := parseNode(n.Content[0])
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	case yaml.MappingNode:
		if len(n.Content) == 2 && n.Content[0].Value == exprKey {
			p, err := Expr(n.Content[1].Value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return p, nil
		}
		s := make(Schema, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			t, err := parseNode(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			s = append(s, Field{Name: name, Type: t})
		}
		return s, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported schema node", n.Line)
	}
}

// MarshalJSON serializes the schema as an ordered object of type strings.
// Predicates created by Expr are written as {"$expr": "..."}; other predicates
// cannot be serialized.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := marshalType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalType(t Type) ([]byte, error) {
	if isNilType(t) {
		return []byte("null"), nil
	}
	switch d := t.(type) {
	case Schema:
		return d.MarshalJSON()
	case *ArrayType:
		elem, err := marshalType(d.elem)
		if err != nil {
			return nil, err
		}
		return append(append([]byte{'['}, elem...), ']'), nil
	case *PredicateType:
		if d.expr == "" {
			return nil, fmt.Errorf("predicate %s cannot be serialized", d.Name())
		}
		return json.Marshal(map[string]string{exprKey: d.expr})
	default:
		return json.Marshal(t.Name())
	}
}
