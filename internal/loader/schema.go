package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/registry"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
)

// SchemaFile is the on-disk layout of a schema file.
type SchemaFile struct {
	Kinds map[string]schema.Schema `yaml:"kinds"`
}

// ParseSchemas decodes a schema document.
func ParseSchemas(data []byte) (*SchemaFile, error) {
	var f SchemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	if len(f.Kinds) == 0 {
		return nil, fmt.Errorf("schema file declares no kinds")
	}
	return &f, nil
}

// LoadSchemas reads and decodes the schema file at path.
func LoadSchemas(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	f, err := ParseSchemas(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// RegisterAll registers every kind of the file with reg.
func (f *SchemaFile) RegisterAll(reg *registry.Registry) {
	for kind, s := range f.Kinds {
		reg.Register(kind, s)
	}
}
