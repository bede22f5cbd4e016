/*
Package dsschema adds schema validation to an entity datastore.

Register a schema per kind, then save through the wrapper. Every entity of a
save is checked against the schema of its kind; if any of them is wrong, nothing
is written and the save fails with a *domain.ViolationError whose Code is
ESCHEMAVIOLATION. Kinds without a schema are saved unchecked.

# Usage

	ds, err := dsschema.New(memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}

	ds.Register("Person", schema.Schema{
		{Name: "name", Type: schema.String()},
		{Name: "gpa", Type: schema.Double()},
		{Name: "favoriteNumbers", Type: schema.ArrayOf(schema.Number())},
		{Name: "address", Type: schema.Schema{
			{Name: "zip", Type: schema.Number()},
		}},
	})

	e, _ := domain.NewEntity(ds.Key("Person"), map[string]any{"name": "Doc", "gpa": domain.Int(4)})
	if err := ds.Save(ctx, e); err != nil {
		if v, ok := domain.AsViolation(err); ok {
			for _, ke := range v.Errors {
				fmt.Println(ke.Kind, ke.Errors)
			}
		}
	}

The kind of an entity comes from its key: an explicit Kind, otherwise the kind
segment of the path ("Company/acme/Person/5" and "Company/acme/Person" are both
Person).

# Packages

  - pkg/schema: type descriptors and the validator itself.
  - pkg/persistence/middleware: the save interception, usable without this facade.
  - pkg/adapters/memory, pkg/adapters/redis: host stores.
  - pkg/observability: Prometheus metrics and log hooks.
*/
package dsschema
