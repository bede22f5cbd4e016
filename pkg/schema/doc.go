// Package schema is a recursive structural validator for loosely typed records.
//
// A Schema is an ordered list of property declarations. Each property carries a
// type descriptor: a primitive class (String, Number, ...), an opaque framework
// value (Double, Int, GeoPoint), a predicate, a nested Schema, or an array of any
// of those. Validate walks a record against a schema and returns every violation
// it finds instead of stopping at the first one.
//
// Basic usage:
//
//	person := schema.Schema{
//	    {"name", schema.String()},
//	    {"gpa", schema.Double()},
//	    {"favoriteNumbers", schema.ArrayOf(schema.Number())},
//	    {"address", schema.Schema{
//	        {"streetNumber", schema.Number()},
//	        {"zip", schema.Schema{{"firstPart", schema.Number()}}},
//	    }},
//	    {"fullName", schema.Func(func(v any) bool {
//	        s, ok := v.(string)
//	        return ok && strings.Contains(s, " ")
//	    })},
//	}
//
//	for _, msg := range schema.Validate(person, data) {
//	    fmt.Println(msg)
//	}
//
// Violations name the offending property by path. Nested objects are joined with
// "." and array elements with "[].":
//
//	Schema definition expected property: "isPremiumUser"
//	Schema definition violated for property: "gpa". Expected type: Double, received: Int
//	Schema definition violated for property: "address.zip.firstPart". Expected type: Number, received: "x"
//	Schema definition violated for property: "fullName"
//	Unexpected properties found: "extraData", "extraExtraData"
//
// Schemas can also be read from YAML or JSON documents, see ParseType and
// Schema.UnmarshalYAML. Predicates in documents are written as CEL expressions:
//
//	fullName: { $expr: "value.contains(' ')" }
//
// Validation is a pure function of its inputs: it performs no I/O, keeps no state
// between calls and may run concurrently.
package schema
