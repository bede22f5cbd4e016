// Package loader reads schema files and entity files from disk.
//
// Schema files map kinds to schemas:
//
//	kinds:
//	  Person:
//	    name: String
//	    gpa: Double
//	    favoriteNumbers: [Number]
//	    fullName: { $expr: "value.contains(' ')" }
//
// Entity files list keys and data. Opaque values use local YAML tags:
//
//	- key: { path: [Person, doc] }
//	  data:
//	    gpa: !double 4
//	    visits: !int 12
//	    home: !geopoint { latitude: 40.7, longitude: -74 }
//
// JSON documents are accepted too, since they are valid YAML.
package loader
