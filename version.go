package dsschema

// Version is the library release, reported by the CLI.
const Version = "0.3.0"
