/*
Package ports defines the driven ports (interfaces) for schema-validated persistence.

These interfaces decouple validation from the concrete datastore, so the same
middleware can wrap an in-memory store, Redis, or any other backend.

# Key Interfaces

  - EntityStore: persists, loads and deletes entities by key.

RunEntityStoreContract checks that an implementation honours the interface.
*/
package ports
