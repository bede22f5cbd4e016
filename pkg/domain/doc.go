/*
Package domain contains the core domain models shared by the schema validator,
the stores it guards and the middleware that glues them together.

This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Key: Identifies a record by its ancestry path of alternating kind/identifier segments.
  - Entity: A Key plus the data mapping that gets validated and persisted.
  - Valuer: Opaque framework values (Double, Int, GeoPoint) that carry an explicit type tag.
  - ViolationError: The aggregate ESCHEMAVIOLATION failure returned by a rejected save.
*/
package domain
