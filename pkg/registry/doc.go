// Package registry holds the kind to schema mapping consulted on every save.
package registry
