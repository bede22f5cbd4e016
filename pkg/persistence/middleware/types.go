package middleware

import "github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"

// Middleware allows wrapping an EntityStore to add behavior.
type Middleware func(ports.EntityStore) ports.EntityStore

// Chain wraps store with the given middlewares. The first middleware is the
// outermost one and sees every call first.
func Chain(store ports.EntityStore, mws ...Middleware) ports.EntityStore {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			store = mws[i](store)
		}
	}
	return store
}
