// Package middleware provides EntityStore decorators.
//
// The central one is the validation middleware: it intercepts Save, checks each
// entity against the schema registered for its kind and rejects the whole batch
// with a *domain.ViolationError (code ESCHEMAVIOLATION) when anything is wrong.
//
//	store := middleware.Chain(redisStore,
//	    middleware.NewTracingMiddleware(tracer),
//	    middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: reg}),
//	)
package middleware
