/*
Package observability provides tools for monitoring schema validation.

Both Metrics and LogHooks produce domain.ValidationHooks, so they plug into the
validation middleware and can be combined with ValidationHooks.Merge.
*/
package observability
