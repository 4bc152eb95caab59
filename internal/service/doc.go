// Package service implements the application's business operations on top of
// the store interfaces. Services own orchestration concerns (code generation
// loops, best-effort completion tracking) and translate store errors into
// service-level ones for the API layer.
package service
