// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Callers must treat the produced identifiers as opaque strings; the package
// lives under `internal` so that nothing depends on their exact shape.
package idgen
