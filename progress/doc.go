// Package progress defines primitives for reporting and aggregating the
// progress of page deliveries performed by the gopher server. It abstracts
// away the underlying consumption mechanism so that callers can observe
// delivery updates in a uniform way regardless of whether they are consumed
// by log statements, tests or external listeners.
package progress
