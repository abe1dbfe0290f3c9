package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers for inbound events and spool envelopes.
// Tests stub it for stable fixture names.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as a string.
func New() string { return NewFunc() }
