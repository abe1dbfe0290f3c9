// Package model contains the in-memory representation of per-node
// navigation state used by the mesh gopher server.
//
// A Session is a plain value: command processing never mutates one in
// place but derives a new value and hands it to the session manager,
// which performs an atomic replace-by-node. The helpers on Session
// encode the navigation rules (parent resolution, listing lookups,
// pagination cursors) so that the orchestrator stays a thin state
// machine over them.
package model
