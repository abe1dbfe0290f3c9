// Package meshgopher serves a gopher-style menu browser to nodes on a
// bandwidth-constrained mesh radio network.
//
// Nodes send short text commands (a number to select, b/h/n/a/?) and the
// server replies with numbered directory menus and paged file content,
// every message fitting a single radio frame.  The engine keeps one
// session per node, delivers pages reliably (ack, bounded retry, batch
// abandon) and sweeps sessions that go idle.
//
// The pluggable layers are:
//
//   - content   – the served tree (filesystem via afs, or in-memory)
//   - transport – the radio link (filesystem spool, or in-memory)
//   - processor – command handling and page delivery
//   - session   – per-node navigation state with idle expiry
//
// End-users typically interact via the Service facade exposed by the
// root package:
//
//	srv, err := meshgopher.New(meshgopher.WithConfig(cfg))
//	_ = srv.Start(ctx)
//	defer srv.Shutdown(ctx)
//	_ = srv.SendWelcome(ctx, "!a4f21c88")
//
// For more details see the README and individual sub-packages.
package meshgopher
