// Package core provides the foundational domain types shared by the folio
// chat pipeline:
//
//   - Content / Part (role-based conversation turns with text, tool calls and tool results)
//   - StreamEvent (the outbound, incrementally delivered response of a chat request)
//
// The package has no knowledge of providers, transports or tools; it only
// defines the shapes those layers exchange.
package core
