// Package model defines the provider‑agnostic abstractions and concrete
// helpers for interacting with hosted language models inside folio.
//
// Core goals:
//   - Unify streaming + non‑streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition)
//   - Normalize upstream failures into *Error so callers can classify them
//     (rate limit, auth, ...) without importing vendor SDKs
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI and OpenAI-compatible endpoints such as Groq, Anthropic)
// implement the Model interface so the chat orchestrator remains decoupled
// from vendor SDKs.
package model
