// Package chat implements the "chat as me" orchestrator.
//
// An Orchestrator takes the visitor's conversation, keeps the most recent
// HistoryWindow entries, prepends the persona system turn and streams the
// model's answer through a flow.StepFlow over the canned tool registry. When
// the selected provider has a fallback tier and the first attempt is rate
// limited before producing any output, the request is retried exactly once on
// the fallback model.
package chat
