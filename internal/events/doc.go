// Package events provides synchronous, in-process deck events.
//
// Services emit a DeckEvent after a change is committed. Handlers are
// called in registration order on the emitting goroutine; they are meant
// for side effects such as audit logging and metrics, never for work the
// request depends on.
package events
