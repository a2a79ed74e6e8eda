// Package gemini implements generation.TextGenerator on top of Google's
// Gemini API (google.golang.org/genai).
//
// Requests ask for JSON matching the review document shape, but the text is
// returned as-is; interpreting it belongs to the caller. Errors from the
// client are classified into generation.ServiceError values whose Details
// can be shown to users.
package gemini
