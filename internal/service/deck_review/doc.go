// Package deck_review turns a complete Inception Deck into narrative
// feedback from a text generator.
//
// A review request is gated on completeness, makes one generator call and
// is never persisted. Responses that do not follow the requested JSON shape
// are returned as raw text rather than failing the request.
package deck_review
