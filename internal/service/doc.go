// Package service holds the application use cases: deck and item editing,
// Markdown export, and user accounts. Deck review lives in the deck_review
// subpackage and token handling in auth.
//
// Services receive their stores through constructor injection and depend
// only on the interfaces in internal/store. Every deck operation goes
// through an Authorizer, so a deck that does not exist and a deck owned by
// someone else are reported the same way, as ErrNotAccessible.
//
// Unexpected failures are wrapped in DeckServiceError; expected conditions
// are returned as sentinel errors (domain.ErrInvalidTitle,
// domain.ErrInvalidPosition, store.ErrItemNotFound, ErrNotAccessible) for
// the API layer to map with errors.Is.
package service
