// Package domain contains the core entities of the inception deck service:
// users, decks, the ten positioned items of a deck, the question catalog
// that names each position, and the review produced for a complete deck.
//
// Entities validate themselves on construction. Rules that span several
// entities, such as deck completeness, are plain functions over them.
package domain
