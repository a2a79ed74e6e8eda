// Package testutils provides fixtures shared by package tests: SQLite
// backed stores and helpers that insert users and decks.
//
//	stores := testutils.CreateTestStores(t)
//	user := testutils.MustInsertUser(t, stores, "ada@example.com")
//	deck := testutils.MustInsertDeck(t, stores, user.ID, "Checkout")
//	testutils.FillDeck(t, stores, deck.ID)
package testutils
