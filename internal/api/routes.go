package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes groups the handlers and route-specific middleware of the /api tree.
type Routes struct {
	Auth    *AuthHandler
	Decks   *DeckHandler
	Items   *ItemHandler
	Reviews *ReviewHandler

	// Authenticate guards every route that acts on behalf of a user.
	Authenticate func(http.Handler) http.Handler
	// ReviewLimiter throttles review requests, which call the text generator.
	ReviewLimiter func(http.Handler) http.Handler
}

// Mount registers the /api routes on r.
func (rt Routes) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", rt.Auth.Register)
		r.Post("/auth/login", rt.Auth.Login)
		r.Post("/auth/refresh", rt.Auth.RefreshToken)
		r.Get("/questions", ListQuestions)

		r.Group(func(r chi.Router) {
			r.Use(rt.Authenticate)

			r.Get("/auth/me", rt.Auth.Me)

			r.Get("/decks", rt.Decks.ListDecks)
			r.Post("/decks", rt.Decks.CreateDeck)

			r.Route("/decks/{id}", func(r chi.Router) {
				r.Get("/", rt.Decks.GetDeck)
				r.Put("/", rt.Decks.UpdateDeck)
				r.Delete("/", rt.Decks.DeleteDeck)
				r.Get("/export", rt.Decks.ExportDeck)

				r.Get("/items", rt.Items.ListItems)
				r.Get("/items/{position}", rt.Items.GetItem)
				r.Put("/items/{position}", rt.Items.SaveItem)

				review := http.HandlerFunc(rt.Reviews.ReviewDeck)
				if rt.ReviewLimiter != nil {
					r.With(rt.ReviewLimiter).Post("/review", review)
				} else {
					r.Post("/review", review)
				}
			})
		})
	})
}
