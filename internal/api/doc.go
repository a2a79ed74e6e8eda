// Package api handles incoming HTTP requests for the inception deck API:
// routing, request validation and response formatting. It translates HTTP
// concerns into calls on the deck, review and user services and maps their
// errors back to status codes without leaking internal details.
package api
